// Package config holds the settings shared by the ligprep commands.
// They come from defaults, then an optional yaml file, then flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/andrew-torda/ligprep/pkg/manifest"
)

// Config is the whole set of settings. Directory names are used as given.
type Config struct {
	Manifest     string        `yaml:"manifest"`
	CifDir       string        `yaml:"cif_dir"`  // downloaded complexes
	OutDir       string        `yaml:"out_dir"`  // extracted mmcif files
	RNADir       string        `yaml:"rna_dir"`  // rna chains
	PDBDir       string        `yaml:"pdb_dir"`  // legacy format copies, "" for none
	DiagLog      string        `yaml:"diag_log"` // appended to
	Ledger       string        `yaml:"ledger"`   // sqlite file, "" for none
	Progress     string        `yaml:"progress"` // "", "stdout" or a file
	Workers      int           `yaml:"workers"`
	IDColumn     string        `yaml:"id_column"`
	LigandColumn string        `yaml:"ligand_column"`
	Timeout      time.Duration `yaml:"timeout"`
}

// Default gives the settings used when nothing else is said.
func Default() *Config {
	return &Config{
		CifDir:       "pdbbind_dataset/complex_database",
		OutDir:       "pdbbind_dataset/parsed_ligand",
		RNADir:       "pdbbind_dataset/parsed_rna3db_rnas_whole",
		DiagLog:      "cif_processing.log",
		Progress:     "stdout",
		Workers:      1,
		IDColumn:     manifest.IDColumn,
		LigandColumn: manifest.LigandColumn,
		Timeout:      60 * time.Second,
	}
}

// Load reads a yaml file on top of the defaults. Environment variables
// in the file are expanded. Keys that are not in the file keep their
// default.
func Load(fname string) (*Config, error) {
	c := Default()
	if fname == "" {
		return c, nil
	}
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), c); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", fname, err)
	}
	if err := c.Check(); err != nil {
		return nil, fmt.Errorf("config %s: %w", fname, err)
	}
	return c, nil
}

// Check catches settings that cannot work.
func (c *Config) Check() error {
	var errs []error
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, not %d", c.Workers))
	}
	if c.IDColumn == "" {
		errs = append(errs, errors.New("id_column is empty"))
	}
	if c.Timeout < 0 {
		errs = append(errs, errors.New("timeout is negative"))
	}
	return errors.Join(errs...)
}
