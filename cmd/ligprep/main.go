// ligprep prepares a protein-ligand dataset: download the complexes,
// cut out the ligands or rna chains and convert them to pdb format.
//
// Usage:
//
//	ligprep download --manifest set.csv [--num n | --ids 1abc,2xyz]
//	ligprep ligands --manifest set.csv [--pdb-dir dir]
//	ligprep rna --cif-dir complexes --out-dir rna_cif [--pdb-dir rna_pdb]
//	ligprep convert --out-dir pdb file.cif|dir ...
//
// Settings can also come from a yaml file given with --config. Flags
// win over the file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/andrew-torda/ligprep/pdb/cmmn"
	"github.com/andrew-torda/ligprep/pkg/config"
)

var (
	flagConfig   string
	flagManifest string
	flagCifDir   string
	flagOutDir   string
	flagRNADir   string
	flagPDBDir   string
	flagDiagLog  string
	flagLedger   string
	flagProgress string
	flagWorkers  int
)

// exitCode is set by the sub-command that ran.
var exitCode = cmmn.ExitSuccess

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(cmmn.ExitUsageError)
	}
	os.Exit(exitCode)
}

var rootCmd = &cobra.Command{
	Use:           "ligprep",
	Short:         "Extract ligands and rna chains from mmcif files",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "yaml file with settings")
	pf.StringVar(&flagManifest, "manifest", "", "dataset csv file")
	pf.StringVar(&flagCifDir, "cif-dir", "", "directory with <pdb>.cif complexes")
	pf.StringVar(&flagOutDir, "out-dir", "", "directory for extracted ligands")
	pf.StringVar(&flagRNADir, "rna-dir", "", "directory for extracted rna chains")
	pf.StringVar(&flagPDBDir, "pdb-dir", "", "also write old format pdb files here")
	pf.StringVar(&flagDiagLog, "diag-log", "", "append problems to this file")
	pf.StringVar(&flagLedger, "ledger", "", "record the run in this sqlite file")
	pf.StringVar(&flagProgress, "progress", "", `progress messages: "", stdout or a file`)
	pf.IntVar(&flagWorkers, "workers", 1, "entries processed at once")

	rootCmd.AddCommand(downloadCmd, ligandsCmd, rnaCmd, convertCmd)
}

// loadConfig reads the config file, then applies any flags that were
// given on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	fl := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if fl.Changed(name) {
			*dst = v
		}
	}
	set("manifest", &cfg.Manifest, flagManifest)
	set("cif-dir", &cfg.CifDir, flagCifDir)
	set("out-dir", &cfg.OutDir, flagOutDir)
	set("rna-dir", &cfg.RNADir, flagRNADir)
	set("pdb-dir", &cfg.PDBDir, flagPDBDir)
	set("diag-log", &cfg.DiagLog, flagDiagLog)
	set("ledger", &cfg.Ledger, flagLedger)
	set("progress", &cfg.Progress, flagProgress)
	if fl.Changed("workers") {
		cfg.Workers = flagWorkers
	}
	if fl.Changed("timeout") {
		cfg.Timeout = flagTimeout
	}
	return cfg, cfg.Check()
}
