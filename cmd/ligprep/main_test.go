package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrew-torda/ligprep/pdb/cmmn"
	"github.com/andrew-torda/ligprep/pdb/pdbtest"
)

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	in := pdbtest.WriteFile(t, dir, "2rna.cif", pdbtest.RNA)
	out := filepath.Join(dir, "pdb")
	rootCmd.SetArgs([]string{"convert", "--pdb-dir", out, in})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, cmmn.ExitSuccess, exitCode)
	assert.FileExists(t, filepath.Join(out, "2rna.pdb"))
}

func TestFlagsOverConfig(t *testing.T) {
	dir := t.TempDir()
	cfgFile := pdbtest.WriteFile(t, dir, "c.yaml", "workers: 3\nout_dir: from_file\ncif_dir: cif_from_file\n")
	require.NoError(t, downloadCmd.ParseFlags([]string{"--config", cfgFile, "--out-dir", "from_flag", "--rna-dir", "rna_flag", "--timeout", "5s"}))
	cfg, err := loadConfig(downloadCmd)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "from_flag", cfg.OutDir)
	assert.Equal(t, "rna_flag", cfg.RNADir)
	assert.Equal(t, "cif_from_file", cfg.CifDir)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}
