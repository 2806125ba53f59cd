package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/andrew-torda/ligprep/pdb"
	"github.com/andrew-torda/ligprep/pkg/convert"
	"github.com/andrew-torda/ligprep/pkg/fetch"
	"github.com/andrew-torda/ligprep/pkg/ligprep"
	"github.com/andrew-torda/ligprep/pkg/rnaprep"
)

var (
	flagNum     int
	flagIDs     []string
	flagTimeout time.Duration
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the mmcif files for the manifest entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		exitCode = fetch.MyMain(cmd.Context(), cfg, flagNum, flagIDs, &pdb.Fetcher{})
		return nil
	},
}

func init() {
	downloadCmd.Flags().IntVar(&flagNum, "num", 0, "only the first num manifest rows")
	downloadCmd.Flags().StringSliceVar(&flagIDs, "ids", nil, "only these pdb ids")
	downloadCmd.Flags().DurationVar(&flagTimeout, "timeout", pdb.DefaultTimeout, "per request timeout")
}

var ligandsCmd = &cobra.Command{
	Use:   "ligands",
	Short: "Write each copy of each manifest ligand to its own mmcif file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		exitCode = ligprep.MyMain(cmd.Context(), cfg)
		return nil
	},
}

var rnaCmd = &cobra.Command{
	Use:   "rna",
	Short: "Write the longest rna chain of each complex",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		exitCode = rnaprep.MyMain(cmd.Context(), cfg)
		return nil
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert <file.cif|dir>...",
	Short: "Convert mmcif files to old pdb format",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		out := cfg.PDBDir
		if out == "" {
			out = cfg.OutDir
		}
		exitCode = convert.MyMain(args, out)
		return nil
	},
}
