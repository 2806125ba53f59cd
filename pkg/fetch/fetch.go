// Package fetch downloads the structures named in a dataset manifest.
// Files already on disk are not fetched again, so an interrupted run
// can just be started again.
package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/andrew-torda/ligprep/pdb"
	"github.com/andrew-torda/ligprep/pdb/cmmn"
	"github.com/andrew-torda/ligprep/pkg/config"
	"github.com/andrew-torda/ligprep/pkg/diag"
	"github.com/andrew-torda/ligprep/pkg/manifest"
)

// FailedLog is the name of the file in the download directory where
// failures are recorded, unless the config names another.
const FailedLog = "download_failed.txt"

// MyMain downloads into cfg.CifDir. num limits to the first num rows of
// the manifest, ids to the listed pdb ids. Only one may be set.
func MyMain(ctx context.Context, cfg *config.Config, num int, ids []string, f *pdb.Fetcher) int {
	if cfg.Manifest == "" {
		fmt.Fprintln(os.Stderr, "no manifest given")
		return cmmn.ExitUsageError
	}
	entries, err := manifest.Read(cfg.Manifest, cfg.IDColumn, "")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", err)
		return cmmn.ExitFailure
	}
	want, err := manifest.SelectIDs(entries, num, ids)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return cmmn.ExitUsageError
	}
	lg, err := pdb.NewLogger(cfg.Progress)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", err, "creating log file")
		return cmmn.ExitFailure
	}
	if err := os.MkdirAll(cfg.CifDir, 0755); err != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", err)
		return cmmn.ExitFailure
	}
	dname := filepath.Join(cfg.CifDir, FailedLog)
	dlog, err := diag.Open(dname)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", err)
		return cmmn.ExitFailure
	}
	if f == nil {
		f = &pdb.Fetcher{}
	}
	f.Timeout, f.Log = cfg.Timeout, lg
	_, runErr := f.Download(ctx, want, cfg.CifDir, dlog)
	nfail := dlog.N()
	if err := dlog.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "diagnostic log:", err)
		return cmmn.ExitFailure
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", runErr)
		return cmmn.ExitFailure
	}
	if nfail > 0 {
		lg.Printf("%d downloads failed, see %s", nfail, dname)
	}
	return cmmn.ExitSuccess
}
