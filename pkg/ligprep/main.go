package ligprep

import (
	"context"
	"fmt"
	"os"

	"github.com/andrew-torda/ligprep/pdb"
	"github.com/andrew-torda/ligprep/pdb/cmmn"
	"github.com/andrew-torda/ligprep/pkg/config"
	"github.com/andrew-torda/ligprep/pkg/diag"
	"github.com/andrew-torda/ligprep/pkg/ledger"
	"github.com/andrew-torda/ligprep/pkg/manifest"
)

// LedgerEntry turns a result into what the ledger stores.
func LedgerEntry(r *Result) ledger.Entry {
	e := ledger.Entry{
		PDBID:      r.Entry.PDBID,
		Ligand:     r.Entry.Ligand,
		LigandName: r.Info.CompName(r.Entry.Ligand),
		Title:      r.Info.Title,
		Resolution: r.Info.Resolution,
		Status:     r.Status.String(),
	}
	if r.Err != nil {
		e.Detail = r.Err.Error()
	}
	for _, g := range r.Groups {
		lg := ledger.Group{Key: g.Key.String(), Path: g.Path, NAtom: g.NAtom, Centroid: g.Centroid}
		if g.Err != nil {
			lg.Error = g.Err.Error()
		} else if g.ConvertErr != nil {
			lg.Error = g.ConvertErr.Error()
		}
		e.Groups = append(e.Groups, lg)
	}
	return e
}

// record puts a whole run in the ledger.
func record(fname string, results []Result) error {
	l, err := ledger.Open(fname)
	if err != nil {
		return err
	}
	defer l.Close()
	run, err := l.StartRun("ligands")
	if err != nil {
		return err
	}
	for i := range results {
		if err := l.Record(run, i, LedgerEntry(&results[i])); err != nil {
			return err
		}
	}
	return l.FinishRun(run)
}

// MyMain runs ligand extraction with the given settings and returns
// an exit code. Problems with single entries do not change the exit
// code. They are in the diagnostic log.
func MyMain(ctx context.Context, cfg *config.Config) int {
	if err := cfg.Check(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return cmmn.ExitUsageError
	}
	if cfg.Manifest == "" {
		fmt.Fprintln(os.Stderr, "no manifest given")
		return cmmn.ExitUsageError
	}
	entries, err := manifest.Read(cfg.Manifest, cfg.IDColumn, cfg.LigandColumn)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", err)
		return cmmn.ExitFailure
	}
	lg, err := pdb.NewLogger(cfg.Progress)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", err, "creating log file")
		return cmmn.ExitFailure
	}
	var dlog *diag.Log
	if cfg.DiagLog == "" {
		dlog = diag.NewLog(os.Stderr)
	} else if dlog, err = diag.Open(cfg.DiagLog); err != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", err)
		return cmmn.ExitFailure
	}
	opts := &Options{
		CifDir:  cfg.CifDir,
		OutDir:  cfg.OutDir,
		PDBDir:  cfg.PDBDir,
		Workers: cfg.Workers,
		Log:     lg,
	}
	results, sum, runErr := Run(ctx, entries, opts, dlog)
	ret := cmmn.ExitSuccess
	if err := dlog.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "diagnostic log:", err)
		ret = cmmn.ExitFailure
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", runErr)
		return cmmn.ExitFailure
	}
	if cfg.Ledger != "" {
		if err := record(cfg.Ledger, results); err != nil {
			fmt.Fprintln(os.Stderr, "ledger:", err)
			ret = cmmn.ExitFailure
		}
	}
	lg.Println(sum)
	return ret
}
