// Package rnaprep writes the longest RNA chain of every complex in a
// directory to its own file, as mmcif and optionally in the old pdb
// format.
package rnaprep

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/andrew-torda/ligprep/pdb"
	"github.com/andrew-torda/ligprep/pdb/cmmn"
	"github.com/andrew-torda/ligprep/pdb/legacy"
	"github.com/andrew-torda/ligprep/pdb/rna"
	"github.com/andrew-torda/ligprep/pkg/config"
	"github.com/andrew-torda/ligprep/pkg/diag"
	"github.com/andrew-torda/ligprep/pkg/ledger"
)

// ErrNoRNA is the cause when a structure has no nucleotides.
var ErrNoRNA = errors.New("no rna chain")

// Result is what happened to one input file.
type Result struct {
	Stem    string // file name without .cif, used as the id
	Chain   string
	NRes    int
	NAtom   int
	CifPath string
	PDBPath string
	Err     error
}

// Options for a run. PDBDir "" means no legacy copies.
type Options struct {
	InDir  string
	CifDir string
	PDBDir string
	Proc   *rna.Processor
	Log    *log.Logger
}

// inputs lists the .cif files in dir in name order.
func inputs(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var ret []string
	for _, e := range ents {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), ".cif") {
			ret = append(ret, e.Name())
		}
	}
	sort.Strings(ret)
	return ret, nil
}

// One does a single file.
func One(opts *Options, fname string) Result {
	stem := strings.TrimSuffix(filepath.Base(fname), ".cif")
	r := Result{Stem: stem}
	t, err := pdb.ReadAtoms(fname)
	if err != nil {
		r.Err = err
		return r
	}
	g, ok := opts.Proc.Longest(opts.Proc.Chains(t))
	if !ok {
		r.Err = ErrNoRNA
		return r
	}
	r.Chain, r.NRes, r.NAtom = g.Key.AsymID, g.NResidue(), len(g.Atoms)
	cifPath := filepath.Join(opts.CifDir, stem+"_rna.cif")
	if err := opts.Proc.WriteChain(cifPath, stem, g); err != nil {
		r.Err = err
		return r
	}
	r.CifPath = cifPath
	if opts.PDBDir != "" {
		pdbPath := filepath.Join(opts.PDBDir, stem+"_rna.pdb")
		if err := legacy.ConvertFile(cifPath, pdbPath); err != nil {
			r.Err = err
			return r
		}
		r.PDBPath = pdbPath
	}
	return r
}

// Run goes through every .cif file in opts.InDir. A file that fails is
// recorded to sink and the next is tried.
func Run(ctx context.Context, opts *Options, sink diag.Sink) ([]Result, error) {
	if opts.Proc == nil {
		opts.Proc = rna.New()
	}
	lg := opts.Log
	if lg == nil {
		lg = log.New(io.Discard, "", 0)
	}
	names, err := inputs(opts.InDir)
	if err != nil {
		return nil, err
	}
	for _, dir := range []string{opts.CifDir, opts.PDBDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	var results []Result
	for _, n := range names {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		r := One(opts, filepath.Join(opts.InDir, n))
		if r.Err != nil {
			sink.Record(r.Stem, r.Err.Error())
		} else {
			lg.Printf("Processed and converted: %s -> %s", n, filepath.Base(r.CifPath))
		}
		results = append(results, r)
	}
	return results, nil
}

func ledgerEntry(r *Result) ledger.Entry {
	e := ledger.Entry{PDBID: r.Stem, Status: "written"}
	if r.Err != nil {
		e.Status, e.Detail = "failed", r.Err.Error()
		if errors.Is(r.Err, ErrNoRNA) {
			e.Status = "empty"
		}
	}
	if r.CifPath != "" {
		e.Groups = []ledger.Group{{Key: r.Chain, Path: r.CifPath, NAtom: r.NAtom, Centroid: cmmn.BrokenXyz}}
	}
	return e
}

func record(fname string, results []Result) error {
	l, err := ledger.Open(fname)
	if err != nil {
		return err
	}
	defer l.Close()
	run, err := l.StartRun("rna")
	if err != nil {
		return err
	}
	for i := range results {
		if err := l.Record(run, i, ledgerEntry(&results[i])); err != nil {
			return err
		}
	}
	return l.FinishRun(run)
}

// MyMain reads from cfg.CifDir, writes mmcif to cfg.RNADir and old
// format files to cfg.PDBDir.
func MyMain(ctx context.Context, cfg *config.Config) int {
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
	opts := &Options{InDir: cfg.CifDir, CifDir: cfg.RNADir, PDBDir: cfg.PDBDir, Proc: rna.New(), Log: lg}
	results, runErr := Run(ctx, opts, dlog)
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
	nok := 0
	for _, r := range results {
		if r.Err == nil {
			nok++
		}
	}
	lg.Printf("%d of %d structures gave an rna chain", nok, len(results))
	return ret
}
