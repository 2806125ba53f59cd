// Package ligprep goes through a dataset manifest and, for each complex,
// writes every copy of the named ligand to its own small mmcif file.
//
// Each manifest entry is handled on its own. A missing structure file,
// a broken one, or a ligand that is not there is written to the
// diagnostic log and the run carries on.
package ligprep

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/andrew-torda/ligprep/pdb"
	"github.com/andrew-torda/ligprep/pdb/cmmn"
	"github.com/andrew-torda/ligprep/pdb/extract"
	"github.com/andrew-torda/ligprep/pkg/diag"
	"github.com/andrew-torda/ligprep/pkg/manifest"
)

// Status is where an entry ended up.
type Status int8

const (
	Pending Status = iota // not processed, only seen if the run was cancelled
	Written               // at least one group written
	Empty                 // the ligand was not in the first model
	Skipped               // no structure file
	Failed                // structure could not be read, or nothing could be written
)

var statusNames = [...]string{"pending", "written", "empty", "skipped", "failed"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// Options say where to find and put files.
type Options struct {
	CifDir  string      // input structures, <pdb>.cif
	OutDir  string      // extracted groups
	PDBDir  string      // legacy format copies, "" for none
	Workers int         // entries processed at once, less than 1 means 1
	Log     *log.Logger // progress, may be nil
}

func (o *Options) logger() *log.Logger {
	if o.Log == nil {
		return log.New(io.Discard, "", 0)
	}
	return o.Log
}

// GroupResult is what happened to one group.
type GroupResult struct {
	Key        extract.Key
	Path       string // mmcif file, empty if Err is set
	PDBPath    string // legacy copy, empty if not asked for or it failed
	NAtom      int
	Centroid   cmmn.Xyz
	Err        error // writing the mmcif file
	ConvertErr error // writing the legacy copy
}

// Result is what happened to one manifest entry.
type Result struct {
	Entry  manifest.Entry
	Status Status
	Info   pdb.Info // from the structure file, zero if it was not read
	Groups []GroupResult
	Err    error // set for Empty, Skipped and Failed
}

// NWritten counts groups whose mmcif file was written.
func (r *Result) NWritten() int {
	n := 0
	for _, g := range r.Groups {
		if g.Err == nil {
			n++
		}
	}
	return n
}

// ErrNoLigand is the cause for an Empty result.
var ErrNoLigand = errors.New("no atom site data found")

// ProcessEntry reads one structure and writes its ligand groups.
// It never panics on bad input and never returns half a result:
// everything that went wrong is in the Result.
func ProcessEntry(e manifest.Entry, opts *Options) Result {
	r := Result{Entry: e}
	fname := pdb.CifName(opts.CifDir, e.PDBID)
	if _, err := os.Stat(fname); err != nil {
		r.Status, r.Err = Skipped, fmt.Errorf("no structure file: %w", err)
		return r
	}
	md, err := pdb.ReadFile(fname)
	if err != nil {
		r.Status, r.Err = Failed, err
		return r
	}
	t, err := md.AtomTable()
	if err != nil {
		r.Status, r.Err = Failed, fmt.Errorf("%s: %w", fname, err)
		return r
	}
	r.Info = pdb.EntryInfo(md)
	groups := extract.Groups(t, extract.FirstModel(t), extract.Ligand(e.Ligand), extract.ByCompChain)
	if len(groups) == 0 {
		r.Status = Empty
		r.Err = fmt.Errorf("%w for PDB ID: %s, Ligand ID: %s", ErrNoLigand, e.PDBID, e.Ligand)
		return r
	}
	lg := opts.logger()
	var errs []error
	for i := range groups {
		gr := writeGroup(opts, e.PDBID, &groups[i])
		if gr.Err != nil {
			errs = append(errs, gr.Err)
		} else {
			lg.Printf("Processed and wrote data for %s - Ligand ID: %s (%s), Chain: %s",
				e.PDBID, gr.Key.CompID, r.Info.CompName(gr.Key.CompID), gr.Key.AsymID)
		}
		r.Groups = append(r.Groups, gr)
	}
	if r.NWritten() == 0 {
		r.Status, r.Err = Failed, errors.Join(errs...)
		return r
	}
	r.Status = Written
	return r
}

// Summary counts outcomes over a run.
type Summary struct {
	Written, Empty, Skipped, Failed, Pending int
	Groups        int // mmcif files written
	GroupFailures int
	ConvertFails  int
}

// Add counts one result.
func (s *Summary) Add(r *Result) {
	switch r.Status {
	case Written:
		s.Written++
	case Empty:
		s.Empty++
	case Skipped:
		s.Skipped++
	case Failed:
		s.Failed++
	default:
		s.Pending++
	}
	for _, g := range r.Groups {
		if g.Err != nil {
			s.GroupFailures++
			continue
		}
		s.Groups++
		if g.ConvertErr != nil {
			s.ConvertFails++
		}
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("%d entries written (%d files), %d empty, %d skipped, %d failed, %d group write failures, %d conversion failures",
		s.Written, s.Groups, s.Empty, s.Skipped, s.Failed, s.GroupFailures, s.ConvertFails)
}

// report sends everything that went wrong with an entry to the sink.
func report(sink diag.Sink, r *Result) {
	id := r.Entry.PDBID
	if r.Status != Written && r.Err != nil {
		sink.Record(id, r.Err.Error())
	}
	if r.Status != Written {
		return
	}
	for _, g := range r.Groups {
		if g.Err != nil {
			sink.Record(id, g.Err.Error())
		}
		if g.ConvertErr != nil {
			sink.Record(id, g.ConvertErr.Error())
		}
	}
}

// Run processes all entries with up to opts.Workers at a time. Results
// come back in manifest order. The error is only set if the output
// directories cannot be made or ctx is cancelled; in the second case
// entries not yet started are left Pending.
func Run(ctx context.Context, entries []manifest.Entry, opts *Options, sink diag.Sink) ([]Result, Summary, error) {
	var sum Summary
	for _, dir := range []string{opts.OutDir, opts.PDBDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, sum, err
		}
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	results := make([]Result, len(entries))
	for i := range results {
		results[i].Entry = entries[i]
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range entries {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = ProcessEntry(entries[i], opts)
			report(sink, &results[i])
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	for i := range results {
		sum.Add(&results[i])
	}
	return results, sum, err
}

// groupName is the file stem and, with "ligand_" in front, the data block.
func groupName(pdbID string, k extract.Key) string {
	return pdbID + "_" + k.CompID + "_" + k.AsymID
}

// GroupPath is where the mmcif file for a group goes.
func GroupPath(dir, pdbID string, k extract.Key) string {
	return filepath.Join(dir, groupName(pdbID, k)+".cif")
}
