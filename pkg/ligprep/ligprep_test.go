package ligprep_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrew-torda/ligprep/pdb"
	"github.com/andrew-torda/ligprep/pdb/cmmn"
	"github.com/andrew-torda/ligprep/pdb/extract"
	"github.com/andrew-torda/ligprep/pdb/mmcif"
	"github.com/andrew-torda/ligprep/pdb/pdbtest"
	"github.com/andrew-torda/ligprep/pkg/diag"
	. "github.com/andrew-torda/ligprep/pkg/ligprep"
	"github.com/andrew-torda/ligprep/pkg/manifest"
)

// setup makes a directory of structures and returns options pointing
// at it.
func setup(t *testing.T) *Options {
	t.Helper()
	top := t.TempDir()
	cif := filepath.Join(top, "cif")
	require.NoError(t, os.Mkdir(cif, 0755))
	pdbtest.WriteFile(t, cif, "1abc.cif", pdbtest.Complex)
	pdbtest.WriteFile(t, cif, "2rna.cif", pdbtest.RNA)
	pdbtest.WriteFile(t, cif, "3bad.cif",
		strings.Replace(pdbtest.Complex, "30.00 ? 101 LIG A O1  1", "30.00", 1))
	pdbtest.WriteFile(t, cif, "4nat.cif", "data_4nat\n_entry.id 4nat\n")
	return &Options{CifDir: cif, OutDir: filepath.Join(top, "out")}
}

func listDir(t *testing.T, dir string) []string {
	ents, err := os.ReadDir(dir)
	require.NoError(t, err)
	var ret []string
	for _, e := range ents {
		ret = append(ret, e.Name())
	}
	sort.Strings(ret)
	return ret
}

func TestWritten(t *testing.T) {
	opts := setup(t)
	require.NoError(t, os.MkdirAll(opts.OutDir, 0755))
	r := ProcessEntry(manifest.Entry{PDBID: "1abc", Ligand: "LIG"}, opts)
	require.Equal(t, Written, r.Status, "%v", r.Err)
	assert.NoError(t, r.Err)
	assert.Equal(t, "1ABC", r.Info.ID)
	assert.Equal(t, "SOME LIGAND, 2-chloro", r.Info.CompName("LIG"))
	require.Len(t, r.Groups, 2)
	assert.Equal(t, extract.Key{CompID: "LIG", AsymID: "B"}, r.Groups[0].Key)
	assert.Equal(t, 2, r.Groups[0].NAtom)
	assert.Equal(t, cmmn.Xyz{X: 1.5, Y: 2.5, Z: 3.5}, r.Groups[0].Centroid)
	assert.Equal(t, extract.Key{CompID: "LIG", AsymID: "C"}, r.Groups[1].Key)
	assert.Equal(t, []string{"1abc_LIG_B.cif", "1abc_LIG_C.cif"}, listDir(t, opts.OutDir))

	md, err := pdb.ReadFile(r.Groups[0].Path)
	require.NoError(t, err)
	assert.Equal(t, "ligand_1abc_LIG_B", md.Block())
	tbl, err := md.AtomTable()
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())
	for i := 0; i < tbl.Len(); i++ {
		assert.Equal(t, "HETATM", tbl.Get(mmcif.ColGroup, i))
		assert.Equal(t, "LIG", tbl.Get(mmcif.ColLabelCompID, i))
		assert.Equal(t, "B", tbl.Get(mmcif.ColLabelAsymID, i))
		assert.Equal(t, "1", tbl.Get(mmcif.ColModelNum, i))
	}
}

func TestStatuses(t *testing.T) {
	opts := setup(t)
	require.NoError(t, os.MkdirAll(opts.OutDir, 0755))
	var tests = []struct {
		e      manifest.Entry
		status Status
	}{
		{manifest.Entry{PDBID: "9zzz", Ligand: "LIG"}, Skipped},
		{manifest.Entry{PDBID: "1abc", Ligand: "ATP"}, Empty},
		{manifest.Entry{PDBID: "1abc", Ligand: "ALA"}, Empty}, // ATOM records only
		{manifest.Entry{PDBID: "3bad", Ligand: "LIG"}, Failed},
		{manifest.Entry{PDBID: "4nat", Ligand: "LIG"}, Failed},
	}
	for _, tt := range tests {
		r := ProcessEntry(tt.e, opts)
		assert.Equal(t, tt.status, r.Status, tt.e.PDBID)
		assert.Error(t, r.Err, tt.e.PDBID)
		assert.Empty(t, r.Groups)
	}
	assert.Empty(t, listDir(t, opts.OutDir), "no files for entries that fail")

	r := ProcessEntry(manifest.Entry{PDBID: "3bad", Ligand: "LIG"}, opts)
	var mte *mmcif.MalformedTableError
	assert.ErrorAs(t, r.Err, &mte)
	r = ProcessEntry(manifest.Entry{PDBID: "4nat", Ligand: "LIG"}, opts)
	var mce *mmcif.MissingCategoryError
	assert.ErrorAs(t, r.Err, &mce)
	r = ProcessEntry(manifest.Entry{PDBID: "1abc", Ligand: "ATP"}, opts)
	assert.True(t, errors.Is(r.Err, ErrNoLigand))
}

// One group that cannot be written does not stop the others.
func TestGroupFailure(t *testing.T) {
	opts := setup(t)
	blocker := filepath.Join(opts.OutDir, "1abc_LIG_B.cif")
	require.NoError(t, os.MkdirAll(blocker, 0755))
	var sink diag.Capture
	res, sum, err := Run(context.Background(),
		[]manifest.Entry{{PDBID: "1abc", Ligand: "LIG"}}, opts, &sink)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, Written, res[0].Status)
	assert.Equal(t, 1, res[0].NWritten())
	assert.Error(t, res[0].Groups[0].Err)
	assert.Empty(t, res[0].Groups[0].Path)
	assert.FileExists(t, filepath.Join(opts.OutDir, "1abc_LIG_C.cif"))
	assert.Equal(t, Summary{Written: 1, Groups: 1, GroupFailures: 1}, sum)
	lines := sink.Lines()
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "1abc: writing LIG_B"), lines[0])
}

// The ligand is not there: exactly one log line and no files.
func TestAbsentTarget(t *testing.T) {
	opts := setup(t)
	var sink diag.Capture
	_, sum, err := Run(context.Background(),
		[]manifest.Entry{{PDBID: "1abc", Ligand: "XYZ"}}, opts, &sink)
	require.NoError(t, err)
	assert.Equal(t, Summary{Empty: 1}, sum)
	assert.Equal(t, []string{"1abc: no atom site data found for PDB ID: 1abc, Ligand ID: XYZ"}, sink.Lines())
	assert.Empty(t, listDir(t, opts.OutDir))
}

func TestRun(t *testing.T) {
	opts := setup(t)
	opts.PDBDir = filepath.Join(filepath.Dir(opts.OutDir), "pdb")
	opts.Workers = 3
	entries := []manifest.Entry{
		{PDBID: "1abc", Ligand: "LIG"},
		{PDBID: "9zzz", Ligand: "LIG"},
		{PDBID: "2rna", Ligand: "MG"},
		{PDBID: "3bad", Ligand: "LIG"},
		{PDBID: "1abc", Ligand: "HOH"},
		{PDBID: "2rna", Ligand: "LIG"},
	}
	var sink diag.Capture
	res, sum, err := Run(context.Background(), entries, opts, &sink)
	require.NoError(t, err)
	require.Len(t, res, len(entries))
	want := []Status{Written, Skipped, Written, Failed, Written, Empty}
	for i, r := range res {
		assert.Equal(t, entries[i], r.Entry)
		assert.Equal(t, want[i], r.Status, entries[i].PDBID)
	}
	assert.Equal(t, Summary{Written: 3, Empty: 1, Skipped: 1, Failed: 1, Groups: 4}, sum)

	lines := sink.Lines()
	sort.Strings(lines)
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "2rna: "))
	assert.True(t, strings.HasPrefix(lines[1], "3bad: "))
	assert.True(t, strings.HasPrefix(lines[2], "9zzz: no structure file"))

	assert.Equal(t, []string{"1abc_HOH_D.cif", "1abc_LIG_B.cif", "1abc_LIG_C.cif", "2rna_MG_D.cif"},
		listDir(t, opts.OutDir))
	assert.Equal(t, []string{"1abc_HOH_D.pdb", "1abc_LIG_B.pdb", "1abc_LIG_C.pdb", "2rna_MG_D.pdb"},
		listDir(t, opts.PDBDir))
	assert.Equal(t, filepath.Join(opts.PDBDir, "2rna_MG_D.pdb"), res[2].Groups[0].PDBPath)
}

// A second run gives the same bytes.
func TestIdempotent(t *testing.T) {
	opts := setup(t)
	entries := []manifest.Entry{{PDBID: "1abc", Ligand: "LIG"}}
	read := func() map[string][]byte {
		m := make(map[string][]byte)
		for _, n := range listDir(t, opts.OutDir) {
			b, err := os.ReadFile(filepath.Join(opts.OutDir, n))
			require.NoError(t, err)
			m[n] = b
		}
		return m
	}
	_, _, err := Run(context.Background(), entries, opts, diag.Discard)
	require.NoError(t, err)
	first := read()
	_, _, err = Run(context.Background(), entries, opts, diag.Discard)
	require.NoError(t, err)
	assert.Equal(t, first, read())
	assert.Len(t, first, 2)
}

func TestCancelled(t *testing.T) {
	opts := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, sum, err := Run(ctx, []manifest.Entry{{PDBID: "1abc", Ligand: "LIG"}}, opts, diag.Discard)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Pending, res[0].Status)
	assert.Equal(t, 1, sum.Pending)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "written", Written.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "Status(9)", Status(9).String())
}
