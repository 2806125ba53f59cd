package ledger_test

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrew-torda/ligprep/pdb/cmmn"
	"github.com/andrew-torda/ligprep/pkg/ledger"
)

func newTestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l, err := ledger.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecord(t *testing.T) {
	l := newTestLedger(t)
	run, err := l.StartRun("ligands")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, run)

	written := ledger.Entry{
		PDBID: "1abc", Ligand: "LIG", LigandName: "SOME LIGAND, 2-chloro",
		Title: "A protein with a ligand", Resolution: "1.80", Status: "written",
		Groups: []ledger.Group{
			{Key: "LIG_B", Path: "out/1abc_LIG_B.cif", NAtom: 2, Centroid: cmmn.Xyz{X: 1.5, Y: 2.5, Z: 3.5}},
			{Key: "LIG_C", NAtom: 1, Centroid: cmmn.BrokenXyz, Error: "permission denied"},
		},
	}
	empty := ledger.Entry{PDBID: "2rna", Ligand: "ATP", Status: "empty", Detail: "ligand ATP not found"}
	require.NoError(t, l.Record(run, 1, empty))
	require.NoError(t, l.Record(run, 0, written))
	require.NoError(t, l.FinishRun(run))

	got, err := l.Entries(run)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, written, got[0])
	assert.Equal(t, "ligand ATP not found", got[1].Detail)
	assert.Empty(t, got[1].Groups)

	// another run does not see these
	other, err := l.StartRun("ligands")
	require.NoError(t, err)
	got, err = l.Entries(other)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFinishUnknown(t *testing.T) {
	l := newTestLedger(t)
	assert.Error(t, l.FinishRun(uuid.New()))
}

func TestReopen(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "ledger.db")
	l, err := ledger.Open(fname)
	require.NoError(t, err)
	run, err := l.StartRun("rna")
	require.NoError(t, err)
	require.NoError(t, l.Record(run, 0, ledger.Entry{PDBID: "1abc", Status: "skipped"}))
	require.NoError(t, l.Close())

	l, err = ledger.Open(fname)
	require.NoError(t, err)
	defer l.Close()
	got, err := l.Entries(run)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "skipped", got[0].Status)
}

func TestOpenFails(t *testing.T) {
	_, err := ledger.Open(filepath.Join(t.TempDir(), "no", "dir", "x.db"))
	assert.Error(t, err)
}
