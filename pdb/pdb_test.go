package pdb_test

import (
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/andrew-torda/ligprep/pdb"
	"github.com/andrew-torda/ligprep/pdb/mmcif"
	"github.com/andrew-torda/ligprep/pdb/pdbtest"
)

// TestBrokenFile checks if we get sensible error messages when we open
// something that is not an mmcif file.
func TestBrokenFile(t *testing.T) {
	dir := t.TempDir()
	testfiles := []string{
		"/proc",
		"/does/not/exist.cif",
		"/dev/zero",
		pdbtest.WriteFile(t, dir, "junk", "this is\nnot a structure\n"),
		pdbtest.WriteFile(t, dir, "empty.cif", ""),
	}
	for _, s := range testfiles {
		tbl, err := ReadAtoms(s)
		assert.Nil(t, tbl, s)
		assert.Error(t, err, s)
	}
}

func gzipped(t *testing.T, s string) []byte {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestOldOrMmcif(t *testing.T) {
	dir := t.TempDir()
	ememcif1 := filepath.Join(dir, "ememcif1")
	require.NoError(t, os.WriteFile(ememcif1, gzipped(t, pdbtest.Complex), 0o644))
	var fnameTypes = []struct {
		fname string
		ftype byte
	}{
		{"boo.mmcif", MmcifFmt},
		{"boo.mmcif.gz", MmcifFmt},
		{"1abc.cif", MmcifFmt},
		{"a/b/c.ent", OldFmt},
		{"a.pdb", OldFmt},
		{"a.pdb.gz", OldFmt},
		{ememcif1, MmcifFmt},
		{pdbtest.WriteFile(t, dir, "ememcif2", pdbtest.RNA), MmcifFmt},
		{pdbtest.WriteFile(t, dir, "peedeebee1", "HEADER    junk\nATOM      1  N   ALA A   1\n"), OldFmt},
		{pdbtest.WriteFile(t, dir, "peedeebee2", "\nREMARK 1\n"), OldFmt},
	}
	for _, f := range fnameTypes {
		r, err := OldOrMmcif(f.fname)
		if err != nil {
			t.Error("unexpected problem with", f.fname, err)
		}
		if r != f.ftype {
			t.Error("wrong type for", f.fname)
		}
	}
}

func TestReadAtoms(t *testing.T) {
	dir := t.TempDir()
	plain := pdbtest.WriteFile(t, dir, "1abc.cif", pdbtest.Complex)
	gz := filepath.Join(dir, "1abc.cif.gz")
	require.NoError(t, os.WriteFile(gz, gzipped(t, pdbtest.Complex), 0o644))
	for _, fname := range []string{plain, gz} {
		tbl, err := ReadAtoms(fname)
		require.NoError(t, err, fname)
		assert.Equal(t, 8, tbl.Len())
	}

	md, err := ReadFile(plain)
	require.NoError(t, err)
	assert.Equal(t, "1ABC", md.Items["_entry.id"])
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()
	old := pdbtest.WriteFile(t, dir, "x.pdb", "ATOM      1  N   ALA A   1\n")
	_, err := ReadAtoms(old)
	assert.True(t, errors.Is(err, ErrOldFormat))

	noatoms := pdbtest.WriteFile(t, dir, "y.cif", "data_y\n_entry.id y\n")
	_, err = ReadAtoms(noatoms)
	var mce *mmcif.MissingCategoryError
	require.ErrorAs(t, err, &mce)
	assert.Contains(t, err.Error(), "y.cif")

	short := strings.Replace(pdbtest.Complex, "30.00 ? 101 LIG A O1  1", "30.00", 1)
	_, err = ReadAtoms(pdbtest.WriteFile(t, dir, "z.cif", short))
	var mte *mmcif.MalformedTableError
	require.ErrorAs(t, err, &mte)
	assert.Equal(t, 4, mte.Row)
}

func TestLookInFile(t *testing.T) {
	dir := t.TempDir()
	_, err := LookInFile(pdbtest.WriteFile(t, dir, "what", "hello\n"))
	assert.ErrorContains(t, err, "cannot recognise format")
}

func TestNewLogger(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "progress.log")
	for _, where := range []string{"", "stdout", fname} {
		lg, err := NewLogger(where)
		require.NoError(t, err)
		lg.Println("hello")
	}
	b, err := os.ReadFile(fname)
	require.NoError(t, err)
	assert.Contains(t, string(b), "hello")

	_, err = NewLogger(filepath.Join(fname, "not", "a", "dir"))
	assert.Error(t, err)
}

func TestEntryInfo(t *testing.T) {
	dir := t.TempDir()
	md, err := ReadFile(pdbtest.WriteFile(t, dir, "1abc.cif", pdbtest.Complex))
	require.NoError(t, err)
	info := EntryInfo(md)
	assert.Equal(t, "1ABC", info.ID)
	assert.Equal(t, "A protein with a ligand", info.Title)
	assert.Equal(t, "1.80", info.Resolution)
	assert.Equal(t, "SOME LIGAND, 2-chloro", info.CompName("LIG"))
	assert.Equal(t, "WATER", info.CompName("HOH"))
	assert.Equal(t, "", info.CompName("XYZ"))

	md, err = ReadFile(pdbtest.WriteFile(t, dir, "2rna.cif", pdbtest.RNA))
	require.NoError(t, err)
	info = EntryInfo(md)
	assert.Equal(t, "2RNA", info.ID)
	assert.Equal(t, "", info.Title)
	assert.Equal(t, "", info.Resolution)
	assert.Equal(t, "", info.CompName("MG"))
}
