// This is the upper level for reading PDB files.
// Decide if a file is compressed or not, and what format
// we are going to read. Then call the mmcif reader.

package pdb

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/andrew-torda/ligprep/pdb/mmcif"
	"github.com/andrew-torda/ligprep/pdb/zwrap"
)

// File formats we can recognise
const (
	OldFmt byte = iota
	MmcifFmt
	UnkFmt
)

// ErrOldFormat is returned if asked to read a legacy fixed column file.
// We write them, but never read them.
var ErrOldFormat = errors.New("old pdb format files are not read")

// comparefirst says if two words are the same, looking at the
// the length of the shorter
func comparefirst(s, t string) bool {
	l1 := len(s)
	if len(t) < l1 {
		l1 = len(t)
	}
	return s[:l1] == t[:l1]
}

// lookInFile opens a file and guesses if it is in old PDB format or
// in mmcif.
func lookInFile(fname string) (byte, error) {
	pdbWords := []string{"HEADER", "COMPND", "SOURCE", "REMARK", "SEQRES", "HETATM", "ATOM"}
	mmcifWords := []string{"data_", "_entry.id", "loop_"}
	rdr, err := zwrap.Open(fname)
	if err != nil {
		return UnkFmt, err
	}
	defer rdr.Close()

	const maxTestLines = 5000
	scnnr := bufio.NewScanner(rdr)
	for i := 0; scnnr.Scan() && i < maxTestLines; i++ {
		s := scnnr.Text()
		if s == "" {
			continue
		}
		for _, w := range mmcifWords {
			if comparefirst(s, w) {
				return MmcifFmt, nil
			}
		}
		for _, w := range pdbWords {
			if comparefirst(s, w) {
				return OldFmt, nil
			}
		}
	}
	if err := scnnr.Err(); err != nil {
		return UnkFmt, fmt.Errorf("reading %s: %w", fname, err)
	}
	return UnkFmt, errors.New(fname + ": cannot recognise format")
}

// OldOrMmcif decides what format we will use.
// It uses the file name if it can, otherwise it peeks inside.
// We cannot use the function from filepath to get the file type,
// since it will return .gz if we feed it a.pdb.gz.
func OldOrMmcif(fname string) (byte, error) {
	s := filepath.Base(fname)
	if i := strings.IndexByte(s, '.'); i != -1 {
		s = strings.ToLower(s[i+1:]) // change .ent to ent
		switch {
		case strings.Contains(s, "cif"):
			return MmcifFmt, nil
		case strings.Contains(s, "pdb") || strings.Contains(s, "ent"):
			return OldFmt, nil
		}
	}
	return lookInFile(fname)
}

// NewLogger decides where to send progress output. "" means nowhere,
// "stdout" and "stderr" are what they say, anything else is a file
// that is appended to.
func NewLogger(where string) (*log.Logger, error) {
	var iowriter io.Writer
	switch where {
	case "":
		iowriter = io.Discard
	case "stdout":
		iowriter = os.Stdout
	case "stderr":
		iowriter = os.Stderr
	default:
		var err error
		iowriter, err = os.OpenFile(where, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
	}
	return log.New(iowriter, "", log.Lshortfile), nil
}

// wanted are the data items kept when reading a whole file.
var wanted = []string{
	"_entry.id",
	"_struct.title",
	"_refine.ls_d_res_high",
	"_reflns.d_resolution_high",
}

// chemCompTable gives the names of the residues.
const chemCompTable = "_chem_comp"

// ReadFile reads a structure file, compressed or not. Only mmcif is
// accepted. The entry items and the _chem_comp table are kept for
// EntryInfo.
func ReadFile(fname string) (*mmcif.Data, error) {
	typ, err := OldOrMmcif(fname)
	if err != nil {
		return nil, err
	}
	if typ == OldFmt {
		return nil, fmt.Errorf("%s: %w", fname, ErrOldFormat)
	}
	rdr, err := zwrap.Open(fname)
	if err != nil {
		return nil, err
	}
	defer rdr.Close()
	mr := mmcif.NewReader(rdr)
	mr.AddItems(wanted)
	mr.AddTable([]string{chemCompTable + "."})
	md, err := mr.DoFile()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return md, nil
}

// ReadAtoms returns the _atom_site table from a structure file.
func ReadAtoms(fname string) (*mmcif.AtomTable, error) {
	md, err := ReadFile(fname)
	if err != nil {
		return nil, err
	}
	t, err := md.AtomTable()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return t, nil
}
