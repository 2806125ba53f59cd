// Package manifest reads the dataset table: a csv file with a header
// row, one line per complex, giving at least the pdb id and the ligand
// residue name.
package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Default column names
const (
	IDColumn     = "pdb"
	LigandColumn = "ligand"
)

// Entry is one row of the dataset.
type Entry struct {
	PDBID  string
	Ligand string // residue name, like ATP. Empty when only ids were read.
	Line   int    // line in the file, for messages
}

// Parse reads entries from r. If ligandCol is "", only ids are read.
func Parse(r io.Reader, idCol, ligandCol string) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("manifest is empty")
	}
	if err != nil {
		return nil, err
	}
	find := func(name string) (int, error) {
		for i, h := range header {
			if strings.TrimSpace(h) == name {
				return i, nil
			}
		}
		return -1, fmt.Errorf("no column %q in manifest header", name)
	}
	idPos, err := find(idCol)
	if err != nil {
		return nil, err
	}
	ligPos := -1
	if ligandCol != "" {
		if ligPos, err = find(ligandCol); err != nil {
			return nil, err
		}
	}

	var entries []Entry
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if idPos >= len(rec) || ligPos >= len(rec) {
			return nil, fmt.Errorf("manifest line %d: %d fields, too short", line, len(rec))
		}
		e := Entry{PDBID: strings.TrimSpace(rec[idPos]), Line: line}
		if ligPos >= 0 {
			e.Ligand = strings.TrimSpace(rec[ligPos])
		}
		if e.PDBID == "" {
			return nil, fmt.Errorf("manifest line %d: no pdb id", line)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Read opens a manifest file and parses it.
func Read(fname, idCol, ligandCol string) ([]Entry, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	entries, err := Parse(fp, idCol, ligandCol)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return entries, nil
}

// SelectIDs gives the unique pdb ids to download, in order of first
// appearance. num > 0 takes only the first num rows of the manifest.
// A non-empty ids keeps only the ids listed there. Setting both is
// an error.
func SelectIDs(entries []Entry, num int, ids []string) ([]string, error) {
	if num > 0 && len(ids) > 0 {
		return nil, errors.New("cannot set both a number of entries and a list of ids")
	}
	if num > 0 && num < len(entries) {
		entries = entries[:num]
	}
	var want map[string]bool
	if len(ids) > 0 {
		want = make(map[string]bool, len(ids))
		for _, id := range ids {
			want[id] = true
		}
	}
	seen := make(map[string]bool)
	var ret []string
	for _, e := range entries {
		if seen[e.PDBID] || (want != nil && !want[e.PDBID]) {
			continue
		}
		seen[e.PDBID] = true
		ret = append(ret, e.PDBID)
	}
	return ret, nil
}
