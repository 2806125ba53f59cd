package pdb

import (
	"github.com/andrew-torda/ligprep/pdb/mmcif"
)

// Info is what we keep about a structure apart from its atoms.
// Values the file does not give are "".
type Info struct {
	ID         string
	Title      string
	Resolution string // Angstrom, as written in the file
	compNames  map[string]string
}

// notGiven is true for the mmcif missing value markers.
func notGiven(s string) bool { return s == "" || s == "?" || s == "." }

func item(md *mmcif.Data, names ...string) string {
	for _, n := range names {
		if v := md.Items[n]; !notGiven(v) {
			return v
		}
	}
	return ""
}

// EntryInfo collects the data items and chemical component names that
// ReadFile asked for.
func EntryInfo(md *mmcif.Data) Info {
	info := Info{
		ID:         item(md, "_entry.id"),
		Title:      item(md, "_struct.title"),
		Resolution: item(md, "_refine.ls_d_res_high", "_reflns.d_resolution_high"),
		compNames:  make(map[string]string),
	}
	tbl, ok := md.Tables[chemCompTable]
	if !ok {
		return info
	}
	idCol, nameCol := -1, -1
	for i, n := range tbl.Names {
		switch n {
		case "id":
			idCol = i
		case "name":
			nameCol = i
		}
	}
	if idCol < 0 || nameCol < 0 {
		return info
	}
	for _, v := range tbl.Vals {
		if !notGiven(v[nameCol]) {
			info.compNames[v[idCol]] = v[nameCol]
		}
	}
	return info
}

// CompName is the chemical name of a residue, like "WATER" for HOH.
func (i *Info) CompName(comp string) string { return i.compNames[comp] }
