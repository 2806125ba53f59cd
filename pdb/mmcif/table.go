// Package mmcif. This file has the table we build from _atom_site.
// It is column oriented, since that is the way the file is laid out and
// the way the filters look at it, one column at a time.
package mmcif

import (
	"fmt"
)

// Col names one of the _atom_site columns we keep.
type Col int8

// The order here is the order columns are written out.
const (
	ColGroup Col = iota
	ColID
	ColTypeSymbol
	ColLabelAtomID
	ColLabelAltID
	ColLabelCompID
	ColLabelAsymID
	ColLabelEntityID
	ColLabelSeqID
	ColInsCode
	ColCartnX
	ColCartnY
	ColCartnZ
	ColOccupancy
	ColBIso
	ColFormalCharge
	ColAuthSeqID
	ColAuthCompID
	ColAuthAsymID
	ColAuthAtomID
	ColModelNum
	NCol // number of columns, not a column
)

// AtomSiteCategory is the name of the category we need in every file.
const AtomSiteCategory = "_atom_site"

var colNames = [NCol]string{
	"group_PDB",
	"id",
	"type_symbol",
	"label_atom_id",
	"label_alt_id",
	"label_comp_id",
	"label_asym_id",
	"label_entity_id",
	"label_seq_id",
	"pdbx_PDB_ins_code",
	"Cartn_x",
	"Cartn_y",
	"Cartn_z",
	"occupancy",
	"B_iso_or_equiv",
	"pdbx_formal_charge",
	"auth_seq_id",
	"auth_comp_id",
	"auth_asym_id",
	"auth_atom_id",
	"pdbx_PDB_model_num",
}

// String gives the name as used in the file, without the category.
func (c Col) String() string {
	if c < 0 || c >= NCol {
		return fmt.Sprintf("Col(%d)", int(c))
	}
	return colNames[c]
}

// Tag gives the full data name, like _atom_site.Cartn_x
func (c Col) Tag() string { return AtomSiteCategory + "." + c.String() }

// AtomSite is one row of the table. Everything is kept as the string
// from the file, so writing it out again gives back exactly what we read.
type AtomSite struct {
	Group         string // ATOM or HETATM
	ID            string
	TypeSymbol    string // element
	LabelAtomID   string
	LabelAltID    string
	LabelCompID   string // residue or ligand name
	LabelAsymID   string // chain
	LabelEntityID string
	LabelSeqID    string
	InsCode       string
	CartnX        string
	CartnY        string
	CartnZ        string
	Occupancy     string
	BIso          string
	FormalCharge  string
	AuthSeqID     string
	AuthCompID    string
	AuthAsymID    string
	AuthAtomID    string
	ModelNum      string
}

// field returns a pointer to the struct member for a column.
func (a *AtomSite) field(c Col) *string {
	switch c {
	case ColGroup:
		return &a.Group
	case ColID:
		return &a.ID
	case ColTypeSymbol:
		return &a.TypeSymbol
	case ColLabelAtomID:
		return &a.LabelAtomID
	case ColLabelAltID:
		return &a.LabelAltID
	case ColLabelCompID:
		return &a.LabelCompID
	case ColLabelAsymID:
		return &a.LabelAsymID
	case ColLabelEntityID:
		return &a.LabelEntityID
	case ColLabelSeqID:
		return &a.LabelSeqID
	case ColInsCode:
		return &a.InsCode
	case ColCartnX:
		return &a.CartnX
	case ColCartnY:
		return &a.CartnY
	case ColCartnZ:
		return &a.CartnZ
	case ColOccupancy:
		return &a.Occupancy
	case ColBIso:
		return &a.BIso
	case ColFormalCharge:
		return &a.FormalCharge
	case ColAuthSeqID:
		return &a.AuthSeqID
	case ColAuthCompID:
		return &a.AuthCompID
	case ColAuthAsymID:
		return &a.AuthAsymID
	case ColAuthAtomID:
		return &a.AuthAtomID
	case ColModelNum:
		return &a.ModelNum
	}
	panic(fmt.Sprintf("prog bug, no atom site column %d", int(c)))
}

// Get returns the value for one column.
func (a *AtomSite) Get(c Col) string { return *a.field(c) }

// Set stores the value for one column.
func (a *AtomSite) Set(c Col, s string) { *a.field(c) = s }

// Values gives the row in output order.
func (a *AtomSite) Values() [NCol]string {
	var v [NCol]string
	for c := Col(0); c < NCol; c++ {
		v[c] = a.Get(c)
	}
	return v
}

// AtomTable holds the _atom_site loop, one slice per column. All
// columns have the same length.
type AtomTable struct {
	cols [NCol][]string
}

// NewAtomTable builds a table from columns which someone else filled.
// Every column must be present and all must have the same length.
func NewAtomTable(cols map[Col][]string) (*AtomTable, error) {
	t := new(AtomTable)
	nrow := -1
	for c := Col(0); c < NCol; c++ {
		v, ok := cols[c]
		if !ok {
			return nil, &MalformedTableError{Field: c.String(), Reason: "missing column"}
		}
		if nrow == -1 {
			nrow = len(v)
		} else if len(v) != nrow {
			return nil, &MalformedTableError{Field: c.String(),
				Reason: fmt.Sprintf("column has %d values, expected %d", len(v), nrow)}
		}
		t.cols[c] = v
	}
	return t, nil
}

// Len is the number of rows (atoms) in the table.
func (t *AtomTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.cols[0])
}

// Get returns a single value.
func (t *AtomTable) Get(c Col, i int) string { return t.cols[c][i] }

// Column returns the whole column. Do not modify it.
func (t *AtomTable) Column(c Col) []string { return t.cols[c] }

// Row puts together the values at index i.
func (t *AtomTable) Row(i int) AtomSite {
	var a AtomSite
	for c := Col(0); c < NCol; c++ {
		a.Set(c, t.cols[c][i])
	}
	return a
}

// Rows returns all rows as records.
func (t *AtomTable) Rows() []AtomSite {
	ret := make([]AtomSite, t.Len())
	for i := range ret {
		ret[i] = t.Row(i)
	}
	return ret
}
