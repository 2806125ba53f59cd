// Package extract picks groups of atoms out of an atom table. A group is
// usually one copy of a ligand: all the HETATM rows with the same
// residue name on the same chain, from the first model.
package extract

import (
	"github.com/andrew-torda/ligprep/pdb/mmcif"
)

// FirstModelNum is how the first model is labelled in pdb files.
const FirstModelNum = "1"

// Model says which rows of a table belong to the first model.
// If the file behaves, the model 1 rows are the first N rows and
// Contiguous is true, so we only look at rows [0, N). Otherwise every
// row has its model number checked.
type Model struct {
	N          int  // number of rows in model 1
	Contiguous bool // model 1 rows are rows [0, N)
}

// FirstModel counts the rows of model 1 and checks that they come first.
func FirstModel(t *mmcif.AtomTable) Model {
	if t.Len() == 0 {
		return Model{Contiguous: true}
	}
	mnum := t.Column(mmcif.ColModelNum)
	n := 0
	for _, m := range mnum {
		if m == FirstModelNum {
			n++
		}
	}
	contig := true
	for _, m := range mnum[:n] {
		if m != FirstModelNum {
			contig = false
			break
		}
	}
	return Model{N: n, Contiguous: contig}
}

// span is the range of rows we have to look at.
func (m Model) span(t *mmcif.AtomTable) int {
	if m.Contiguous {
		return m.N
	}
	return t.Len()
}

// has says if row i is in the model. Only call with i < span().
func (m Model) has(t *mmcif.AtomTable, i int) bool {
	return m.Contiguous || t.Get(mmcif.ColModelNum, i) == FirstModelNum
}

// Filter decides if row i of a table should be kept.
type Filter func(t *mmcif.AtomTable, i int) bool

// Ligand accepts HETATM rows with the residue name compID.
func Ligand(compID string) Filter {
	return func(t *mmcif.AtomTable, i int) bool {
		return t.Get(mmcif.ColGroup, i) == "HETATM" &&
			t.Get(mmcif.ColLabelCompID, i) == compID
	}
}

// Key identifies a group.
type Key struct {
	CompID string // empty when grouping by chain alone
	AsymID string
}

// String gives LIG_B for a ligand, or just the chain.
func (k Key) String() string {
	if k.CompID == "" {
		return k.AsymID
	}
	return k.CompID + "_" + k.AsymID
}

// KeyFunc gives the group key for row i.
type KeyFunc func(t *mmcif.AtomTable, i int) Key

// ByCompChain puts each (residue name, chain) pair in its own group.
func ByCompChain(t *mmcif.AtomTable, i int) Key {
	return Key{CompID: t.Get(mmcif.ColLabelCompID, i), AsymID: t.Get(mmcif.ColLabelAsymID, i)}
}

// ByChain groups on chain only.
func ByChain(t *mmcif.AtomTable, i int) Key {
	return Key{AsymID: t.Get(mmcif.ColLabelAsymID, i)}
}

// Group is a set of atoms sharing a key, in the order they were in the file.
type Group struct {
	Key   Key
	Atoms []mmcif.AtomSite
}

// Groups goes once through the model 1 rows of t. Rows accepted by f are
// appended to the group for their key. Groups come back in the order
// their first atom was seen. Nothing found gives an empty slice, which
// is not an error.
func Groups(t *mmcif.AtomTable, m Model, f Filter, key KeyFunc) []Group {
	var groups []Group
	where := make(map[Key]int)
	for i, n := 0, m.span(t); i < n; i++ {
		if !m.has(t, i) || !f(t, i) {
			continue
		}
		k := key(t, i)
		j, ok := where[k]
		if !ok {
			j = len(groups)
			where[k] = j
			groups = append(groups, Group{Key: k})
		}
		groups[j].Atoms = append(groups[j].Atoms, t.Row(i))
	}
	return groups
}

// NResidue counts residues in a group. A new residue starts whenever
// the residue number, insertion code or name changes.
func (g *Group) NResidue() int {
	n := 0
	var last [3]string
	for i := range g.Atoms {
		a := &g.Atoms[i]
		this := [3]string{a.AuthSeqID, a.InsCode, a.LabelCompID}
		if i == 0 || this != last {
			n++
		}
		last = this
	}
	return n
}
