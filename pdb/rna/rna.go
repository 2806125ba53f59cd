// Package rna picks the RNA chains out of a structure. Modified
// nucleotides are renamed to the base they came from, so programs that
// only know A, C, G and U can read the output.
package rna

import (
	"fmt"
	"os"

	"github.com/andrew-torda/ligprep/pdb/extract"
	"github.com/andrew-torda/ligprep/pdb/mmcif"
)

// DefaultMods maps common modified nucleotides to their parent.
var DefaultMods = map[string]string{
	"PSU": "U", // pseudouridine
	"H2U": "U", // dihydrouridine
	"5MU": "U",
	"4SU": "U",
	"OMU": "U",
	"UR3": "U",
	"5MC": "C",
	"OMC": "C",
	"CBR": "C",
	"CCC": "C",
	"7MG": "G",
	"2MG": "G",
	"M2G": "G",
	"OMG": "G",
	"1MG": "G",
	"YG":  "G",
	"GTP": "G",
	"1MA": "A",
	"MA6": "A",
	"6MZ": "A",
	"A2M": "A",
}

var bases = map[string]bool{"A": true, "C": true, "G": true, "U": true}

// Processor finds RNA chains. Mods may be nil, which means no modified
// residues are recognised.
type Processor struct {
	Mods map[string]string
}

// New returns a Processor with the default modifications.
func New() *Processor { return &Processor{Mods: DefaultMods} }

// parent returns the base a residue counts as, or "".
func (p *Processor) parent(comp string) string {
	if bases[comp] {
		return comp
	}
	return p.Mods[comp]
}

// Chains returns one group per chain (label_asym_id) holding the
// polymer nucleotides of the first model. Rows without a label_seq_id
// are not part of a polymer, so a free GTP or AMP is not a chain.
// Modified residues come back as ATOM records of their parent.
func (p *Processor) Chains(t *mmcif.AtomTable) []extract.Group {
	isNuc := func(t *mmcif.AtomTable, i int) bool {
		return t.Get(mmcif.ColLabelSeqID, i) != "." &&
			p.parent(t.Get(mmcif.ColLabelCompID, i)) != ""
	}
	groups := extract.Groups(t, extract.FirstModel(t), isNuc, extract.ByChain)
	for _, g := range groups {
		for i := range g.Atoms {
			a := &g.Atoms[i]
			if bases[a.LabelCompID] {
				continue
			}
			par := p.parent(a.LabelCompID)
			a.LabelCompID = par
			if a.AuthCompID != "?" && a.AuthCompID != "." {
				a.AuthCompID = par
			}
			a.Group = "ATOM"
		}
	}
	return groups
}

// Longest returns the group with most residues. Ties go to the first.
// ok is false if there are no groups.
func (p *Processor) Longest(groups []extract.Group) (g extract.Group, ok bool) {
	best := -1
	for i := range groups {
		if n := groups[i].NResidue(); n > best {
			best = n
			g = groups[i]
			ok = true
		}
	}
	return g, ok
}

// BlockName is the data block for a chain of a pdb entry.
func BlockName(pdbID string, g *extract.Group) string {
	return "rna_" + pdbID + "_" + g.Key.AsymID
}

// WriteChain writes one chain as a minimal mmcif file.
func (p *Processor) WriteChain(path, pdbID string, g extract.Group) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	err = mmcif.WriteAtomSite(fp, BlockName(pdbID, &g), g.Atoms)
	if e2 := fp.Close(); err == nil {
		err = e2
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("writing chain %s of %s: %w", g.Key.AsymID, pdbID, err)
	}
	return nil
}
