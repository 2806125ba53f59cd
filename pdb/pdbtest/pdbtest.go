// Package pdbtest has small structure files for the tests of the other
// packages. They are cut down by hand from real entries, so coordinates
// mean nothing.
package pdbtest

import (
	"os"
	"path/filepath"
	"testing"
)

// Complex has a protein chain, two copies of ligand LIG on chains B and C,
// a water and a second model. The model 1 rows come first.
const Complex = `data_1ABC
#
_entry.id   1ABC
_struct.title 'A protein with a ligand'
_refine.ls_d_res_high 1.80
_reflns.d_resolution_high ?
#
loop_
_chem_comp.id
_chem_comp.type
_chem_comp.name
ALA 'L-peptide linking' ALANINE
LIG non-polymer 'SOME LIGAND, 2-chloro'
HOH non-polymer WATER
#
loop_
_atom_site.group_PDB
_atom_site.id
_atom_site.type_symbol
_atom_site.label_atom_id
_atom_site.label_alt_id
_atom_site.label_comp_id
_atom_site.label_asym_id
_atom_site.label_entity_id
_atom_site.label_seq_id
_atom_site.pdbx_PDB_ins_code
_atom_site.Cartn_x
_atom_site.Cartn_y
_atom_site.Cartn_z
_atom_site.occupancy
_atom_site.B_iso_or_equiv
_atom_site.pdbx_formal_charge
_atom_site.auth_seq_id
_atom_site.auth_comp_id
_atom_site.auth_asym_id
_atom_site.auth_atom_id
_atom_site.pdbx_PDB_model_num
ATOM   1 N N   . ALA A 1 1 ? 10.000 11.000 12.000 1.00 20.00 ? 1   ALA A N   1
ATOM   2 C CA  . ALA A 1 1 ? 11.000 11.500 12.500 1.00 20.00 ? 1   ALA A CA  1
HETATM 3 C C1  . LIG B 2 . ? 1.000  2.000  3.000  1.00 30.00 ? 101 LIG A C1  1
HETATM 4 O O1  . LIG B 2 . ? 2.000  3.000  4.000  1.00 30.00 ? 101 LIG A O1  1
HETATM 5 C C1  . LIG C 2 . ? -1.000 -2.000 -3.000 1.00 31.00 ? 102 LIG B C1 1
HETATM 6 O O   . HOH D 3 . ? 5.000  5.000  5.000  1.00 40.00 ? 201 HOH A O   1
ATOM   7 N N   . ALA A 1 1 ? 10.100 11.100 12.100 1.00 20.00 ? 1   ALA A N   2
HETATM 8 C C1  . LIG B 2 . ? 1.100  2.100  3.100  1.00 30.00 ? 101 LIG A C1  2
#
loop_
_atom_type.symbol
C
N
O
#
`

// ComplexModel1 is the number of model 1 rows in Complex.
const ComplexModel1 = 6

// RNA has a three residue RNA chain A ending in a pseudouridine, a two
// residue chain B, a protein chain C, a magnesium and a free GTP. Atom
// names with primes are quoted, as the pdb does it.
const RNA = `data_2RNA
#
_entry.id 2RNA
#
loop_
_atom_site.group_PDB
_atom_site.id
_atom_site.type_symbol
_atom_site.label_atom_id
_atom_site.label_alt_id
_atom_site.label_comp_id
_atom_site.label_asym_id
_atom_site.label_entity_id
_atom_site.label_seq_id
_atom_site.pdbx_PDB_ins_code
_atom_site.Cartn_x
_atom_site.Cartn_y
_atom_site.Cartn_z
_atom_site.occupancy
_atom_site.B_iso_or_equiv
_atom_site.pdbx_formal_charge
_atom_site.auth_seq_id
_atom_site.auth_comp_id
_atom_site.auth_asym_id
_atom_site.auth_atom_id
_atom_site.pdbx_PDB_model_num
ATOM   1  P P     . G   A 1 1 ? 1.0 1.0 1.0 1.00 10.00 ? 1 G   X P     1
ATOM   2  C "C5'" . G   A 1 1 ? 1.5 1.0 1.0 1.00 10.00 ? 1 G   X "C5'" 1
ATOM   3  P P     . A   A 1 2 ? 2.0 1.0 1.0 1.00 10.00 ? 2 A   X P     1
HETATM 4  P P     . PSU A 1 3 ? 3.0 1.0 1.0 1.00 10.00 ? 3 PSU X P     1
HETATM 5  C "C5'" . PSU A 1 3 ? 3.5 1.0 1.0 1.00 10.00 ? 3 PSU X "C5'" 1
ATOM   6  P P     . C   B 2 1 ? 4.0 1.0 1.0 1.00 10.00 ? 1 C   Y P     1
ATOM   7  P P     . U   B 2 2 ? 5.0 1.0 1.0 1.00 10.00 ? 2 U   Y P     1
ATOM   8  N N     . ALA C 3 1 ? 6.0 1.0 1.0 1.00 10.00 ? 1 ALA Z N     1
HETATM 9  MG MG   . MG  D 4 . ? 7.0 1.0 1.0 1.00 10.00 ? 1 MG  X MG    1
HETATM 10 P PG    . GTP E 5 . ? 8.0 1.0 1.0 1.00 10.00 ? 2 GTP X PG    1
#
`

// WriteFile puts content in dir/name and returns the full name.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	fname := filepath.Join(dir, name)
	if err := os.WriteFile(fname, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return fname
}
