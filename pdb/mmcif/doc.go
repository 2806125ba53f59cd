// Package mmcif reads a file in mmcif/cif format and writes small ones.
// Reading mmcif files is interesting because they are so big,
// but we do not want much information from them.
// If one looks at the format there are some features that make it
// simpler.
// 1. The first character on the line is decisive. If it is a data item
// it has to be a "_". A loop starts with loop_
// 2. The pdb promises that they will restrict themselves to a certain
// style. In the ATOM records, they always use the same columns and in
// the same order. We still look the columns up by name.
// Multi-line (;) fields are handled for data items and kept tables,
// but not in _atom_site, where they never appear.

// Overall structure
// There is a lot of information that will never be of interest to us (solvents,
// crystallisation details, ..), so we jump over tables that are not on
// our list. The _atom_site table is always read. Lines are passed to a
// goroutine which splits them and fills the columns of an AtomTable,
// while the scanner continues through the file.

// Notes about the mmcif format...
// A question mark, ?, means a missing value.
// A dot, ., means not appropriate or deliberately left out.
// We keep both as they are, so they can be written back out.
// label_asym_id is the mmcif chain. The old pdb chain is
// _atom_site.auth_asym_id, according to
// http://mmcif.wwpdb.org/docs/pdb_to_pdbx_correspondences.html
package mmcif
