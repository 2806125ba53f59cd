package ligprep

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/andrew-torda/ligprep/pdb/cmmn"
	"github.com/andrew-torda/ligprep/pdb/extract"
	"github.com/andrew-torda/ligprep/pdb/legacy"
	"github.com/andrew-torda/ligprep/pdb/mmcif"
)

// writeCif writes one group, replacing any old file of the same name.
func writeCif(path, block string, g *extract.Group) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	err = mmcif.WriteAtomSite(fp, block, g.Atoms)
	if e2 := fp.Close(); err == nil {
		err = e2
	}
	if err != nil {
		os.Remove(path)
	}
	return err
}

// writeGroup writes the mmcif file for a group and, if asked, a legacy
// copy made by reading the new file back.
func writeGroup(opts *Options, pdbID string, g *extract.Group) GroupResult {
	gr := GroupResult{Key: g.Key, NAtom: len(g.Atoms), Centroid: cmmn.BrokenXyz}
	if c, err := g.Centroid(); err == nil {
		gr.Centroid = c
	}
	name := groupName(pdbID, g.Key)
	path := GroupPath(opts.OutDir, pdbID, g.Key)
	if err := writeCif(path, "ligand_"+name, g); err != nil {
		gr.Err = fmt.Errorf("writing %s: %w", g.Key, err)
		return gr
	}
	gr.Path = path
	if opts.PDBDir == "" {
		return gr
	}
	pdbPath := filepath.Join(opts.PDBDir, name+".pdb")
	if err := legacy.ConvertFile(path, pdbPath); err != nil {
		gr.ConvertErr = fmt.Errorf("converting %s: %w", g.Key, err)
		return gr
	}
	gr.PDBPath = pdbPath
	return gr
}
