package extract

import (
	"fmt"

	"github.com/andrew-torda/matrix"

	"github.com/andrew-torda/ligprep/pdb/cmmn"
)

// Coords returns an n x 3 matrix with the coordinates of the atoms.
func (g *Group) Coords() (*matrix.FMatrix2d, error) {
	m := matrix.NewFMatrix2d(len(g.Atoms), 3)
	for i := range g.Atoms {
		a := &g.Atoms[i]
		xyz, err := cmmn.ParseXyz(a.CartnX, a.CartnY, a.CartnZ)
		if err != nil {
			return nil, fmt.Errorf("group %s, atom %s: %w", g.Key, a.ID, err)
		}
		m.Mat[i][0], m.Mat[i][1], m.Mat[i][2] = xyz.X, xyz.Y, xyz.Z
	}
	return m, nil
}

// Centroid is the unweighted mean position. An empty group gives
// cmmn.BrokenXyz.
func (g *Group) Centroid() (cmmn.Xyz, error) {
	if len(g.Atoms) == 0 {
		return cmmn.BrokenXyz, fmt.Errorf("group %s has no atoms", g.Key)
	}
	m, err := g.Coords()
	if err != nil {
		return cmmn.BrokenXyz, err
	}
	var sum [3]float64
	for _, r := range m.Mat {
		for j, v := range r {
			sum[j] += float64(v)
		}
	}
	n := float64(len(m.Mat))
	return cmmn.Xyz{X: float32(sum[0] / n), Y: float32(sum[1] / n), Z: float32(sum[2] / n)}, nil
}
