// Package pdb/cmmn has common definitions for coordinates and
// the exit codes shared by the command line tools.
package cmmn

import (
	"math"
	"strconv"
)

// Exit codes returned by the MyMain functions
const (
	ExitSuccess = iota
	ExitFailure
	ExitUsageError
)

type Xyz struct{ X, Y, Z float32 }

var BrokenXyz = Xyz{math.MaxFloat32, 0, -math.MaxFloat32}

func (xyz *Xyz) Ok() bool {
	if *xyz != BrokenXyz {
		return true
	}
	return false
}

// ParseXyz converts the three coordinate strings from an atom record.
// On any failure it returns BrokenXyz and the first error.
func ParseXyz(x, y, z string) (Xyz, error) {
	var err error
	ff := func(s string) float32 {
		if err != nil { // only report the first problem
			return 0
		}
		var f float64
		if f, err = strconv.ParseFloat(s, 32); err != nil {
			return 0
		}
		return float32(f)
	}
	xyz := Xyz{ff(x), ff(y), ff(z)}
	if err != nil {
		return BrokenXyz, err
	}
	return xyz, nil
}
