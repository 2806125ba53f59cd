// Package convert turns mmcif files into old format pdb files, either
// a list of files or every .cif file in a directory.
package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/andrew-torda/ligprep/pdb/cmmn"
	"github.com/andrew-torda/ligprep/pdb/legacy"
	"github.com/andrew-torda/ligprep/pkg/diag"
)

// expand replaces directories by the .cif files in them, in name order.
func expand(names []string) ([]string, error) {
	var ret []string
	for _, n := range names {
		fi, err := os.Stat(n)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			ret = append(ret, n)
			continue
		}
		found, err := filepath.Glob(filepath.Join(n, "*.cif"))
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		ret = append(ret, found...)
	}
	return ret, nil
}

// OutName is the pdb file name for an mmcif file.
func OutName(outDir, in string) string {
	stem := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	return filepath.Join(outDir, stem+".pdb")
}

// Files converts each input into outDir. It returns the number
// converted. Failures go to sink, keyed by the input file name.
func Files(names []string, outDir string, sink diag.Sink) (int, error) {
	ins, err := expand(names)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return 0, err
	}
	n := 0
	for _, in := range ins {
		if err := legacy.ConvertFile(in, OutName(outDir, in)); err != nil {
			sink.Record(filepath.Base(in), err.Error())
			continue
		}
		n++
	}
	return n, nil
}

// MyMain converts and returns an exit code. It is a failure if any
// file could not be converted.
func MyMain(names []string, outDir string) int {
	if len(names) == 0 || outDir == "" {
		fmt.Fprintln(os.Stderr, "need input files and an output directory")
		return cmmn.ExitUsageError
	}
	dlog := diag.NewLog(os.Stderr)
	n, err := Files(names, outDir, dlog)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", err)
		return cmmn.ExitFailure
	}
	if dlog.N() > 0 {
		fmt.Fprintln(os.Stderr, dlog.N(), "files could not be converted,", n, "were")
		return cmmn.ExitFailure
	}
	return cmmn.ExitSuccess
}
