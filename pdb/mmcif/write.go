// Writing. We only write the small files we extract, so there is no
// need to be clever. The output is a data block, one loop_ with the
// atom_site columns and one line per atom.
package mmcif

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteAtomSite writes a minimal mmcif file with the given block name
// (without "data_") and atoms. Columns are always written in the order
// of the Col constants. Reading the output with a Reader gives back the
// same values in the same order.
func WriteAtomSite(w io.Writer, block string, atoms []AtomSite) error {
	if block == "" || strings.ContainsAny(block, " \t\n\r") {
		return fmt.Errorf("bad data block name %q", block)
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "data_%s\n", block)
	fmt.Fprintln(bw, "loop_")
	for c := Col(0); c < NCol; c++ {
		fmt.Fprintln(bw, c.Tag())
	}
	var sb strings.Builder
	for i := range atoms {
		sb.Reset()
		vals := atoms[i].Values()
		for c, v := range vals {
			q, ok := quoteValue(v)
			if !ok {
				return fmt.Errorf("atom %d, %s: cannot write value %q", i+1, Col(c), v)
			}
			if c > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(q)
		}
		sb.WriteByte('\n')
		bw.WriteString(sb.String())
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", block, err)
	}
	return nil
}
