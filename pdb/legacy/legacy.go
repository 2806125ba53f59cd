// Package legacy writes atoms in the old fixed column pdb format.
// Only ATOM and HETATM records are written, then END. There is no
// header and no TER, which every program we care about accepts.
package legacy

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/andrew-torda/ligprep/pdb"
	"github.com/andrew-torda/ligprep/pdb/cmmn"
	"github.com/andrew-torda/ligprep/pdb/mmcif"
)

const maxSerial = 99999

// blank turns the mmcif placeholders into nothing.
func blank(s string) string {
	if s == "." || s == "?" {
		return ""
	}
	return s
}

// atomName follows the pdb rule: names of atoms with a one letter
// element start in column 14, others in column 13.
func atomName(name, elem string) string {
	if len(name) < 4 && len(elem) == 1 {
		return " " + name
	}
	return name
}

// charge turns "1" or "-2" into "1+" or "2-".
func charge(s string) (string, error) {
	s = blank(s)
	if s == "" || s == "0" {
		return "", nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return "", fmt.Errorf("formal charge %q: %w", s, err)
	}
	switch {
	case n > 0 && n < 10:
		return strconv.Itoa(n) + "+", nil
	case n < 0 && n > -10:
		return strconv.Itoa(-n) + "-", nil
	}
	return "", fmt.Errorf("formal charge %d does not fit", n)
}

func parseF(name, s string) (float64, error) {
	if s = blank(s); s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", name, s, err)
	}
	return f, nil
}

// record formats one atom. Chain comes from auth_asym_id and residue
// number from auth_seq_id, since that is what the old format used.
func record(a *mmcif.AtomSite) (string, error) {
	serial, err := strconv.Atoi(a.ID)
	if err != nil {
		return "", fmt.Errorf("atom serial %q: %w", a.ID, err)
	}
	if serial > maxSerial || serial < 0 {
		return "", fmt.Errorf("atom serial %d does not fit in five columns", serial)
	}
	chain := blank(a.AuthAsymID)
	if len(chain) > 1 {
		return "", fmt.Errorf("atom %d: chain %q longer than one character", serial, chain)
	}
	resName := a.AuthCompID
	if blank(resName) == "" {
		resName = a.LabelCompID
	}
	if len(resName) > 3 {
		return "", fmt.Errorf("atom %d: residue name %q longer than three characters", serial, resName)
	}
	name := blank(a.AuthAtomID)
	if name == "" {
		name = a.LabelAtomID
	}
	elem := strings.ToUpper(blank(a.TypeSymbol))
	if len(name) > 4 || len(elem) > 2 {
		return "", fmt.Errorf("atom %d: name %q or element %q too long", serial, name, elem)
	}
	resSeq := blank(a.AuthSeqID)
	if len(resSeq) > 4 {
		return "", fmt.Errorf("atom %d: residue number %q too long", serial, resSeq)
	}
	xyz, err := cmmn.ParseXyz(a.CartnX, a.CartnY, a.CartnZ)
	if err != nil {
		return "", fmt.Errorf("atom %d: %w", serial, err)
	}
	occ, err := parseF("occupancy", a.Occupancy)
	if err != nil {
		return "", err
	}
	bfac, err := parseF("B factor", a.BIso)
	if err != nil {
		return "", err
	}
	chg, err := charge(a.FormalCharge)
	if err != nil {
		return "", fmt.Errorf("atom %d: %w", serial, err)
	}
	rec := "ATOM"
	if a.Group == "HETATM" {
		rec = "HETATM"
	}
	return fmt.Sprintf("%-6s%5d %-4s%1s%3s %1s%4s%1s   %8.3f%8.3f%8.3f%6.2f%6.2f          %2s%-2s\n",
		rec, serial, atomName(name, elem), blank(a.LabelAltID), resName, chain,
		resSeq, blank(a.InsCode), xyz.X, xyz.Y, xyz.Z, occ, bfac, elem, chg), nil
}

// Write puts out the table as ATOM and HETATM records followed by END.
// Nothing is written if any atom cannot be formatted.
func Write(w io.Writer, t *mmcif.AtomTable) error {
	recs := make([]string, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		a := t.Row(i)
		s, err := record(&a)
		if err != nil {
			return err
		}
		recs = append(recs, s)
	}
	bw := bufio.NewWriter(w)
	for _, s := range recs {
		bw.WriteString(s)
	}
	bw.WriteString("END\n")
	return bw.Flush()
}

// ConvertFile reads an mmcif file and writes it as a pdb file.
// If anything goes wrong, out is not left behind.
func ConvertFile(in, out string) error {
	t, err := pdb.ReadAtoms(in)
	if err != nil {
		return err
	}
	fp, err := os.Create(out)
	if err != nil {
		return err
	}
	err = Write(fp, t)
	if e2 := fp.Close(); err == nil {
		err = e2
	}
	if err != nil {
		os.Remove(out)
		return fmt.Errorf("converting %s: %w", in, err)
	}
	return nil
}
