// Package mmcif reads an mmcif formatted file. It is a subpackage of pdb.
// Build a Reader and then call DoFile().
package mmcif

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
)

const (
	squote byte = '\''
	dquote byte = '"'
)

// Most of a file is information we do not want. We keep
// 1. data items that were asked for with AddItems,
// 2. loop tables that were asked for with AddTable, as lists of strings,
// 3. always, the _atom_site table, which goes into an AtomTable.

type bSlice []byte // byte slice
type stSlice []string

// Table is a loop we were asked to keep, with the category removed
// from the names.
type Table struct {
	Names []string  // table headings
	Vals  []stSlice // each entry is one row of values
}

type stringhash map[string]string
type tablehash map[string]Table

// Data is what comes back from a Reader.
type Data struct {
	Items  stringhash // Data items to keep
	Tables tablehash  // Tables we keep
	atoms  *AtomTable // nil until an _atom_site loop is seen
	block  string     // name from the data_ line
}

// AtomTable returns the _atom_site table, or a MissingCategoryError if
// the file did not have one.
func (md *Data) AtomTable() (*AtomTable, error) {
	if md.atoms == nil {
		return nil, &MissingCategoryError{Category: AtomSiteCategory}
	}
	return md.atoms, nil
}

// Block is the data block name, without the "data_".
func (md *Data) Block() string { return md.block }

// Reader stores instructions for reading, not results.
type Reader struct {
	cmmtScanner
	dataToKeep   map[string]bool
	tablesToKeep map[string]bool
	headers      []bSlice
	scrtchBytes  [][]byte
}

// NewReader returns an object to read mmcif files. The caller decides
// if it is a file, compressed file, http source, whatever.
func NewReader(r io.Reader) *Reader {
	if r == nil {
		return nil
	}
	return &Reader{
		cmmtScanner:  newCmmtScanner(r, '#'),
		dataToKeep:   make(map[string]bool),
		tablesToKeep: make(map[string]bool),
		scrtchBytes:  make([][]byte, 25),
	}
}

// AddItems adds data items, like _entry.id, that we will keep.
func (mr *Reader) AddItems(s []string) {
	for _, a := range s {
		mr.dataToKeep[a] = true
	}
}

// AddTable tells us that if we see a loop whose first entry starts with
// one of these words, like "_chem_comp.", we keep the table.
func (mr *Reader) AddTable(s []string) {
	for _, a := range s {
		mr.tablesToKeep[a] = true
	}
}

// cmmtScanner is a wrapper around bufio.Scanner that will ignore
// comment lines and blank lines.
// It also counts newlines in scanner.n, so we can print out the line
// number in error messages.
type cmmtScanner struct {
	*bufio.Scanner           // standard library scanner
	lErr           readError // fill this out as soon as an error happens
	ctoken         []byte    // Store the bytes that will be returned by cbytes()
	n              int       // line number in the mmcif file
	cmmt           byte      // Comment character
	Ok             bool      // Are we OK or have we had an error ?
}

const maxLine = 1024 * 1024 // some _struct items are long

func newCmmtScanner(r io.Reader, cmmt byte) cmmtScanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLine)
	return cmmtScanner{
		Scanner: s,
		cmmt:    cmmt,
		Ok:      true,
	}
}

// cscan is a wrapper around the library Scan(). It adds a newline counter
// for error messages. It jumps over blank lines and lines starting
// with a comment character. Comment characters are only recognised as the
// first character, since they are legitimate elsewhere in the text.
// On EOF it returns true, but with ctoken set to nil.
func (s *cmmtScanner) cscan() (ok bool) {
	var b []byte
	if !s.Ok { // We have already had an error, but nobody has noticed.
		s.ctoken = nil
		s.fill("pre-existing error missed. Small bug ?", false)
		return false
	}
	ok = true
	for len(b) == 0 && ok {
		if ok = s.Scan(); ok {
			s.n++
		} else {
			s.ctoken = nil
			if s.Err() != nil {
				s.fill(s.Err().Error(), true) // This is a real error
				return false
			}
			return true // No error, just EOF
		}
		b = s.Bytes()
		if len(b) == 0 {
			continue
		}
		if b[0] == s.cmmt {
			b = nil
		}
	}
	s.ctoken = b
	return ok
}

// cbytes returns the current line. It does not advance the scanner.
func (s *cmmtScanner) cbytes() []byte {
	return s.ctoken
}

// stateFn is the type of state function. It returns the next
// state function that should act on its input.
type stateFn func(*Reader, *Data) stateFn

// stateData reads the data_xxxx line
func stateData(mr *Reader, md *Data) stateFn {
	if md.block == "" {
		md.block = string(bytes.TrimSpace(mr.cbytes()[len("data_"):]))
	}
	if !mr.cscan() {
		return nil
	}
	return stateTop
}

// stateUnknown should be reached if we are confused and do not know
// what to do. It is an error and we should stop
func stateUnknown(mr *Reader, _ *Data) stateFn {
	mr.fill("In Unknown state", true)
	return nil
}

// stateLoopHdr gets the headers from a loop directive and decides if
// the table is the atom table, one we keep, or one we skip.
func stateLoopHdr(mr *Reader, _ *Data) stateFn {
	if len(mr.headers) != 0 {
		mr.fill("probable bug, headers slice not empty", false)
		return nil
	}
	for ok := true; ok && len(mr.cbytes()) > 0 && mr.cbytes()[0] == '_'; ok = mr.cscan() {
		s := make([]byte, len(mr.cbytes()))
		copy(s, mr.cbytes())
		mr.headers = append(mr.headers, bytes.TrimRight(s, " \t"))
	}
	if !mr.Ok {
		return nil
	}
	if len(mr.headers) < 1 {
		mr.fill("no contents found while reading loop headers", true)
		return nil
	}

	kword := bytes.SplitAfter(mr.headers[0], []byte{'.'})
	if string(kword[0]) == AtomSiteCategory+"." {
		return stateAtomTable
	}
	if _, ok := mr.tablesToKeep[string(kword[0])]; ok {
		return stateLoopTable
	}
	mr.headers = mr.headers[:0]
	return stateSkipLoopTable
}

// isSpecial returns true if the input is not simply more of a table.
// Usually this means there is a new directive coming. End of input
// counts as special too.
// We used to stop if we saw "data", but this is sometimes present in tables
func isSpecial(inline []byte) bool {
	switch {
	case inline == nil:
		return true
	case bytes.HasPrefix(inline, []byte("_")):
		return true
	case bytes.HasPrefix(inline, []byte("loop_")):
		return true
	default:
		return false
	}
}

// stateLoopTable reads a table we were asked to keep.
func stateLoopTable(mr *Reader, md *Data) stateFn {
	const notSplit string = "Could not split string at dot: "
	dots := []byte{'.'}
	ncol := len(mr.headers)
	var table Table
	var tblName string
	{
		t := bytes.SplitAfterN(mr.headers[0], dots, 2)
		if len(t) < 2 {
			mr.fill(notSplit+string(mr.headers[0]), true)
			return nil
		}
		s := string(t[0])
		tblName = s[0 : len(s)-1]
	}
	table.Names = make([]string, 0, len(mr.headers))

	for _, word := range mr.headers { // given _atom_type.foo, save foo
		t := bytes.SplitAfterN(word, dots, 2)
		if len(t) < 2 {
			mr.fill(notSplit+string(word), true)
			return nil
		}
		table.Names = append(table.Names, string(t[1]))
	}
	mr.headers = mr.headers[:0]
	for b, ok := getNpieces(mr, ncol); len(b) == ncol && ok; {
		table.Vals = append(table.Vals, b)
		b, ok = getNpieces(mr, ncol)
	}
	md.Tables[tblName] = table
	return stateTop
}

const lineSiz = 92 // A line from PDB is 88 bytes long
const slSiz = 50   // From benchmarking the old coordinate reader

// newLineBuf creates the slice of lines (byte slices) that are
// filled and sent to atomSite().
func newLineBuf() interface{} {
	var tmp [slSiz * lineSiz]byte
	var x [slSiz]bSlice
	for i, start, end := 0, 0, lineSiz; i < slSiz; i++ {
		x[i] = tmp[start:end:end]
		start = end
		end += lineSiz
	}
	return x[:]
}

// stateAtomTable is like stateLoopTable, but it is the biggest table
// and the one we always want.
// We read lines into a slice of lines. When we have enough, we
// push the slice into the channel. atomSite() turns them into columns.
// In the meantime, we continue reading the file.
func stateAtomTable(mr *Reader, md *Data) stateFn {
	if md.atoms != nil {
		mr.fill("second "+AtomSiteCategory+" table in file", true)
		return nil
	}
	c := make(chan []bSlice, 3) // buffer size 3 came from benchmarking
	rChan := make(chan *atomResult)
	var bufPool = sync.Pool{
		New: newLineBuf,
	}

	{
		headers := make([]bSlice, len(mr.headers))
		for i, h := range mr.headers {
			headers[i] = append(bSlice(nil), h...)
		}
		go atomSite(headers, c, rChan, &bufPool)
	}
	mr.headers = mr.headers[:0]

	i := 0
	lines := bufPool.Get().([]bSlice)
	for t := mr.cbytes(); !isSpecial(t); t = mr.cbytes() {
		if len(t) > cap(lines[i]) { // only if a line is longer than usual
			lines[i] = make([]byte, len(t))
		}
		lines[i] = lines[i][:len(t)]
		copy(lines[i], t)

		if i == (slSiz - 1) {
			i = 0
			c <- lines
			lines = bufPool.Get().([]bSlice)
		} else {
			i++
		}
		if !mr.cscan() {
			break
		}
	}
	if i > 0 { // Push any leftover lines down the channel
		c <- lines[0:i]
	}
	close(c)
	res := <-rChan
	if res.err != nil {
		mr.fillErr(res.err, false)
		return nil
	}
	if !mr.Ok {
		return nil
	}
	md.atoms = res.table
	return stateTop
}

// stateSkipLoopTable reads lines from a table, but does not
// save them anywhere. Most of the tables we encounter are not
// to be saved.
func stateSkipLoopTable(mr *Reader, _ *Data) stateFn {
	foundSomething := false
	for ; !isSpecial(mr.cbytes()); mr.cscan() {
		foundSomething = true
	}
	if !foundSomething {
		mr.fill("empty table", true)
		return nil
	}
	return stateTop
}

// stateLoop jumps over the loop_ line to the headers.
func stateLoop(mr *Reader, _ *Data) stateFn {
	if !mr.cscan() {
		return nil
	}
	return stateLoopHdr
}

// stateDItem gets a data item. This is often on one line, but
// if there is no value on the line, it is on the following lines.
func stateDItem(mr *Reader, md *Data) stateFn {
	var value string
	t, err := splitCifLine(mr.cbytes(), mr.scrtchBytes)

	if err != nil {
		mr.fill(err.Error(), true)
		return nil
	}

	itemName := string(t[0])
	switch {
	case len(t) == 2:
		value = string(t[1])
		if !mr.cscan() {
			mr.fill("looking for data item", true)
			return nil
		}
	case len(t) == 1:
		const msg string = "data split on two lines"
		if !mr.cscan() || mr.cbytes() == nil {
			mr.fill(msg, true)
			return nil
		}
		bIn := mr.cbytes()
		if bIn[0] == ';' {
			var ok bool
			tmp := string(bIn[1:])
			for ok = mr.cscan(); len(mr.cbytes()) > 0 && ok; ok = mr.cscan() {
				if mr.cbytes()[0] == ';' {
					break
				}
				tmp = tmp + string(mr.cbytes())
			}
			if !ok || mr.cbytes() == nil {
				mr.fill(msg, true)
				return nil
			}
			value = tmp
		} else {
			u, err := splitCifLine(bIn, mr.scrtchBytes)
			if err != nil || len(u) != 1 {
				mr.fill(msg, true)
				return nil
			}
			value = string(u[0])
		}
		mr.cscan() // If an error occurs, the next function will pick it up
	default:
		mr.fill(fmt.Sprintf("%d values for data item %s", len(t)-1, itemName), true)
		return nil
	}

	if mr.dataToKeep[itemName] {
		md.Items[itemName] = value
	}
	return stateTop
}

// stateTop looks at the current line and decides what state to
// jump to next.
func stateTop(mr *Reader, _ *Data) stateFn {
	b := mr.cbytes() // Does not advance scanner
	if !mr.Ok {
		return nil
	}
	switch {
	case b == nil:
		return nil
	case bytes.HasPrefix(b, []byte("loop_")):
		return stateLoop
	case bytes.HasPrefix(b, []byte("data_")):
		return stateData
	case bytes.HasPrefix(b, []byte("_")):
		return stateDItem
	default:
		return stateUnknown
	}
}

// getNpieces asks the scanner for lines and returns N items
// as a slice of strings. We have to use new strings, since
// calls to scan() will update the underlying buffer.
func getNpieces(mr *Reader, npiece int) (ret []string, ok bool) {
	for ok = true; len(ret) < npiece && ok; ok = mr.cscan() {
		bIn := mr.cbytes()
		if isSpecial(bIn) {
			return nil, ok
		}
		if bIn[0] == ';' {
			tmp := string(bIn[1:])
			for ok = mr.cscan(); ok; ok = mr.cscan() {
				x := mr.cbytes()
				if len(x) < 1 || x[0] == ';' {
					break
				}
				tmp = tmp + string(x)
			}
			ret = append(ret, tmp)
			if !ok {
				mr.fill("getNpieces", true)
				return nil, false
			}
			continue
		}
		var t [][]byte
		if !hasQuote(bIn) {
			t = bytes.Fields(bIn)
		} else {
			var err error
			if t, err = splitCifLine(bIn, mr.scrtchBytes); err != nil {
				mr.fill(err.Error(), true)
				return nil, false
			}
		}
		for _, u := range t {
			ret = append(ret, string(u))
		}
	}
	return
}

// DoFile parses the file.
func (mr *Reader) DoFile() (*Data, error) {
	if mr == nil {
		return nil, errors.New("Start of file, nil mmcif Reader")
	}
	if !mr.cscan() {
		return nil, mr.lErr
	}
	if mr.n == 0 {
		mr.fill("zero length file", false)
		return nil, mr.lErr
	}
	md := &Data{
		Items:  make(stringhash),
		Tables: make(tablehash),
	}
	for state := stateTop; (state != nil) && mr.Ok; {
		state = state(mr, md)
	}
	if !mr.Ok {
		return nil, mr.lErr
	}
	return md, nil
}

// ReadAtoms is the short way to get the atom table from a reader.
func ReadAtoms(r io.Reader) (*AtomTable, error) {
	md, err := NewReader(r).DoFile()
	if err != nil {
		return nil, err
	}
	return md.AtomTable()
}
