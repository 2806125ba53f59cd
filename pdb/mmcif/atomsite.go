// Package mmcif. This file is for parsing atom_site lines into the
// columns of an AtomTable.
package mmcif

import (
	"strconv"
	"sync"
)

// atomResult is what atomSite sends back when the channel is closed.
type atomResult struct {
	table *AtomTable
	err   error
}

// sliceAfterASite takes a header like _atom_site.Cartn_x and returns
// Cartn_x.
func sliceAfterASite(s bSlice) bSlice {
	const slen = len(AtomSiteCategory) + 1
	if len(s) < slen {
		return nil
	}
	return s[slen:]
}

// colPositions finds where each column we want is in the file. The pdb
// always uses the same order, but we do not rely on it. Columns are
// looked for by exact name.
func colPositions(headers []bSlice) (pos [NCol]int, err error) {
	where := make(map[string]int, len(headers))
	for i, h := range headers {
		name := string(sliceAfterASite(h))
		if _, dup := where[name]; dup {
			return pos, &MalformedTableError{Field: name, Reason: "column appears twice"}
		}
		where[name] = i
	}
	for c := Col(0); c < NCol; c++ {
		i, ok := where[c.String()]
		if !ok {
			return pos, &MalformedTableError{Field: c.String(), Reason: "missing column"}
		}
		pos[c] = i
	}
	return pos, nil
}

// chanWrap wraps the channel and hands out one line at a time.
type chanWrap struct {
	c       chan []bSlice
	cs      []bSlice   // The slice of byte slices with our lines
	bufPool *sync.Pool // Pool created in the caller and shared here
	ndx     int
}

// linechan returns the next line from the channel which has slices of
// lines, or nil when the channel is closed.
func (cw *chanWrap) linechan() bSlice {
	for cw.ndx == len(cw.cs) { // refill
		if cw.cs != nil {
			cw.bufPool.Put(cw.cs[:cap(cw.cs)])
		}
		var ok bool
		if cw.cs, ok = <-cw.c; !ok {
			cw.cs = nil
			cw.ndx = 0
			return nil
		}
		cw.ndx = 0
	}
	cw.ndx++
	return cw.cs[cw.ndx-1]
}

// lineSplitter turns one line into its pieces, using the fast fields()
// unless there are quotes.
type lineSplitter struct {
	scrtch []bSlice
	qbuf   [][]byte
}

func newLineSplitter(ncol int) *lineSplitter {
	return &lineSplitter{
		scrtch: make([]bSlice, ncol+1), // one extra so we can see too many
		qbuf:   make([][]byte, 0, ncol+1),
	}
}

func (ls *lineSplitter) split(s bSlice) ([]bSlice, error) {
	if !hasQuote(s) {
		return fields(s, ls.scrtch), nil
	}
	t, err := splitCifLine(s, ls.qbuf)
	if err != nil {
		return nil, err
	}
	ret := ls.scrtch[:0]
	for _, u := range t {
		ret = append(ret, u)
	}
	return ret, nil
}

// fillTable reads every line from the channel and appends the values we
// want to the columns. Each value is copied, since the line buffers go
// back to the pool.
func fillTable(cw *chanWrap, headers []bSlice) (*AtomTable, error) {
	pos, err := colPositions(headers)
	if err != nil {
		return nil, err
	}
	ncol := len(headers)
	ls := newLineSplitter(ncol)
	t := new(AtomTable)
	for c := range t.cols {
		t.cols[c] = make([]string, 0, 256)
	}
	nrow := 0
	for s := cw.linechan(); s != nil; s = cw.linechan() {
		nrow++
		cmpnt, err := ls.split(s)
		if err != nil {
			return nil, &MalformedTableError{Row: nrow, Reason: err.Error()}
		}
		if len(cmpnt) != ncol {
			return nil, &MalformedTableError{Row: nrow,
				Reason: "found " + strconv.Itoa(len(cmpnt)) + " values for " +
					strconv.Itoa(ncol) + " columns"}
		}
		for c := Col(0); c < NCol; c++ {
			t.cols[c] = append(t.cols[c], string(cmpnt[pos[c]]))
		}
	}
	return t, nil
}

// drain discards anything in the channel
func drain(c chan []bSlice) {
	for range c {
	}
}

// atomSite reads lines of input from the channel, a slice of them at a
// time, and sends one result back on rChan when the channel is closed.
func atomSite(headers []bSlice, c chan []bSlice, rChan chan<- *atomResult,
	bufPool *sync.Pool) {
	cw := &chanWrap{c: c, bufPool: bufPool}
	t, err := fillTable(cw, headers)
	drain(c) // only has something left after an error
	rChan <- &atomResult{table: t, err: err}
}
