// Package diag is the diagnostic log. Every entry that could not be
// processed, or gave nothing, gets one line "<pdb id>: <detail>".
// The file is only ever appended to, so several runs can share it.
package diag

import (
	"io"
	"os"
	"strings"
	"sync"
)

// Sink takes one record per problem. Implementations must be safe for
// use from more than one goroutine.
type Sink interface {
	Record(id, detail string)
}

// Line formats a record. Newlines in detail are flattened so one record
// is always one line.
func Line(id, detail string) string {
	detail = strings.TrimSpace(detail)
	detail = strings.ReplaceAll(detail, "\r", "")
	detail = strings.ReplaceAll(detail, "\n", " ")
	return id + ": " + detail + "\n"
}

// Log writes records to a file or other writer.
type Log struct {
	mu  sync.Mutex
	w   io.Writer
	c   io.Closer // nil if we did not open it
	n   int
	err error // first write error
}

// Open appends to the named file, creating it if needed.
func Open(fname string) (*Log, error) {
	fp, err := os.OpenFile(fname, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &Log{w: fp, c: fp}, nil
}

// NewLog writes records to w, which the caller closes.
func NewLog(w io.Writer) *Log { return &Log{w: w} }

// Record appends one line. A failed write is remembered and returned
// by Close, but does not stop the run.
func (l *Log) Record(id, detail string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := io.WriteString(l.w, Line(id, detail)); err != nil && l.err == nil {
		l.err = err
	}
	l.n++
}

// N is the number of records written so far.
func (l *Log) N() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.n
}

// Close closes the file if we opened it and reports the first write error.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.c != nil {
		if err := l.c.Close(); err != nil && l.err == nil {
			l.err = err
		}
		l.c = nil
	}
	return l.err
}

// Capture keeps records in memory. Tests use it.
type Capture struct {
	mu    sync.Mutex
	lines []string
}

func (c *Capture) Record(id, detail string) {
	c.mu.Lock()
	c.lines = append(c.lines, strings.TrimSuffix(Line(id, detail), "\n"))
	c.mu.Unlock()
}

// Lines returns a copy of the records, without newlines.
func (c *Capture) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}

type discard struct{}

func (discard) Record(string, string) {}

// Discard throws records away.
var Discard Sink = discard{}
