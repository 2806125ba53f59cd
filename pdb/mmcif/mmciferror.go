// Errors from reading.
// readError saves the line number and the line we were trying to read.
// The key is to call xxxx.fill() where xxxx is the name of the comment
// scanner/mmcif reader. The two typed errors below are what callers
// look for with errors.As. A readError wraps them, so the line
// information is not lost.
package mmcif

import (
	"strconv"
)

const maxMsgLen = 70

// MissingCategoryError says a category we need, like _atom_site, was
// not in the file at all.
type MissingCategoryError struct {
	Category string
}

func (e *MissingCategoryError) Error() string {
	return "no " + e.Category + " category in file"
}

// MalformedTableError says a table could not be turned into columns of
// equal length. Row counts from 1 and is 0 if the headers are the problem.
type MalformedTableError struct {
	Row    int
	Field  string
	Reason string
}

func (e *MalformedTableError) Error() string {
	msg := "malformed " + AtomSiteCategory + " table"
	if e.Row > 0 {
		msg += ", row " + strconv.Itoa(e.Row)
	}
	if e.Field != "" {
		msg += ", column " + e.Field
	}
	return msg + ": " + e.Reason
}

type readError struct {
	n      int    // line number
	inline string // The line that provoked the error
	desc   string // Description of error
	cause  error  // typed error, if there was one
}

// fill stores the problem we have seen for printing out when it is
// convenient. If we are already in an error state, the old description
// is kept in front of the new one.
func (m *cmmtScanner) fill(desc string, saveLine bool) {
	const multErrStr string = "\nNew error, but there was already an error from line "
	if !m.Ok {
		ln := strconv.FormatInt(int64(m.n), 10) // line num
		desc = m.lErr.desc + multErrStr + ln + ":\n" + desc + "\n"
	}
	m.Ok = false
	if saveLine {
		m.lErr.n = m.n
	}
	m.lErr.inline = string(m.cbytes()) // Saves current line in scanner m
	m.lErr.desc = desc
}

// fillErr is fill for an error we want callers to be able to unwrap.
func (m *cmmtScanner) fillErr(err error, saveLine bool) {
	m.fill(err.Error(), saveLine)
	if m.lErr.cause == nil {
		m.lErr.cause = err
	}
}

func firstPart(s string) string {
	l := len(s)
	if l > maxMsgLen {
		l = maxMsgLen
	}
	return s[:l]
}

// Error gives the number of the last line read and the description.
func (e readError) Error() string {
	var errmsg string
	if e.n != 0 {
		errmsg = "Line: " + strconv.FormatInt(int64(e.n), 10) + " "
	}
	errmsg += e.desc
	if e.n != 0 && e.inline != "" {
		errmsg += "\nLine starting with\n" + firstPart(e.inline)
	}
	return errmsg
}

func (e readError) Unwrap() error { return e.cause }
