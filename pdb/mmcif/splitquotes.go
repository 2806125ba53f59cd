// Splitting lines at spaces and quotes, and the opposite, deciding
// when a value has to be quoted so it survives being split again.

/* from https://www.iucr.org/resources/cif/spec/version1.1/cifsyntax
               character or string role
_ (underscore) identifies data name
#              identifies comment
$              identifies save frame pointer
'              delimits non-simple data values
"              delimits non-simple data values
[              reserved opening delimiter for non-simple data values (see paragraph 19)
]              reserved closing delimiter for non-simple data values (see paragraph 19)
; at beginning of line of text delimits non-simple data values
data_          identifies data block header (case-insensitive)
save_          identifies save frame header or terminator (case-insensitive)
*/

package mmcif

import (
	"errors"
	"strings"
)

// fields breaks a line into its space separated words. Unlike the
// library version, it fills out a slice given by the caller. If the
// slice is not big enough, fields will be lost, so callers who care
// give it one more slot than they expect to use.
// Atom lines are the bulk of every file, so this does not allocate.
func fields(s bSlice, scrtch []bSlice) []bSlice {
	var i, istart, iwrd int

	for i = 0; i < len(s); i++ { // leading spaces
		if !iswhite(s[i]) {
			break
		}
	}

	if i == len(s) || (cap(scrtch) == 0) {
		return nil
	}
	scrtch = scrtch[:cap(scrtch)]
	istart = i
	for {
		for { //                   in a word
			if iswhite(s[i]) {
				scrtch[iwrd] = s[istart:i]
				iwrd++
				if iwrd == cap(scrtch) {
					return scrtch[0:iwrd]
				}
				break
			}
			i++
			if i == len(s) {
				scrtch[iwrd] = s[istart:i]
				return scrtch[0 : iwrd+1]
			}
		}
		for i++; ; i++ { //        in spaces
			if i == len(s) {
				return scrtch[0:iwrd]
			}
			if !iswhite(s[i]) {
				break
			}
		}
		istart = i
	}
}

// iswhite only works for ascii spaces
var asciiSpace = [256]bool{
	'\t': true, '\n': true, '\v': true, '\f': true, '\r': true, ' ': true,
}

func iswhite(b byte) bool {
	return asciiSpace[b]
}

// isquote checks for a quote character and remembers which one, so
// we can look for the matching closing quote.
func isquote(b byte, qtype *byte) bool {
	if b == squote || b == dquote {
		*qtype = b
		return true
	}
	return false
}

// hasQuote is true if the line needs splitCifLine rather than fields.
func hasQuote(b bSlice) bool {
	for _, c := range b {
		if c == dquote || c == squote {
			return true
		}
	}
	return false
}

type sInfo struct { // Holds the state of the state functions
	err     error
	ret     [][]byte // This is what we will really return
	byteIn  []byte
	nxtIndx int
	qtype   byte // type of quote
}
type sfn func(i int, c byte, s *sInfo) sfn // state function

func sfnInQuote(i int, c byte, sInfo *sInfo) sfn {
	if c == sInfo.qtype {
		return sfnExitQuote
	}
	if c == '\n' {
		sInfo.err = errors.New("unterminated quote line: " + string(sInfo.byteIn))
		return sfnWhite
	}
	return sfnInQuote
}

// sfnExitQuote. A quote only closes a value if white space follows.
func sfnExitQuote(i int, c byte, sInfo *sInfo) sfn {
	if iswhite(c) {
		t := sInfo.byteIn[sInfo.nxtIndx : i-1]
		sInfo.ret = append(sInfo.ret, t)
		return sfnWhite
	}
	return sfnInQuote
}

func sfnInText(i int, c byte, sInfo *sInfo) sfn {
	if iswhite(c) {
		t := sInfo.byteIn[sInfo.nxtIndx:i]
		sInfo.ret = append(sInfo.ret, t)
		return sfnWhite
	}
	return sfnInText
}

func sfnWhite(i int, c byte, sInfo *sInfo) sfn {
	switch {
	case iswhite(c):
		return sfnWhite
	case isquote(c, &sInfo.qtype):
		sInfo.nxtIndx = i + 1
		return sfnInQuote
	default:
		sInfo.nxtIndx = i
		return sfnInText
	}
}

// splitCifLine returns the words of a line, separated by spaces and
// matching quotes. Quotes around a word are removed.
// When we leave text, or a quote followed by a space, we save the word.
func splitCifLine(byteIn []byte, retIn [][]byte) ([][]byte, error) {
	if len(byteIn) < 1 {
		return nil, nil
	}

	var sInfo = sInfo{ret: retIn[:0], byteIn: byteIn}

	state := sfnWhite
	for i, c := range byteIn {
		state = state(i, c, &sInfo)
	}
	state(len(byteIn), '\n', &sInfo) // end with newline, catches unterminated quotes
	if sInfo.err != nil {
		return nil, sInfo.err
	}
	return sInfo.ret, nil
}

// reserved words may not start an unquoted value
var reserved = []string{"data_", "loop_", "save_", "global_", "stop_"}

// quoteValue returns s in a form that splitCifLine gives back unchanged.
// Most values (numbers, atom names, ATOM, ., ?) are returned as they are.
// A value cannot be written if it contains both kinds of quote followed
// by white space, so ok is false for that.
func quoteValue(s string) (q string, ok bool) {
	if s == "" {
		return "''", true
	}
	plain := true
	switch s[0] {
	case '_', '#', '$', ';', '[', ']', squote, dquote:
		plain = false
	}
	for i := 0; plain && i < len(s); i++ {
		if iswhite(s[i]) {
			plain = false
		}
	}
	if plain {
		ls := strings.ToLower(s)
		for _, w := range reserved {
			if strings.HasPrefix(ls, w) {
				plain = false
			}
		}
	}
	if plain {
		return s, true
	}
	for _, qc := range []byte{squote, dquote} {
		if canQuote(s, qc) {
			return string(qc) + s + string(qc), true
		}
	}
	return s, false
}

// canQuote says if s can be wrapped in qc. Inside, a qc may appear, but
// not followed by white space, since that would end the value.
func canQuote(s string, qc byte) bool {
	if strings.ContainsAny(s, "\n\r") {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] == qc && (i == len(s)-1 || iswhite(s[i+1])) {
			return false
		}
	}
	return true
}
