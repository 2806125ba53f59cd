// brokenio is a wrapper around an io.ReadCloser which breaks at a chosen
// point. We use it in tests to check that a structure file that dies
// half way through a download or a read gives an error and not a
// half filled table.
// There are two ways to break. Fail returns an error once the limit is
// reached. Truncate returns a clean io.EOF, which is what a short file
// looks like.

package brokenio

import (
	"errors"
	"fmt"
	"io"
)

// ErrBroken is returned by a reader in Fail mode.
var ErrBroken = errors.New("brokenio: artificial read failure")

type mode byte

const (
	modeFail mode = iota
	modeTruncate
)

// BrknRdrClsr passes through the first limit bytes of the wrapped reader.
type BrknRdrClsr struct {
	rdrOrig io.ReadCloser
	limit   int64
	nByte   int64
	nCalled int
	mode    mode
	closed  bool
}

// NewFailing returns a reader that gives limit bytes and then ErrBroken.
func NewFailing(rIn io.ReadCloser, limit int64) *BrknRdrClsr {
	return &BrknRdrClsr{rdrOrig: rIn, limit: limit, mode: modeFail}
}

// NewTruncating returns a reader that gives limit bytes and then io.EOF.
func NewTruncating(rIn io.ReadCloser, limit int64) *BrknRdrClsr {
	return &BrknRdrClsr{rdrOrig: rIn, limit: limit, mode: modeTruncate}
}

// Read passes data through until the limit, then breaks.
func (r *BrknRdrClsr) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	r.nCalled++
	left := r.limit - r.nByte
	if left <= 0 {
		if r.mode == modeTruncate {
			return 0, io.EOF
		}
		return 0, ErrBroken
	}
	if int64(len(p)) > left {
		p = p[:left]
	}
	n, err = r.rdrOrig.Read(p)
	r.nByte += int64(n)
	return n, err
}

// Close wraps the original Close method.
func (r *BrknRdrClsr) Close() error {
	r.closed = true
	return r.rdrOrig.Close()
}

// Closed says if Close has been called.
func (r *BrknRdrClsr) Closed() bool { return r.closed }

// String is for test messages.
func (r *BrknRdrClsr) String() string {
	return fmt.Sprintf("brokenio: %d bytes in %d calls, limit %d", r.nByte, r.nCalled, r.limit)
}
