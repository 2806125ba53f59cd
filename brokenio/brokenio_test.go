package brokenio_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/andrew-torda/ligprep/brokenio"
)

var longstring = "0123456789012345678901234567890123456789"

func TestFailing(t *testing.T) {
	for _, limit := range []int64{0, 1, 10, 39} {
		r := brokenio.NewFailing(io.NopCloser(strings.NewReader(longstring)), limit)
		b, err := io.ReadAll(r)
		if !errors.Is(err, brokenio.ErrBroken) {
			t.Errorf("limit %d: wanted ErrBroken, got %v", limit, err)
		}
		if int64(len(b)) != limit {
			t.Errorf("limit %d: got %d bytes", limit, len(b))
		}
		if string(b) != longstring[:limit] {
			t.Errorf("limit %d: data changed to %q", limit, b)
		}
	}
}

func TestTruncating(t *testing.T) {
	r := brokenio.NewTruncating(io.NopCloser(strings.NewReader(longstring)), 12)
	b, err := io.ReadAll(r) // ReadAll swallows io.EOF
	if err != nil {
		t.Fatal("truncating reader should look like a short file", err)
	}
	if string(b) != longstring[:12] {
		t.Errorf("got %q", b)
	}
	if err := r.Close(); err != nil {
		t.Error(err)
	}
	if !r.Closed() {
		t.Error("close not passed through")
	}
}

// A limit past the end of the data changes nothing.
func TestBigLimit(t *testing.T) {
	r := brokenio.NewFailing(io.NopCloser(strings.NewReader(longstring)), 1000)
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != longstring {
		t.Errorf("got %q", b)
	}
}
