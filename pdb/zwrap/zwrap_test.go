// Test Zwrap
package zwrap_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/andrew-torda/ligprep/pdb/zwrap"
)

// both of these are "andrewsays", but the first is compressed. Write them to a file
// and check that the file opener does the right thing.
type gztest struct {
	data    []byte
	gzipped bool
}

var gztests = []gztest{
	{[]byte{
		0x1f, 0x8b, 0x08, 0x00, 0xb6, 0xf1, 0xa0, 0x5b, 0x00, 0x03,
		0x4b, 0xcc, 0x4b, 0x29, 0x4a, 0x2d, 0x2f, 0x4e, 0xac, 0x2c,
		0xce, 0x48, 0xcd, 0xc9, 0xc9, 0x07, 0x00, 0x44, 0xa8, 0x66,
		0x89, 0x0f, 0x00, 0x00, 0x00},
		true,
	},
	{[]byte{
		0x61, 0x6e, 0x64, 0x72, 0x65, 0x77, 0x73, 0x61,
		0x79, 0x73, 0x68, 0x65, 0x6c, 0x6c, 0x6f, 0x0a},
		false,
	},
}

// writeToTmp writes a byte slice to a file in a test directory and
// returns the name.
func writeToTmp(t *testing.T, data []byte) string {
	fname := filepath.Join(t.TempDir(), "del_me_testing")
	if err := os.WriteFile(fname, data, 0o644); err != nil {
		t.Fatal("fail writing to tempfile", err)
	}
	return fname
}

func TestOpen(t *testing.T) {
	for _, x := range gztests {
		fname := writeToTmp(t, x.data)
		r, err := zwrap.Open(fname)
		if err != nil {
			t.Fatalf("Fail on file where compressed was %v: %v", x.gzipped, err)
		}
		if r.Compressed() != x.gzipped {
			t.Errorf("compressed should be %v", x.gzipped)
		}
		b, err := io.ReadAll(r)
		if err != nil {
			t.Error(err)
		}
		if string(b[:10]) != "andrewsays" {
			t.Errorf("wrong string: %s", b[:10])
		}
		if err := r.Close(); err != nil {
			t.Errorf("Error closing: %s", err)
		}
	}
}

func TestOpenEmpty(t *testing.T) {
	r, err := zwrap.Open(writeToTmp(t, nil))
	if err != nil {
		t.Fatal("zero length file should open", err)
	}
	b, err := io.ReadAll(r)
	if err != nil || len(b) != 0 {
		t.Errorf("got %d bytes, err %v", len(b), err)
	}
	r.Close()
}

func TestOpenBroken(t *testing.T) {
	for _, s := range []string{t.TempDir(), "/does/not/exist"} {
		if r, err := zwrap.Open(s); err == nil {
			r.Close()
			t.Error("expected error opening", s)
		}
	}
}

func TestWrapMaybe(t *testing.T) {
	for _, x := range gztests {
		r, err := zwrap.WrapMaybe(io.NopCloser(bytes.NewReader(x.data)))
		if err != nil {
			t.Fatalf("Fail on stream where compressed was %v", x.gzipped)
		}
		b, err := io.ReadAll(r)
		if err != nil {
			t.Error(err)
		}
		if string(b[:10]) != "andrewsays" {
			t.Errorf("wrong string: %s", b[:10])
		}
		r.Close()
	}
}

func TestWrap(t *testing.T) {
	for _, x := range gztests {
		_, err := zwrap.Wrap(io.NopCloser(bytes.NewReader(x.data)))
		if x.gzipped && err != nil {
			t.Error("Fail on correctly gzipped data", err)
		}
		if !x.gzipped && err == nil {
			t.Error("Fail on not compressed data")
		}
	}
}
