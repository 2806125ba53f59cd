package diag_test

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrew-torda/ligprep/pkg/diag"
)

func TestLine(t *testing.T) {
	assert.Equal(t, "1abc: no file\n", diag.Line("1abc", "no file"))
	assert.Equal(t, "1abc: Line: 3 bad thing\n",
		diag.Line("1abc", "Line: 3 bad\r\nthing\n"))
}

// Records from two runs are both kept, and concurrent records are not
// mixed up.
func TestAppend(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "errors.log")
	for run := 0; run < 2; run++ {
		l, err := diag.Open(fname)
		require.NoError(t, err)
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				l.Record(fmt.Sprintf("%04d", i), "some problem")
			}(i)
		}
		wg.Wait()
		assert.Equal(t, 20, l.N())
		require.NoError(t, l.Close())
	}
	b, err := os.ReadFile(fname)
	require.NoError(t, err)
	assert.Len(t, b, 40*len("0000: some problem\n"))
}

func TestOpenFails(t *testing.T) {
	_, err := diag.Open(filepath.Join(t.TempDir(), "no", "such", "dir"))
	assert.Error(t, err)
}

func TestCapture(t *testing.T) {
	var c diag.Capture
	var s diag.Sink = &c
	s.Record("2xyz", "ligand ABC not found")
	diag.Discard.Record("x", "y")
	assert.Equal(t, []string{"2xyz: ligand ABC not found"}, c.Lines())
}
