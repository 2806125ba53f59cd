// Package pdb covers reading PDB coordinates and fetching them.
// Go to a pdb website and download coordinates.
// There are three sites. Some serve gzipped files, some do not. A file
// that cannot be had from one site is tried at the next.
package pdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andrew-torda/ligprep/pdb/zwrap"
	"github.com/andrew-torda/ligprep/pkg/diag"
)

// Site is where structures can be fetched from. The url is
// Base + id + Suffix.
type Site struct {
	Base    string
	Suffix  string
	Gzipped bool
}

// DefaultSites are tried in this order.
var DefaultSites = []Site{
	{"https://files.rcsb.org/download/", ".cif.gz", true},
	{"https://www.ebi.ac.uk/pdbe/entry-files/download/", ".cif", false},
	{"https://ftp.pdbj.org/pub/pdb/data/structures/divided/mmCIF/", ".cif.gz", true},
}

// DefaultTimeout is for one request to one site.
const DefaultTimeout = 60 * time.Second

// Fetcher downloads mmcif files. The zero value uses http.DefaultClient,
// DefaultSites and DefaultTimeout.
type Fetcher struct {
	Client  *http.Client
	Sites   []Site
	Timeout time.Duration
	Log     *log.Logger // progress, may be nil
}

func (f *Fetcher) client() *http.Client {
	if f.Client == nil {
		return http.DefaultClient
	}
	return f.Client
}

func (f *Fetcher) sites() []Site {
	if len(f.Sites) == 0 {
		return DefaultSites
	}
	return f.Sites
}

func (f *Fetcher) printf(format string, v ...interface{}) {
	if f.Log != nil {
		f.Log.Printf(format, v...)
	}
}

// CifName is where the file for a pdb id lives in a directory.
func CifName(dir, id string) string {
	return filepath.Join(dir, id+".cif")
}

// checkID wants a four character pdb code.
func checkID(id string) error {
	if len(id) != 4 {
		return fmt.Errorf("acq code should be four char, not %q", id)
	}
	for _, c := range id {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return fmt.Errorf("bad character in acq code %q", id)
		}
	}
	return nil
}

// getSite goes to one site and returns a reader of the uncompressed file.
// The caller must call both the returned cancel function and Close.
func (f *Fetcher) getSite(ctx context.Context, id string, site Site) (io.ReadCloser, context.CancelFunc, error) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	url := site.Base + strings.ToLower(id) + site.Suffix
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	resp, err := f.client().Do(req)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, nil, fmt.Errorf("wanted %s using %s, got %s", id, url, resp.Status)
	}
	wrap := zwrap.WrapMaybe // some sites compress without saying so
	if site.Gzipped {
		wrap = zwrap.Wrap
	}
	rdr, err := wrap(resp.Body)
	if err != nil {
		resp.Body.Close()
		cancel()
		return nil, nil, fmt.Errorf("%s: %w", url, err)
	}
	return rdr, cancel, nil
}

// saveSite copies the file from one site into place. The file only gets
// its final name once it is complete.
func (f *Fetcher) saveSite(ctx context.Context, id, dir string, site Site) error {
	rdr, cancel, err := f.getSite(ctx, id, site)
	if err != nil {
		return err
	}
	defer cancel()
	defer rdr.Close()

	tmp, err := os.CreateTemp(dir, id+".*.part")
	if err != nil {
		return err
	}
	n, err := io.Copy(tmp, rdr)
	if e2 := tmp.Close(); err == nil {
		err = e2
	}
	if err == nil && n == 0 {
		err = errors.New("empty file from " + site.Base)
	}
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), CifName(dir, id))
}

// Fetch gets one structure into dir, trying each site in turn.
func (f *Fetcher) Fetch(ctx context.Context, id, dir string) error {
	if err := checkID(id); err != nil {
		return err
	}
	var errs []error
	for _, site := range f.sites() {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := f.saveSite(ctx, id, dir, site)
		if err == nil {
			return nil
		}
		f.printf("%s: %v", id, err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Download fetches every id into dir, skipping any that are already
// there. Failures go to sink as "<id>: <reason>" and do not stop the
// others. It returns the number of files downloaded.
func (f *Fetcher) Download(ctx context.Context, ids []string, dir string, sink diag.Sink) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(ids))
	n := 0
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := os.Stat(CifName(dir, id)); err == nil {
			f.printf("%s already exists. Skipping download.", CifName(dir, id))
			continue
		}
		if err := f.Fetch(ctx, id, dir); err != nil {
			if ctx.Err() != nil {
				return n, ctx.Err()
			}
			sink.Record(id, err.Error())
			continue
		}
		n++
	}
	f.printf("%d PDBs downloaded successfully.", n)
	return n, nil
}
