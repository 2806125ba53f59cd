// Package zwrap opens structure files and optionally wraps them so reads
// come through a gzip decompressor. Upon calling Close, the decompressor
// is closed, then the mapping and the underlying file.
// Files are memory mapped read-only. Streams (http bodies) are peeked
// instead, since they cannot seek.

package zwrap

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
)

var gzMagic = []byte{0x1f, 0x8b}

type Rdr struct { // This is what we return.
	src  io.Reader    // plain bytes, before any decompression
	zrdr *gzip.Reader // nil if the source is not compressed
	mm   mmap.MMap    // nil unless we mapped a file
	fp   io.Closer
}

// Close closes the decompressor, the mapping, then the backing file
// or stream. All errors are collected.
func (r *Rdr) Close() error {
	var errs []error
	if r.zrdr != nil {
		errs = append(errs, r.zrdr.Close())
	}
	if r.mm != nil {
		errs = append(errs, r.mm.Unmap())
	}
	if r.fp != nil {
		errs = append(errs, r.fp.Close())
	}
	return errors.Join(errs...)
}

// Read makes sure we read from the compressed stream and
// not the underlying bytes.
func (r *Rdr) Read(p []byte) (int, error) {
	if r.zrdr != nil {
		return r.zrdr.Read(p)
	}
	return r.src.Read(p)
}

// Compressed says if we are reading through gzip.
func (r *Rdr) Compressed() bool { return r.zrdr != nil }

// Wrap takes a source which must be gzipped, like an http body from a
// site that serves .gz files.
func Wrap(rc io.ReadCloser) (*Rdr, error) {
	zrdr, err := gzip.NewReader(rc)
	if err != nil {
		return nil, err
	}
	return &Rdr{src: rc, zrdr: zrdr, fp: rc}, nil
}

// WrapMaybe peeks at the first bytes of a stream and only puts a
// decompressor in front of it if it starts with the gzip magic number.
func WrapMaybe(rc io.ReadCloser) (*Rdr, error) {
	br := bufio.NewReader(rc)
	head, _ := br.Peek(len(gzMagic)) // short streams are just not compressed
	r := &Rdr{src: br, fp: rc}
	if bytes.Equal(head, gzMagic) {
		var err error
		if r.zrdr, err = gzip.NewReader(br); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Open maps a file and returns a reader over its contents, which will
// be decompressed if necessary. Directories, devices and the like are
// refused, since mapping them makes no sense.
func Open(fname string) (*Rdr, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	fi, err := fp.Stat()
	if err != nil {
		fp.Close()
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		fp.Close()
		return nil, fmt.Errorf("%s: not a regular file", fname)
	}
	r := &Rdr{fp: fp}
	if fi.Size() == 0 { // cannot map zero bytes
		r.src = bytes.NewReader(nil)
		return r, nil
	}
	if r.mm, err = mmap.Map(fp, mmap.RDONLY, 0); err != nil {
		fp.Close()
		return nil, err
	}
	r.src = bytes.NewReader(r.mm)
	if bytes.HasPrefix(r.mm, gzMagic) {
		if r.zrdr, err = gzip.NewReader(r.src); err != nil {
			r.Close()
			return nil, fmt.Errorf("%s: %w", fname, err)
		}
	}
	return r, nil
}
