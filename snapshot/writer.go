/*
 * writer.go, part of gopack
 *
 * Copyright 2024 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

package snapshot

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Writer writes one snapshot file per call to Analyze, named after a base name
// and the timestep.
type Writer struct {
	base string
	opts []Option
	o    options
}

// NewWriter returns a Writer for files called base.TTTTTTTTTT.bin, plus the
// compression extension, if any.
func NewWriter(base string, opts ...Option) (*Writer, error) {
	W := &Writer{base: base, opts: opts}
	for _, f := range opts {
		f(&W.o)
	}
	switch W.o.compression {
	case "", "zst", "gz":
	default:
		return nil, &Error{fmt.Sprintf("unknown compression %q", W.o.compression), "", []string{"NewWriter"}, true, ErrInvalid}
	}
	return W, nil
}

// FileName returns the name of the file written for timestep.
func (W *Writer) FileName(timestep uint32) string {
	name := fmt.Sprintf("%s.%010d.bin", W.base, timestep)
	if W.o.compression != "" {
		name += "." + W.o.compression
	}
	return name
}

func (W *Writer) compressor(w io.Writer) (io.WriteCloser, error) {
	switch W.o.compression {
	case "zst":
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	case "gz":
		return gzip.NewWriterLevel(w, gzip.BestCompression)
	}
	return nil, nil
}

// Analyze writes S, taken at timestep, to its own file, and returns the file name.
// An invalid S is rejected before the file is created. On a write failure the
// file is left as it is.
func (W *Writer) Analyze(S *System, timestep uint32) (string, error) {
	name := W.FileName(timestep)
	if err := S.check(); err != nil {
		return name, errDecorate(err, "Analyze")
	}
	f, err := os.Create(name)
	if err != nil {
		return name, &Error{err.Error(), name, []string{"os.Create", "Analyze"}, true, ErrIO}
	}
	defer f.Close()
	var out io.Writer = f
	c, err := W.compressor(f)
	if err != nil {
		return name, &Error{err.Error(), name, []string{"compressor", "Analyze"}, true, ErrIO}
	}
	if c != nil {
		out = c
	}
	if err := Write(out, S, timestep, W.opts...); err != nil {
		if c != nil {
			c.Close()
		}
		if e, ok := err.(*Error); ok {
			e.filename = name
		}
		return name, errDecorate(err, "Analyze")
	}
	if c != nil {
		if err := c.Close(); err != nil {
			return name, &Error{err.Error(), name, []string{"Close", "Analyze"}, true, ErrIO}
		}
	}
	if err := f.Close(); err != nil {
		return name, &Error{err.Error(), name, []string{"Close", "Analyze"}, true, ErrIO}
	}
	return name, nil
}
