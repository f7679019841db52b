/*
 * dcd.go, part of gopack
 *
 * Copyright 2021 Raul Mera Adasme <rmera_changeforat_chem-dot-helsinki-dot-fi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License  as published by
 * the Free Software Foundation; either version 2.1 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program; if not, write to the Free Software
 * Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston,
 * MA 02110-1301, USA.
 *
 */

// Package dcd writes and reads CHARMM/NAMD DCD trajectories with a periodic
// unit cell in every frame. gopack uses it to store ensembles of configurations
// of the same system, one configuration per frame, so they can be inspected
// with VMD and similar programs.
package dcd

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	pack "github.com/rmera/gopack"
	v3 "github.com/rmera/gopack/v3"
)

// ErrFormat is wrapped by the errors caused by files that are not DCD
// trajectories of the kind written by this package.
var ErrFormat = errors.New("not a supported DCD file")

const (
	titleLen  = 80
	nTitle    = 2
	headerLen = 84
	cellLen   = 48
	version   = 24
	//offset of the frame count, which is rewritten after every frame.
	framesOffset = 8
)

var endian = binary.LittleEndian

// Writer writes a DCD trajectory. DCD needs the number of frames at the beginning
// of the file, so the destination must be seekable.
type Writer struct {
	w        io.WriteSeeker
	f        *os.File //only if the Writer created the file
	filename string
	natoms   int32
	frames   int32
	buf      []byte
}

// Create creates (or truncates) the file name and returns a Writer for a
// trajectory of natoms particles. The title is cut to 160 bytes.
func Create(name string, natoms int, title string) (*Writer, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, &Error{err.Error(), name, []string{"os.Create", "Create"}, true, err}
	}
	W, err := NewWriter(f, natoms, title)
	if err != nil {
		f.Close()
		return nil, errDecorate(err, "Create")
	}
	W.f = f
	W.filename = name
	return W, nil
}

// NewWriter writes the DCD header to w and returns a Writer for natoms particles.
func NewWriter(w io.WriteSeeker, natoms int, title string) (*Writer, error) {
	if natoms < 1 || natoms > math.MaxInt32 {
		return nil, &Error{fmt.Sprintf("can't write a trajectory of %d particles", natoms), "", []string{"NewWriter"}, true, nil}
	}
	W := &Writer{w: w, natoms: int32(natoms)}
	b := make([]byte, 0, 512)
	b = endian.AppendUint32(b, headerLen)
	b = append(b, "CORD"...)
	b = endian.AppendUint32(b, 0) //frames
	b = endian.AppendUint32(b, 0) //first step
	b = endian.AppendUint32(b, 1) //steps between frames
	for i := 0; i < 6; i++ {
		b = endian.AppendUint32(b, 0)
	}
	b = endian.AppendUint32(b, math.Float32bits(1)) //time step
	b = endian.AppendUint32(b, 1)                   //unit cell in every frame
	for i := 0; i < 8; i++ {
		b = endian.AppendUint32(b, 0)
	}
	b = endian.AppendUint32(b, version)
	b = endian.AppendUint32(b, headerLen)

	tl := uint32(4 + nTitle*titleLen)
	b = endian.AppendUint32(b, tl)
	b = endian.AppendUint32(b, nTitle)
	t := make([]byte, nTitle*titleLen)
	for i := range t {
		t[i] = ' '
	}
	copy(t, title)
	b = append(b, t...)
	b = endian.AppendUint32(b, tl)

	b = endian.AppendUint32(b, 4)
	b = endian.AppendUint32(b, uint32(natoms))
	b = endian.AppendUint32(b, 4)
	if _, err := w.Write(b); err != nil {
		return nil, &Error{err.Error(), "", []string{"Write", "NewWriter"}, true, err}
	}
	return W, nil
}

// Frames returns the number of frames written so far.
func (W *Writer) Frames() int { return int(W.frames) }

// WNext writes the next frame, with the coordinates coords, in the box box.
// Coordinates are stored in single precision.
func (W *Writer) WNext(coords *v3.Matrix, box pack.Box) error {
	if coords == nil {
		return &Error{"got nil coordinates", W.filename, []string{"WNext"}, true, nil}
	}
	n := int(W.natoms)
	if coords.NVecs() != n {
		return &Error{fmt.Sprintf("%d coordinates for a trajectory of %d particles", coords.NVecs(), n), W.filename, []string{"WNext"}, true, nil}
	}
	l := box.L()
	b := W.buf[:0]
	b = endian.AppendUint32(b, cellLen)
	//CHARMM order: a, gamma, b, beta, alpha, c
	for _, v := range []float64{l[0], 90, l[1], 90, 90, l[2]} {
		b = endian.AppendUint64(b, math.Float64bits(v))
	}
	b = endian.AppendUint32(b, cellLen)
	bs := uint32(4 * n)
	for k := 0; k < 3; k++ {
		b = endian.AppendUint32(b, bs)
		for i := 0; i < n; i++ {
			b = endian.AppendUint32(b, math.Float32bits(float32(coords.At(i, k))))
		}
		b = endian.AppendUint32(b, bs)
	}
	W.buf = b
	if _, err := W.w.Write(b); err != nil {
		return &Error{err.Error(), W.filename, []string{"Write", "WNext"}, true, err}
	}
	W.frames++
	return W.updateFrames()
}

// updateFrames rewrites the frame count at the beginning of the file and goes
// back to the end.
func (W *Writer) updateFrames() error {
	cur, err := W.w.Seek(0, io.SeekCurrent)
	if err != nil {
		return &Error{err.Error(), W.filename, []string{"Seek", "updateFrames"}, true, err}
	}
	if _, err := W.w.Seek(framesOffset, io.SeekStart); err != nil {
		return &Error{err.Error(), W.filename, []string{"Seek", "updateFrames"}, true, err}
	}
	if err := binary.Write(W.w, endian, W.frames); err != nil {
		return &Error{err.Error(), W.filename, []string{"binary.Write", "updateFrames"}, true, err}
	}
	if _, err := W.w.Seek(cur, io.SeekStart); err != nil {
		return &Error{err.Error(), W.filename, []string{"Seek", "updateFrames"}, true, err}
	}
	return nil
}

// Close closes the file, if the Writer was obtained with Create.
func (W *Writer) Close() error {
	if W.f == nil {
		return nil
	}
	err := W.f.Close()
	W.f = nil
	if err != nil {
		return &Error{err.Error(), W.filename, []string{"Close"}, true, err}
	}
	return nil
}

// Reader reads trajectories written by Writer.
type Reader struct {
	r      io.Reader
	natoms int
	frames int
	cell   bool
	title  string
	block  []float32
}

// NewReader reads the DCD header from r.
func NewReader(r io.Reader) (*Reader, error) {
	bad := func(msg string) error {
		return &Error{msg, "", []string{"NewReader"}, true, ErrFormat}
	}
	h := make([]byte, 4+headerLen+4)
	if _, err := io.ReadFull(r, h); err != nil {
		return nil, &Error{err.Error(), "", []string{"io.ReadFull", "NewReader"}, true, ErrFormat}
	}
	if endian.Uint32(h) != headerLen || string(h[4:8]) != "CORD" || endian.Uint32(h[4+headerLen:]) != headerLen {
		return nil, bad("bad DCD header")
	}
	R := &Reader{r: r}
	R.frames = int(int32(endian.Uint32(h[framesOffset:])))
	//the unit cell flag is the 11th control integer
	R.cell = endian.Uint32(h[8+10*4:]) != 0
	var tl int32
	if err := binary.Read(r, endian, &tl); err != nil || tl < 4 {
		return nil, bad("bad title block")
	}
	t := make([]byte, tl+4)
	if _, err := io.ReadFull(r, t); err != nil || int32(endian.Uint32(t[tl:])) != tl {
		return nil, bad("bad title block")
	}
	R.title = string(t[4:tl])
	var na [3]int32
	if err := binary.Read(r, endian, &na); err != nil || na[0] != 4 || na[2] != 4 || na[1] < 1 {
		return nil, bad("bad particle count block")
	}
	R.natoms = int(na[1])
	R.block = make([]float32, R.natoms)
	return R, nil
}

// Len returns the number of particles in each frame.
func (R *Reader) Len() int { return R.natoms }

// Frames returns the number of frames declared in the header.
func (R *Reader) Frames() int { return R.frames }

// Title returns the title of the trajectory, with trailing blanks.
func (R *Reader) Title() string { return R.title }

// Next reads the next frame into coords, which must have Len() vectors, and returns
// the edges of the unit cell. It returns io.EOF after the last frame. If coords is nil,
// the frame is read and discarded.
func (R *Reader) Next(coords *v3.Matrix) ([3]float64, error) {
	var l [3]float64
	if coords != nil && coords.NVecs() != R.natoms {
		return l, &Error{fmt.Sprintf("%d vectors given for %d particles", coords.NVecs(), R.natoms), "", []string{"Next"}, true, nil}
	}
	if R.cell {
		var c struct {
			Pre  int32
			Cell [6]float64
			Post int32
		}
		if err := binary.Read(R.r, endian, &c); err != nil {
			if errors.Is(err, io.EOF) {
				return l, io.EOF
			}
			return l, &Error{err.Error(), "", []string{"binary.Read", "Next"}, true, ErrFormat}
		}
		if c.Pre != cellLen || c.Post != cellLen {
			return l, &Error{"bad unit cell block", "", []string{"Next"}, true, ErrFormat}
		}
		l = [3]float64{c.Cell[0], c.Cell[2], c.Cell[5]}
	}
	for k := 0; k < 3; k++ {
		var pre, post int32
		err := binary.Read(R.r, endian, &pre)
		if err == nil {
			err = binary.Read(R.r, endian, R.block)
		}
		if err == nil {
			err = binary.Read(R.r, endian, &post)
		}
		if err != nil {
			if k == 0 && !R.cell && errors.Is(err, io.EOF) {
				return l, io.EOF
			}
			return l, &Error{err.Error(), "", []string{"binary.Read", "Next"}, true, ErrFormat}
		}
		if int(pre) != 4*R.natoms || post != pre {
			return l, &Error{"bad coordinate block", "", []string{"Next"}, true, ErrFormat}
		}
		if coords == nil {
			continue
		}
		for i, v := range R.block {
			coords.Set(i, k, float64(v))
		}
	}
	return l, nil
}

//Errors

// Error is the error type of the package.
type Error struct {
	message  string
	filename string
	deco     []string
	critical bool
	wrapped  error
}

func (err *Error) Error() string {
	if err.filename == "" {
		return fmt.Sprintf("goPack/dcd: %s", err.message)
	}
	return fmt.Sprintf("goPack/dcd: %s: %s", err.filename, err.message)
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice.
func (err *Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

func (err *Error) Critical() bool { return err.critical }

// FileName returns the name of the file involved in the error, if any.
func (err *Error) FileName() string { return err.filename }

func (err *Error) Unwrap() error { return err.wrapped }

func errDecorate(err error, caller string) error {
	if d, ok := err.(pack.Decorator); ok {
		d.Decorate(caller)
	}
	return err
}
