/*
 * snapshot.go, part of gopack
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
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	pack "github.com/rmera/gopack"
	"github.com/rmera/gopack/top"
)

// Version is the version of the binary format written by this package.
const Version int32 = 1

var (
	// ErrIO is wrapped by errors coming from the underlying writer or file.
	ErrIO = errors.New("snapshot I/O failure")
	// ErrInvalid is wrapped by errors caused by an inconsistent System.
	ErrInvalid = errors.New("invalid system")
)

// IntegratorVariables holds the state an integration method needs to restart,
// e.g. the thermostat variables of a Nosé-Hoover NVT integrator.
type IntegratorVariables struct {
	Type   string
	Values []float64
}

// NVTVariables returns the variables of a Nosé-Hoover NVT integrator.
func NVTVariables(xi, eta float64) IntegratorVariables {
	return IntegratorVariables{Type: "nvt", Values: []float64{xi, eta}}
}

// Wall is a flat wall, given by a point on it and its normal.
type Wall struct {
	Origin [3]float64
	Normal [3]float64
}

// System is everything a snapshot contains.
type System struct {
	Box                 pack.Box
	Arrays              *pack.ParticleArrays
	TypeNames           []string //indexed by type id
	IntegratorVariables []IntegratorVariables
	Topology            *top.Topology //can be nil
	Walls               []Wall
}

type topologer interface {
	Topology() (*top.Topology, error)
}

// FromInitializer builds a System with the particles of init. If init can also
// give a bonded topology (as *pack.RandomGenerator does), it is included.
func FromInitializer(init pack.Initializer) (*System, error) {
	A := pack.NewParticleArrays(init.NumParticles())
	if err := init.InitArrays(A); err != nil {
		return nil, errDecorate(err, "FromInitializer")
	}
	S := &System{Box: init.Box(), Arrays: A, TypeNames: init.TypeMapping()}
	if t, ok := init.(topologer); ok {
		T, err := t.Topology()
		if err != nil {
			return nil, errDecorate(err, "FromInitializer")
		}
		S.Topology = T
	}
	return S, nil
}

// check returns an error if S can't be written.
func (S *System) check() error {
	if S == nil || S.Arrays == nil {
		return &Error{"no particle arrays", "", []string{"check"}, true, ErrInvalid}
	}
	A := S.Arrays
	n := A.Len()
	for _, l := range []int{len(A.Y), len(A.Z), len(A.VX), len(A.VY), len(A.VZ), len(A.Mass),
		len(A.Diameter), len(A.IX), len(A.IY), len(A.IZ), len(A.Type), len(A.RTag)} {
		if l != n {
			return &Error{"particle arrays of different lengths", "", []string{"check"}, true, ErrInvalid}
		}
	}
	for j, i := range A.RTag {
		if i < 0 || i >= n {
			return &Error{fmt.Sprintf("rtag %d points to %d, out of range", j, i), "", []string{"check"}, true, ErrInvalid}
		}
		if t := A.Type[i]; t < 0 || t >= len(S.TypeNames) {
			return &Error{fmt.Sprintf("particle %d has type id %d, but there are %d type names", i, t, len(S.TypeNames)), "", []string{"check"}, true, ErrInvalid}
		}
	}
	return nil
}

// Option modifies the way snapshots are written.
type Option func(*options)

type options struct {
	double      bool
	compression string
}

// WithDouble makes the writer use 8-byte scalars.
func WithDouble() Option {
	return func(o *options) { o.double = true }
}

// WithCompression sets the compression used by a Writer: "zst", "gz", or "" for none.
// It has no effect on Write.
func WithCompression(c string) Option {
	return func(o *options) { o.compression = c }
}

// encoder writes the little-endian fields of a snapshot. The first write error is
// kept and every later write is skipped.
type encoder struct {
	w      *bufio.Writer
	double bool
	buf    [8]byte
	err    error
}

func (e *encoder) write(b []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(b)
}

func (e *encoder) u32(v uint32) {
	binary.LittleEndian.PutUint32(e.buf[:4], v)
	e.write(e.buf[:4])
}

func (e *encoder) i32(v int32) {
	e.u32(uint32(v))
}

func (e *encoder) scalar(v float64) {
	if e.double {
		binary.LittleEndian.PutUint64(e.buf[:8], math.Float64bits(v))
		e.write(e.buf[:8])
		return
	}
	binary.LittleEndian.PutUint32(e.buf[:4], math.Float32bits(float32(v)))
	e.write(e.buf[:4])
}

func (e *encoder) str(s string) {
	e.u32(uint32(len(s)))
	if e.err != nil {
		return
	}
	_, e.err = e.w.WriteString(s)
}

func (e *encoder) indexes(idx ...int) {
	for _, v := range idx {
		e.u32(uint32(v))
	}
}

// Write writes S to w as a snapshot taken at timestep. It stops at the first
// failed write. Whatever was written by then is not a valid snapshot.
func Write(w io.Writer, S *System, timestep uint32, opts ...Option) error {
	if err := S.check(); err != nil {
		return errDecorate(err, "Write")
	}
	o := new(options)
	for _, f := range opts {
		f(o)
	}
	e := &encoder{w: bufio.NewWriter(w), double: o.double}
	A := S.Arrays
	n := uint32(A.Len())
	e.i32(Version)
	e.u32(timestep)
	for _, l := range S.Box.L() {
		e.scalar(l)
	}
	e.u32(n)
	for _, i := range A.RTag {
		e.scalar(A.X[i])
		e.scalar(A.Y[i])
		e.scalar(A.Z[i])
	}
	e.u32(n)
	for _, i := range A.RTag {
		e.i32(int32(A.IX[i]))
		e.i32(int32(A.IY[i]))
		e.i32(int32(A.IZ[i]))
	}
	e.u32(n)
	for _, i := range A.RTag {
		e.scalar(A.VX[i])
		e.scalar(A.VY[i])
		e.scalar(A.VZ[i])
	}
	e.u32(n)
	for _, i := range A.RTag {
		e.scalar(A.Mass[i])
	}
	e.u32(n)
	for _, i := range A.RTag {
		e.scalar(A.Diameter[i])
	}
	e.u32(n)
	for _, i := range A.RTag {
		e.str(S.TypeNames[A.Type[i]])
	}
	e.u32(uint32(len(S.IntegratorVariables)))
	for _, v := range S.IntegratorVariables {
		e.str(v.Type)
		e.u32(uint32(len(v.Values)))
		for _, x := range v.Values {
			e.scalar(x)
		}
	}
	T := S.Topology
	if T == nil {
		T = top.New(nil)
	}
	e.u32(uint32(len(T.Bonds)))
	for _, b := range T.Bonds {
		e.str(b.Type)
		e.indexes(b.A, b.B)
	}
	e.u32(uint32(len(T.Angles)))
	for _, a := range T.Angles {
		e.str(a.Type)
		e.indexes(a.A, a.B, a.C)
	}
	for _, d := range [][]top.Dihedral{T.Dihedrals, T.Impropers} {
		e.u32(uint32(len(d)))
		for _, v := range d {
			e.str(v.Type)
			e.indexes(v.A, v.B, v.C, v.D)
		}
	}
	e.u32(uint32(len(S.Walls)))
	for _, wall := range S.Walls {
		for _, x := range wall.Origin {
			e.scalar(x)
		}
		for _, x := range wall.Normal {
			e.scalar(x)
		}
	}
	if e.err == nil {
		e.err = e.w.Flush()
	}
	if e.err != nil {
		return &Error{e.err.Error(), "", []string{"Write"}, true, ErrIO}
	}
	return nil
}

//Errors

// Error is the error type of the package.
type Error struct {
	message  string
	filename string //the file being written, if any
	deco     []string
	critical bool
	kind     error
}

func (err *Error) Error() string {
	if err.filename == "" {
		return fmt.Sprintf("goPack/snapshot: %s: %s", err.kind, err.message)
	}
	return fmt.Sprintf("goPack/snapshot: %s: %s: %s", err.filename, err.kind, err.message)
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

// FileName returns the name of the file being written when the error happened.
func (err *Error) FileName() string { return err.filename }

func (err *Error) Unwrap() error { return err.kind }

// errDecorate adds caller to the decoration of err if it is a goPack error.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if d, ok := err.(pack.Decorator); ok {
		d.Decorate(caller)
	}
	return err
}
