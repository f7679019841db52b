/*
 * confio.go, part of gopack
 *
 * Copyright 2024 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package confio exports generated configurations as XYZ, JSON or MessagePack files.
package confio

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	pack "github.com/rmera/gopack"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrFormat is wrapped by errors caused by an unknown file format or bad file contents.
var ErrFormat = errors.New("unknown or malformed configuration file")

// Particle is a ready-to-serialize container for a particle.
type Particle struct {
	Type  string     `json:"type" msgpack:"type"`
	Pos   [3]float64 `json:"pos" msgpack:"pos"`
	Image [3]int     `json:"image" msgpack:"image"`
}

// Bond is a ready-to-serialize container for a bond.
type Bond struct {
	Type string `json:"type" msgpack:"type"`
	A    int    `json:"a" msgpack:"a"`
	B    int    `json:"b" msgpack:"b"`
}

// Configuration is a generated configuration, ready to be serialized.
type Configuration struct {
	RunID     string     `json:"run_id,omitempty" msgpack:"run_id,omitempty"`
	Seed      uint64     `json:"seed" msgpack:"seed"`
	Lo        [3]float64 `json:"lo" msgpack:"lo"`
	Hi        [3]float64 `json:"hi" msgpack:"hi"`
	Types     []string   `json:"types" msgpack:"types"`
	Particles []Particle `json:"particles" msgpack:"particles"`
	Bonds     []Bond     `json:"bonds,omitempty" msgpack:"bonds,omitempty"`
}

// Box returns the simulation box of the configuration.
func (C *Configuration) Box() pack.Box {
	return pack.Box{Lo: C.Lo, Hi: C.Hi}
}

// FromGenerator copies the configuration generated by R. runID can be empty.
func FromGenerator(R *pack.RandomGenerator, runID string) (*Configuration, error) {
	T, err := R.Topology()
	if err != nil {
		return nil, &Error{err.Error(), "", []string{"FromGenerator"}, true, err}
	}
	box := R.Box()
	C := &Configuration{RunID: runID, Seed: R.Seed(), Lo: box.Lo, Hi: box.Hi, Types: R.TypeMapping()}
	for _, p := range R.Particles() {
		C.Particles = append(C.Particles, Particle{Type: p.Type, Pos: p.Pos, Image: p.Image})
	}
	for _, b := range T.Bonds {
		C.Bonds = append(C.Bonds, Bond{Type: b.Type, A: b.A, B: b.B})
	}
	return C, nil
}

// WriteXYZ writes C in XYZ format, with the type names as element symbols. If unwrap
// is true, the image flags are applied, so chains are written in one piece.
func WriteXYZ(w io.Writer, C *Configuration, unwrap bool) error {
	out := bufio.NewWriter(w)
	l := C.Box().L()
	fmt.Fprintf(out, "%-4d\n", len(C.Particles))
	fmt.Fprintf(out, "box %.6f %.6f %.6f seed %d\n", l[0], l[1], l[2], C.Seed)
	for _, p := range C.Particles {
		c := p.Pos
		if unwrap {
			for k := range c {
				c[k] += float64(p.Image[k]) * l[k]
			}
		}
		fmt.Fprintf(out, "%-2s  %12.6f%12.6f%12.6f \n", p.Type, c[0], c[1], c[2])
	}
	if err := out.Flush(); err != nil {
		return &Error{err.Error(), "", []string{"WriteXYZ"}, true, nil}
	}
	return nil
}

// WriteJSON writes C as indented JSON.
func WriteJSON(w io.Writer, C *Configuration) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(C); err != nil {
		return &Error{err.Error(), "", []string{"json.Encode", "WriteJSON"}, true, nil}
	}
	return nil
}

// ReadJSON reads a configuration written by WriteJSON.
func ReadJSON(r io.Reader) (*Configuration, error) {
	C := new(Configuration)
	if err := json.NewDecoder(r).Decode(C); err != nil {
		return nil, &Error{err.Error(), "", []string{"json.Decode", "ReadJSON"}, true, ErrFormat}
	}
	return C, nil
}

// WriteMsgpack writes C in MessagePack format.
func WriteMsgpack(w io.Writer, C *Configuration) error {
	if err := msgpack.NewEncoder(w).Encode(C); err != nil {
		return &Error{err.Error(), "", []string{"msgpack.Encode", "WriteMsgpack"}, true, nil}
	}
	return nil
}

// ReadMsgpack reads a configuration written by WriteMsgpack.
func ReadMsgpack(r io.Reader) (*Configuration, error) {
	C := new(Configuration)
	if err := msgpack.NewDecoder(r).Decode(C); err != nil {
		return nil, &Error{err.Error(), "", []string{"msgpack.Decode", "ReadMsgpack"}, true, ErrFormat}
	}
	return C, nil
}

// WriteFile writes C to the file name, in the format given by its extension:
// .xyz (wrapped coordinates), .json, or .msgpack/.mpk. If the file exists it will be overwritten.
func WriteFile(name string, C *Configuration) error {
	var write func(io.Writer, *Configuration) error
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xyz":
		write = func(w io.Writer, C *Configuration) error { return WriteXYZ(w, C, false) }
	case ".json":
		write = WriteJSON
	case ".msgpack", ".mpk":
		write = WriteMsgpack
	default:
		return &Error{"can't tell the format from the extension", name, []string{"WriteFile"}, true, ErrFormat}
	}
	out, err := os.Create(name)
	if err != nil {
		return &Error{err.Error(), name, []string{"os.Create", "WriteFile"}, true, err}
	}
	defer out.Close()
	if err := write(out, C); err != nil {
		return errDecorate(err, "WriteFile")
	}
	if err := out.Close(); err != nil {
		return &Error{err.Error(), name, []string{"Close", "WriteFile"}, true, err}
	}
	return nil
}

// ReadFile reads a JSON or MessagePack file written by WriteFile.
func ReadFile(name string) (*Configuration, error) {
	var read func(io.Reader) (*Configuration, error)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		read = ReadJSON
	case ".msgpack", ".mpk":
		read = ReadMsgpack
	default:
		return nil, &Error{"can't tell the format from the extension", name, []string{"ReadFile"}, true, ErrFormat}
	}
	in, err := os.Open(name)
	if err != nil {
		return nil, &Error{err.Error(), name, []string{"os.Open", "ReadFile"}, true, err}
	}
	defer in.Close()
	C, err := read(bufio.NewReader(in))
	if err != nil {
		return nil, errDecorate(err, "ReadFile")
	}
	return C, nil
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
		return fmt.Sprintf("goPack/confio: %s", err.message)
	}
	return fmt.Sprintf("goPack/confio: %s: %s", err.filename, err.message)
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
