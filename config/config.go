/*
 * config.go, part of gopack
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

// Package config reads run descriptions, in TOML or YAML, and turns them into
// ready-to-use random configuration generators.
//
// A run description looks like this, in TOML:
//
//	seed = 42
//	[box]
//	l = [10.0]
//	[radii]
//	A = 0.5
//	[[generator]]
//	kind = "polymer"
//	repeat = 5
//	bond_length = 1.0
//	types = ["A", "A", "A"]
//	[output]
//	snapshot = "init"
//	compression = "zst"
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	pack "github.com/rmera/gopack"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ErrConfig is wrapped by every error returned by this package.
var ErrConfig = errors.New("invalid run description")

// DefaultMaxAttempts is the per-particle attempt limit used when a generator
// entry doesn't give one.
const DefaultMaxAttempts = 100

// Generator kinds.
const (
	Polymer = "polymer"
	Monomer = "monomer"
)

// BoxSpec gives the simulation box either as its corners, Lo and Hi, or as its
// edge lengths, L, with the box centered at the origin. L can have one element, for
// a cubic box, or three.
type BoxSpec struct {
	Lo []float64 `toml:"lo" yaml:"lo"`
	Hi []float64 `toml:"hi" yaml:"hi"`
	L  []float64 `toml:"l" yaml:"l"`
}

// GeneratorSpec describes one registration: a generator and the number of times
// it has to run.
type GeneratorSpec struct {
	Kind             string   `toml:"kind" yaml:"kind"`
	Repeat           int      `toml:"repeat" yaml:"repeat"`
	BondLength       float64  `toml:"bond_length" yaml:"bond_length"`
	Types            []string `toml:"types" yaml:"types"`
	MaxAttempts      int      `toml:"max_attempts" yaml:"max_attempts"`
	MaxTotalAttempts int      `toml:"max_total_attempts" yaml:"max_total_attempts"`
	BondType         string   `toml:"bond_type" yaml:"bond_type"`
}

// Output says where, and how, the generated configuration is written.
// Empty file names mean that format is not written.
type Output struct {
	Snapshot    string `toml:"snapshot" yaml:"snapshot"` //base name, the timestep and extension are appended
	Compression string `toml:"compression" yaml:"compression"`
	Double      bool   `toml:"double" yaml:"double"`
	Timestep    uint32 `toml:"timestep" yaml:"timestep"`
	Angles      bool   `toml:"angles" yaml:"angles"` //derive angles and dihedrals from the bonds
	XYZ         string `toml:"xyz" yaml:"xyz"`
	Unwrap      bool   `toml:"unwrap" yaml:"unwrap"`
	JSON        string `toml:"json" yaml:"json"`
	Msgpack     string `toml:"msgpack" yaml:"msgpack"`
}

// Run is a complete run description.
type Run struct {
	Seed       uint64             `toml:"seed" yaml:"seed"`
	Box        BoxSpec            `toml:"box" yaml:"box"`
	Radii      map[string]float64 `toml:"radii" yaml:"radii"`
	Generators []GeneratorSpec    `toml:"generator" yaml:"generator"`
	Output     Output             `toml:"output" yaml:"output"`
}

// Load reads the run description in the file name. The format is chosen from
// the extension: .toml, or .yaml/.yml. Environment variables in the output
// file names are expanded. The description is validated before returning.
func Load(name string) (*Run, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	f, err := os.Open(name)
	if err != nil {
		return nil, &Error{err.Error(), name, []string{"os.Open", "Load"}, true}
	}
	defer f.Close()
	R, err := Decode(f, format)
	if err != nil {
		if e, ok := err.(*Error); ok {
			e.filename = name
			e.Decorate("Load")
			return nil, e
		}
		return nil, err
	}
	expandEnv(reflect.ValueOf(&R.Output).Elem())
	if err := R.Validate(); err != nil {
		if e, ok := err.(*Error); ok {
			e.filename = name
			e.Decorate("Load")
			return nil, e
		}
		return nil, err
	}
	return R, nil
}

// Decode reads a run description in the given format ("toml", "yaml" or "yml")
// from r. Unknown keys are an error. The result is not validated.
func Decode(r io.Reader, format string) (*Run, error) {
	R := new(Run)
	switch strings.ToLower(format) {
	case "toml":
		md, err := toml.NewDecoder(r).Decode(R)
		if err != nil {
			return nil, &Error{err.Error(), "", []string{"toml.Decode", "Decode"}, true}
		}
		if und := md.Undecoded(); len(und) > 0 {
			keys := make([]string, 0, len(und))
			for _, k := range und {
				keys = append(keys, k.String())
			}
			return nil, &Error{fmt.Sprintf("unknown keys %s", strings.Join(keys, ", ")), "", []string{"Decode"}, true}
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(R); err != nil {
			return nil, &Error{err.Error(), "", []string{"yaml.Decode", "Decode"}, true}
		}
	default:
		return nil, &Error{fmt.Sprintf("unknown format %q", format), "", []string{"Decode"}, true}
	}
	return R, nil
}

// expandEnv expands the environment variables in the strings of v.
func expandEnv(v reflect.Value) {
	if !v.CanSet() {
		return
	}
	switch v.Kind() {
	case reflect.String:
		v.SetString(os.ExpandEnv(v.String()))
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			expandEnv(v.Field(i))
		}
	}
}

// BoxOf returns the simulation box described by R.
func (R *Run) BoxOf() (pack.Box, error) {
	b := R.Box
	var box pack.Box
	switch {
	case len(b.L) > 0:
		if len(b.Lo) > 0 || len(b.Hi) > 0 {
			return box, &Error{"give either the box edges or its corners, not both", "", []string{"BoxOf"}, true}
		}
		switch len(b.L) {
		case 1:
			box = pack.NewCubicBox(b.L[0])
		case 3:
			box = pack.NewBox(b.L[0], b.L[1], b.L[2])
		default:
			return box, &Error{fmt.Sprintf("box edges need 1 or 3 values, got %d", len(b.L)), "", []string{"BoxOf"}, true}
		}
	case len(b.Lo) == 3 && len(b.Hi) == 3:
		copy(box.Lo[:], b.Lo)
		copy(box.Hi[:], b.Hi)
	default:
		return box, &Error{"the box needs either l, or lo and hi with 3 values each", "", []string{"BoxOf"}, true}
	}
	if err := box.Check(); err != nil {
		return box, &Error{err.Error(), "", []string{"Box.Check", "BoxOf"}, true}
	}
	return box, nil
}

// Validate checks R for errors that can be found without building the generators.
func (R *Run) Validate() error {
	if _, err := R.BoxOf(); err != nil {
		return errDecorate(err, "Validate")
	}
	//in a fixed order.
	names := make([]string, 0, len(R.Radii))
	for k := range R.Radii {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if r := R.Radii[k]; r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return &Error{fmt.Sprintf("invalid radius %g for type %q", r, k), "", []string{"Validate"}, true}
		}
	}
	if len(R.Generators) == 0 {
		return &Error{"no generators", "", []string{"Validate"}, true}
	}
	for i, g := range R.Generators {
		if g.Repeat < 1 {
			return &Error{fmt.Sprintf("generator %d: repeat must be at least 1, got %d", i, g.Repeat), "", []string{"Validate"}, true}
		}
		if g.MaxAttempts < 0 {
			return &Error{fmt.Sprintf("generator %d: negative max_attempts", i), "", []string{"Validate"}, true}
		}
		switch g.Kind {
		case Polymer:
			if len(g.Types) == 0 {
				return &Error{fmt.Sprintf("generator %d: a polymer needs at least one bead type", i), "", []string{"Validate"}, true}
			}
		case Monomer:
			if len(g.Types) != 1 {
				return &Error{fmt.Sprintf("generator %d: a monomer needs exactly one type, got %d", i, len(g.Types)), "", []string{"Validate"}, true}
			}
			if g.BondLength != 0 || g.MaxTotalAttempts != 0 || g.BondType != "" {
				return &Error{fmt.Sprintf("generator %d: bond settings given for a monomer", i), "", []string{"Validate"}, true}
			}
		default:
			return &Error{fmt.Sprintf("generator %d: unknown kind %q", i, g.Kind), "", []string{"Validate"}, true}
		}
		for _, t := range g.Types {
			if _, ok := R.Radii[t]; !ok {
				return &Error{fmt.Sprintf("generator %d: no radius for type %q", i, t), "", []string{"Validate"}, true}
			}
		}
	}
	switch R.Output.Compression {
	case "", "zst", "gz":
	default:
		return &Error{fmt.Sprintf("unknown compression %q", R.Output.Compression), "", []string{"Validate"}, true}
	}
	return nil
}

func (g GeneratorSpec) build() (pack.Generator, error) {
	att := g.MaxAttempts
	if att == 0 {
		att = DefaultMaxAttempts
	}
	if g.Kind == Monomer {
		if len(g.Types) != 1 {
			return nil, fmt.Errorf("a monomer needs exactly one type, got %d", len(g.Types))
		}
		return pack.NewMonomerGenerator(g.Types[0], att)
	}
	opts := []pack.PolymerOption{pack.WithMaxTotalAttempts(g.MaxTotalAttempts)}
	if g.BondType != "" {
		opts = append(opts, pack.WithBondType(g.BondType))
	}
	return pack.NewPolymerGenerator(g.BondLength, g.Types, att, opts...)
}

// Build validates R and returns a RandomGenerator with R's box, radii and
// generators, and the given seed. Use R.Seed for the seed in the file. The
// configuration is not generated. A nil log means the logrus standard logger.
func (R *Run) Build(seed uint64, log logrus.FieldLogger) (*pack.RandomGenerator, error) {
	if err := R.Validate(); err != nil {
		return nil, errDecorate(err, "Build")
	}
	box, _ := R.BoxOf()
	G := pack.NewRandomGenerator(box, seed, pack.WithLogger(log))
	for k, r := range R.Radii {
		G.SetSeparationRadius(k, r)
	}
	for i, g := range R.Generators {
		gen, err := g.build()
		if err != nil {
			return nil, &Error{fmt.Sprintf("generator %d: %s", i, err), "", []string{"Build"}, true}
		}
		if err := G.AddGenerator(g.Repeat, gen); err != nil {
			return nil, &Error{fmt.Sprintf("generator %d: %s", i, err), "", []string{"AddGenerator", "Build"}, true}
		}
	}
	return G, nil
}

//Errors

// Error is the error type of the package. It always wraps ErrConfig.
type Error struct {
	message  string
	filename string
	deco     []string
	critical bool
}

func (err *Error) Error() string {
	if err.filename == "" {
		return fmt.Sprintf("goPack/config: %s: %s", ErrConfig, err.message)
	}
	return fmt.Sprintf("goPack/config: %s: %s: %s", err.filename, ErrConfig, err.message)
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

// FileName returns the name of the run description file, if known.
func (err *Error) FileName() string { return err.filename }

func (err *Error) Unwrap() error { return ErrConfig }

func errDecorate(err error, caller string) error {
	if d, ok := err.(pack.Decorator); ok {
		d.Decorate(caller)
	}
	return err
}
