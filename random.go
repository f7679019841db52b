/*
 * random.go, part of gopack
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

package pack

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/rmera/gopack/top"
	v3 "github.com/rmera/gopack/v3"
	"github.com/sirupsen/logrus"
)

type registration struct {
	gen    Generator
	repeat int
}

// RandomGenerator builds a random configuration out of the clusters produced by
// a sequence of registered generators. Registrations are run in the order they were
// added, each one as many times as requested, and every cluster gets the next free
// block of particle indexes.
//
// The configuration depends only on the box, the radii, the registrations and the
// seed, so a run can be reproduced exactly. A RandomGenerator is not safe for
// concurrent use, but independent RandomGenerators can run in parallel.
type RandomGenerator struct {
	box   Box
	seed  uint64
	radii map[string]float64
	regs  []registration
	log   logrus.FieldLogger

	generated bool
	particles []Particle
	typeNames []string
	clusters  []Cluster
}

// Option configures a RandomGenerator.
type Option func(*RandomGenerator)

// WithLogger sets the logger used by the generator. The default is the logrus
// standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(R *RandomGenerator) {
		if l != nil {
			R.log = l
		}
	}
}

// NewRandomGenerator returns a generator for configurations in box, drawing
// all its random numbers from a stream seeded with seed.
func NewRandomGenerator(box Box, seed uint64, opts ...Option) *RandomGenerator {
	R := &RandomGenerator{
		box:   box,
		seed:  seed,
		radii: make(map[string]float64),
		log:   logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(R)
	}
	return R
}

// SetSeparationRadius sets the separation radius for particles of type typ,
// replacing any previous value. Two particles overlap if they are closer than
// the sum of their radii.
func (R *RandomGenerator) SetSeparationRadius(typ string, r float64) {
	R.radii[typ] = r
}

// SeparationRadius returns the separation radius for typ, and whether one was set.
func (R *RandomGenerator) SeparationRadius(typ string) (float64, bool) {
	r, ok := R.radii[typ]
	return r, ok
}

// AddGenerator registers g, to be run repeat times on Generate.
func (R *RandomGenerator) AddGenerator(repeat int, g Generator) error {
	if g == nil {
		return newError(ErrPrecondition, "AddGenerator", "nil generator")
	}
	if repeat < 1 {
		return newError(ErrPrecondition, "AddGenerator", "repeat must be at least 1, got %d", repeat)
	}
	R.regs = append(R.regs, registration{gen: g, repeat: repeat})
	return nil
}

// Seed returns the seed of the random stream.
func (R *RandomGenerator) Seed() uint64 { return R.seed }

// Box returns the simulation box.
func (R *RandomGenerator) Box() Box { return R.box }

func describe(g Generator) string {
	if s, ok := g.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", g)
}

// check verifies everything Generate needs before any placement, and returns
// the total number of particles.
func (R *RandomGenerator) check() (int, error) {
	if err := R.box.Check(); err != nil {
		return 0, errDecorate(err, "Generate")
	}
	if len(R.regs) == 0 {
		return 0, newError(ErrPrecondition, "Generate", "no generators registered")
	}
	total := 0
	for i, r := range R.regs {
		n := r.gen.NumToGenerate()
		if n < 1 {
			return 0, newError(ErrPrecondition, "Generate", "registration %d (%s) generates %d particles", i, describe(r.gen), n)
		}
		for _, t := range r.gen.Types() {
			rad, ok := R.radii[t]
			if !ok {
				return 0, newError(ErrPrecondition, "Generate", "no separation radius for type %q (registration %d)", t, i)
			}
			if rad < 0 || math.IsNaN(rad) || math.IsInf(rad, 0) {
				return 0, newError(ErrPrecondition, "Generate", "invalid separation radius %g for type %q", rad, t)
			}
		}
		total += r.repeat * n
	}
	return total, nil
}

// Generate builds a new configuration, discarding any previous one. On failure
// nothing is kept, and the error is either a precondition error, detected before
// placing anything, or a *GenerationError naming the registration and repetition
// that could not be placed.
func (R *RandomGenerator) Generate() error {
	R.reset()
	total, err := R.check()
	if err != nil {
		return err
	}
	radii := make(map[string]float64, len(R.radii))
	for k, v := range R.radii {
		radii[k] = v
	}
	G := newGrid(total, R.box, radii)
	rnd := rand.New(rand.NewPCG(R.seed, R.seed))
	clusters := make([]Cluster, 0, len(R.regs))
	cursor := 0
	for i, r := range R.regs {
		n := r.gen.NumToGenerate()
		R.log.WithFields(logrus.Fields{
			"registration": i,
			"repeat":       r.repeat,
			"particles":    n,
			"generator":    describe(r.gen),
		}).Debug("placing clusters")
		for k := 0; k < r.repeat; k++ {
			if err := r.gen.GenerateParticles(G, rnd, cursor); err != nil {
				return &GenerationError{Registration: i, Repeat: k, Err: errDecorate(err, "Generate")}
			}
			for j := cursor; j < cursor+n; j++ {
				if !G.Placed(j) {
					err := newError(ErrPrecondition, "Generate", "%s left slot %d empty", describe(r.gen), j)
					return &GenerationError{Registration: i, Repeat: k, Err: err}
				}
				if t := G.Particle(j).Type; !hasRadius(radii, t) {
					err := newError(ErrPrecondition, "Generate", "%s placed type %q, which has no separation radius", describe(r.gen), t)
					return &GenerationError{Registration: i, Repeat: k, Err: err}
				}
			}
			clusters = append(clusters, Cluster{Registration: i, Repeat: k, Start: cursor, Size: n, Generator: r.gen})
			cursor += n
		}
	}
	R.particles = G.particles
	R.typeNames = mapTypes(R.particles)
	R.clusters = clusters
	R.generated = true
	R.log.WithFields(logrus.Fields{
		"particles": total,
		"types":     len(R.typeNames),
		"seed":      R.seed,
	}).Info("configuration generated")
	return nil
}

func hasRadius(radii map[string]float64, typ string) bool {
	_, ok := radii[typ]
	return ok
}

// mapTypes assigns type ids in the order in which each type name first
// appears in P, and returns the names indexed by id.
func mapTypes(P []Particle) []string {
	ids := make(map[string]int)
	names := make([]string, 0)
	for i := range P {
		id, ok := ids[P[i].Type]
		if !ok {
			id = len(names)
			ids[P[i].Type] = id
			names = append(names, P[i].Type)
		}
		P[i].TypeID = id
	}
	return names
}

func (R *RandomGenerator) reset() {
	R.generated = false
	R.particles = nil
	R.typeNames = nil
	R.clusters = nil
}

// Generated returns true if a configuration is available.
func (R *RandomGenerator) Generated() bool { return R.generated }

// NumParticles returns the number of particles generated, 0 before a
// successful Generate.
func (R *RandomGenerator) NumParticles() int {
	return len(R.particles)
}

// NumParticleTypes returns the number of distinct types generated.
func (R *RandomGenerator) NumParticleTypes() int {
	return len(R.typeNames)
}

// TypeMapping returns the type names, indexed by type id. Ids follow the order
// in which each name first appears among the particles.
func (R *RandomGenerator) TypeMapping() []string {
	return append([]string(nil), R.typeNames...)
}

// Particles returns a copy of the generated particles.
func (R *RandomGenerator) Particles() []Particle {
	return append([]Particle(nil), R.particles...)
}

// Clusters returns where each cluster was placed, in generation order.
func (R *RandomGenerator) Clusters() []Cluster {
	return append([]Cluster(nil), R.clusters...)
}

// InitArrays copies the configuration into A. Positions, image flags and type ids
// come from the generated particles, tags are the identity, masses and diameters
// are 1 and velocities and charges are 0.
func (R *RandomGenerator) InitArrays(A *ParticleArrays) error {
	if !R.generated {
		return newError(ErrNotGenerated, "InitArrays", "no configuration to copy")
	}
	n := len(R.particles)
	if A == nil || !A.sized(n) {
		return newError(ErrPrecondition, "InitArrays", "arrays must be sized for %d particles", n)
	}
	for i, p := range R.particles {
		A.X[i], A.Y[i], A.Z[i] = p.Pos[0], p.Pos[1], p.Pos[2]
		A.VX[i], A.VY[i], A.VZ[i] = 0, 0, 0
		A.IX[i], A.IY[i], A.IZ[i] = p.Image[0], p.Image[1], p.Image[2]
		A.Type[i] = p.TypeID
		A.Tag[i] = i
		A.RTag[i] = i
		A.Mass[i] = 1
		A.Diameter[i] = 1
		A.Charge[i] = 0
	}
	return nil
}

// Coords returns the wrapped positions of the particles as a Nx3 matrix.
func (R *RandomGenerator) Coords() (*v3.Matrix, error) {
	if !R.generated {
		return nil, newError(ErrNotGenerated, "Coords", "no configuration")
	}
	ret := v3.Zeros(len(R.particles))
	for i, p := range R.particles {
		ret.SetVec(i, p.Pos)
	}
	return ret, nil
}

// Topology returns the bonds declared by the generators that implement Bonder,
// with global particle indexes.
func (R *RandomGenerator) Topology() (*top.Topology, error) {
	if !R.generated {
		return nil, newError(ErrNotGenerated, "Topology", "no configuration")
	}
	types := make([]string, len(R.particles))
	for i, p := range R.particles {
		types[i] = p.Type
	}
	T := top.New(types)
	for _, c := range R.clusters {
		b, ok := c.Generator.(Bonder)
		if !ok {
			continue
		}
		for _, v := range b.Bonds() {
			if err := T.AddBond(b.BondType(), c.Start+v[0], c.Start+v[1]); err != nil {
				return nil, newError(ErrPrecondition, "Topology", "cluster at %d: %v", c.Start, err)
			}
		}
	}
	return T, nil
}
