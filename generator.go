/*
 * generator.go, part of gopack
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
	"math"
	"math/rand/v2"
)

// Generator places one cluster of particles (a chain, a single solvent particle...)
// on a Grid. The orchestrator calls GenerateParticles once per repetition of a
// registration, with start pointing to the first free slot reserved for the cluster.
type Generator interface {
	//NumToGenerate returns how many particles each call to GenerateParticles places.
	NumToGenerate() int

	//GenerateParticles places exactly NumToGenerate() particles in the slots
	//[start, start+NumToGenerate()). On failure it must leave the grid as it found it
	//and return an error wrapping ErrExhausted. All randomness comes from rnd.
	GenerateParticles(G *Grid, rnd *rand.Rand, start int) error

	//Types returns every type name the generator may emit. The list must be
	//exhaustive: Generate checks the radii of these types before placing anything,
	//and fails if a placed particle has a type without a separation radius.
	Types() []string
}

// Bonder is implemented by generators whose clusters are bonded.
// Bonds are given as pairs of indexes local to the cluster.
type Bonder interface {
	Bonds() [][2]int
	BondType() string
}

// Cluster records where the particles of one repetition of a registration ended up.
type Cluster struct {
	Registration int
	Repeat       int
	Start        int
	Size         int
	Generator    Generator
}

// Indexes returns the global indexes of the particles in the cluster.
func (C Cluster) Indexes() []int {
	ret := make([]int, C.Size)
	for i := range ret {
		ret[i] = C.Start + i
	}
	return ret
}

// uniformInBox draws a position uniformly in the box, x first, then y and z.
func uniformInBox(box Box, rnd *rand.Rand) [3]float64 {
	l := box.L()
	var p [3]float64
	for i := range p {
		p[i] = box.Lo[i] + l[i]*rnd.Float64()
	}
	//Lo+l*f can round up to Hi.
	p, _ = box.Wrap(p)
	return p
}

// randomDirection returns a unit vector uniformly distributed on the sphere.
// It takes two draws from rnd: the z component and the azimuth.
func randomDirection(rnd *rand.Rand) [3]float64 {
	z := 2*rnd.Float64() - 1
	phi := 2 * math.Pi * rnd.Float64()
	s := math.Sqrt(1 - z*z)
	return [3]float64{s * math.Cos(phi), s * math.Sin(phi), z}
}

// checkRoom returns an error if the n slots starting at start don't fit in G.
func checkRoom(G *Grid, start, n int, caller string) error {
	if G == nil {
		return newError(ErrPrecondition, caller, "nil grid")
	}
	if start < 0 || start+n > G.Len() {
		return newError(ErrPrecondition, caller, "slots [%d, %d) out of range for a grid of %d", start, start+n, G.Len())
	}
	return nil
}
