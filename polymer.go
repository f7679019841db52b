/*
 * polymer.go, part of gopack
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
	"strings"
)

// DefaultBondType is the bond type name PolymerGenerator reports unless told otherwise.
const DefaultBondType = "polymer"

// PolymerGenerator builds linear chains as a self-avoiding random walk with a
// fixed bond length. The first bead goes to a uniformly random position, and
// each following bead is put at bondLen from the previous one, in a uniformly
// random direction.
//
// When no position is found for the furthest bead reached, the bead before it is
// removed and placed again, and the walk continues from there. Only that one
// level of backtracking is done: beads further back are never moved.
type PolymerGenerator struct {
	bondLen     float64
	types       []string
	maxAttempts int
	maxTotal    int
	bondType    string
}

// PolymerOption sets optional parameters of a PolymerGenerator.
type PolymerOption func(*PolymerGenerator)

// WithMaxTotalAttempts sets the maximum number of candidate positions tried
// for a whole chain, counting the ones spent on backtracking. The default is
// 4*maxAttempts*len(types).
func WithMaxTotalAttempts(n int) PolymerOption {
	return func(P *PolymerGenerator) { P.maxTotal = n }
}

// WithBondType sets the name given to the bonds of the chain.
func WithBondType(name string) PolymerOption {
	return func(P *PolymerGenerator) { P.bondType = name }
}

// NewPolymerGenerator returns a generator for chains with one bead per element
// of types, consecutive beads bondLen apart. Each bead gets up to maxAttempts
// candidate positions before backtracking.
func NewPolymerGenerator(bondLen float64, types []string, maxAttempts int, opts ...PolymerOption) (*PolymerGenerator, error) {
	const caller = "NewPolymerGenerator"
	if bondLen <= 0 || math.IsInf(bondLen, 0) || math.IsNaN(bondLen) {
		return nil, newError(ErrPrecondition, caller, "invalid bond length %g", bondLen)
	}
	if len(types) == 0 {
		return nil, newError(ErrPrecondition, caller, "a chain needs at least one bead")
	}
	for i, t := range types {
		if t == "" {
			return nil, newError(ErrPrecondition, caller, "bead %d has an empty type name", i)
		}
	}
	if maxAttempts < 1 {
		return nil, newError(ErrPrecondition, caller, "maxAttempts must be at least 1, got %d", maxAttempts)
	}
	P := &PolymerGenerator{
		bondLen:     bondLen,
		types:       append([]string(nil), types...),
		maxAttempts: maxAttempts,
		bondType:    DefaultBondType,
	}
	for _, o := range opts {
		o(P)
	}
	if P.maxTotal == 0 {
		P.maxTotal = 4 * maxAttempts * len(types)
	}
	if P.maxTotal < 0 {
		return nil, newError(ErrPrecondition, caller, "negative total attempt ceiling %d", P.maxTotal)
	}
	if P.bondType == "" {
		return nil, newError(ErrPrecondition, caller, "empty bond type name")
	}
	return P, nil
}

func (P *PolymerGenerator) NumToGenerate() int { return len(P.types) }

// Types returns the bead types in chain order.
func (P *PolymerGenerator) Types() []string { return append([]string(nil), P.types...) }

// BondLength returns the distance between consecutive beads.
func (P *PolymerGenerator) BondLength() float64 { return P.bondLen }

// MaxTotalAttempts returns the per-chain ceiling of candidate positions.
func (P *PolymerGenerator) MaxTotalAttempts() int { return P.maxTotal }

// Bonds returns the bonds between consecutive beads, as local indexes.
func (P *PolymerGenerator) Bonds() [][2]int {
	if len(P.types) < 2 {
		return nil
	}
	ret := make([][2]int, 0, len(P.types)-1)
	for i := 1; i < len(P.types); i++ {
		ret = append(ret, [2]int{i - 1, i})
	}
	return ret
}

func (P *PolymerGenerator) BondType() string { return P.bondType }

func (P *PolymerGenerator) String() string {
	return fmt.Sprintf("polymer %s", strings.Join(P.types, "-"))
}

// GenerateParticles places one chain in the slots [start, start+len(types)).
// If the ceiling of candidate positions is reached, every bead of the chain
// placed so far is removed and an *ExhaustedError is returned.
func (P *PolymerGenerator) GenerateParticles(G *Grid, rnd *rand.Rand, start int) error {
	n := len(P.types)
	if err := checkRoom(G, start, n, "PolymerGenerator.GenerateParticles"); err != nil {
		return err
	}
	attempts := 0
	front := 0 //furthest bead reached so far
	i := 0
	for i < n {
		if P.placeBead(G, rnd, start, i, &attempts) {
			i++
			if i > front {
				front = i
			}
			continue
		}
		if attempts >= P.maxTotal {
			for j := start; j < start+i; j++ {
				G.UndoPlace(j)
			}
			return &ExhaustedError{Generator: P.String(), Attempts: attempts, Ceiling: P.maxTotal}
		}
		//A bead that was itself moved back is just retried.
		if i == front && i > 0 {
			i--
			G.UndoPlace(start + i)
		}
	}
	return nil
}

// placeBead tries up to maxAttempts positions for bead i, without going over
// the total ceiling. It returns true if the bead was placed.
func (P *PolymerGenerator) placeBead(G *Grid, rnd *rand.Rand, start, i int, attempts *int) bool {
	box := G.Box()
	for a := 0; a < P.maxAttempts && *attempts < P.maxTotal; a++ {
		*attempts++
		p := Particle{Type: P.types[i]}
		if i == 0 {
			p.Pos = uniformInBox(box, rnd)
		} else {
			prev := G.Particle(start + i - 1)
			dir := randomDirection(rnd)
			var raw [3]float64
			for k := range raw {
				raw[k] = prev.Pos[k] + P.bondLen*dir[k]
			}
			var shift [3]int
			p.Pos, shift = box.Wrap(raw)
			for k := range shift {
				p.Image[k] = prev.Image[k] + shift[k]
			}
		}
		if G.CanPlace(p) {
			G.Place(p, start+i)
			return true
		}
	}
	return false
}
