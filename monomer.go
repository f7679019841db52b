/*
 * monomer.go, part of gopack
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
	"math/rand/v2"
)

// MonomerGenerator places one free particle per cluster at a uniformly random
// position, e.g. a solvent particle.
type MonomerGenerator struct {
	typ         string
	maxAttempts int
}

// NewMonomerGenerator returns a generator for single particles of type typ that
// gives up after maxAttempts rejected positions.
func NewMonomerGenerator(typ string, maxAttempts int) (*MonomerGenerator, error) {
	if typ == "" {
		return nil, newError(ErrPrecondition, "NewMonomerGenerator", "empty type name")
	}
	if maxAttempts < 1 {
		return nil, newError(ErrPrecondition, "NewMonomerGenerator", "maxAttempts must be at least 1, got %d", maxAttempts)
	}
	return &MonomerGenerator{typ: typ, maxAttempts: maxAttempts}, nil
}

func (M *MonomerGenerator) NumToGenerate() int { return 1 }

func (M *MonomerGenerator) Types() []string { return []string{M.typ} }

func (M *MonomerGenerator) String() string {
	return fmt.Sprintf("monomer %s", M.typ)
}

// GenerateParticles tries up to maxAttempts uniform positions for the particle.
func (M *MonomerGenerator) GenerateParticles(G *Grid, rnd *rand.Rand, start int) error {
	if err := checkRoom(G, start, 1, "MonomerGenerator.GenerateParticles"); err != nil {
		return err
	}
	for a := 0; a < M.maxAttempts; a++ {
		p := Particle{Pos: uniformInBox(G.Box(), rnd), Type: M.typ}
		if G.CanPlace(p) {
			G.Place(p, start)
			return nil
		}
	}
	return &ExhaustedError{Generator: M.String(), Attempts: M.maxAttempts, Ceiling: M.maxAttempts}
}
