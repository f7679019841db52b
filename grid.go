/*
 * grid.go, part of gopack
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
)

// contactTolerance is the relative slack allowed when two particles touch
// exactly, e.g. bonded beads whose bond length equals the sum of their radii.
const contactTolerance = 1e-9

// Particle is a particle while the configuration is being generated.
type Particle struct {
	Pos    [3]float64
	Image  [3]int //box crossings accumulated by a chain walk
	Type   string
	TypeID int //only set once generation has finished
}

// Grid is the spatial placement grid: a periodic cell list over the particles placed
// so far, plus the slots where they are kept. Generators use it to test candidates
// and to place or remove them. A Grid is only built by RandomGenerator.Generate.
//
// Two particles overlap if their minimum-image distance is below the sum of their
// separation radii. The cell edge is at least twice the largest radius, so any
// overlapping pair is in the same or in neighbouring cells.
type Grid struct {
	particles []Particle
	placed    []bool
	where     []int //bin of each placed particle
	box       Box
	bins      [][]int
	m         [3]int
	scale     [3]float64 //bins per unit length along each axis
	radii     map[string]float64
	scratch   []int
}

// newGrid prepares a grid with n empty slots in box.
func newGrid(n int, box Box, radii map[string]float64) *Grid {
	G := new(Grid)
	G.box = box
	G.radii = radii
	G.particles = make([]Particle, n)
	G.placed = make([]bool, n)
	G.where = make([]int, n)
	maxr := 0.0
	for _, r := range radii {
		maxr = math.Max(maxr, r)
	}
	N := n
	if N < 1 {
		N = 1
	}
	//Tiny or zero radii would give absurd numbers of bins. The floor keeps
	//roughly one particle per bin.
	cell := math.Max(2*maxr, math.Cbrt(box.Volume()/float64(N)))
	l := box.L()
	total := 1
	for i := range l {
		G.m[i] = int(math.Floor(l[i] / cell))
		if G.m[i] < 1 {
			G.m[i] = 1
		}
		G.scale[i] = float64(G.m[i]) / l[i]
		total *= G.m[i]
	}
	G.bins = make([][]int, total)
	G.scratch = make([]int, 0, 27)
	return G
}

// Box returns the box where the particles are placed.
func (G *Grid) Box() Box {
	return G.box
}

// Len returns the number of slots in the grid, placed or not.
func (G *Grid) Len() int {
	return len(G.particles)
}

// Placed returns true if the slot idx currently holds a particle.
func (G *Grid) Placed(idx int) bool {
	return G.placed[idx]
}

// Particle returns the particle at slot idx. The zero Particle is returned
// for empty slots.
func (G *Grid) Particle(idx int) Particle {
	return G.particles[idx]
}

// Radius returns the separation radius for the type typ.
func (G *Grid) Radius(typ string) float64 {
	return G.radii[typ]
}

// Bins returns the number of bins along each axis.
func (G *Grid) Bins() [3]int {
	return G.m
}

func (G *Grid) binCoord(p [3]float64) [3]int {
	var c [3]int
	for i := range p {
		c[i] = int((p[i] - G.box.Lo[i]) * G.scale[i])
		if c[i] < 0 {
			c[i] = 0
		} else if c[i] >= G.m[i] {
			c[i] = G.m[i] - 1
		}
	}
	return c
}

func (G *Grid) binIndex(c [3]int) int {
	return (c[2]*G.m[1]+c[1])*G.m[0] + c[0]
}

// axisNeighbors returns the distinct periodic neighbour coordinates of c along
// an axis with m bins. With fewer than 3 bins the -1 and +1 neighbours coincide.
func axisNeighbors(c, m int, dst *[3]int) []int {
	switch m {
	case 1:
		dst[0] = 0
		return dst[:1]
	case 2:
		dst[0], dst[1] = 0, 1
		return dst[:2]
	}
	dst[0] = (c - 1 + m) % m
	dst[1] = c
	dst[2] = (c + 1) % m
	return dst[:3]
}

// neighborBins puts in the grid's scratch slice the indexes of the bin of c
// and all its periodic neighbours, each only once.
func (G *Grid) neighborBins(c [3]int) []int {
	var bx, by, bz [3]int
	xs := axisNeighbors(c[0], G.m[0], &bx)
	ys := axisNeighbors(c[1], G.m[1], &by)
	zs := axisNeighbors(c[2], G.m[2], &bz)
	G.scratch = G.scratch[:0]
	for _, z := range zs {
		for _, y := range ys {
			for _, x := range xs {
				G.scratch = append(G.scratch, G.binIndex([3]int{x, y, z}))
			}
		}
	}
	return G.scratch
}

// CanPlace returns true if p would not overlap any particle already placed.
// p.Pos must be inside the box. The grid is not modified.
func (G *Grid) CanPlace(p Particle) bool {
	r := G.radii[p.Type]
	for _, b := range G.neighborBins(G.binCoord(p.Pos)) {
		for _, idx := range G.bins[b] {
			o := G.particles[idx]
			cut := (r + G.radii[o.Type]) * (1 - contactTolerance)
			if G.box.Distance2(p.Pos, o.Pos) < cut*cut {
				return false
			}
		}
	}
	return true
}

// Place puts p in the slot idx and in its bin. The caller must have checked
// CanPlace for p against the current state of the grid; Place does not check again.
func (G *Grid) Place(p Particle, idx int) {
	b := G.binIndex(G.binCoord(p.Pos))
	G.particles[idx] = p
	G.placed[idx] = true
	G.where[idx] = b
	G.bins[b] = append(G.bins[b], idx)
}

// UndoPlace removes the particle in slot idx from its bin and empties the slot,
// leaving the grid as it was before the corresponding Place. Empty slots are
// left alone.
func (G *Grid) UndoPlace(idx int) {
	if !G.placed[idx] {
		return
	}
	bin := G.bins[G.where[idx]]
	for i, v := range bin {
		if v == idx {
			bin[i] = bin[len(bin)-1]
			bin = bin[:len(bin)-1]
			break
		}
	}
	G.bins[G.where[idx]] = bin
	G.particles[idx] = Particle{}
	G.placed[idx] = false
}
