/*
 * box.go, part of gopack
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

// Box is an orthorhombic simulation box, periodic in every axis.
// Positions inside the box satisfy Lo <= x < Hi.
type Box struct {
	Lo [3]float64
	Hi [3]float64
}

// NewCubicBox returns a cubic box of side l centered at the origin.
func NewCubicBox(l float64) Box {
	return NewBox(l, l, l)
}

// NewBox returns a box of sides lx, ly and lz centered at the origin.
func NewBox(lx, ly, lz float64) Box {
	return Box{
		Lo: [3]float64{-lx / 2, -ly / 2, -lz / 2},
		Hi: [3]float64{lx / 2, ly / 2, lz / 2},
	}
}

// L returns the edge lengths of the box.
func (B Box) L() [3]float64 {
	return [3]float64{B.Hi[0] - B.Lo[0], B.Hi[1] - B.Lo[1], B.Hi[2] - B.Lo[2]}
}

// Volume returns the volume of the box
func (B Box) Volume() float64 {
	l := B.L()
	return l[0] * l[1] * l[2]
}

// Check returns an error if any edge of the box is not a finite, positive length.
func (B Box) Check() error {
	for i, l := range B.L() {
		if !(l > 0) || math.IsInf(l, 0) {
			return newError(ErrPrecondition, "Box.Check", "box edge %d has invalid length %g", i, l)
		}
	}
	return nil
}

// MinImage returns the minimum image of the displacement d.
func (B Box) MinImage(d [3]float64) [3]float64 {
	l := B.L()
	for i := range d {
		d[i] -= l[i] * math.Round(d[i]/l[i])
	}
	return d
}

// Distance2 returns the squared minimum-image distance between a and b.
func (B Box) Distance2(a, b [3]float64) float64 {
	d := B.MinImage([3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]})
	return d[0]*d[0] + d[1]*d[1] + d[2]*d[2]
}

// Wrap maps p into the box. It returns the wrapped position and the number of
// box lengths added along each axis to get there, with the sign HOOMD uses for
// image flags (a particle that leaves through Hi gets +1).
func (B Box) Wrap(p [3]float64) ([3]float64, [3]int) {
	var img [3]int
	l := B.L()
	for i := range p {
		n := math.Floor((p[i] - B.Lo[i]) / l[i])
		p[i] -= n * l[i]
		//floating point can leave us exactly on the upper face.
		if p[i] >= B.Hi[i] {
			p[i] -= l[i]
			n++
		}
		if p[i] < B.Lo[i] {
			p[i] = B.Lo[i]
		}
		img[i] = int(n)
	}
	return p, img
}

// Contains returns true if p lies inside the box.
func (B Box) Contains(p [3]float64) bool {
	for i := range p {
		if p[i] < B.Lo[i] || p[i] >= B.Hi[i] {
			return false
		}
	}
	return true
}
