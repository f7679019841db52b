/*
 * arrays.go, part of gopack
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

// ParticleArrays is the permanent, per-particle store of a simulation.
// Every slice has one element per particle. Tag[i] is the tag of the particle
// stored at index i and RTag[t] is the index where the particle with tag t is.
type ParticleArrays struct {
	X, Y, Z    []float64
	VX, VY, VZ []float64
	Mass       []float64
	Diameter   []float64
	Charge     []float64
	IX, IY, IZ []int
	Type       []int
	Tag        []int
	RTag       []int
}

// NewParticleArrays allocates arrays for n particles.
func NewParticleArrays(n int) *ParticleArrays {
	A := new(ParticleArrays)
	for _, s := range []*[]float64{&A.X, &A.Y, &A.Z, &A.VX, &A.VY, &A.VZ, &A.Mass, &A.Diameter, &A.Charge} {
		*s = make([]float64, n)
	}
	for _, s := range []*[]int{&A.IX, &A.IY, &A.IZ, &A.Type, &A.Tag, &A.RTag} {
		*s = make([]int, n)
	}
	return A
}

// Len returns the number of particles the arrays hold.
func (A *ParticleArrays) Len() int {
	return len(A.X)
}

// sized returns true if every slice in A holds exactly n elements.
func (A *ParticleArrays) sized(n int) bool {
	for _, l := range []int{len(A.X), len(A.Y), len(A.Z), len(A.VX), len(A.VY), len(A.VZ), len(A.Mass),
		len(A.Diameter), len(A.Charge), len(A.IX), len(A.IY), len(A.IZ), len(A.Type), len(A.Tag), len(A.RTag)} {
		if l != n {
			return false
		}
	}
	return true
}

// Pos returns the position of the particle at index i.
func (A *ParticleArrays) Pos(i int) [3]float64 {
	return [3]float64{A.X[i], A.Y[i], A.Z[i]}
}

// Image returns the image flags of the particle at index i.
func (A *ParticleArrays) Image(i int) [3]int {
	return [3]int{A.IX[i], A.IY[i], A.IZ[i]}
}

// Unwrapped returns the position of the particle at index i with its
// image flags applied, for a box of edges l.
func (A *ParticleArrays) Unwrapped(i int, l [3]float64) [3]float64 {
	return [3]float64{A.X[i] + float64(A.IX[i])*l[0], A.Y[i] + float64(A.IY[i])*l[1], A.Z[i] + float64(A.IZ[i])*l[2]}
}
