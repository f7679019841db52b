/*
 * interfaces.go, part of gopack.
 *
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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

package pack

// Initializer is anything that can fill the permanent particle store of a
// simulation: the handoff between configuration generation and the rest
// of a simulation package.
type Initializer interface {
	//NumParticles returns the number of particles that InitArrays will write.
	NumParticles() int

	//NumParticleTypes returns the number of distinct particle types.
	NumParticleTypes() int

	//Box returns the simulation box.
	Box() Box

	//InitArrays copies the particles into A, which must hold NumParticles() particles.
	InitArrays(A *ParticleArrays) error

	//TypeMapping returns the type names, indexed by type id.
	TypeMapping() []string
}

//Errors

// Decorator is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type or wrapping it around something else.
type Decorator interface {
	Error() string
	Decorate(string) []string //Adds its argument to the decoration slice, and returns the slice. An empty string just returns the current slice.
	Critical() bool
}
