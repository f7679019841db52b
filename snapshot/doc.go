/*
 * doc.go, part of gopack
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

/*
Package snapshot writes HOOMD binary snapshots (version 1).

A snapshot is a little-endian stream without padding. All counts and indexes are
4-byte unsigned integers, except the version and the image flags, which are signed.
Scalars are 4-byte floats unless the writer is created WithDouble. The blocks are,
in order:

	version (1), timestep
	Lx, Ly, Lz
	positions:  N, then x y z for each particle
	images:     N, then ix iy iz for each particle
	velocities: N, then vx vy vz for each particle
	masses:     N, then one scalar per particle
	diameters:  N, then one scalar per particle
	types:      N, then a length-prefixed type name per particle
	integrator variables: count, then for each, a length-prefixed name,
	            the number of values and the values
	bonds:      count, then a length-prefixed type name and 2 particle tags each
	angles:     the same, with 3 tags
	dihedrals:  the same, with 4 tags
	impropers:  the same, with 4 tags
	walls:      count, then origin xyz and normal xyz for each

Per-particle blocks are written in tag order, using the RTag array to find each
particle. Writers for periodic output name their files base.TTTTTTTTTT.bin, where
T is the zero-padded timestep, and can compress them with zstd or gzip.
*/
package snapshot
