/*
 * doc.go, part of gopack.
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

/*
Package pack is the main package of goPack. It builds random, non-overlapping
initial configurations for particle simulations in periodic boxes, including
bonded chains.


	**goPack Capabilities**


    Places particles in an orthorhombic periodic box so that no two of them are
	closer than the sum of their separation radii. The overlap checks use a
	periodic cell list (Grid) so each check only looks at neighbouring cells.

    Builds linear polymers as self-avoiding random walks with fixed bond length,
	with one level of backtracking when the walk gets stuck (PolymerGenerator).

    Places free particles, e.g. solvent (MonomerGenerator). Other cluster shapes
	can be added by implementing the Generator interface.

    Runs are reproducible: the same box, radii, generators and seed always give
	the same configuration.

    Hands the result to a simulation through the Initializer interface, and
	exports it as coordinates (v3.Matrix) and a bonded topology (package top).

The sub-packages write HOOMD binary snapshots (snapshot), compute pair distribution
functions and overlap checks (rdf), export XYZ, JSON and MessagePack files (confio)
and read run descriptions in TOML or YAML (config). The gopack command, in cmd/gopack,
puts everything together.

A typical use:

	gen := pack.NewRandomGenerator(pack.NewCubicBox(10), 42)
	gen.SetSeparationRadius("A", 0.5)
	chain, err := pack.NewPolymerGenerator(1.0, []string{"A", "A", "A"}, 100)
	if err != nil {
		//handle
	}
	gen.AddGenerator(5, chain)
	if err := gen.Generate(); err != nil {
		//handle
	}
	arrays := pack.NewParticleArrays(gen.NumParticles())
	gen.InitArrays(arrays)
*/
package pack
