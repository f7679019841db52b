/*
 * top.go, part of gopack
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

package top

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	gtopo "gonum.org/v1/gonum/graph/topo"
)

// ErrInvalid is wrapped by every error returned by this package.
var ErrInvalid = errors.New("invalid topology term")

// Bond joins particles A and B.
type Bond struct {
	Type string
	A, B int
}

// Angle is the angle A-B-C, with B at the vertex.
type Angle struct {
	Type    string
	A, B, C int
}

// Dihedral is the torsion around the B-C axis. Impropers use the same type.
type Dihedral struct {
	Type       string
	A, B, C, D int
}

// Topology holds the bonded terms of a system of particles, referenced by index.
type Topology struct {
	Bonds     []Bond
	Angles    []Angle
	Dihedrals []Dihedral
	Impropers []Dihedral
	types     []string
	g         *simple.UndirectedGraph
}

// New returns an empty topology for len(types) particles, where types[i] is the type
// name of particle i. The names are used to label derived angles and dihedrals.
func New(types []string) *Topology {
	T := &Topology{types: append([]string(nil), types...), g: simple.NewUndirectedGraph()}
	for i := range types {
		T.g.AddNode(simple.Node(i))
	}
	return T
}

// Len returns the number of particles in the topology.
func (T *Topology) Len() int { return len(T.types) }

// ParticleType returns the type name of particle i.
func (T *Topology) ParticleType(i int) string { return T.types[i] }

func (T *Topology) check(caller string, idx ...int) error {
	for k, i := range idx {
		if i < 0 || i >= len(T.types) {
			return &Error{fmt.Sprintf("index %d out of range for %d particles", i, len(T.types)), []string{caller}, true}
		}
		for _, j := range idx[:k] {
			if i == j {
				return &Error{fmt.Sprintf("particle %d appears twice", i), []string{caller}, true}
			}
		}
	}
	return nil
}

// AddBond adds a bond of type typ between a and b. Bonding a particle to itself,
// or bonding the same pair twice, is an error.
func (T *Topology) AddBond(typ string, a, b int) error {
	if err := T.check("AddBond", a, b); err != nil {
		return err
	}
	if T.g.HasEdgeBetween(int64(a), int64(b)) {
		return &Error{fmt.Sprintf("particles %d and %d are already bonded", a, b), []string{"AddBond"}, true}
	}
	T.g.SetEdge(simple.Edge{F: simple.Node(a), T: simple.Node(b)})
	T.Bonds = append(T.Bonds, Bond{Type: typ, A: a, B: b})
	return nil
}

// AddAngle adds the angle a-b-c.
func (T *Topology) AddAngle(typ string, a, b, c int) error {
	if err := T.check("AddAngle", a, b, c); err != nil {
		return err
	}
	T.Angles = append(T.Angles, Angle{Type: typ, A: a, B: b, C: c})
	return nil
}

// AddDihedral adds the dihedral a-b-c-d.
func (T *Topology) AddDihedral(typ string, a, b, c, d int) error {
	if err := T.check("AddDihedral", a, b, c, d); err != nil {
		return err
	}
	T.Dihedrals = append(T.Dihedrals, Dihedral{Type: typ, A: a, B: b, C: c, D: d})
	return nil
}

// AddImproper adds the improper dihedral a-b-c-d.
func (T *Topology) AddImproper(typ string, a, b, c, d int) error {
	if err := T.check("AddImproper", a, b, c, d); err != nil {
		return err
	}
	T.Impropers = append(T.Impropers, Dihedral{Type: typ, A: a, B: b, C: c, D: d})
	return nil
}

// Bonded returns true if a and b share a bond.
func (T *Topology) Bonded(a, b int) bool {
	return T.g.HasEdgeBetween(int64(a), int64(b))
}

// Neighbors returns the particles bonded to i, in increasing order.
func (T *Topology) Neighbors(i int) []int {
	nodes := graph.NodesOf(T.g.From(int64(i)))
	ret := make([]int, 0, len(nodes))
	for _, n := range nodes {
		ret = append(ret, int(n.ID()))
	}
	slices.Sort(ret)
	return ret
}

// Degree returns the number of bonds of particle i.
func (T *Topology) Degree(i int) int {
	return T.g.From(int64(i)).Len()
}

func label(names ...string) string {
	return strings.Join(names, "-")
}

// DeriveAngles replaces the angles with every a-b-c where a and c are both bonded
// to b, and returns how many there are. Angles are sorted by vertex, then by the
// outer particles. Their types are the particle types joined by dashes, e.g. "A-B-A".
func (T *Topology) DeriveAngles() int {
	T.Angles = T.Angles[:0]
	for b := range T.types {
		n := T.Neighbors(b)
		for i, a := range n {
			for _, c := range n[i+1:] {
				T.Angles = append(T.Angles, Angle{Type: label(T.types[a], T.types[b], T.types[c]), A: a, B: b, C: c})
			}
		}
	}
	return len(T.Angles)
}

// DeriveDihedrals replaces the dihedrals with every a-b-c-d where b-c is a bond,
// a is bonded to b and d to c, and returns how many there are. They follow the
// order of the bonds.
func (T *Topology) DeriveDihedrals() int {
	T.Dihedrals = T.Dihedrals[:0]
	for _, bond := range T.Bonds {
		b, c := bond.A, bond.B
		for _, a := range T.Neighbors(b) {
			if a == c {
				continue
			}
			for _, d := range T.Neighbors(c) {
				if d == b || d == a {
					continue
				}
				T.Dihedrals = append(T.Dihedrals, Dihedral{Type: label(T.types[a], T.types[b], T.types[c], T.types[d]), A: a, B: b, C: c, D: d})
			}
		}
	}
	return len(T.Dihedrals)
}

// Molecules returns the groups of bonded particles (the connected components of the
// bond graph), unbonded particles each in their own group. Each group is sorted and
// groups are sorted by their first index.
func (T *Topology) Molecules() [][]int {
	cc := gtopo.ConnectedComponents(T.g)
	ret := make([][]int, 0, len(cc))
	for _, c := range cc {
		m := make([]int, 0, len(c))
		for _, n := range c {
			m = append(m, int(n.ID()))
		}
		slices.Sort(m)
		ret = append(ret, m)
	}
	slices.SortFunc(ret, func(a, b []int) int { return a[0] - b[0] })
	return ret
}

// BondTypes returns the distinct bond type names, in the order they first appear.
func (T *Topology) BondTypes() []string {
	ret := make([]string, 0)
	for _, b := range T.Bonds {
		if !slices.Contains(ret, b.Type) {
			ret = append(ret, b.Type)
		}
	}
	return ret
}

// Error is the error type of the package.
type Error struct {
	message  string
	deco     []string
	critical bool
}

func (err *Error) Error() string { return fmt.Sprintf("goPack/top: %s: %s", ErrInvalid, err.message) }

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice.
func (err *Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

func (err *Error) Critical() bool { return err.critical }

func (err *Error) Unwrap() error { return ErrInvalid }
