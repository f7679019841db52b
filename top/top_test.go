/*
 * top_test.go, part of gopack
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chain returns a topology with linear chains of the given lengths, one after the other.
func chain(Te *testing.T, lens ...int) *Topology {
	n := 0
	for _, l := range lens {
		n += l
	}
	types := make([]string, n)
	for i := range types {
		types[i] = "A"
	}
	types[0] = "B"
	T := New(types)
	start := 0
	for _, l := range lens {
		for i := start + 1; i < start+l; i++ {
			require.NoError(Te, T.AddBond("polymer", i-1, i))
		}
		start += l
	}
	return T
}

func TestChainTerms(Te *testing.T) {
	T := chain(Te, 5)
	assert.Len(Te, T.Bonds, 4)
	assert.Equal(Te, 3, T.DeriveAngles())
	assert.Equal(Te, 2, T.DeriveDihedrals())
	assert.Equal(Te, Angle{Type: "B-A-A", A: 0, B: 1, C: 2}, T.Angles[0])
	assert.Equal(Te, Dihedral{Type: "B-A-A-A", A: 0, B: 1, C: 2, D: 3}, T.Dihedrals[0])
	//deriving twice gives the same terms
	assert.Equal(Te, 3, T.DeriveAngles())
	assert.Equal(Te, []int{1, 3}, T.Neighbors(2))
	assert.Equal(Te, 1, T.Degree(0))
	assert.Equal(Te, 2, T.Degree(1))
	assert.Equal(Te, []string{"polymer"}, T.BondTypes())
}

func TestBranched(Te *testing.T) {
	//a star: 0 in the center
	T := New([]string{"C", "H", "H", "H"})
	for i := 1; i < 4; i++ {
		require.NoError(Te, T.AddBond("ch", 0, i))
	}
	assert.Equal(Te, 3, T.DeriveAngles())
	assert.Equal(Te, 0, T.DeriveDihedrals())
	require.NoError(Te, T.AddImproper("imp", 0, 1, 2, 3))
	assert.Len(Te, T.Impropers, 1)
}

func TestMolecules(Te *testing.T) {
	T := chain(Te, 3, 1, 2)
	m := T.Molecules()
	assert.Equal(Te, [][]int{{0, 1, 2}, {3}, {4, 5}}, m)
	assert.True(Te, T.Bonded(4, 5))
	assert.False(Te, T.Bonded(2, 3))
}

func TestBadTerms(Te *testing.T) {
	T := New([]string{"A", "A"})
	err := T.AddBond("x", 0, 2)
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, ErrInvalid))
	assert.Error(Te, T.AddBond("x", 1, 1))
	require.NoError(Te, T.AddBond("x", 0, 1))
	assert.Error(Te, T.AddBond("x", 1, 0))
	assert.Error(Te, T.AddAngle("x", 0, 1, 0))
	assert.Error(Te, T.AddDihedral("x", 0, 1, -1, 1))
	assert.Len(Te, T.Bonds, 1)
}
