/*
 * polymer_test.go, part of gopack
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
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dist(a, b [3]float64) float64 {
	return math.Sqrt((a[0]-b[0])*(a[0]-b[0]) + (a[1]-b[1])*(a[1]-b[1]) + (a[2]-b[2])*(a[2]-b[2]))
}

func unwrap(p Particle, box Box) [3]float64 {
	l := box.L()
	return [3]float64{p.Pos[0] + float64(p.Image[0])*l[0], p.Pos[1] + float64(p.Image[1])*l[1], p.Pos[2] + float64(p.Image[2])*l[2]}
}

func TestPolymerChain(Te *testing.T) {
	box := NewCubicBox(3)
	types := []string{"A", "A", "B", "A"}
	P, err := NewPolymerGenerator(1.0, types, 100)
	require.NoError(Te, err)
	assert.Equal(Te, 4, P.NumToGenerate())
	assert.Equal(Te, 4*100*4, P.MaxTotalAttempts())
	crossed := false
	for seed := uint64(1); seed <= 20; seed++ {
		G := newGrid(4, box, map[string]float64{"A": 0.5, "B": 0.3})
		require.NoError(Te, P.GenerateParticles(G, rand.New(rand.NewPCG(seed, seed)), 0))
		assert.Equal(Te, [3]int{}, G.Particle(0).Image)
		for i := 0; i < 4; i++ {
			p := G.Particle(i)
			require.True(Te, G.Placed(i))
			assert.Equal(Te, types[i], p.Type)
			assert.True(Te, box.Contains(p.Pos))
			if p.Image != [3]int{} {
				crossed = true
			}
			if i == 0 {
				continue
			}
			q := G.Particle(i - 1)
			assert.InDelta(Te, 1.0, math.Sqrt(box.Distance2(p.Pos, q.Pos)), 1e-9)
			assert.InDelta(Te, 1.0, dist(unwrap(p, box), unwrap(q, box)), 1e-9)
		}
	}
	assert.True(Te, crossed, "no chain crossed the box boundary")
}

func TestPolymerExhausted(Te *testing.T) {
	//the bond is shorter than the sum of the radii, so the second bead never fits.
	radii := map[string]float64{"A": 1.0}
	P, err := NewPolymerGenerator(1.0, []string{"A", "A"}, 10)
	require.NoError(Te, err)
	G := newGrid(2, NewCubicBox(10), radii)
	err = P.GenerateParticles(G, rand.New(rand.NewPCG(3, 3)), 0)
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, ErrExhausted))
	var ex *ExhaustedError
	require.True(Te, errors.As(err, &ex))
	assert.Equal(Te, 80, ex.Attempts)
	assert.Equal(Te, 80, ex.Ceiling)
	assert.False(Te, G.Placed(0))
	assert.False(Te, G.Placed(1))

	P, err = NewPolymerGenerator(1.0, []string{"A", "A"}, 10, WithMaxTotalAttempts(25))
	require.NoError(Te, err)
	err = P.GenerateParticles(G, rand.New(rand.NewPCG(3, 3)), 0)
	require.True(Te, errors.As(err, &ex))
	assert.Equal(Te, 25, ex.Attempts)
	for _, bin := range G.bins {
		assert.Empty(Te, bin)
	}
}

func TestPolymerOptions(Te *testing.T) {
	P, err := NewPolymerGenerator(1.5, []string{"A", "B", "C"}, 5, WithBondType("backbone"))
	require.NoError(Te, err)
	assert.Equal(Te, "backbone", P.BondType())
	assert.Equal(Te, [][2]int{{0, 1}, {1, 2}}, P.Bonds())
	assert.Equal(Te, "polymer A-B-C", P.String())
	single, err := NewPolymerGenerator(1, []string{"A"}, 5)
	require.NoError(Te, err)
	assert.Nil(Te, single.Bonds())
	assert.Equal(Te, DefaultBondType, single.BondType())

	bad := []func() (*PolymerGenerator, error){
		func() (*PolymerGenerator, error) { return NewPolymerGenerator(0, []string{"A"}, 5) },
		func() (*PolymerGenerator, error) { return NewPolymerGenerator(math.NaN(), []string{"A"}, 5) },
		func() (*PolymerGenerator, error) { return NewPolymerGenerator(1, nil, 5) },
		func() (*PolymerGenerator, error) { return NewPolymerGenerator(1, []string{"A", ""}, 5) },
		func() (*PolymerGenerator, error) { return NewPolymerGenerator(1, []string{"A"}, 0) },
		func() (*PolymerGenerator, error) {
			return NewPolymerGenerator(1, []string{"A"}, 5, WithMaxTotalAttempts(-1))
		},
		func() (*PolymerGenerator, error) { return NewPolymerGenerator(1, []string{"A"}, 5, WithBondType("")) },
	}
	for i, f := range bad {
		_, err := f()
		assert.True(Te, errors.Is(err, ErrPrecondition), "case %d", i)
	}
}

func TestGeneratorRoom(Te *testing.T) {
	P, err := NewPolymerGenerator(1, []string{"A", "A"}, 5)
	require.NoError(Te, err)
	G := newGrid(3, NewCubicBox(10), map[string]float64{"A": 0.5})
	err = P.GenerateParticles(G, rand.New(rand.NewPCG(1, 1)), 2)
	assert.True(Te, errors.Is(err, ErrPrecondition))
	M, err := NewMonomerGenerator("A", 5)
	require.NoError(Te, err)
	assert.True(Te, errors.Is(M.GenerateParticles(nil, nil, 0), ErrPrecondition))
	assert.True(Te, errors.Is(M.GenerateParticles(G, nil, 3), ErrPrecondition))
}

func TestMonomer(Te *testing.T) {
	_, err := NewMonomerGenerator("", 5)
	assert.True(Te, errors.Is(err, ErrPrecondition))
	_, err = NewMonomerGenerator("S", 0)
	assert.True(Te, errors.Is(err, ErrPrecondition))

	M, err := NewMonomerGenerator("S", 7)
	require.NoError(Te, err)
	assert.Equal(Te, []string{"S"}, M.Types())
	//no two particles of radius 0.5 fit in a unit box
	G := newGrid(2, NewCubicBox(1), map[string]float64{"S": 0.5})
	rnd := rand.New(rand.NewPCG(9, 9))
	require.NoError(Te, M.GenerateParticles(G, rnd, 0))
	assert.Equal(Te, "S", G.Particle(0).Type)
	err = M.GenerateParticles(G, rnd, 1)
	var ex *ExhaustedError
	require.True(Te, errors.As(err, &ex))
	assert.Equal(Te, 7, ex.Attempts)
	assert.False(Te, G.Placed(1))
}

func TestRandomDirection(Te *testing.T) {
	rnd := rand.New(rand.NewPCG(5, 5))
	var sum [3]float64
	const n = 20000
	for i := 0; i < n; i++ {
		d := randomDirection(rnd)
		assert.InDelta(Te, 1.0, dist(d, [3]float64{}), 1e-12)
		for k := range d {
			sum[k] += d[k]
		}
	}
	for k := range sum {
		assert.InDelta(Te, 0, sum[k]/n, 0.03)
	}
}

// watcher is a rand.Source that calls see before every draw.
type watcher struct {
	src rand.Source
	see func()
}

func (W *watcher) Uint64() uint64 {
	W.see()
	return W.src.Uint64()
}

// obstacles returns a grid of box, with one "O" particle at every point of a
// cubic lattice of spacing 2, and room for n more particles after them.
func obstacles(box Box, n int) (*Grid, int) {
	G := newGrid(125+n, box, map[string]float64{"O": 0.5, "A": 0.5})
	idx := 0
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			for k := 0; k < 5; k++ {
				pos := [3]float64{box.Lo[0] + 2*float64(i), box.Lo[1] + 2*float64(j), box.Lo[2] + 2*float64(k)}
				G.Place(Particle{Pos: pos, Type: "O"}, idx)
				idx++
			}
		}
	}
	return G, idx
}

func TestPolymerBacktracking(Te *testing.T) {
	box := NewCubicBox(10)
	P, err := NewPolymerGenerator(1.0, []string{"A", "A", "A"}, 2, WithMaxTotalAttempts(2000))
	require.NoError(Te, err)
	undone0, undone1, replaced1, moved0 := 0, 0, 0, 0
	for seed := uint64(1); seed <= 30; seed++ {
		G, start := obstacles(box, 3)
		var was0, was1, reached2 bool
		var pos0 [3]float64
		W := &watcher{src: rand.NewPCG(seed, seed)}
		W.see = func() {
			p0, p1 := G.Placed(start), G.Placed(start+1)
			if was0 && !p0 && !reached2 {
				undone0++
			}
			if was1 && !p1 {
				undone1++
			}
			if !was1 && p1 && reached2 {
				replaced1++
			}
			if p1 && !reached2 {
				//bead 2 is being tried for the first time.
				reached2 = true
				pos0 = G.Particle(start).Pos
			}
			if reached2 && (!p0 || G.Particle(start).Pos != pos0) {
				moved0++
			}
			was0, was1 = p0, p1
		}
		err := P.GenerateParticles(G, rand.New(W), start)
		if err != nil {
			require.True(Te, errors.Is(err, ErrExhausted))
			for i := 0; i < 3; i++ {
				assert.False(Te, G.Placed(start+i))
			}
			continue
		}
		for i := 1; i < 3; i++ {
			d := math.Sqrt(box.Distance2(G.Particle(start+i).Pos, G.Particle(start+i-1).Pos))
			assert.InDelta(Te, 1.0, d, 1e-9)
		}
		assert.Equal(Te, pos0, G.Particle(start).Pos, "seed %d", seed)
	}
	assert.Zero(Te, moved0, "bead 0 moved after bead 1 was placed")
	assert.NotZero(Te, undone1, "bead 1 was never taken back")
	assert.NotZero(Te, replaced1, "bead 1 was never placed again")
	assert.NotZero(Te, undone0, "bead 0 was never taken back")
}
