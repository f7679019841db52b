package pack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridPlaceUndo(Te *testing.T) {
	G := newGrid(10, NewCubicBox(10), map[string]float64{"A": 0.5, "B": 0.25})
	require.Equal(Te, 10, G.Len())
	a := Particle{Pos: [3]float64{4.9, 0, 0}, Type: "A"}
	require.True(Te, G.CanPlace(a))
	G.Place(a, 0)
	assert.True(Te, G.Placed(0))
	assert.False(Te, G.Placed(1))
	//across the periodic boundary
	assert.False(Te, G.CanPlace(Particle{Pos: [3]float64{-4.9, 0, 0}, Type: "A"}))
	assert.True(Te, G.CanPlace(Particle{Pos: [3]float64{-4.0, 0, 0}, Type: "A"}))
	//mixed radii: 0.5+0.25
	assert.False(Te, G.CanPlace(Particle{Pos: [3]float64{4.9, 0.7, 0}, Type: "B"}))
	assert.True(Te, G.CanPlace(Particle{Pos: [3]float64{4.9, 0.8, 0}, Type: "B"}))
	//touching exactly is allowed
	assert.True(Te, G.CanPlace(Particle{Pos: [3]float64{3.9, 0, 0}, Type: "A"}))

	b := Particle{Pos: [3]float64{4.9, 0, 0.6}, Type: "B"}
	G.Place(b, 1)
	G.UndoPlace(0)
	assert.False(Te, G.Placed(0))
	assert.Equal(Te, Particle{}, G.Particle(0))
	assert.Equal(Te, b, G.Particle(1))
	assert.True(Te, G.CanPlace(Particle{Pos: [3]float64{4.9, 0, -0.5}, Type: "A"}))
	assert.False(Te, G.CanPlace(Particle{Pos: [3]float64{4.9, 0, 0.2}, Type: "A"}))
	//undoing an empty slot does nothing
	G.UndoPlace(0)
	G.UndoPlace(1)
	assert.True(Te, G.CanPlace(Particle{Pos: [3]float64{4.9, 0, 0.6}, Type: "A"}))
	for _, bin := range G.bins {
		assert.Empty(Te, bin)
	}
}

func uniqueInts(s []int) bool {
	seen := make(map[int]bool)
	for _, v := range s {
		if seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

func TestGridNeighbors(Te *testing.T) {
	box := NewCubicBox(10)
	cases := []struct {
		n      int
		r      float64
		m      int
		neighs int
	}{
		{1, 4, 1, 1},
		{1000, 2.4, 2, 8},
		{1000, 0.6, 8, 27},
	}
	for _, c := range cases {
		G := newGrid(c.n, box, map[string]float64{"A": c.r})
		assert.Equal(Te, [3]int{c.m, c.m, c.m}, G.Bins())
		nb := G.neighborBins(G.binCoord([3]float64{0, 0, 0}))
		assert.Len(Te, nb, c.neighs)
		assert.True(Te, uniqueInts(nb))
	}
	//a particle on the last bin sees the first one
	G := newGrid(1000, box, map[string]float64{"A": 0.6})
	nb := G.neighborBins(G.binCoord([3]float64{4.99, 4.99, 4.99}))
	assert.Contains(Te, nb, G.binIndex([3]int{0, 0, 0}))
}

func TestGridZeroRadius(Te *testing.T) {
	G := newGrid(4, NewCubicBox(2), map[string]float64{"P": 0})
	assert.Equal(Te, [3]int{1, 1, 1}, G.Bins())
	p := Particle{Pos: [3]float64{0.1, 0.1, 0.1}, Type: "P"}
	G.Place(p, 0)
	assert.True(Te, G.CanPlace(Particle{Pos: [3]float64{0.1, 0.1, 0.1000001}, Type: "P"}))
}
