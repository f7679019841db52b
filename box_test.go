package pack

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxWrap(Te *testing.T) {
	B := NewCubicBox(10)
	p, img := B.Wrap([3]float64{6, 0, -5.5})
	assert.InDeltaSlice(Te, []float64{-4, 0, 4.5}, p[:], 1e-12)
	assert.Equal(Te, [3]int{1, 0, -1}, img)
	//the upper face belongs to the next image
	p, img = B.Wrap([3]float64{5, -5, 25})
	assert.InDeltaSlice(Te, []float64{-5, -5, -5}, p[:], 1e-12)
	assert.Equal(Te, [3]int{1, 0, 3}, img)
	assert.True(Te, B.Contains(p))
	assert.False(Te, B.Contains([3]float64{5, 0, 0}))
}

func TestBoxMinImage(Te *testing.T) {
	B := NewBox(10, 4, 6)
	d := B.MinImage([3]float64{6, 1, -4})
	assert.InDeltaSlice(Te, []float64{-4, 1, 2}, d[:], 1e-12)
	assert.InDelta(Te, 0.04, B.Distance2([3]float64{4.9, 0, 0}, [3]float64{-4.9, 0, 0}), 1e-9)
	assert.InDelta(Te, 240.0, B.Volume(), 1e-12)
}

func TestBoxCheck(Te *testing.T) {
	assert.NoError(Te, NewCubicBox(1).Check())
	for _, b := range []Box{NewCubicBox(0), NewBox(1, -1, 1), NewBox(1, 1, math.Inf(1)), NewBox(math.NaN(), 1, 1)} {
		err := b.Check()
		require.Error(Te, err)
		assert.True(Te, errors.Is(err, ErrPrecondition))
	}
}
