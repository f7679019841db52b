package histo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestData(Te *testing.T) {
	div := []float64{0, 1, 2, 3, 4, 8}
	rawdata := []float64{1, 6, 3, 2, 4, 5, 7, 6, 3.5, 3, 5, 1, 1, 0, 0, 5, 8, 1, 2, 3, 44, 3, 7, 3, 1, 3, 5, 32, 1}
	D := NewData(div, append([]float64(nil), rawdata...))
	assert.Equal(Te, []float64{2, 6, 2, 7, 9}, D.View())
	assert.Equal(Te, len(rawdata), D.Total())

	E := NewData(div, nil, 3)
	E.AddData(rawdata...)
	assert.Equal(Te, D.View(), E.View())
	assert.Equal(Te, 3, E.ID())
	assert.Equal(Te, len(rawdata), E.Total())

	E.Normalize()
	assert.True(Te, E.Normalized())
	assert.InDelta(Te, 26.0/29.0, E.Sum(), 1e-12)
	E.Normalize()
	E.AddData(0.5)
	E.UnNormalize()
	assert.InDelta(Te, 3.0, E.View()[0], 1e-9)

	assert.Equal(Te, []float64{0.5, 1.5, 2.5, 3.5, 6}, D.Centers())
	F := NewData(div, nil)
	F.Add(D, D)
	assert.Equal(Te, []float64{4, 12, 4, 14, 18}, F.View())
	assert.Equal(Te, 2*len(rawdata), F.Total())
	assert.Equal(Te, []float64{2, 6, 2, 7, 9}, D.Copy())
	assert.Panics(Te, func() { F.Add(D, NewData([]float64{0, 1}, nil)) })
}

func TestUniform(Te *testing.T) {
	assert.Equal(Te, []float64{0, 0.5, 1, 1.5, 2}, Uniform(0, 2, 4))
	assert.Panics(Te, func() { Uniform(1, 1, 3) })
	D := NewData(Uniform(0, 2, 4), nil)
	D.AddCounts([]int{1, 0, 2, 0})
	assert.Equal(Te, 3, D.Total())
	D.AddData(1.0, 1.99, 2.0, -0.1)
	assert.Equal(Te, []float64{1, 0, 3, 1}, D.View())
}

func TestMatrix(Te *testing.T) {
	M := NewMatrix(3, []float64{0, 1, 2})
	assert.Equal(Te, 3, M.Dims())
	M.AddData(2, 0, 0.5, 1.5, 1.7)
	assert.Same(Te, M.View(0, 2), M.View(2, 0))
	assert.Equal(Te, []float64{1, 2}, M.View(0, 2).View())
	assert.Equal(Te, 0.0, M.View(1, 1).Sum())
	assert.Error(Te, M.Check(3, 0))
	assert.Panics(Te, func() { M.View(0, 3) })

	N := NewMatrix(3, []float64{0, 1, 2})
	N.AddData(0, 2, 0.1)
	M.Merge(N)
	assert.Equal(Te, []float64{2, 2}, M.View(0, 2).View())
	assert.Equal(Te, 4, M.View(0, 2).Total())

	sums, err := M.FromAll(func(D *Data) (float64, error) { return D.Sum(), nil })
	require.NoError(Te, err)
	assert.Equal(Te, 4.0, sums[2][0])
	assert.Equal(Te, sums[0][2], sums[2][0])

	j, err := json.Marshal(M)
	require.NoError(Te, err)
	M2 := new(Matrix)
	require.NoError(Te, json.Unmarshal(j, M2))
	assert.Equal(Te, M.View(0, 2).View(), M2.View(2, 0).View())
	assert.Equal(Te, M.CopyDividers(), M2.CopyDividers())
	assert.Error(Te, json.Unmarshal([]byte(`{"n":3,"data":[],"dividers":[0,1]}`), M2))
}
