package rdf

import (
	"errors"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	pack "github.com/rmera/gopack"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

type system struct {
	box   pack.Box
	p     []pack.Particle
	types []string
}

func (s system) Box() pack.Box              { return s.box }
func (s system) Particles() []pack.Particle { return s.p }
func (s system) TypeMapping() []string      { return s.types }

// idealGas puts n particles of types A and B uniformly in a cube of side 10.
func idealGas(n int) system {
	rnd := rand.New(rand.NewPCG(1, 2))
	s := system{box: pack.NewCubicBox(10), types: []string{"A", "B"}}
	for i := 0; i < n; i++ {
		var p pack.Particle
		for k := range p.Pos {
			p.Pos[k] = -5 + 10*rnd.Float64()
		}
		p.Type = "A"
		if i%2 == 1 {
			p.Type = "B"
		}
		s.p = append(s.p, p)
	}
	return s
}

func TestIdealGas(Te *testing.T) {
	S := idealGas(2000)
	o := DefaultOptions()
	o.End(3)
	o.Step(0.1)
	o.Cpus(4)
	R, err := Compute(S, o)
	require.NoError(Te, err)
	require.Len(Te, R.R, 30)
	assert.InDelta(Te, 0.05, R.R[0], 1e-9)
	for _, pair := range [][2]string{{"A", "A"}, {"A", "B"}, {"B", "B"}} {
		g, err := R.G(pair[0], pair[1])
		require.NoError(Te, err)
		//bins from r=1 on have enough pairs to be close to 1
		assert.InDelta(Te, 1.0, floats.Sum(g[10:])/20, 0.05, "pair %v", pair)
	}
	gab, _ := R.G("A", "B")
	gba, _ := R.G("B", "A")
	assert.Equal(Te, gab, gba)
	_, err = R.G("A", "C")
	assert.True(Te, errors.Is(err, ErrInvalid))

	//the result doesn't depend on the number of goroutines
	o.Cpus(1)
	R1, err := Compute(S, o)
	require.NoError(Te, err)
	for _, t := range [][2]int{{0, 0}, {0, 1}, {1, 1}} {
		assert.Equal(Te, R.Counts.View(t[0], t[1]).View(), R1.Counts.View(t[0], t[1]).View())
	}

	P := R.Pairs()
	assert.Equal(Te, P[0][1], P[1][0])
	assert.Equal(Te, R.Counts.View(0, 1).Sum(), P[1][0])
	for _, pair := range [][2]string{{"A", "A"}, {"A", "B"}, {"B", "B"}} {
		d, err := R.Distribution(pair[0], pair[1])
		require.NoError(Te, err)
		assert.Len(Te, d, 30)
		assert.InDelta(Te, 1.0, floats.Sum(d), 1e-9, "pair %v", pair)
	}
	//Counts is left as it was.
	assert.False(Te, R.Counts.View(0, 0).Normalized())
	assert.Equal(Te, P[0][0], R.Counts.View(0, 0).Sum())
	_, err = R.Distribution("C", "A")
	assert.True(Te, errors.Is(err, ErrInvalid))

	o.End(6)
	_, err = Compute(S, o)
	assert.True(Te, errors.Is(err, ErrInvalid))

	file := filepath.Join(Te.TempDir(), "gr.png")
	require.NoError(Te, Plot(R, "ideal gas", file))
	info, err := os.Stat(file)
	require.NoError(Te, err)
	assert.Positive(Te, info.Size())
}

func TestViolations(Te *testing.T) {
	S := system{box: pack.NewCubicBox(10), types: []string{"A"}}
	for _, x := range []float64{-4.8, 4.7, 0, 0.9, 2} {
		S.p = append(S.p, pack.Particle{Pos: [3]float64{x, 0, 0}, Type: "A"})
	}
	radii := map[string]float64{"A": 0.5}
	v, err := Violations(S, radii, 1e-9, DefaultOptions())
	require.NoError(Te, err)
	require.Len(Te, v, 2)
	assert.Equal(Te, 0, v[0].I)
	assert.Equal(Te, 1, v[0].J)
	assert.InDelta(Te, 0.5, v[0].Distance, 1e-9)
	assert.Equal(Te, 2, v[1].I)
	assert.Equal(Te, 3, v[1].J)
	assert.Equal(Te, 1.0, v[1].Min)

	d, i, j := MinDistance(S)
	assert.InDelta(Te, 0.5, d, 1e-9)
	assert.Equal(Te, [2]int{0, 1}, [2]int{i, j})

	_, err = Violations(S, map[string]float64{}, 0, nil)
	assert.True(Te, errors.Is(err, ErrInvalid))
	d, i, _ = MinDistance(system{box: pack.NewCubicBox(1)})
	assert.True(Te, math.IsInf(d, 1))
	assert.Equal(Te, -1, i)
}

func TestGeneratedChains(Te *testing.T) {
	l, _ := test.NewNullLogger()
	R := pack.NewRandomGenerator(pack.NewCubicBox(10), 42, pack.WithLogger(l))
	R.SetSeparationRadius("A", 0.5)
	R.SetSeparationRadius("S", 0.4)
	P, err := pack.NewPolymerGenerator(1.0, []string{"A", "A", "A", "A"}, 100)
	require.NoError(Te, err)
	M, err := pack.NewMonomerGenerator("S", 100)
	require.NoError(Te, err)
	require.NoError(Te, R.AddGenerator(10, P))
	require.NoError(Te, R.AddGenerator(50, M))
	require.NoError(Te, R.Generate())

	v, err := Violations(R, map[string]float64{"A": 0.5, "S": 0.4}, 1e-9, nil)
	require.NoError(Te, err)
	assert.Empty(Te, v)

	T, err := R.Topology()
	require.NoError(Te, err)
	b, err := Bonds(R, T)
	require.NoError(Te, err)
	assert.Equal(Te, 30, b.N)
	assert.InDelta(Te, 1.0, b.Mean, 1e-9)
	assert.InDelta(Te, 0.0, b.Std, 1e-9)
	assert.InDelta(Te, 1.0, b.Min, 1e-9)
	assert.InDelta(Te, 1.0, b.Max, 1e-9)
	require.NotNil(Te, b.Histo)
	assert.Equal(Te, 30, b.Histo.Total())
	assert.Equal(Te, 30.0, b.Histo.Sum())
	assert.Equal(Te, 30.0, floats.Max(b.Histo.View()))
	_, err = Bonds(R, nil)
	assert.Error(Te, err)
}
