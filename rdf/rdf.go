/*
 * rdf.go, part of gopack
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

// Package rdf checks generated configurations: overlaps between particles,
// radial distribution functions for each pair of types and bond lengths.
package rdf

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	pack "github.com/rmera/gopack"
	"github.com/rmera/gopack/histo"
	"github.com/rmera/gopack/top"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrInvalid is wrapped by the errors of this package.
var ErrInvalid = errors.New("invalid rdf input")

// Options for the RDF calculation.
type Options struct {
	cpus int
	step float64
	end  float64
}

// DefaultOptions returns Options with the default values: one goroutine per CPU,
// bins of 0.05 up to 5 length units.
func DefaultOptions() *Options {
	return &Options{cpus: runtime.NumCPU(), step: 0.05, end: 5}
}

// Cpus returns the number of goroutines used in the calculation and sets it,
// if a valid value is given.
func (o *Options) Cpus(cpus ...int) int {
	ret := o.cpus
	if len(cpus) > 0 && cpus[0] > 0 {
		o.cpus = cpus[0]
	}
	return ret
}

// Step returns the width of the bins and sets it, if a valid value is given.
func (o *Options) Step(step ...float64) float64 {
	ret := o.step
	if len(step) > 0 && step[0] > 0 {
		o.step = step[0]
	}
	return ret
}

// End returns the largest distance considered and sets it, if a valid value is given.
func (o *Options) End(end ...float64) float64 {
	ret := o.end
	if len(end) > 0 && end[0] > 0 {
		o.end = end[0]
	}
	return ret
}

// System is what the functions of this package need from a configuration.
// *pack.RandomGenerator implements it.
type System interface {
	Box() pack.Box
	Particles() []pack.Particle
	TypeMapping() []string
}

// rows runs f for every particle index i, split among cpus goroutines. Worker w
// gets i = w, w+cpus, w+2*cpus...
func rows(n, cpus int, f func(w, i int) error) error {
	if cpus < 1 {
		cpus = 1
	}
	if cpus > n && n > 0 {
		cpus = n
	}
	var g errgroup.Group
	for w := 0; w < cpus; w++ {
		g.Go(func() error {
			for i := w; i < n; i += cpus {
				if err := f(w, i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// Violation is a pair of particles closer than the sum of their radii.
type Violation struct {
	I, J     int
	Distance float64
	Min      float64 //sum of the radii
}

// Violations returns every pair of particles in S closer than the sum of their
// radii, sorted by I and then J. The tolerance is relative to the sum of the radii.
func Violations(S System, radii map[string]float64, tolerance float64, o *Options) ([]Violation, error) {
	if o == nil {
		o = DefaultOptions()
	}
	P := S.Particles()
	box := S.Box()
	for _, p := range P {
		if _, ok := radii[p.Type]; !ok {
			return nil, &Error{fmt.Sprintf("no radius for type %q", p.Type), []string{"Violations"}, true}
		}
	}
	cpus := o.Cpus()
	part := make([][]Violation, cpus)
	err := rows(len(P), cpus, func(w, i int) error {
		for j := i + 1; j < len(P); j++ {
			sum := radii[P[i].Type] + radii[P[j].Type]
			d := math.Sqrt(box.Distance2(P[i].Pos, P[j].Pos))
			if d < sum*(1-tolerance) {
				part[w] = append(part[w], Violation{I: i, J: j, Distance: d, Min: sum})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mergeViolations(part), nil
}

// mergeViolations puts together the per-worker lists, ordered by I, J. Each worker's
// list is already in that order.
func mergeViolations(part [][]Violation) []Violation {
	ret := make([]Violation, 0)
	pos := make([]int, len(part))
	for {
		best := -1
		for w, p := range part {
			if pos[w] >= len(p) {
				continue
			}
			if best < 0 {
				best = w
				continue
			}
			a, b := p[pos[w]], part[best][pos[best]]
			if a.I < b.I || (a.I == b.I && a.J < b.J) {
				best = w
			}
		}
		if best < 0 {
			return ret
		}
		ret = append(ret, part[best][pos[best]])
		pos[best]++
	}
}

// MinDistance returns the smallest minimum-image distance in S, and the pair
// at that distance. It returns +Inf and -1, -1 for less than 2 particles.
func MinDistance(S System) (float64, int, int) {
	P := S.Particles()
	box := S.Box()
	best, bi, bj := math.Inf(1), -1, -1
	for i := range P {
		for j := i + 1; j < len(P); j++ {
			if d := box.Distance2(P[i].Pos, P[j].Pos); d < best {
				best, bi, bj = d, i, j
			}
		}
	}
	return math.Sqrt(best), bi, bj
}

// RDF holds the radial distribution functions of every pair of particle types.
type RDF struct {
	Types  []string
	R      []float64 //bin centers
	Counts *histo.Matrix
	g      [][]float64 //upper triangle, row-major, like Counts
}

// pairIndex returns the index of the pair (a, b) in an upper triangle of n types.
func pairIndex(a, b, n int) int {
	if a > b {
		a, b = b, a
	}
	return a*n - a*(a-1)/2 + (b - a)
}

// pair returns the indexes of the types a and b.
func (R *RDF) pair(a, b string) (int, int, error) {
	ia, ib := -1, -1
	for i, t := range R.Types {
		if t == a {
			ia = i
		}
		if t == b {
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return 0, 0, &Error{fmt.Sprintf("no types %q and %q in the RDF", a, b), []string{"pair"}, true}
	}
	return ia, ib, nil
}

// G returns g(r) for the types a and b, in the same order as R.
func (R *RDF) G(a, b string) ([]float64, error) {
	ia, ib, err := R.pair(a, b)
	if err != nil {
		return nil, errDecorate(err, "G")
	}
	return R.g[pairIndex(ia, ib, len(R.Types))], nil
}

// Distributions returns a copy of Counts where every histogram holds the
// fraction of its counted pairs that fall in each bin.
func (R *RDF) Distributions() *histo.Matrix {
	D := histo.NewMatrix(R.Counts.Dims(), R.Counts.CopyDividers())
	D.Merge(R.Counts)
	D.NormalizeAll()
	return D
}

// Distribution returns the distance distribution of the types a and b, as
// given by Distributions, in the same order as R.
func (R *RDF) Distribution(a, b string) ([]float64, error) {
	ia, ib, err := R.pair(a, b)
	if err != nil {
		return nil, errDecorate(err, "Distribution")
	}
	return R.Distributions().View(ia, ib).Copy(), nil
}

// Pairs returns the number of pairs of each pair of types closer than the
// end distance. The result is symmetric and indexed like Types.
func (R *RDF) Pairs() [][]float64 {
	p, _ := R.Counts.FromAll(func(D *histo.Data) (float64, error) { return D.Sum(), nil })
	return p
}

// Compute obtains g(r) for every pair of types in S, using particles at distances
// below o.End(), which can't be larger than half the shortest edge of the box.
func Compute(S System, o *Options) (*RDF, error) {
	if o == nil {
		o = DefaultOptions()
	}
	box := S.Box()
	l := box.L()
	if o.End() > floats.Min(l[:])/2 {
		return nil, &Error{fmt.Sprintf("end distance %g beyond half the shortest box edge", o.End()), []string{"Compute"}, true}
	}
	types := S.TypeMapping()
	nt := len(types)
	if nt == 0 {
		return nil, &Error{"no particle types", []string{"Compute"}, true}
	}
	ids := make(map[string]int, nt)
	for i, t := range types {
		ids[t] = i
	}
	P := S.Particles()
	tid := make([]int, len(P))
	ntype := make([]float64, nt)
	for i, p := range P {
		id, ok := ids[p.Type]
		if !ok {
			return nil, &Error{fmt.Sprintf("particle %d has type %q, not in the type mapping", i, p.Type), []string{"Compute"}, true}
		}
		tid[i] = id
		ntype[id]++
	}
	nbins := int(math.Round(o.End() / o.Step()))
	if nbins < 1 {
		nbins = 1
	}
	dividers := histo.Uniform(0, o.End(), nbins)
	step := dividers[1] - dividers[0]
	end2 := o.End() * o.End()
	cpus := o.Cpus()
	npairs := nt * (nt + 1) / 2
	//one set of integer counts per worker, merged in worker order afterwards.
	part := make([][][]int, cpus)
	for w := range part {
		part[w] = make([][]int, npairs)
		for k := range part[w] {
			part[w][k] = make([]int, nbins)
		}
	}
	err := rows(len(P), cpus, func(w, i int) error {
		for j := i + 1; j < len(P); j++ {
			d2 := box.Distance2(P[i].Pos, P[j].Pos)
			if d2 >= end2 {
				continue
			}
			b := int(math.Sqrt(d2) / step)
			if b >= nbins {
				continue
			}
			part[w][pairIndex(tid[i], tid[j], nt)][b]++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	ret := &RDF{Types: types, Counts: histo.NewMatrix(nt, dividers)}
	for a := 0; a < nt; a++ {
		for b := a; b < nt; b++ {
			for w := range part {
				ret.Counts.View(a, b).AddCounts(part[w][pairIndex(a, b, nt)])
			}
		}
	}
	ret.R = ret.Counts.View(0, 0).Centers()
	ret.g = make([][]float64, npairs)
	vol := box.Volume()
	for a := 0; a < nt; a++ {
		for b := a; b < nt; b++ {
			pairs := ntype[a] * ntype[b]
			if a == b {
				pairs = ntype[a] * (ntype[a] - 1) / 2
			}
			c := ret.Counts.View(a, b).View()
			g := make([]float64, nbins)
			for k := range g {
				shell := 4.0 / 3.0 * math.Pi * (math.Pow(dividers[k+1], 3) - math.Pow(dividers[k], 3))
				if ideal := pairs * shell / vol; ideal > 0 {
					g[k] = c[k] / ideal
				}
			}
			ret.g[pairIndex(a, b, nt)] = g
		}
	}
	return ret, nil
}

// bondBins is the number of bins of BondLengths.Histo.
const bondBins = 21

// BondLengths summarizes the minimum-image lengths of the bonds of a topology.
type BondLengths struct {
	N         int
	Mean, Std float64
	Min, Max  float64
	Histo     *histo.Data //from 0.9*Min to 1.1*Max, nil if Max is 0
}

// Bonds returns the statistics of the lengths of the bonds in T, with the
// positions of S.
func Bonds(S System, T *top.Topology) (BondLengths, error) {
	P := S.Particles()
	box := S.Box()
	if T == nil || len(T.Bonds) == 0 {
		return BondLengths{}, &Error{"no bonds", []string{"Bonds"}, true}
	}
	l := make([]float64, 0, len(T.Bonds))
	for _, b := range T.Bonds {
		if b.A >= len(P) || b.B >= len(P) {
			return BondLengths{}, &Error{fmt.Sprintf("bond %d-%d out of range", b.A, b.B), []string{"Bonds"}, true}
		}
		l = append(l, math.Sqrt(box.Distance2(P[b.A].Pos, P[b.B].Pos)))
	}
	ret := BondLengths{N: len(l), Min: floats.Min(l), Max: floats.Max(l)}
	ret.Mean, ret.Std = stat.MeanStdDev(l, nil)
	if len(l) < 2 {
		ret.Std = 0
	}
	if ret.Max > 0 {
		ret.Histo = histo.NewData(histo.Uniform(0.9*ret.Min, 1.1*ret.Max, bondBins), l)
	}
	return ret, nil
}

//Errors

// Error is the error type of the package.
type Error struct {
	message  string
	deco     []string
	critical bool
}

func (err *Error) Error() string { return fmt.Sprintf("goPack/rdf: %s", err.message) }

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

func errDecorate(err error, caller string) error {
	if d, ok := err.(pack.Decorator); ok {
		d.Decorate(caller)
	}
	return err
}
