/*
 * histo.go, part of gopack
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

// Package histo implements histograms and symmetric matrices of histograms,
// one per pair of particle types, for distance distributions.
package histo

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Uniform returns n+1 evenly spaced dividers between lo and hi, i.e. the
// dividers for n bins of the same width.
func Uniform(lo, hi float64, n int) []float64 {
	if n < 1 || !(hi > lo) {
		panic("goPack/histo.Uniform: need at least one bin and hi > lo")
	}
	return floats.Span(make([]float64, n+1), lo, hi)
}

//MatrixCombine combines 2 matrices element-wise using the function f, which takes the 2 histograms to be
//combined and one more where the result is stored.
func MatrixCombine(f func(a, b, dest *Data), a, b, dest *Matrix) {
	if a.n != b.n || a.n != dest.n {
		panic("goPack/histo.MatrixCombine: Ill-formed matrices for merging")
	}
	if !floats.Equal(a.dividers, b.dividers) {
		panic("goPack/histo.MatrixCombine: Matrices don't have the same dividers")
	}
	for i, v := range dest.d {
		f(a.d[i], b.d[i], v)
	}
}

// Matrix is a symmetric n x n matrix of histograms, all with the same dividers.
// Only the upper triangle is stored, so (i,j) and (j,i) are the same histogram.
type Matrix struct {
	n        int
	d        []*Data //upper triangle, row-major
	dividers []float64
}

//NewMatrix returns a new n x n matrix filled with empty histograms with the given dividers.
func NewMatrix(n int, dividers []float64) *Matrix {
	M := &Matrix{n: n, dividers: append([]float64(nil), dividers...)}
	M.d = make([]*Data, n*(n+1)/2)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			M.d[M.index(i, j)] = NewData(M.dividers, nil, i*n+j)
		}
	}
	return M
}

// Dims returns the number of rows (and columns) of the matrix.
func (M *Matrix) Dims() int {
	return M.n
}

// index returns the position of (r,c) in the stored triangle. It panics if either is out of range.
func (M *Matrix) index(r, c int) int {
	if err := M.Check(r, c); err != nil {
		panic(err.Error())
	}
	if r > c {
		r, c = c, r
	}
	//rows before r hold n, n-1, ... n-r+1 elements.
	return r*M.n - r*(r-1)/2 + (c - r)
}

// Check returns an error if the given row or column are out of range.
func (M *Matrix) Check(r, c int) error {
	if r < 0 || r >= M.n {
		return fmt.Errorf("goPack/histo: Row %d out of range", r)
	}
	if c < 0 || c >= M.n {
		return fmt.Errorf("goPack/histo: Column %d out of range", c)
	}
	return nil
}

// CopyDividers copies the dividers shared by all histograms of the matrix.
func (M *Matrix) CopyDividers(dest ...[]float64) []float64 {
	d := getCopySlice(len(M.dividers), dest...)
	copy(d, M.dividers)
	return d
}

// View returns the histogram for the pair r,c. Changes to it are changes to the matrix.
func (M *Matrix) View(r, c int) *Data {
	return M.d[M.index(r, c)]
}

// AddData adds one or more points to the histogram for the pair r,c.
func (M *Matrix) AddData(r, c int, point ...float64) {
	M.d[M.index(r, c)].AddData(point...)
}

// Merge adds the counts of A to the receiver. Both must have the same
// shape and dividers and be un-normalized.
func (M *Matrix) Merge(A *Matrix) {
	MatrixCombine(func(a, b, dest *Data) { dest.Add(a, b) }, M, A, M)
}

// NormalizeAll normalizes every histogram in the matrix.
func (M *Matrix) NormalizeAll() {
	for _, v := range M.d {
		v.Normalize()
	}
}

// FromAll applies f to the histogram of each pair r <= c, returning the results in an
// n x n slice, symmetric.
func (M *Matrix) FromAll(f func(D *Data) (float64, error)) ([][]float64, error) {
	r := make([][]float64, M.n)
	for i := range r {
		r[i] = make([]float64, M.n)
	}
	for i := 0; i < M.n; i++ {
		for j := i; j < M.n; j++ {
			v, err := f(M.View(i, j))
			if err != nil {
				return nil, fmt.Errorf("goPack/histo.Matrix.FromAll: Error at %d, %d: %w", i, j, err)
			}
			r[i][j], r[j][i] = v, v
		}
	}
	return r, nil
}

func (M *Matrix) String() string {
	t := make([]string, 0, len(M.d))
	for _, v := range M.d {
		t = append(t, v.String())
	}
	return fmt.Sprintf("pairs of %d | Data:\n", M.n) + strings.Join(t, "\n\n")
}

type jsonMatrix struct {
	N        int       `json:"n"`
	D        []*Data   `json:"data"`
	Dividers []float64 `json:"dividers"`
}

func (M *Matrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonMatrix{N: M.n, D: M.d, Dividers: M.dividers})
}

func (M *Matrix) UnmarshalJSON(b []byte) error {
	var a jsonMatrix
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if len(a.D) != a.N*(a.N+1)/2 {
		return fmt.Errorf("goPack/histo: %d histograms can't fill a symmetric %d x %d matrix", len(a.D), a.N, a.N)
	}
	M.n = a.N
	M.d = a.D
	M.dividers = a.Dividers
	return nil
}

// Data is a histogram. Points outside the range of the dividers are counted
// in the total, but not in any bin.
type Data struct {
	id         int
	normalized bool
	total      int
	dividers   []float64
	histo      []float64
}

type jsonData struct {
	ID         int       `json:"id"`
	Normalized bool      `json:"normalized"`
	Total      int       `json:"total"`
	Dividers   []float64 `json:"dividers"`
	Histo      []float64 `json:"histo"`
}

func (D *Data) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonData{ID: D.id, Normalized: D.normalized, Total: D.total, Dividers: D.dividers, Histo: D.histo})
}

func (D *Data) UnmarshalJSON(b []byte) error {
	var a jsonData
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if len(a.Dividers) != len(a.Histo)+1 {
		return fmt.Errorf("goPack/histo: %d dividers for %d bins", len(a.Dividers), len(a.Histo))
	}
	D.id = a.ID
	D.normalized = a.Normalized
	D.total = a.Total
	D.dividers = a.Dividers
	D.histo = a.Histo
	return nil
}

//NewData returns a new histogram from the dividers and rawdata given.
//rawdata can be nil. In that case, an empty histogram is created.
//If an ID for the histogram is given, it will be set. If not, the ID will
//be set to -1.
func NewData(dividers []float64, rawdata []float64, ID ...int) *Data {
	if len(dividers) < 2 {
		panic("goPack/histo.NewData: at least 2 dividers needed")
	}
	d := new(Data)
	d.dividers = append([]float64(nil), dividers...)
	d.histo = make([]float64, len(dividers)-1)
	if rawdata != nil {
		d.ReHisto(d.dividers, rawdata)
	}
	d.id = -1
	if len(ID) > 0 {
		d.id = ID[0]
	}
	return d
}

// ID returns the ID of the histogram
func (D *Data) ID() int {
	return D.id
}

// Total returns the number of points added to the histogram, including those out of range.
func (D *Data) Total() int {
	return D.total
}

// String prints a -hopefully- pretty string representation of
// the histogram, in 3 lines of text.
func (D *Data) String() string {
	ret := fmt.Sprintf("ID: %d, Normalized: %v, TotalData: %d\n", D.id, D.normalized, D.total)
	d := make([]string, 0, len(D.histo))
	h := make([]string, 0, len(D.histo))
	for i, v := range D.histo {
		d = append(d, fmt.Sprintf("%4.2f-%4.2f", D.dividers[i], D.dividers[i+1]))
		h = append(h, fmt.Sprintf("%9.3f", v))
	}
	return ret + fmt.Sprintf("%s\n%s", strings.Join(d, " "), strings.Join(h, " "))
}

// bin returns the bin where v falls, or -1 if it is out of range.
func (D *Data) bin(v float64) int {
	last := len(D.dividers) - 1
	if v < D.dividers[0] || v >= D.dividers[last] || math.IsNaN(v) {
		return -1
	}
	//first divider strictly larger than v
	return sort.SearchFloat64s(D.dividers, math.Nextafter(v, math.Inf(1))) - 1
}

// AddData adds the given data point(s) to the histogram.
func (D *Data) AddData(point ...float64) {
	norma := D.normalized
	if norma {
		D.UnNormalize()
	}
	for _, v := range point {
		if b := D.bin(v); b >= 0 {
			D.histo[b]++
		}
	}
	D.total += len(point)
	if norma {
		D.Normalize()
	}
}

// AddCounts adds counts[i] points to each bin i, and to the total.
func (D *Data) AddCounts(counts []int) {
	if len(counts) != len(D.histo) || D.normalized {
		panic("goPack/histo.Data.AddCounts: wrong number of bins, or normalized histogram")
	}
	for i, c := range counts {
		D.histo[i] += float64(c)
		D.total += c
	}
}

// Normalized returns true if the histogram is normalized.
func (D *Data) Normalized() bool {
	return D.normalized
}

// Normalize divides every bin by the total number of points.
func (D *Data) Normalize() {
	D.normaunnorma(true)
}

// UnNormalize reverts Normalize.
func (D *Data) UnNormalize() {
	D.normaunnorma(false)
}

func (D *Data) normaunnorma(normalize bool) {
	if D.total <= 0 || D.normalized == normalize {
		return
	}
	n := float64(D.total)
	if normalize {
		n = 1 / n
	}
	D.normalized = normalize
	floats.Scale(n, D.histo)
}

// CopyDividers copies the dividers of the histogram.
func (D *Data) CopyDividers(dest ...[]float64) []float64 {
	d := getCopySlice(len(D.dividers), dest...)
	copy(d, D.dividers)
	return d
}

// Centers returns the center of each bin.
func (D *Data) Centers() []float64 {
	c := make([]float64, len(D.histo))
	for i := range c {
		c[i] = (D.dividers[i] + D.dividers[i+1]) / 2
	}
	return c
}

// Copy copies the bins of the histogram.
func (D *Data) Copy(dest ...[]float64) []float64 {
	d := getCopySlice(len(D.histo), dest...)
	copy(d, D.histo)
	return d
}

// View returns the bins of the histogram, without copying.
func (D *Data) View() []float64 {
	return D.histo
}

// Add adds the histograms a and b putting the result in the receiver.
// The receiver can be a or b.
func (D *Data) Add(a, b *Data) {
	if !floats.Equal(a.dividers, b.dividers) {
		panic("goPack/histo.Data.Add: Dividers must match in added histograms")
	}
	if len(D.histo) != len(a.histo) {
		D.histo = make([]float64, len(a.histo))
	}
	D.dividers = a.CopyDividers(D.dividers)
	floats.AddTo(D.histo, a.histo, b.histo)
	D.total = a.total + b.total
}

// Sum returns the sum of all bins.
func (D *Data) Sum() float64 {
	return floats.Sum(D.histo)
}

// ReHisto replaces the contents of the histogram with rawdata, binned with dividers.
// rawdata gets sorted.
func (D *Data) ReHisto(dividers, rawdata []float64) {
	D.total = len(rawdata)
	sort.Float64s(rawdata)
	//stat.Histogram panics on values out of range, so they go first.
	maxi := sort.SearchFloat64s(rawdata, dividers[len(dividers)-1])
	mini := sort.SearchFloat64s(rawdata, dividers[0])
	rawdata = rawdata[mini:maxi]
	D.dividers = append(D.dividers[:0], dividers...)
	D.histo = stat.Histogram(nil, D.dividers, rawdata, nil)
	D.normalized = false
}

func getCopySlice(N int, dest ...[]float64) []float64 {
	if len(dest) > 0 && len(dest[0]) >= N {
		return dest[0][:N]
	}
	return make([]float64, N)
}
