/*
 * v3_test.go, part of gopack.
 *
 * Copyright 2013 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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

package v3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewMatrix(Te *testing.T) {
	_, err := NewMatrix([]float64{1, 2, 3, 4})
	require.Error(Te, err)
	_, err = NewMatrix(nil)
	require.Error(Te, err)
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	require.NoError(Te, err)
	assert.Equal(Te, 3, A.NVecs())
	assert.Equal(Te, [3]float64{4, 5, 6}, A.Vec(1))
}

func TestSomeVecs(Te *testing.T) {
	a := []float64{1.0, 2.0, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18}
	A, err := NewMatrix(a)
	require.NoError(Te, err)
	B := Zeros(3)
	cind := []int{1, 3, 5}
	require.NoError(Te, B.SomeVecsSafe(A, cind))
	assert.Equal(Te, [3]float64{10, 11, 12}, B.Vec(1))
	B.Set(1, 1, 55)
	A.SetVecs(B, cind)
	assert.Equal(Te, 55.0, A.At(3, 1))
	//wrong size target
	C := Zeros(2)
	assert.Error(Te, C.SomeVecsSafe(A, cind))
}

func TestViews(Te *testing.T) {
	A := Zeros(4)
	v := A.VecView(2)
	v.Set(0, 0, 100)
	assert.Equal(Te, 100.0, A.At(2, 0))
	w := A.View(1, 2)
	assert.Equal(Te, 2, w.NVecs())
	assert.Equal(Te, 100.0, w.At(1, 0))
	A.SwapVecs(0, 2)
	assert.Equal(Te, [3]float64{100, 0, 0}, A.Vec(0))
	assert.Equal(Te, [3]float64{0, 0, 0}, A.Vec(2))
}

func TestAddSubVec(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	require.NoError(Te, err)
	row, err := NewMatrix([]float64{10, 20, 30})
	require.NoError(Te, err)
	A.AddVec(A, row)
	assert.Equal(Te, [3]float64{14, 25, 36}, A.Vec(1))
	A.SubVec(A, row)
	assert.Equal(Te, [3]float64{4, 5, 6}, A.Vec(1))
	assert.Equal(Te, [3]float64{10, 20, 30}, row.Vec(0))
}

func TestDenseRoundTrip(Te *testing.T) {
	d := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	A := Dense2Matrix(d)
	A.Set(0, 0, 9)
	assert.Equal(Te, 9.0, Matrix2Dense(A).At(0, 0))
	assert.Panics(Te, func() { Dense2Matrix(mat.NewDense(2, 2, nil)) })
	assert.Contains(Te, A.String(), "9.00")
}
