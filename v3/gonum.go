/*
 * gonum.go, part of goStopping.
 *
 * Copyright 2024 Raul Mera <rmera{at}usachDOTcl>
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
	"fmt"

	"gonum.org/v1/gonum/mat"
)

const cols int = 3

// Matrix is a set of vectors in 3D space. Within the package a "vector"
// is a row vector, i.e. the cartesian coordinates of one atom.
type Matrix struct {
	*mat.Dense
}

// NewMatrix generates and returns a Matrix with 3 columns from data.
// data is used as backing storage, not copied.
func NewMatrix(data []float64) (*Matrix, error) {
	l := len(data)
	if l == 0 {
		return nil, &Error{"Empty input slice", []string{"NewMatrix"}, true}
	}
	if l%cols != 0 {
		return nil, &Error{fmt.Sprintf("Input slice length %d not divisible by %d", l, cols), []string{"NewMatrix"}, true}
	}
	return &Matrix{mat.NewDense(l/cols, cols, data)}, nil
}

// Zeros returns a zero-filled Matrix with vecs vectors. For vecs < 1
// it returns an empty Matrix, with no vectors.
func Zeros(vecs int) *Matrix {
	if vecs < 1 {
		return &Matrix{new(mat.Dense)}
	}
	f := make([]float64, cols*vecs)
	return &Matrix{mat.NewDense(vecs, cols, f)}
}

// NVecs returns the number of vectors in F.
func (F *Matrix) NVecs() int {
	if F.Dense == nil || F.IsEmpty() {
		return 0
	}
	r, c := F.Dims()
	if c != cols {
		panic(ErrNotXx3Matrix)
	}
	return r
}

// Vec copies the ith vector into a fixed-size array.
func (F *Matrix) Vec(i int) [3]float64 {
	if i < 0 || i >= F.NVecs() {
		panic(ErrIndexOutOfRange)
	}
	return [3]float64{F.At(i, 0), F.At(i, 1), F.At(i, 2)}
}

// SetVec sets the ith vector of F to v.
func (F *Matrix) SetVec(i int, v [3]float64) {
	for j, c := range v {
		F.Set(i, j, c)
	}
}

// String returns a neat string representation of a Matrix.
func (F *Matrix) String() string {
	if F == nil || F.Dense == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%v", mat.Formatted(F.Dense, mat.Squeeze()))
}

// Errors

// Error is the error type of the v3 package. It has the same methods as
// stopping.Error, but avoids a circular import.
type Error struct {
	message  string
	deco     []string
	critical bool
}

// Error returns a string with an error message.
func (err *Error) Error() string {
	return err.message
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice.
func (err *Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Critical return whether the error is critical or it can be ignored
func (err *Error) Critical() bool { return err.critical }

// PanicMsg is a message used for panics, even though it does satisfy the error interface.
// for errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNotXx3Matrix    = PanicMsg("goStopping/v3: A Matrix should have 3 columns")
	ErrIndexOutOfRange = PanicMsg("goStopping/v3: index out of range")
)
