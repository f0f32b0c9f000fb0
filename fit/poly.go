/*
 * poly.go, part of goStopping.
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

/*
Package fit extracts electronic stopping powers from the kinetic energy of a
projectile as a function of its position.

The projectile enters the supercell, travels through it losing energy at a
roughly constant rate, and leaves. BestLinearFit searches all contiguous
windows of the series for the one best explained by a least-squares
polynomial (a straight line by default), scoring them by their coefficient
of determination. The stopping power is minus the slope of that fit.

The search is exhaustive, O(n^3) in the number of timesteps. Runs have tens to
a few hundred timesteps, for which this takes well under a second.
*/
package fit

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Poly is a least-squares polynomial fit.
type Poly struct {
	// Coefficients, highest degree first.
	Coefficients []float64
	// Covariance of the coefficients, in the same order. Entries are +Inf
	// when the fit has no degrees of freedom left.
	Covariance [][]float64
	// Fitted values at each x.
	Fitted []float64
	// Sum of squared residuals.
	SSRes float64
}

// Degree returns the degree of the polynomial.
func (P *Poly) Degree() int {
	return len(P.Coefficients) - 1
}

// Eval evaluates the polynomial with coefficients coeffs (highest degree first) at x.
func Eval(coeffs []float64, x float64) float64 {
	var r float64
	for _, c := range coeffs {
		r = r*x + c
	}
	return r
}

// PolyFit fits a polynomial of the given degree to the points (x,y) by least squares.
// The covariance of the coefficients is scaled by SSRes/(n-degree-1), as is
// customary when the uncertainty of y is unknown.
func PolyFit(x, y []float64, degree int) (*Poly, error) {
	n := len(x)
	if n != len(y) {
		return nil, &Error{message: "different number of x and y values", deco: []string{"PolyFit"}, critical: true, err: ErrLength}
	}
	if degree < 0 {
		return nil, &Error{message: "negative degree", deco: []string{"PolyFit"}, critical: true, err: ErrBadWindow}
	}
	k := degree + 1
	if n < k {
		return nil, &InsufficientDataError{Have: n, Need: k, deco: []string{"PolyFit"}}
	}
	if degree > 0 && floats.Min(x) == floats.Max(x) {
		return nil, &Error{message: "all abscissas are equal", deco: []string{"PolyFit"}, critical: false, err: ErrSingular}
	}
	V := mat.NewDense(n, k, nil)
	for i, xi := range x {
		p := 1.0
		for j := k - 1; j >= 0; j-- {
			V.Set(i, j, p)
			p *= xi
		}
	}
	Y := mat.NewVecDense(n, append([]float64(nil), y...))
	var c mat.VecDense
	if err := c.SolveVec(V, Y); !usable(err) {
		return nil, &Error{message: "singular design matrix", deco: []string{"PolyFit"}, critical: false, err: ErrSingular}
	}
	var fitted mat.VecDense
	fitted.MulVec(V, &c)
	P := &Poly{Coefficients: make([]float64, k), Fitted: make([]float64, n)}
	for i := range P.Coefficients {
		P.Coefficients[i] = c.AtVec(i)
	}
	for i, v := range y {
		P.Fitted[i] = fitted.AtVec(i)
		r := v - P.Fitted[i]
		P.SSRes += r * r
	}
	var vtv, inv mat.Dense
	vtv.Mul(V.T(), V)
	if err := inv.Inverse(&vtv); !usable(err) {
		return nil, &Error{message: "singular normal matrix", deco: []string{"PolyFit"}, critical: false, err: ErrSingular}
	}
	dof := n - k
	P.Covariance = make([][]float64, k)
	for i := range P.Covariance {
		P.Covariance[i] = make([]float64, k)
		for j := range P.Covariance[i] {
			if dof == 0 {
				P.Covariance[i][j] = math.Inf(1)
				continue
			}
			P.Covariance[i][j] = inv.At(i, j) * P.SSRes / float64(dof)
		}
	}
	return P, nil
}

// usable returns true if err is nil, or if it only warns about an
// ill-conditioned (but not singular) matrix, in which case gonum still
// returns a result.
func usable(err error) bool {
	if err == nil {
		return true
	}
	var cond mat.Condition
	if errors.As(err, &cond) {
		return !math.IsInf(float64(cond), 1) && !math.IsNaN(float64(cond))
	}
	return false
}

// RSquared returns the coefficient of determination of the fitted values yfit
// for y, 1-SSres/SStot. It is -Inf when y has no variance.
func RSquared(y, yfit []float64) float64 {
	if len(y) == 0 || floats.Min(y) == floats.Max(y) {
		return math.Inf(-1)
	}
	mean := stat.Mean(y, nil)
	var ssres, sstot float64
	for i, v := range y {
		r := v - yfit[i]
		ssres += r * r
		d := v - mean
		sstot += d * d
	}
	if sstot == 0 {
		return math.Inf(-1)
	}
	return 1 - ssres/sstot
}
