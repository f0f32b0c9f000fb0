/*
 * sliding.go, part of goStopping.
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

package fit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultMinWindow is the smallest window considered when none is given.
const DefaultMinWindow = 3

// Result is the best-scoring window fit of a series.
type Result struct {
	// Coefficients of the fit, highest degree first.
	Coefficients []float64 `json:"coefficients"`
	// Covariance matrix of the coefficients.
	Covariance [][]float64 `json:"covariance"`
	R2         float64     `json:"r2"`
	// Start is the index of the first sample of the window in the series.
	Start int `json:"start"`
	// Size is the number of samples in the window.
	Size      int       `json:"size"`
	Positions []float64 `json:"window_positions"`
	Energies  []float64 `json:"window_energies"`
	// Candidates is the number of windows examined.
	Candidates int `json:"candidates"`
	// Skipped lists the degenerate windows excluded from the search.
	Skipped []*DegenerateWindowError `json:"-"`
}

// Degree returns the degree of the fitted polynomial.
func (R *Result) Degree() int {
	return len(R.Coefficients) - 1
}

// StoppingPower returns minus the leading coefficient of the fit, which for the
// default straight line is the energy lost per unit length.
func (R *Result) StoppingPower() float64 {
	return -R.Coefficients[0]
}

// Uncertainty returns the standard deviation of the leading coefficient.
func (R *Result) Uncertainty() float64 {
	return math.Sqrt(R.Covariance[0][0])
}

// Eval evaluates the fit at x.
func (R *Result) Eval(x float64) float64 {
	return Eval(R.Coefficients, x)
}

// BestLinearFit searches every contiguous window of minWindow to maxWindow
// samples of the (positions, energies) series for the one with the highest R2
// for a least-squares polynomial of the given degree. A maxWindow <= 0, or larger
// than the series, means the whole series.
//
// Windows are visited by increasing size and, for each size, by increasing start.
// Only a strictly higher R2 replaces the current best, so ties keep the first
// window found. Windows without energy variance, or with all positions equal, are
// skipped. If every window is skipped, or the series is shorter than minWindow,
// an *InsufficientDataError is returned.
func BestLinearFit(positions, energies []float64, minWindow, maxWindow, degree int) (*Result, error) {
	n := len(positions)
	if n != len(energies) {
		return nil, &Error{message: fmt.Sprintf("%d positions but %d energies", n, len(energies)), deco: []string{"BestLinearFit"}, critical: true, err: ErrLength}
	}
	if degree < 1 {
		return nil, &Error{message: fmt.Sprintf("degree must be at least 1, got %d", degree), deco: []string{"BestLinearFit"}, critical: true, err: ErrBadWindow}
	}
	if minWindow < 2 || minWindow < degree+1 {
		return nil, &Error{message: fmt.Sprintf("minimum window %d too small for a degree %d fit", minWindow, degree), deco: []string{"BestLinearFit"}, critical: true, err: ErrBadWindow}
	}
	for i := range positions {
		if !finite(positions[i]) || !finite(energies[i]) {
			return nil, &Error{message: fmt.Sprintf("non-finite sample at index %d", i), deco: []string{"BestLinearFit"}, critical: true, err: ErrNonFinite}
		}
	}
	if n < minWindow {
		return nil, &InsufficientDataError{Have: n, Need: minWindow, deco: []string{"BestLinearFit"}}
	}
	if maxWindow <= 0 || maxWindow > n {
		maxWindow = n
	}
	if maxWindow < minWindow {
		return nil, &Error{message: fmt.Sprintf("maximum window %d smaller than minimum window %d", maxWindow, minWindow), deco: []string{"BestLinearFit"}, critical: true, err: ErrBadWindow}
	}
	var best *Result
	bestR2 := math.Inf(-1)
	var candidates int
	var skipped []*DegenerateWindowError
	for w := minWindow; w <= maxWindow; w++ {
		for s := 0; s+w <= n; s++ {
			candidates++
			x := positions[s : s+w]
			y := energies[s : s+w]
			if floats.Min(y) == floats.Max(y) {
				skipped = append(skipped, &DegenerateWindowError{Start: s, Size: w, Reason: "no energy variance"})
				continue
			}
			P, err := PolyFit(x, y, degree)
			if err != nil {
				skipped = append(skipped, &DegenerateWindowError{Start: s, Size: w, Reason: "singular design matrix"})
				continue
			}
			r2 := RSquared(y, P.Fitted)
			if math.IsInf(r2, -1) {
				skipped = append(skipped, &DegenerateWindowError{Start: s, Size: w, Reason: "no energy variance"})
				continue
			}
			if r2 > bestR2 {
				bestR2 = r2
				best = &Result{
					Coefficients: P.Coefficients,
					Covariance:   P.Covariance,
					R2:           r2,
					Start:        s,
					Size:         w,
					Positions:    append([]float64(nil), x...),
					Energies:     append([]float64(nil), y...),
				}
			}
		}
	}
	if best == nil {
		return nil, &InsufficientDataError{Have: n, Need: minWindow, deco: []string{"BestLinearFit"}, err: ErrDegenerate}
	}
	best.Candidates = candidates
	best.Skipped = skipped
	return best, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
