/*
 * fit_test.go, part of goStopping.
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
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBestLinearFitPicksPerfectWindow(Te *testing.T) {
	positions := []float64{0, 1, 2, 3, 4}
	energies := []float64{10, 9, 8, 4, 3}
	R, err := BestLinearFit(positions, energies, 3, 5, 1)
	require.NoError(Te, err)
	assert.Equal(Te, 0, R.Start)
	assert.Equal(Te, 3, R.Size)
	assert.Equal(Te, []float64{0, 1, 2}, R.Positions)
	assert.Equal(Te, []float64{10, 9, 8}, R.Energies)
	assert.InDelta(Te, 1.0, R.R2, 1e-12)
	assert.InDelta(Te, 1.0, R.StoppingPower(), 1e-9)
	assert.InDelta(Te, 0.0, R.Uncertainty(), 1e-6)
	assert.InDelta(Te, 10.0, R.Eval(0), 1e-9)
	// 3 windows of 3, 2 of 4, 1 of 5
	assert.Equal(Te, 6, R.Candidates)
	assert.Empty(Te, R.Skipped)
}

func TestBestLinearFitTiesKeepFirst(Te *testing.T) {
	positions := []float64{0, 1, 2, 10, 0, 1, 2}
	energies := []float64{3, 2, 1, 50, 3, 2, 1}
	R, err := BestLinearFit(positions, energies, 3, 3, 1)
	require.NoError(Te, err)
	assert.Equal(Te, 0, R.Start)
	assert.Equal(Te, 5, R.Candidates)
}

func TestBestLinearFitWholeSeries(Te *testing.T) {
	positions := []float64{0, 1, 2, 3}
	energies := []float64{10, 9, 8, 4}
	R, err := BestLinearFit(positions, energies, 4, 0, 1)
	require.NoError(Te, err)
	assert.Equal(Te, 1, R.Candidates)
	assert.Equal(Te, 0, R.Start)
	assert.Equal(Te, 4, R.Size)
	assert.InDelta(Te, 1.9, R.StoppingPower(), 1e-9)
	assert.InDelta(Te, math.Sqrt(0.27), R.Uncertainty(), 1e-9)
}

func TestBestLinearFitNotWorseThanWholeSeries(Te *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		n := 5 + rng.Intn(20)
		positions := make([]float64, n)
		energies := make([]float64, n)
		for i := range positions {
			positions[i] = 0.4 * float64(i)
			energies[i] = 40 - 0.2*float64(i) + rng.NormFloat64()
		}
		R, err := BestLinearFit(positions, energies, 3, 0, 1)
		require.NoError(Te, err)
		P, err := PolyFit(positions, energies, 1)
		require.NoError(Te, err)
		assert.GreaterOrEqual(Te, R.R2, RSquared(energies, P.Fitted))
		w := n - 2
		assert.Equal(Te, w*(w+1)/2, R.Candidates)
	}
}

func TestBestLinearFitIdempotent(Te *testing.T) {
	positions := []float64{0.1, 0.9, 2.2, 2.8, 4.1, 5.3, 5.9}
	energies := []float64{40.2, 39.1, 37.5, 36.9, 35.0, 34.6, 34.5}
	R1, err := BestLinearFit(positions, energies, 3, 6, 1)
	require.NoError(Te, err)
	R2, err := BestLinearFit(positions, energies, 3, 6, 1)
	require.NoError(Te, err)
	assert.Equal(Te, R1, R2)
	for i := range R1.Coefficients {
		assert.Equal(Te, math.Float64bits(R1.Coefficients[i]), math.Float64bits(R2.Coefficients[i]))
	}
	assert.Equal(Te, math.Float64bits(R1.R2), math.Float64bits(R2.R2))
}

func TestBestLinearFitDegenerate(Te *testing.T) {
	_, err := BestLinearFit([]float64{0, 1, 2}, []float64{5, 5, 5}, 3, 0, 1)
	require.Error(Te, err)
	var e *InsufficientDataError
	require.ErrorAs(Te, err, &e)
	assert.True(Te, errors.Is(err, ErrDegenerate))
	assert.True(Te, errors.Is(err, ErrInsufficientData))
	assert.Equal(Te, 3, e.Have)

	R, err := BestLinearFit([]float64{0, 1, 2, 3, 4}, []float64{5, 5, 5, 4, 3}, 3, 3, 1)
	require.NoError(Te, err)
	require.Len(Te, R.Skipped, 1)
	assert.Equal(Te, 0, R.Skipped[0].Start)
	assert.True(Te, errors.Is(R.Skipped[0], ErrDegenerate))
	assert.False(Te, R.Skipped[0].Critical())
	assert.Equal(Te, 2, R.Start)

	R, err = BestLinearFit([]float64{1, 1, 1, 2, 3}, []float64{3, 2, 1, 0, -1}, 3, 3, 1)
	require.NoError(Te, err)
	require.Len(Te, R.Skipped, 1)
	assert.Equal(Te, "singular design matrix", R.Skipped[0].Reason)
}

func TestBestLinearFitFlatWindows(Te *testing.T) {
	for _, e := range []float64{0.7, 0.003, 1e-9, 40.1} {
		_, err := BestLinearFit([]float64{0, 1, 2}, []float64{e, e, e}, 3, 0, 1)
		require.Error(Te, err, e)
		assert.ErrorIs(Te, err, ErrDegenerate, e)
		assert.True(Te, math.IsInf(RSquared([]float64{e, e, e}, []float64{e, e, e}), -1), e)
	}

	positions := []float64{0, 1, 2, 3, 4, 5}
	energies := []float64{0.003, 0.003, 0.003, -0.097, -0.207, -0.287}
	R, err := BestLinearFit(positions, energies, 3, 3, 1)
	require.NoError(Te, err)
	assert.Equal(Te, 2, R.Start)
	assert.InDelta(Te, 0.105, R.StoppingPower(), 1e-9)
	assert.InDelta(Te, 0.99924471, R.R2, 1e-6)
	require.Len(Te, R.Skipped, 1)
	assert.Equal(Te, 0, R.Skipped[0].Start)
	assert.Equal(Te, "no energy variance", R.Skipped[0].Reason)
}

func TestBestLinearFitPreconditions(Te *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{5, 4, 3, 2, 1}
	cases := []struct {
		name     string
		x, y     []float64
		min, max int
		degree   int
		want     error
	}{
		{"length", x, y[:4], 3, 0, 1, ErrLength},
		{"min1", x, y, 1, 0, 1, ErrBadWindow},
		{"degree0", x, y, 3, 0, 0, ErrBadWindow},
		{"minBelowDegree", x, y, 2, 0, 2, ErrBadWindow},
		{"maxBelowMin", x, y, 4, 3, 1, ErrBadWindow},
		{"tooShort", x[:2], y[:2], 3, 0, 1, ErrInsufficientData},
		{"nan", x, []float64{5, math.NaN(), 3, 2, 1}, 3, 0, 1, ErrNonFinite},
	}
	for _, c := range cases {
		_, err := BestLinearFit(c.x, c.y, c.min, c.max, c.degree)
		require.Error(Te, err, c.name)
		assert.ErrorIs(Te, err, c.want, c.name)
	}
	_, err := BestLinearFit(x[:2], y[:2], 3, 0, 1)
	assert.False(Te, errors.Is(err, ErrDegenerate))
}

func TestBestLinearFitQuadratic(Te *testing.T) {
	x := []float64{0, 1, 2, 3, 4, 5}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 2*v*v - 3*v + 1
	}
	R, err := BestLinearFit(x, y, 4, 0, 2)
	require.NoError(Te, err)
	assert.Equal(Te, 2, R.Degree())
	assert.InDeltaSlice(Te, []float64{2, -3, 1}, R.Coefficients, 1e-8)
	assert.InDelta(Te, 1.0, R.R2, 1e-12)
}

func TestPolyFitCovariance(Te *testing.T) {
	P, err := PolyFit([]float64{0, 1, 2, 3}, []float64{10, 9, 8, 4}, 1)
	require.NoError(Te, err)
	assert.Equal(Te, 1, P.Degree())
	assert.InDeltaSlice(Te, []float64{-1.9, 10.6}, P.Coefficients, 1e-12)
	assert.InDelta(Te, 2.7, P.SSRes, 1e-12)
	assert.InDelta(Te, 0.27, P.Covariance[0][0], 1e-12)
	assert.InDelta(Te, 0.945, P.Covariance[1][1], 1e-12)
	assert.InDelta(Te, P.Covariance[0][1], P.Covariance[1][0], 1e-12)

	P, err = PolyFit([]float64{0, 1}, []float64{1, 0}, 1)
	require.NoError(Te, err)
	assert.True(Te, math.IsInf(P.Covariance[0][0], 1))

	_, err = PolyFit([]float64{2, 2, 2}, []float64{1, 0, 3}, 1)
	assert.ErrorIs(Te, err, ErrSingular)
	_, err = PolyFit([]float64{2}, []float64{1}, 1)
	assert.ErrorIs(Te, err, ErrInsufficientData)
}

func TestRSquaredAndEval(Te *testing.T) {
	assert.True(Te, math.IsInf(RSquared([]float64{1, 1, 1}, []float64{1, 1, 1}), -1))
	assert.Equal(Te, 1.0, RSquared([]float64{1, 2, 3}, []float64{1, 2, 3}))
	assert.Equal(Te, 21.0, Eval([]float64{2, -3, 1}, 4))
	assert.Equal(Te, 0.0, Eval(nil, 4))
}
