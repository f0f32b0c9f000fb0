/*
 * report.go, part of goStopping.
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

package analysis

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	stopping "github.com/rmera/gostopping"
	"github.com/rmera/gostopping/fit"
)

// Report is the outcome of the analysis of one run. StoppingPower and
// Uncertainty are in eV/A. The Fit is done on energies multiplied by
// EnergyScale, so its coefficients are in those units.
type Report struct {
	Run           stopping.RunID
	Label         string
	Files         []string
	Samples       stopping.Samples
	Fit           *fit.Result
	EnergyScale   float64
	StoppingPower float64
	Uncertainty   float64
	SetupPaths    []string
	Err           error
}

// FitLine returns the fitted kinetic energy, in eV, at position x.
// It returns NaN if the run has no fit.
func (R *Report) FitLine(x float64) float64 {
	if R.Fit == nil {
		return math.NaN()
	}
	return R.Fit.Eval(x) / R.EnergyScale
}

// WindowSamples returns the samples used in the best fit, or nil if the run has no fit.
func (R *Report) WindowSamples() stopping.Samples {
	if R.Fit == nil {
		return nil
	}
	return R.Samples[R.Fit.Start : R.Fit.Start+R.Fit.Size]
}

// Summary returns a one-line description of the result.
func (R *Report) Summary() string {
	if R.Err != nil {
		return fmt.Sprintf("%s: %v", R.Label, R.Err)
	}
	return fmt.Sprintf("%s: S_e = %.4f ± %.4f eV/Å (R² %.5f)", R.Label, R.StoppingPower, R.Uncertainty, R.Fit.R2)
}

// number is a float64 that marshals to null when it's not finite,
// which JSON can't represent.
type number float64

func (n number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

func numbers(f []float64) []number {
	if f == nil {
		return nil
	}
	r := make([]number, len(f))
	for i, v := range f {
		r[i] = number(v)
	}
	return r
}

type fitJSON struct {
	Coefficients []number   `json:"coefficients"`
	Covariance   [][]number `json:"covariance"`
	R2           number     `json:"r2"`
	Start        int        `json:"start"`
	Size         int        `json:"size"`
	Candidates   int        `json:"candidates"`
	Skipped      int        `json:"skipped_windows"`
}

type reportJSON struct {
	Run           stopping.RunID   `json:"run"`
	Label         string           `json:"label"`
	Files         []string         `json:"files"`
	Samples       stopping.Samples `json:"samples"`
	Fit           *fitJSON         `json:"fit,omitempty"`
	EnergyScale   number           `json:"energy_scale"`
	StoppingPower *number          `json:"stopping_power,omitempty"`
	Uncertainty   *number          `json:"uncertainty,omitempty"`
	SetupPaths    []string         `json:"setup_paths,omitempty"`
	Error         string           `json:"error,omitempty"`
}

// MarshalJSON encodes the report. Non-finite values, such as the covariance
// of a fit without degrees of freedom, are written as null.
func (R *Report) MarshalJSON() ([]byte, error) {
	j := reportJSON{
		Run:         R.Run,
		Label:       R.Label,
		Files:       R.Files,
		Samples:     R.Samples,
		EnergyScale: number(R.EnergyScale),
		SetupPaths:  R.SetupPaths,
	}
	if R.Err != nil {
		j.Error = R.Err.Error()
	}
	if F := R.Fit; F != nil {
		cov := make([][]number, len(F.Covariance))
		for i, v := range F.Covariance {
			cov[i] = numbers(v)
		}
		j.Fit = &fitJSON{
			Coefficients: numbers(F.Coefficients),
			Covariance:   cov,
			R2:           number(F.R2),
			Start:        F.Start,
			Size:         F.Size,
			Candidates:   F.Candidates,
			Skipped:      len(F.Skipped),
		}
		sp, u := number(R.StoppingPower), number(R.Uncertainty)
		j.StoppingPower = &sp
		j.Uncertainty = &u
	}
	return json.Marshal(j)
}

// WriteReports writes reports to w as an indented JSON array.
func WriteReports(w io.Writer, reports []*Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reports); err != nil {
		return &Error{message: "can't encode reports", deco: []string{"WriteReports"}, critical: true, err: err}
	}
	return nil
}

// Error is the general structure for errors in the analysis package.
// It fulfills stopping.Error.
type Error struct {
	message  string
	deco     []string
	critical bool
	err      error
}

func (err *Error) Error() string {
	if err.err != nil {
		return fmt.Sprintf("analysis: %s: %v", err.message, err.err)
	}
	return "analysis: " + err.message
}

// Decorate adds new information to the error
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// Critical returns true if the error is critical, false otherwise
func (err *Error) Critical() bool { return err.critical }

// Unwrap returns the cause, if any.
func (err *Error) Unwrap() error { return err.err }

var _ stopping.Error = (*Error)(nil)
