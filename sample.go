/*
 * sample.go, part of goStopping.
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

package stopping

import (
	"fmt"
	"strconv"
)

// Sample is the pair of observables taken from one snapshot: the projectile
// position along the trajectory axis, in A, and its kinetic energy, in eV.
type Sample struct {
	Position      float64 `json:"position"`
	KineticEnergy float64 `json:"kinetic_energy"`
}

// Samples is a time-ordered series of samples of one run.
type Samples []Sample

// Positions returns a new slice with the positions of the series.
func (S Samples) Positions() []float64 {
	r := make([]float64, len(S))
	for i, v := range S {
		r[i] = v.Position
	}
	return r
}

// Energies returns a new slice with the kinetic energies of the series.
func (S Samples) Energies() []float64 {
	r := make([]float64, len(S))
	for i, v := range S {
		r[i] = v.KineticEnergy
	}
	return r
}

// RunID identifies one simulated trajectory. It holds the digits of the initial
// projectile energy, in keV, as they appear in the snapshot file names.
type RunID string

// Label returns the run id as an energy with units, e.g. "40 keV".
func (R RunID) Label() string {
	return fmt.Sprintf("%s keV", string(R))
}

// Value returns the numeric value of the run id, or -1 if it is not numeric.
func (R RunID) Value() int {
	v, err := strconv.Atoi(string(R))
	if err != nil {
		return -1
	}
	return v
}

// Less orders run ids by numeric value, falling back to string order.
func (R RunID) Less(O RunID) bool {
	a, b := R.Value(), O.Value()
	if a != b {
		return a < b
	}
	return string(R) < string(O)
}
