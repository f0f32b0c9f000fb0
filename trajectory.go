/*
 * trajectory.go, part of goStopping.
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
	"math"
)

// AlLatticeConstant is the lattice constant of fcc aluminium, in A.
const AlLatticeConstant = 4.05

// Trajectory is the straight path of the projectile through the supercell.
type Trajectory struct {
	Start     [3]float64
	Direction [3]float64
}

// NewTrajectory returns a trajectory with the given start and direction.
// The direction doesn't need to be normalized, but it can't be zero.
func NewTrajectory(start, direction [3]float64) (*Trajectory, error) {
	n := math.Sqrt(direction[0]*direction[0] + direction[1]*direction[1] + direction[2]*direction[2])
	if n == 0 {
		return nil, fmt.Errorf("goStopping: zero trajectory direction")
	}
	return &Trajectory{Start: start, Direction: direction}, nil
}

// HyperchannellingTrajectory returns the <100> hyperchannelling path of an fcc
// lattice with lattice constant a. A non-positive a means aluminium.
func HyperchannellingTrajectory(a float64) *Trajectory {
	if a <= 0 {
		a = AlLatticeConstant
	}
	return &Trajectory{Start: [3]float64{0, a, a}, Direction: [3]float64{1, 0, 0}}
}

// Axis returns the normalized direction of T. A nil trajectory
// moves along x.
func (T *Trajectory) Axis() [3]float64 {
	if T == nil {
		return [3]float64{1, 0, 0}
	}
	d := T.Direction
	n := math.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])
	if n == 0 {
		return [3]float64{1, 0, 0}
	}
	return [3]float64{d[0] / n, d[1] / n, d[2] / n}
}

// Projection returns the component of pos along the trajectory axis.
func (T *Trajectory) Projection(pos [3]float64) float64 {
	ax := T.Axis()
	return pos[0]*ax[0] + pos[1]*ax[1] + pos[2]*ax[2]
}

// ProjectileKineticEnergy returns the kinetic energy of the projectile in S.
// If S can resolve per-atom energies, the last entry is used; otherwise the
// whole kinetic energy of S is assigned to the projectile, which holds when
// the lattice atoms are frozen.
func ProjectileKineticEnergy(S Snapshot) float64 {
	if A, ok := S.(AtomEnergier); ok {
		if k := A.AtomKineticEnergies(); len(k) > 0 {
			return k[len(k)-1]
		}
	}
	return S.KineticEnergy()
}

// Observe extracts the sample of S for the trajectory T (nil T means x axis).
func Observe(S Snapshot, T *Trajectory) (Sample, error) {
	n := S.Len()
	if n == 0 {
		return Sample{}, fmt.Errorf("goStopping: snapshot has no atoms, can't find the projectile")
	}
	pos := S.Positions()
	if pos == nil || pos.NVecs() != n {
		return Sample{}, fmt.Errorf("goStopping: snapshot has %d atoms but positions for a different number", n)
	}
	return Sample{Position: T.Projection(pos.Vec(n - 1)), KineticEnergy: ProjectileKineticEnergy(S)}, nil
}
