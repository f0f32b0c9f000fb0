/*
 * interfaces.go, part of goStopping.
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
	"context"

	v3 "github.com/rmera/gostopping/v3"
)

// Snapshot is a single saved state of the simulated system.
// The last atom (index Len()-1) is always the projectile.
type Snapshot interface {
	// Returns the number of atoms in the snapshot
	Len() int

	// Positions returns the cartesian coordinates of all atoms, in A,
	// one atom per row.
	Positions() *v3.Matrix

	// KineticEnergy returns the kinetic energy of the snapshot, in eV.
	KineticEnergy() float64
}

// AtomEnergier is a Snapshot that can also resolve the kinetic energy of
// each atom, in eV.
type AtomEnergier interface {
	Snapshot
	AtomKineticEnergies() []float64
}

// Loader materializes snapshots from their file names.
type Loader interface {
	Load(ctx context.Context, name string) (Snapshot, error)
}

// LoaderFunc adapts an ordinary function to the Loader interface.
type LoaderFunc func(ctx context.Context, name string) (Snapshot, error)

// Load calls f(ctx, name).
func (f LoaderFunc) Load(ctx context.Context, name string) (Snapshot, error) {
	return f(ctx, name)
}

// Errors

// Error is the interface for errors that all packages in this library implement.
// The Decorate method allows to add and retrieve info from the error, without
// changing its type. The decoration slice contains a list of functions in the
// calling stack, plus, for each function, any relevant information, in the
// format "FunctionName: Extra info".
type Error interface {
	Error() string
	Decorate(string) []string
	Critical() bool
}

// ErrDecorate decorates err with caller if err implements Error, and returns it.
// Other errors are returned unchanged.
func ErrDecorate(err error, caller string) error {
	if err2, ok := err.(Error); ok {
		err2.Decorate(caller)
		return err2
	}
	return err
}
