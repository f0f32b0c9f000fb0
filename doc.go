/*
 * doc.go, part of goStopping.
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
Package stopping is the main package of the goStopping library. It holds the
contracts shared by the rest of the packages: the snapshot collaborator
that exposes the atoms of one saved state of an Ehrenfest dynamics run,
the observable samples extracted from it, run identifiers and the
projectile trajectory.

	**goStopping Capabilities**

	Groups snapshot files of several runs by initial projectile energy and
	orders them numerically by timestep (package aggregate).

	Reads extended XYZ snapshots, plain or compressed with zstd or gzip, and
	writes multi-frame trajectories for visualization (package xyz).

	Finds the contiguous window of a kinetic energy vs. position series that
	is best explained by a least-squares polynomial and reports the electronic
	stopping power with its uncertainty (package fit).

	Drives the whole analysis for a data directory, with one goroutine per run
	(package analysis), and plots the fits (package stopplot).

By contract, the projectile is always the last atom of a snapshot. Upstream
system assembly appends it after the lattice, and any code extracting
projectile observables relies on that ordering.
*/
package stopping
