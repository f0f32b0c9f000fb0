/*
 * options.go, part of goStopping.
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
	"log/slog"
	"runtime"

	stopping "github.com/rmera/gostopping"
	"github.com/rmera/gostopping/aggregate"
	"github.com/rmera/gostopping/fit"
)

// Options contains the settings for Analyze and ExportTrajectory.
type Options struct {
	dataDir     string
	exts        []string
	minWindow   int
	maxWindow   int //0 means the whole series
	degree      int
	cpus        int
	energyScale float64 //factor applied to the energies before fitting. 1e-3 fits in keV.
	trajectory  *stopping.Trajectory
	loader      stopping.Loader //nil means xyz files in dataDir
	logger      *slog.Logger
	setupPaths  []string //only recorded in the reports
}

// DefaultOptions returns options that analyze the xyz snapshots in the
// current directory with a straight line fit over windows of at least 3 samples,
// using all logical CPUs. Energies are fitted in keV.
func DefaultOptions() *Options {
	r := new(Options)
	r.dataDir = "."
	r.exts = append([]string(nil), aggregate.DefaultExtensions...)
	r.minWindow = fit.DefaultMinWindow
	r.degree = 1
	r.cpus = runtime.NumCPU()
	r.energyScale = stopping.EV2KeV
	r.trajectory = stopping.HyperchannellingTrajectory(0)
	r.logger = slog.Default()
	return r
}

// DataDir returns the directory with the snapshots, and sets it
// to a new value, if given.
func (O *Options) DataDir(dir ...string) string {
	if len(dir) > 0 && dir[0] != "" {
		O.dataDir = dir[0]
	}
	return O.dataDir
}

// Extensions returns the file suffixes considered snapshots, and sets
// them to new values, if given.
func (O *Options) Extensions(exts ...string) []string {
	if len(exts) > 0 {
		O.exts = exts
	}
	return O.exts
}

// MinWindow returns the smallest window fitted, and sets it to a new value, if given.
func (O *Options) MinWindow(n ...int) int {
	if len(n) > 0 && n[0] > 0 {
		O.minWindow = n[0]
	}
	return O.minWindow
}

// MaxWindow returns the largest window fitted (0 for the whole series), and sets
// it to a new value, if given.
func (O *Options) MaxWindow(n ...int) int {
	if len(n) > 0 && n[0] >= 0 {
		O.maxWindow = n[0]
	}
	return O.maxWindow
}

// Degree returns the degree of the fitted polynomial, and sets it to a new value, if given.
func (O *Options) Degree(n ...int) int {
	if len(n) > 0 && n[0] > 0 {
		O.degree = n[0]
	}
	return O.degree
}

// CPU returns the number of runs analyzed concurrently,
// and sets it to a new value, if given.
func (O *Options) CPU(n ...int) int {
	if len(n) > 0 && n[0] > 0 {
		O.cpus = n[0]
	}
	return O.cpus
}

// EnergyScale returns the factor applied to energies, in eV, before fitting,
// and sets it to a new value, if given.
func (O *Options) EnergyScale(f ...float64) float64 {
	if len(f) > 0 && f[0] > 0 {
		O.energyScale = f[0]
	}
	return O.energyScale
}

// Trajectory returns the projectile trajectory, and sets it to a new value, if given.
func (O *Options) Trajectory(T ...*stopping.Trajectory) *stopping.Trajectory {
	if len(T) > 0 && T[0] != nil {
		O.trajectory = T[0]
	}
	return O.trajectory
}

// Loader returns the snapshot loader, and sets it to a new value, if given.
// A nil loader reads xyz files from DataDir.
func (O *Options) Loader(L ...stopping.Loader) stopping.Loader {
	if len(L) > 0 && L[0] != nil {
		O.loader = L[0]
	}
	return O.loader
}

// Logger returns the logger, and sets it to a new value, if given.
// The default is slog.Default().
func (O *Options) Logger(l ...*slog.Logger) *slog.Logger {
	if len(l) > 0 && l[0] != nil {
		O.logger = l[0]
	}
	return O.logger
}

// SetupPaths returns the setup search paths of the simulation engine, and sets them
// to new values, if given.
func (O *Options) SetupPaths(p ...string) []string {
	if len(p) > 0 {
		O.setupPaths = p
	}
	return O.setupPaths
}
