/*
 * aggregate.go, part of goStopping.
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
Package aggregate turns a flat collection of snapshot file names into
per-run, time-ordered series of observables.

Snapshot names follow the pattern {name}_{energy}k_step{timestep}.{ext}.
Only the name is inspected for grouping and ordering. Names that don't
match are ignored, as a data directory often contains other artifacts.
*/
package aggregate

import (
	"context"
	"os"
	"regexp"
	"sort"
	"strings"

	stopping "github.com/rmera/gostopping"
)

var energyTimestep = regexp.MustCompile(`(\d+)k_step(\d+)`)

// DefaultExtensions are the snapshot file extensions considered by Discover
// when none are given.
var DefaultExtensions = []string{".xyz", ".xyz.gz", ".xyz.zst"}

// Parse extracts the run id and the timestep digits from a snapshot name.
// ok is false if the name doesn't match the snapshot pattern.
func Parse(filename string) (run stopping.RunID, timestep string, ok bool) {
	m := energyTimestep.FindStringSubmatch(filename)
	if m == nil {
		return "", "", false
	}
	return stopping.RunID(m[1]), m[2], true
}

// GroupAndOrder groups the snapshot names by run, and sorts each group by
// the numeric value of the timestep. Equal timesteps keep the input order.
// Names that don't match the snapshot pattern are left out.
func GroupAndOrder(filenames []string) map[stopping.RunID][]string {
	type entry struct {
		name string
		step string
	}
	groups := make(map[stopping.RunID][]entry)
	for _, f := range filenames {
		run, step, ok := Parse(f)
		if !ok {
			continue
		}
		groups[run] = append(groups[run], entry{f, step})
	}
	ret := make(map[stopping.RunID][]string, len(groups))
	for run, g := range groups {
		sort.SliceStable(g, func(i, j int) bool { return numericLess(g[i].step, g[j].step) })
		names := make([]string, len(g))
		for i, v := range g {
			names[i] = v.name
		}
		ret[run] = names
	}
	return ret
}

// Runs returns the keys of groups, ordered by numeric run id.
func Runs(groups map[stopping.RunID][]string) []stopping.RunID {
	ret := make([]stopping.RunID, 0, len(groups))
	for k := range groups {
		ret = append(ret, k)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Less(ret[j]) })
	return ret
}

// numericLess compares two strings of decimal digits by numeric value.
// It doesn't overflow, however long the strings are.
func numericLess(a, b string) bool {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// Discover returns the names of the regular files in dir that end with any of
// exts (DefaultExtensions if none is given), in directory order.
func Discover(dir string, exts ...string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &DirError{dir: dir, err: err, deco: []string{"Discover"}}
	}
	ret := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		for _, x := range exts {
			if strings.HasSuffix(e.Name(), x) {
				ret = append(ret, e.Name())
				break
			}
		}
	}
	return ret, nil
}

// LoadSnapshots loads, in order, the snapshots of the run. Any failure aborts
// the whole run with a *SnapshotLoadError, since a missing intermediate
// timestep would silently corrupt the fit.
func LoadSnapshots(ctx context.Context, L stopping.Loader, run stopping.RunID, files []string) ([]stopping.Snapshot, error) {
	ret := make([]stopping.Snapshot, 0, len(files))
	for i, f := range files {
		S, err := L.Load(ctx, f)
		if err != nil {
			return nil, &SnapshotLoadError{Run: run, File: f, Index: i, err: err, deco: []string{"LoadSnapshots"}}
		}
		ret = append(ret, S)
	}
	return ret, nil
}

// LoadObservables loads, in order, the snapshots of the run and extracts the
// projectile position along T (the x axis if T is nil) and its kinetic energy.
// The projectile is the last atom of each snapshot. Any failure aborts the whole run
// with a *SnapshotLoadError.
func LoadObservables(ctx context.Context, L stopping.Loader, run stopping.RunID, files []string, T *stopping.Trajectory) (stopping.Samples, error) {
	ret := make(stopping.Samples, 0, len(files))
	for i, f := range files {
		S, err := L.Load(ctx, f)
		if err != nil {
			return nil, &SnapshotLoadError{Run: run, File: f, Index: i, err: err, deco: []string{"LoadObservables"}}
		}
		s, err := stopping.Observe(S, T)
		if err != nil {
			return nil, &SnapshotLoadError{Run: run, File: f, Index: i, err: err, deco: []string{"LoadObservables"}}
		}
		ret = append(ret, s)
	}
	return ret, nil
}
