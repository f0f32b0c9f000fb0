/*
 * analysis.go, part of goStopping.
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
Package analysis runs the whole stopping power pipeline over a directory of
snapshots: discovery, grouping of the files by run, loading of the projectile
observables and the sliding window fit. Runs are independent and are
analyzed concurrently.
*/
package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"

	stopping "github.com/rmera/gostopping"
	"github.com/rmera/gostopping/aggregate"
	"github.com/rmera/gostopping/fit"
	"github.com/rmera/gostopping/xyz"
	"gonum.org/v1/gonum/floats"
)

// Analyze fits the stopping power of every run found in the data directory of O.
// The reports are sorted by run. A run that fails doesn't stop the others, its
// error is kept in its report. The returned error is only non-nil if the
// directory can't be read or ctx is cancelled.
func Analyze(ctx context.Context, O *Options) ([]*Report, error) {
	if O == nil {
		O = DefaultOptions()
	}
	files, err := aggregate.Discover(O.DataDir(), O.Extensions()...)
	if err != nil {
		return nil, stopping.ErrDecorate(err, "Analyze")
	}
	groups := aggregate.GroupAndOrder(files)
	runs := aggregate.Runs(groups)
	log := O.Logger()
	if len(runs) == 0 {
		log.Warn("no snapshot files found", "dir", O.DataDir(), "files", len(files))
		return nil, nil
	}
	L := loaderFor(O)
	cpus := O.CPU()
	if cpus < 1 {
		cpus = 1
	}
	reports := make([]*Report, len(runs))
	sem := make(chan struct{}, cpus)
	var wg sync.WaitGroup
	for i, run := range runs {
		wg.Add(1)
		go func(idx int, run stopping.RunID) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			reports[idx] = AnalyzeRun(ctx, L, run, groups[run], O)
		}(i, run)
	}
	wg.Wait()
	return reports, ctx.Err()
}

func loaderFor(O *Options) stopping.Loader {
	if L := O.Loader(); L != nil {
		return L
	}
	return xyz.NewLoader(O.DataDir())
}

// AnalyzeRun loads the ordered snapshots files of one run through L and fits them.
// It never returns nil. Errors are stored in the report.
func AnalyzeRun(ctx context.Context, L stopping.Loader, run stopping.RunID, files []string, O *Options) *Report {
	if O == nil {
		O = DefaultOptions()
	}
	log := O.Logger().With("run", run.Label())
	R := &Report{
		Run:         run,
		Label:       run.Label(),
		Files:       files,
		EnergyScale: O.EnergyScale(),
		SetupPaths:  O.SetupPaths(),
	}
	log.Info("analyzing run", "snapshots", len(files))
	samples, err := aggregate.LoadObservables(ctx, L, run, files, O.Trajectory())
	if err != nil {
		R.Err = stopping.ErrDecorate(err, "AnalyzeRun")
		log.Error("run failed", "file", failedFile(err), "error", err)
		return R
	}
	R.Samples = samples
	energies := samples.Energies()
	floats.Scale(O.EnergyScale(), energies)
	F, err := fit.BestLinearFit(samples.Positions(), energies, O.MinWindow(), O.MaxWindow(), O.Degree())
	if err != nil {
		R.Err = stopping.ErrDecorate(err, "AnalyzeRun")
		log.Error("fit failed", "error", err)
		return R
	}
	for _, s := range F.Skipped {
		log.Debug("window skipped", "start", s.Start, "size", s.Size, "reason", s.Reason)
	}
	R.Fit = F
	R.StoppingPower = F.StoppingPower() / O.EnergyScale()
	R.Uncertainty = F.Uncertainty() / O.EnergyScale()
	log.Info("run done",
		"stopping_power", R.StoppingPower,
		"uncertainty", R.Uncertainty,
		"r2", F.R2,
		"window", fmt.Sprintf("[%d,%d)", F.Start, F.Start+F.Size),
		"candidates", F.Candidates)
	return R
}

// failedFile returns the name of the file err refers to, or an empty string.
func failedFile(err error) string {
	var f interface{ FileName() string }
	if errors.As(err, &f) {
		return f.FileName()
	}
	return ""
}

// ExportTrajectory writes every snapshot of run, in timestep order, as one
// multi-frame xyz file. The snapshots are always read as xyz files from the
// data directory of O. Compression is chosen from the suffix of out.
func ExportTrajectory(ctx context.Context, O *Options, run stopping.RunID, out string) error {
	if O == nil {
		O = DefaultOptions()
	}
	files, err := aggregate.Discover(O.DataDir(), O.Extensions()...)
	if err != nil {
		return stopping.ErrDecorate(err, "ExportTrajectory")
	}
	groups := aggregate.GroupAndOrder(files)
	ordered, ok := groups[run]
	if !ok {
		return &Error{message: fmt.Sprintf("no snapshots for run %s in %s", run.Label(), O.DataDir()), deco: []string{"ExportTrajectory"}, critical: true}
	}
	snaps, err := aggregate.LoadSnapshots(ctx, xyz.NewLoader(O.DataDir()), run, ordered)
	if err != nil {
		return stopping.ErrDecorate(err, "ExportTrajectory")
	}
	frames := make([]*xyz.Snapshot, len(snaps))
	for i, s := range snaps {
		frames[i] = s.(*xyz.Snapshot)
		frames[i].SetInfo("source", ordered[i])
	}
	if err := xyz.WriteTrajectory(out, frames); err != nil {
		return stopping.ErrDecorate(err, "ExportTrajectory")
	}
	O.Logger().Info("trajectory written", "run", run.Label(), "frames", len(frames), "file", out)
	return nil
}

// TrajectoryName returns the default name for the exported trajectory of run.
func TrajectoryName(run stopping.RunID) string {
	return fmt.Sprintf("trajectory_%skeV.xyz", run)
}

// Failed returns the reports whose run could not be analyzed.
func Failed(reports []*Report) []*Report {
	var r []*Report
	for _, v := range reports {
		if v != nil && v.Err != nil {
			r = append(r, v)
		}
	}
	return r
}
