/*
 * main.go, part of goStopping.
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

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	stopping "github.com/rmera/gostopping"
	"github.com/rmera/gostopping/aggregate"
	"github.com/rmera/gostopping/analysis"
	"github.com/rmera/gostopping/config"
	"github.com/rmera/gostopping/stopplot"
	"github.com/spf13/cobra"
)

var (
	configFile    string
	dataDir       string
	verbose       bool
	minWindow     int
	maxWindow     int
	degree        int
	cpus          int
	energyScale   float64
	plotFile      string
	reportFile    string
	trajectoryRun string
	trajectoryOut string
	preview       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "gostopping",
		Short:         "electronic stopping power from Ehrenfest dynamics snapshots",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "directory with the snapshot files")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every skipped fit window")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "fit the stopping power of every run",
		Args:  cobra.NoArgs,
		RunE:  analyzeRuns,
	}
	analyzeCmd.Flags().IntVar(&minWindow, "min-window", 3, "smallest fit window")
	analyzeCmd.Flags().IntVar(&maxWindow, "max-window", 0, "largest fit window (0: whole run)")
	analyzeCmd.Flags().IntVar(&degree, "degree", 1, "degree of the fitted polynomial")
	analyzeCmd.Flags().IntVar(&cpus, "cpus", 0, "runs analyzed at the same time (0: all CPUs)")
	analyzeCmd.Flags().Float64Var(&energyScale, "energy-scale", stopping.EV2KeV, "factor applied to energies in eV before fitting")
	analyzeCmd.Flags().StringVar(&plotFile, "plot", "", "save the fits to this image file")
	analyzeCmd.Flags().StringVar(&reportFile, "report", "", "write the reports to this JSON file")
	analyzeCmd.Flags().StringVar(&trajectoryRun, "trajectory-run", "", "also export the trajectory of this run (e.g. 40)")
	analyzeCmd.Flags().BoolVar(&preview, "preview", false, "print a terminal plot of each run")

	groupCmd := &cobra.Command{
		Use:   "group",
		Short: "list the runs and their ordered snapshot files",
		Args:  cobra.NoArgs,
		RunE:  groupRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run]",
		Short: "write all snapshots of a run as one xyz trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&trajectoryOut, "out", "", "output file (default trajectory_<run>keV.xyz)")

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(args[0], config.DefaultConfig())
		},
	}

	rootCmd.AddCommand(analyzeCmd, groupCmd, exportCmd, initCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig reads the config file, if given, and applies the flags that were
// set explicitly on top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, err
		}
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	flags := cmd.Flags()
	if flags.Changed("min-window") {
		cfg.MinWindow = minWindow
	}
	if flags.Changed("max-window") {
		cfg.MaxWindow = maxWindow
	}
	if flags.Changed("degree") {
		cfg.Degree = degree
	}
	if flags.Changed("cpus") && cpus > 0 {
		cfg.CPUs = cpus
	}
	if flags.Changed("energy-scale") {
		cfg.EnergyScale = energyScale
	}
	if flags.Changed("plot") {
		cfg.Plot = plotFile
	}
	if flags.Changed("report") {
		cfg.ReportOut = reportFile
	}
	if flags.Changed("out") {
		cfg.TrajectoryOut = trajectoryOut
	}
	return cfg, nil
}

func options(cmd *cobra.Command) (*config.Config, *analysis.Options, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	O, err := cfg.Options()
	if err != nil {
		return nil, nil, err
	}
	O.Logger(newLogger())
	return cfg, O, nil
}

func analyzeRuns(cmd *cobra.Command, args []string) error {
	cfg, O, err := options(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	reports, err := analysis.Analyze(ctx, O)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		return fmt.Errorf("no snapshot files matching <energy>k_step<timestep> in %s", cfg.DataDir)
	}
	fmt.Println(summaryTable(reports))
	if preview {
		for _, R := range reports {
			if g := stopplot.Preview(R, 80, 10); g != "" {
				fmt.Println(g)
				fmt.Println()
			}
		}
	}
	if cfg.Plot != "" {
		if err := stopplot.FitPlot(reports, cfg.Plot); err != nil {
			return err
		}
		fmt.Printf("fits plotted to %s\n", cfg.Plot)
	}
	if cfg.ReportOut != "" {
		f, err := os.Create(cfg.ReportOut)
		if err != nil {
			return err
		}
		if err := analysis.WriteReports(f, reports); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("reports written to %s\n", cfg.ReportOut)
	}
	if trajectoryRun != "" {
		run := stopping.RunID(trajectoryRun)
		out := cfg.TrajectoryOut
		if out == "" {
			out = analysis.TrajectoryName(run)
		}
		if err := analysis.ExportTrajectory(ctx, O, run, out); err != nil {
			return err
		}
	}
	if failed := analysis.Failed(reports); len(failed) > 0 {
		return fmt.Errorf("%d of %d runs failed", len(failed), len(reports))
	}
	return nil
}

// newTable returns a table that keeps the case of headers and footers,
// so units like eV/Å print as written.
func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Format.Header = text.FormatDefault
	tbl.Style().Format.Footer = text.FormatDefault
	return tbl
}

func summaryTable(reports []*analysis.Report) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Run", "Snapshots", "Window", "R²", "S_e (eV/Å)", "± (eV/Å)", "Status"})
	for _, R := range reports {
		if R.Err != nil {
			tbl.AppendRow(table.Row{R.Label, len(R.Files), "", "", "", "", R.Err.Error()})
			continue
		}
		F := R.Fit
		window := fmt.Sprintf("%.2f-%.2f Å (%d)", F.Positions[0], F.Positions[len(F.Positions)-1], F.Size)
		tbl.AppendRow(table.Row{
			R.Label,
			len(R.Files),
			window,
			fmt.Sprintf("%.5f", F.R2),
			fmt.Sprintf("%.3f", R.StoppingPower),
			fmt.Sprintf("%.3f", R.Uncertainty),
			"ok",
		})
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d runs", len(reports))})
	return tbl.Render()
}

func groupRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	files, err := aggregate.Discover(cfg.DataDir, cfg.Extensions...)
	if err != nil {
		return err
	}
	groups := aggregate.GroupAndOrder(files)
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Run", "Snapshots", "First", "Last"})
	for _, run := range aggregate.Runs(groups) {
		g := groups[run]
		tbl.AppendRow(table.Row{run.Label(), len(g), g[0], g[len(g)-1]})
	}
	fmt.Println(tbl.Render())
	if ignored := len(files) - countFiles(groups); ignored > 0 {
		fmt.Printf("%d files in %s don't match <energy>k_step<timestep>\n", ignored, filepath.Clean(cfg.DataDir))
	}
	return nil
}

func countFiles(groups map[stopping.RunID][]string) int {
	var n int
	for _, g := range groups {
		n += len(g)
	}
	return n
}

func exportRun(cmd *cobra.Command, args []string) error {
	cfg, O, err := options(cmd)
	if err != nil {
		return err
	}
	run := stopping.RunID(strings.TrimSuffix(strings.TrimSpace(args[0]), "k"))
	out := cfg.TrajectoryOut
	if out == "" {
		out = analysis.TrajectoryName(run)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := analysis.ExportTrajectory(ctx, O, run, out); err != nil {
		return err
	}
	fmt.Printf("%s written\n", out)
	return nil
}
