/*
 * plot.go, part of goStopping.
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

// Package stopplot draws the kinetic energy of the projectile against its
// position, together with the best linear fit, for a set of analyzed runs.
package stopplot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/rmera/gostopping/analysis"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Size of each panel of FitPlot.
var (
	PanelWidth  = 6 * vg.Inch
	PanelHeight = 3 * vg.Inch
)

// points in the drawn fit curve.
const curvePoints = 50

func basicPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "Position (Å)"
	p.Y.Label.Text = "Kinetic energy (eV)"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p
}

// Panel returns the plot for one run: all the samples, the samples of the fit
// window highlighted in red and the fitted curve. key and steps choose the color
// of the samples.
func Panel(R *analysis.Report, key, steps int) (*plot.Plot, error) {
	if R == nil || len(R.Samples) == 0 {
		return nil, fmt.Errorf("stopplot: no samples to plot")
	}
	p := basicPlot(R.Label)
	all := make(plotter.XYs, len(R.Samples))
	for i, v := range R.Samples {
		all[i].X = v.Position
		all[i].Y = v.KineticEnergy
	}
	s, err := plotter.NewScatter(all)
	if err != nil {
		return nil, err
	}
	s.GlyphStyle.Color = runColor(key, steps)
	p.Add(s)
	if R.Fit == nil {
		p.Legend.Add("no fit", s)
		return p, nil
	}
	win := R.WindowSamples()
	wpts := make(plotter.XYs, len(win))
	for i, v := range win {
		wpts[i].X = v.Position
		wpts[i].Y = v.KineticEnergy
	}
	ws, err := plotter.NewScatter(wpts)
	if err != nil {
		return nil, err
	}
	ws.GlyphStyle.Color = windowColor
	ws.GlyphStyle.Shape = windowShape(key)
	ws.GlyphStyle.Radius = vg.Points(3)
	curve := make(plotter.XYs, curvePoints)
	x0, x1 := win[0].Position, win[len(win)-1].Position
	for i := range curve {
		x := x0 + (x1-x0)*float64(i)/float64(curvePoints-1)
		curve[i].X = x
		curve[i].Y = R.FitLine(x)
	}
	l, err := plotter.NewLine(curve)
	if err != nil {
		return nil, err
	}
	l.LineStyle.Width = vg.Points(1.5)
	l.LineStyle.Color = windowColor
	p.Add(ws, l)
	p.Legend.Add(legend(R.StoppingPower, R.Uncertainty), ws, l)
	return p, nil
}

// FitPlot draws one panel per report with samples, stacked vertically, and saves
// them to filename. The format is taken from the extension (png, svg, pdf...).
// Reports without samples are left out.
func FitPlot(reports []*analysis.Report, filename string) error {
	usable := make([]*analysis.Report, 0, len(reports))
	for _, R := range reports {
		if R != nil && len(R.Samples) > 0 {
			usable = append(usable, R)
		}
	}
	if len(usable) == 0 {
		return fmt.Errorf("stopplot: no run with samples to plot")
	}
	plots := make([][]*plot.Plot, len(usable))
	for i, R := range usable {
		p, err := Panel(R, i, len(usable))
		if err != nil {
			return fmt.Errorf("stopplot: %s: %w", R.Label, err)
		}
		plots[i] = []*plot.Plot{p}
	}
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if format == "" {
		format = "png"
	}
	c, err := draw.NewFormattedCanvas(PanelWidth, PanelHeight*vg.Length(len(usable)), format)
	if err != nil {
		return fmt.Errorf("stopplot: %w", err)
	}
	t := draw.Tiles{
		Rows:      len(usable),
		Cols:      1,
		PadX:      4 * vg.Millimeter,
		PadY:      6 * vg.Millimeter,
		PadTop:    2 * vg.Millimeter,
		PadBottom: 2 * vg.Millimeter,
		PadLeft:   2 * vg.Millimeter,
		PadRight:  2 * vg.Millimeter,
	}
	canvases := plot.Align(plots, t, draw.New(c))
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("stopplot: %w", err)
	}
	if _, err := c.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("stopplot: writing %s: %w", filename, err)
	}
	return f.Close()
}

// Preview returns a terminal plot of the kinetic energy of the run against the
// timestep, or an empty string if the run has no samples.
func Preview(R *analysis.Report, width, height int) string {
	if R == nil || len(R.Samples) == 0 {
		return ""
	}
	return asciigraph.Plot(R.Samples.Energies(),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("%s kinetic energy (eV)", R.Label)),
	)
}
