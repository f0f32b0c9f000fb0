/*
 * plot_test.go, part of goStopping.
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

package stopplot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	stopping "github.com/rmera/gostopping"
	"github.com/rmera/gostopping/analysis"
	"github.com/rmera/gostopping/fit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport(Te *testing.T, run stopping.RunID) *analysis.Report {
	samples := stopping.Samples{
		{Position: 0, KineticEnergy: 40000},
		{Position: 1, KineticEnergy: 39000},
		{Position: 2, KineticEnergy: 38000},
		{Position: 3, KineticEnergy: 34000},
		{Position: 4, KineticEnergy: 33000},
	}
	scale := 1e-3
	energies := samples.Energies()
	for i := range energies {
		energies[i] *= scale
	}
	F, err := fit.BestLinearFit(samples.Positions(), energies, 3, 0, 1)
	require.NoError(Te, err)
	return &analysis.Report{
		Run:           run,
		Label:         run.Label(),
		Samples:       samples,
		Fit:           F,
		EnergyScale:   scale,
		StoppingPower: F.StoppingPower() / scale,
		Uncertainty:   F.Uncertainty() / scale,
	}
}

func TestFitPlot(Te *testing.T) {
	dir := Te.TempDir()
	failed := &analysis.Report{Run: "9", Label: "9 keV", Err: errors.New("broken")}
	nofit := testReport(Te, "80")
	nofit.Fit = nil
	reports := []*analysis.Report{testReport(Te, "40"), failed, nofit}
	for _, name := range []string{"fit.png", "fit.svg"} {
		out := filepath.Join(dir, name)
		require.NoError(Te, FitPlot(reports, out))
		info, err := os.Stat(out)
		require.NoError(Te, err)
		assert.NotZero(Te, info.Size())
	}
	assert.Error(Te, FitPlot([]*analysis.Report{failed}, filepath.Join(dir, "none.png")))
	assert.Error(Te, FitPlot(reports, filepath.Join(dir, "fit.unknown")))
}

func TestPanelAndPreview(Te *testing.T) {
	R := testReport(Te, "40")
	p, err := Panel(R, 0, 1)
	require.NoError(Te, err)
	assert.Equal(Te, "40 keV", p.Title.Text)
	_, err = Panel(&analysis.Report{}, 0, 1)
	assert.Error(Te, err)

	assert.Equal(Te, "S_e = 1000.00 ± 0.00 eV/Å", legend(R.StoppingPower, R.Uncertainty))
	out := Preview(R, 40, 8)
	assert.Contains(Te, out, "40 keV kinetic energy (eV)")
	assert.Empty(Te, Preview(&analysis.Report{}, 40, 8))
}

func TestRunColor(Te *testing.T) {
	for i := 0; i < 5; i++ {
		c := runColor(i, 5)
		assert.Equal(Te, uint8(255), c.A)
		assert.NotEqual(Te, windowColor, c)
	}
	r, g, b := iHVS2RGB(0, 1, 0)
	assert.Equal(Te, []uint8{255, 255, 255}, []uint8{r, g, b})
}
