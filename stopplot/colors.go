/*
 * colors.go, part of goStopping.
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
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot/vg/draw"
)

// windowColor marks the samples used in the best fit.
var windowColor = color.RGBA{R: 255, A: 255}

// takes hue (0-360), v and s (0-1), returns r,g,b (0-255)
func iHVS2RGB(h, v, s float64) (uint8, uint8, uint8) {
	var i, f, p, q, t float64
	var r, g, b float64
	maxcolor := 255.0
	conversion := maxcolor * v
	if s == 0.0 {
		return uint8(conversion), uint8(conversion), uint8(conversion)
	}
	h = h / 60
	i = math.Floor(h)
	f = h - i
	p = v * (1 - s)
	q = v * (1 - s*f)
	t = v * (1 - s*(1-f))
	switch int(i) {
	case 0:
		r = v
		g = t
		b = p
	case 1:
		r = q
		g = v
		b = p
	case 2:
		r = p
		g = v
		b = t
	case 3:
		r = p
		g = q
		b = v
	case 4:
		r = t
		g = p
		b = v
	default: //case 5
		r = v
		g = p
		b = q
	}
	r = r * maxcolor
	g = g * maxcolor
	b = b * maxcolor
	return uint8(r), uint8(g), uint8(b)
}

// runColor returns the color for the run key of steps. Hues go from
// yellow-green to violet, so no run is drawn in the red of the fit window.
func runColor(key, steps int) color.RGBA {
	if steps < 1 {
		steps = 1
	}
	norm := 200.0 / float64(steps)
	h := 80.0 + float64(key)*norm
	r, g, b := iHVS2RGB(h, 0.8, 1.0)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// windowShape returns the glyph for the fit window of the panel, cycling through
// four shapes.
func windowShape(panel int) draw.GlyphDrawer {
	switch panel % 4 {
	case 0:
		return draw.CircleGlyph{}
	case 1:
		return draw.SquareGlyph{}
	case 2:
		return draw.PyramidGlyph{}
	default:
		return draw.CrossGlyph{}
	}
}

func legend(sp, unc float64) string {
	return fmt.Sprintf("S_e = %.2f ± %.2f eV/Å", sp, unc)
}
