/*
 * atomicdata.go, part of goStopping.
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

// A map for assigning mass (in amu) to elements.
// Only the elements found in the stopping simulations and a few
// common ones are present.
var symbolMass = map[string]float64{
	"H":  1.008,
	"He": 4.0026,
	"Li": 6.94,
	"C":  12.011,
	"N":  14.007,
	"O":  15.999,
	"Al": 26.982,
	"Si": 28.085,
	"Cu": 63.546,
	"Ag": 107.87,
	"Au": 196.97,
}

// Mass returns the mass of the element with the given symbol, in amu,
// and whether the element is known.
func Mass(symbol string) (float64, bool) {
	m, ok := symbolMass[symbol]
	return m, ok
}
