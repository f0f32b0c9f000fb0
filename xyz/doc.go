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
Package xyz reads and writes snapshots in the extended XYZ format, as
written by ASE and most visualization programs.

A frame is a line with the number of atoms, a comment line, and one line per
atom. The comment line may contain key=value pairs (values with spaces go
between double quotes). The Properties key describes the per-atom columns as
name:type:count triples, for instance

	Properties=species:S:1:pos:R:3:momenta:R:3

If Properties is absent, the columns are species and pos, as in plain XYZ.
The kinetic energy of a frame is obtained, in order of preference, from a
kinetic_energies:R:1 column, from momenta or velocities plus the masses
(a masses:R:1 column, or the element masses), or from a kinetic_energy=
comment key. All quantities are in ASE units: A, eV and amu.

File names ending in .zst are compressed with zstd; names ending in .gz, with
gzip. Anything else is read and written as plain text.
*/
package xyz
