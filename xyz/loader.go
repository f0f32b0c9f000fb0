/*
 * loader.go, part of goStopping.
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

package xyz

import (
	"context"
	"path/filepath"

	stopping "github.com/rmera/gostopping"
)

// Loader loads snapshots from the files of a directory.
// It implements stopping.Loader.
type Loader struct {
	Dir string
}

// NewLoader returns a Loader for the directory dir.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir}
}

// Load reads the first frame of the file name, relative to the loader directory.
// The frame must carry kinetic energy information.
func (L *Loader) Load(ctx context.Context, name string) (stopping.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := name
	if L.Dir != "" && !filepath.IsAbs(name) {
		path = filepath.Join(L.Dir, name)
	}
	S, err := Read(path)
	if err != nil {
		return nil, stopping.ErrDecorate(err, "Load")
	}
	if !S.HasKineticEnergy() {
		return nil, &Error{message: NoEnergy, filename: path, deco: []string{"Load"}, critical: true}
	}
	return S, nil
}
