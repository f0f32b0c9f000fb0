/*
 * errors.go, part of goStopping.
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

package aggregate

import (
	"fmt"

	stopping "github.com/rmera/gostopping"
)

// SnapshotLoadError is returned when a snapshot of a run can't be
// opened, parsed, or doesn't contain a projectile. It aborts the run.
type SnapshotLoadError struct {
	Run   stopping.RunID
	File  string
	Index int //position of the file in the ordered sequence of the run
	err   error
	deco  []string
}

func (err *SnapshotLoadError) Error() string {
	return fmt.Sprintf("aggregate: run %s: can't load snapshot %d (%s): %v", err.Run.Label(), err.Index, err.File, err.err)
}

// Decorate adds new information to the error
func (err *SnapshotLoadError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// Critical is always true: the run can't be analyzed.
func (err *SnapshotLoadError) Critical() bool { return true }

// FileName returns the snapshot that failed to load.
func (err *SnapshotLoadError) FileName() string { return err.File }

// Unwrap returns the error from the snapshot loader.
func (err *SnapshotLoadError) Unwrap() error { return err.err }

// DirError is returned when the data directory can't be listed.
type DirError struct {
	dir  string
	err  error
	deco []string
}

func (err *DirError) Error() string {
	return fmt.Sprintf("aggregate: can't list directory %s: %v", err.dir, err.err)
}

// Decorate adds new information to the error
func (err *DirError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// Critical is always true.
func (err *DirError) Critical() bool { return true }

// Unwrap returns the error from the file system.
func (err *DirError) Unwrap() error { return err.err }

var (
	_ stopping.Error = (*SnapshotLoadError)(nil)
	_ stopping.Error = (*DirError)(nil)
)
