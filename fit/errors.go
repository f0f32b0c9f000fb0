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

package fit

import (
	"errors"
	"fmt"

	stopping "github.com/rmera/gostopping"
)

var (
	ErrInsufficientData = errors.New("fit: not enough samples for any window")
	ErrDegenerate       = errors.New("fit: degenerate window")
	ErrBadWindow        = errors.New("fit: invalid window or degree")
	ErrLength           = errors.New("fit: mismatched series lengths")
	ErrNonFinite        = errors.New("fit: non-finite sample")
	ErrSingular         = errors.New("fit: singular matrix")
)

// Error is the general structure for errors in the fit package. It fulfills stopping.Error.
type Error struct {
	message  string
	deco     []string
	critical bool
	err      error
}

func (err *Error) Error() string {
	return fmt.Sprintf("fit: %s", err.message)
}

// Decorate adds new information to the error
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// Critical returns true if the error is critical, false otherwise
func (err *Error) Critical() bool { return err.critical }

// Unwrap returns the sentinel error describing the problem.
func (err *Error) Unwrap() error { return err.err }

// InsufficientDataError is returned when no window can be fitted: the series is
// shorter than the minimum window, or every candidate window is degenerate
// (in which case it wraps ErrDegenerate). It matches ErrInsufficientData.
type InsufficientDataError struct {
	Have int
	Need int
	deco []string
	err  error
}

func (err *InsufficientDataError) Error() string {
	if err.err != nil {
		return fmt.Sprintf("fit: no usable window among %d samples (minimum window %d): %v", err.Have, err.Need, err.err)
	}
	return fmt.Sprintf("fit: %d samples, at least %d needed", err.Have, err.Need)
}

// Decorate adds new information to the error
func (err *InsufficientDataError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// Critical is always true.
func (err *InsufficientDataError) Critical() bool { return true }

// Is reports whether target is ErrInsufficientData.
func (err *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }

// Unwrap returns the cause, if any.
func (err *InsufficientDataError) Unwrap() error { return err.err }

// DegenerateWindowError describes a window excluded from the search. It
// doesn't leave BestLinearFit, which recovers by trying the other windows.
type DegenerateWindowError struct {
	Start  int
	Size   int
	Reason string
}

func (err *DegenerateWindowError) Error() string {
	return fmt.Sprintf("fit: window [%d,%d) skipped: %s", err.Start, err.Start+err.Size, err.Reason)
}

// Decorate does nothing; the error never leaves the package.
func (err *DegenerateWindowError) Decorate(deco string) []string { return nil }

// Critical is always false.
func (err *DegenerateWindowError) Critical() bool { return false }

// Is reports whether target is ErrDegenerate.
func (err *DegenerateWindowError) Is(target error) bool { return target == ErrDegenerate }

var (
	_ stopping.Error = (*Error)(nil)
	_ stopping.Error = (*InsufficientDataError)(nil)
	_ stopping.Error = (*DegenerateWindowError)(nil)
)
