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

package xyz

import (
	"fmt"
	"io"
)

// Error is the general structure for XYZ errors. It fulfills stopping.Error.
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
	err      error
}

func (err *Error) Error() string {
	if err.filename == "" {
		return fmt.Sprintf("xyz error: %s", err.message)
	}
	return fmt.Sprintf("xyz file %s error: %s", err.filename, err.message)
}

// Decorate adds new information to the error
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// FileName returns the file to which the failing operation was associated
func (err *Error) FileName() string { return err.filename }

// Critical returns true if the error is critical, false otherwise
func (err *Error) Critical() bool { return err.critical }

// Unwrap returns the underlying error, if any.
func (err *Error) Unwrap() error { return err.err }

const (
	TrajUnIniRead  = "Reader uninitialized to read"
	UnableToOpen   = "Unable to open file"
	NilCoordinates = "Given nil coordinates"
	NoEnergy       = "Frame carries no kinetic energy information"
)

// LastFrameError is returned by Reader.Next when there are no more frames.
type LastFrameError interface {
	error
	NormalLastFrameTermination() //does nothing, just to separate this interface from other errors
}

// lastFrameError implements LastFrameError
type lastFrameError struct {
	deco     []string
	fileName string
}

// NormalLastFrameTermination does nothing
func (E *lastFrameError) NormalLastFrameTermination() {}

func (E *lastFrameError) Error() string { return "EOF" }

func (E *lastFrameError) Critical() bool { return false }

func (E *lastFrameError) Unwrap() error { return io.EOF }

func (E *lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newLastFrameError(filename string, caller string) *lastFrameError {
	return &lastFrameError{fileName: filename, deco: []string{caller}}
}
