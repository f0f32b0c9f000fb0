/*
 * xyz.go, part of goStopping.
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
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	stopping "github.com/rmera/gostopping"
	v3 "github.com/rmera/gostopping/v3"
)

// MaxAtoms is the largest atom count accepted in a frame header.
const MaxAtoms = 1 << 24

// Snapshot is one frame of an XYZ file. It implements stopping.Snapshot and
// stopping.AtomEnergier.
type Snapshot struct {
	symbols []string
	coords  *v3.Matrix
	atomKE  []float64 //nil if the per-atom energies are not known
	ke      float64
	hasKE   bool
	info    map[string]string
}

// NewSnapshot builds a snapshot from symbols and coordinates. atomKE, the
// per-atom kinetic energies in eV, can be nil.
func NewSnapshot(symbols []string, coords *v3.Matrix, atomKE []float64) (*Snapshot, error) {
	if coords == nil || coords.NVecs() != len(symbols) {
		return nil, &Error{message: "number of symbols and coordinates differ", deco: []string{"NewSnapshot"}, critical: true}
	}
	if atomKE != nil && len(atomKE) != len(symbols) {
		return nil, &Error{message: "number of symbols and kinetic energies differ", deco: []string{"NewSnapshot"}, critical: true}
	}
	S := &Snapshot{symbols: symbols, coords: coords, info: map[string]string{}}
	if atomKE != nil {
		S.setAtomKE(atomKE)
	}
	return S, nil
}

func (S *Snapshot) setAtomKE(atomKE []float64) {
	S.atomKE = atomKE
	S.ke = 0
	for _, v := range atomKE {
		S.ke += v
	}
	S.hasKE = true
}

// Len returns the number of atoms.
func (S *Snapshot) Len() int { return len(S.symbols) }

// Positions returns the coordinates, in A. The matrix is not copied.
func (S *Snapshot) Positions() *v3.Matrix { return S.coords }

// KineticEnergy returns the total kinetic energy of the frame, in eV,
// or 0 if the frame carries no kinetic energy information.
func (S *Snapshot) KineticEnergy() float64 { return S.ke }

// AtomKineticEnergies returns the kinetic energy of each atom, or nil
// if they can't be resolved from the frame.
func (S *Snapshot) AtomKineticEnergies() []float64 { return S.atomKE }

// HasKineticEnergy returns true if the frame carried kinetic energy information.
func (S *Snapshot) HasKineticEnergy() bool { return S.hasKE }

// Symbols returns the element symbols of the atoms.
func (S *Snapshot) Symbols() []string { return S.symbols }

// Info returns the value for key in the comment line, and whether it was present.
func (S *Snapshot) Info(key string) (string, bool) {
	v, ok := S.info[key]
	return v, ok
}

// SetInfo sets a key=value pair to be written in the comment line.
func (S *Snapshot) SetInfo(key, value string) {
	if S.info == nil {
		S.info = map[string]string{}
	}
	S.info[key] = value
}

// Read reads the first frame of the file name.
func Read(name string) (*Snapshot, error) {
	R, err := New(name)
	if err != nil {
		return nil, stopping.ErrDecorate(err, "Read")
	}
	defer R.Close()
	S, err := R.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &Error{message: "no frames in file", filename: name, deco: []string{"Read"}, critical: true}
		}
		return nil, stopping.ErrDecorate(err, "Read")
	}
	return S, nil
}

// ReadFrames reads all the frames in the file name.
func ReadFrames(name string) ([]*Snapshot, error) {
	R, err := New(name)
	if err != nil {
		return nil, stopping.ErrDecorate(err, "ReadFrames")
	}
	defer R.Close()
	ret := make([]*Snapshot, 0, 1)
	for {
		S, err := R.Next()
		if err != nil {
			if _, ok := err.(LastFrameError); ok {
				break
			}
			return nil, stopping.ErrDecorate(err, "ReadFrames")
		}
		ret = append(ret, S)
	}
	return ret, nil
}

// Reader reads XYZ frames sequentially.
type Reader struct {
	f        *os.File
	dec      io.ReadCloser
	h        *bufio.Reader
	filename string
	readable bool
	line     int
}

// New opens name for reading.
func New(name string) (*Reader, error) {
	R := &Reader{filename: name}
	var err error
	R.f, err = os.Open(name)
	if err != nil {
		return nil, &Error{message: UnableToOpen, filename: name, deco: []string{"New"}, critical: true, err: err}
	}
	R.dec, err = anyNewReader(name, bufio.NewReader(R.f))
	if err != nil {
		R.f.Close()
		return nil, &Error{message: "can't set up decompression", filename: name, deco: []string{"New"}, critical: true, err: err}
	}
	R.h = bufio.NewReader(R.dec)
	R.readable = true
	return R, nil
}

func anyNewReader(name string, r io.Reader) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(name), ".zst"):
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	case strings.HasSuffix(strings.ToLower(name), ".gz"):
		return gzip.NewReader(r)
	default:
		return io.NopCloser(r), nil
	}
}

// Readable returns true if it is possible to call Next on the handle.
func (R *Reader) Readable() bool {
	return R.readable
}

// Close closes the reader, and marks it as unreadable.
func (R *Reader) Close() {
	if !R.readable {
		return
	}
	R.dec.Close()
	R.f.Close()
	R.readable = false
}

func (R *Reader) readLine() (string, error) {
	s, err := R.h.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	R.line++
	return strings.TrimRight(s, "\r\n"), nil
}

// Next reads the next frame. At the end of the file it returns
// a LastFrameError, which matches io.EOF with errors.Is.
func (R *Reader) Next() (*Snapshot, error) {
	if !R.readable {
		return nil, &Error{message: TrajUnIniRead, filename: R.filename, deco: []string{"Next"}, critical: true}
	}
	var line string
	var err error
	for {
		line, err = R.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				R.Close()
				return nil, newLastFrameError(R.filename, "Next")
			}
			return nil, R.lineError(err.Error(), err)
		}
		if strings.TrimSpace(line) != "" {
			break
		}
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || natoms < 0 {
		return nil, R.lineError(fmt.Sprintf("ill formatted atom number '%s'", line), err)
	}
	if natoms == 0 || natoms > MaxAtoms {
		return nil, R.lineError(fmt.Sprintf("atom number %d out of range [1,%d]", natoms, MaxAtoms), nil)
	}
	comment, err := R.readLine()
	if err != nil {
		return nil, R.lineError("missing comment line", err)
	}
	info, err := parseInfo(comment)
	if err != nil {
		return nil, R.lineError(err.Error(), err)
	}
	props, err := parseProperties(info["Properties"])
	if err != nil {
		return nil, R.lineError(err.Error(), err)
	}
	S := &Snapshot{symbols: make([]string, natoms), coords: v3.Zeros(natoms), info: info}
	var mom, vel [][3]float64
	var masses, kes []float64
	if _, ok := props.cols["momenta"]; ok {
		mom = make([][3]float64, natoms)
	}
	if _, ok := props.cols["velocities"]; ok {
		vel = make([][3]float64, natoms)
	}
	if _, ok := props.cols["masses"]; ok {
		masses = make([]float64, natoms)
	}
	if _, ok := props.cols["kinetic_energies"]; ok {
		kes = make([]float64, natoms)
	}
	for i := 0; i < natoms; i++ {
		line, err = R.readLine()
		if err != nil {
			return nil, R.lineError(fmt.Sprintf("expected %d atoms, file ended after %d", natoms, i), err)
		}
		fields := strings.Fields(line)
		if len(fields) < props.width {
			return nil, R.lineError(fmt.Sprintf("%d columns found, %d expected", len(fields), props.width), nil)
		}
		S.symbols[i] = fields[props.cols["species"]]
		var pos [3]float64
		if err = parseVec(fields, props.cols["pos"], pos[:]); err != nil {
			return nil, R.lineError("bad position", err)
		}
		S.coords.SetVec(i, pos)
		if mom != nil {
			if err = parseVec(fields, props.cols["momenta"], mom[i][:]); err != nil {
				return nil, R.lineError("bad momentum", err)
			}
		}
		if vel != nil {
			if err = parseVec(fields, props.cols["velocities"], vel[i][:]); err != nil {
				return nil, R.lineError("bad velocity", err)
			}
		}
		if masses != nil {
			if err = parseVec(fields, props.cols["masses"], masses[i:i+1]); err != nil {
				return nil, R.lineError("bad mass", err)
			}
		}
		if kes != nil {
			if err = parseVec(fields, props.cols["kinetic_energies"], kes[i:i+1]); err != nil {
				return nil, R.lineError("bad kinetic energy", err)
			}
		}
	}
	switch {
	case kes != nil:
		S.setAtomKE(kes)
	case mom != nil || vel != nil:
		k, err := atomEnergies(S.symbols, masses, mom, vel)
		if err != nil {
			return nil, R.lineError(err.Error(), err)
		}
		S.setAtomKE(k)
	}
	// an explicit total in the comment line wins over the per-atom sum.
	if v, ok := info["kinetic_energy"]; ok {
		S.ke, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, R.lineError(fmt.Sprintf("bad kinetic_energy '%s'", v), err)
		}
		S.hasKE = true
	}
	return S, nil
}

func (R *Reader) lineError(msg string, err error) error {
	return &Error{message: fmt.Sprintf("line %d: %s", R.line, msg), filename: R.filename, deco: []string{"Next"}, critical: true, err: err}
}

func parseVec(fields []string, start int, dst []float64) error {
	var err error
	for j := range dst {
		dst[j], err = strconv.ParseFloat(fields[start+j], 64)
		if err != nil {
			return err
		}
	}
	return nil
}

// atomEnergies obtains per-atom kinetic energies from momenta (preferred)
// or velocities.
func atomEnergies(symbols []string, masses []float64, mom, vel [][3]float64) ([]float64, error) {
	ret := make([]float64, len(symbols))
	for i, s := range symbols {
		var m float64
		if masses != nil {
			m = masses[i]
		} else {
			var ok bool
			if m, ok = stopping.Mass(s); !ok {
				return nil, fmt.Errorf("unknown mass for element %s, atom %d", s, i)
			}
		}
		if m <= 0 {
			return nil, fmt.Errorf("non-positive mass for atom %d", i)
		}
		if mom != nil {
			p := mom[i]
			ret[i] = (p[0]*p[0] + p[1]*p[1] + p[2]*p[2]) / (2 * m)
		} else {
			v := vel[i]
			ret[i] = 0.5 * m * (v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
		}
	}
	return ret, nil
}

// parseInfo splits an extended XYZ comment line into key=value pairs.
// Bare words are stored as keys with the value "T".
func parseInfo(line string) (map[string]string, error) {
	ret := make(map[string]string)
	i := 0
	for i < len(line) {
		for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		if i >= len(line) {
			break
		}
		start := i
		for i < len(line) && line[i] != '=' && line[i] != ' ' && line[i] != '\t' {
			i++
		}
		key := line[start:i]
		if i >= len(line) || line[i] != '=' {
			ret[key] = "T"
			continue
		}
		i++ //the '='
		if i < len(line) && line[i] == '"' {
			end := strings.IndexByte(line[i+1:], '"')
			if end < 0 {
				return nil, fmt.Errorf("unterminated quote for key %s", key)
			}
			ret[key] = line[i+1 : i+1+end]
			i += end + 2
			continue
		}
		start = i
		for i < len(line) && line[i] != ' ' && line[i] != '\t' {
			i++
		}
		ret[key] = line[start:i]
	}
	return ret, nil
}

type properties struct {
	cols  map[string]int //name to first column
	width int
}

func parseProperties(s string) (*properties, error) {
	if s == "" {
		s = "species:S:1:pos:R:3"
	}
	f := strings.Split(s, ":")
	if len(f)%3 != 0 {
		return nil, fmt.Errorf("malformed Properties '%s'", s)
	}
	p := &properties{cols: map[string]int{}}
	for i := 0; i < len(f); i += 3 {
		n, err := strconv.Atoi(f[i+2])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("malformed Properties '%s'", s)
		}
		p.cols[f[i]] = p.width
		p.width += n
	}
	if _, ok := p.cols["species"]; !ok {
		return nil, fmt.Errorf("Properties without species: '%s'", s)
	}
	if _, ok := p.cols["pos"]; !ok {
		return nil, fmt.Errorf("Properties without pos: '%s'", s)
	}
	return p, nil
}

// WriteFrame writes S as one extended XYZ frame to w.
func WriteFrame(w io.Writer, S *Snapshot) error {
	if S == nil || S.coords == nil {
		return &Error{message: NilCoordinates, deco: []string{"WriteFrame"}, critical: true}
	}
	props := "species:S:1:pos:R:3"
	if S.atomKE != nil {
		props += ":kinetic_energies:R:1"
	}
	keys := make([]string, 0, len(S.info))
	for k := range S.info {
		if k == "Properties" || k == "kinetic_energy" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	comment := make([]string, 0, len(keys)+2)
	comment = append(comment, "Properties="+props)
	if S.hasKE {
		comment = append(comment, "kinetic_energy="+strconv.FormatFloat(S.ke, 'g', -1, 64))
	}
	for _, k := range keys {
		v := S.info[k]
		if strings.ContainsAny(v, " \t") {
			v = `"` + v + `"`
		}
		comment = append(comment, k+"="+v)
	}
	if _, err := fmt.Fprintf(w, "%d\n%s\n", S.Len(), strings.Join(comment, " ")); err != nil {
		return &Error{message: "can't write header", deco: []string{"WriteFrame"}, critical: true, err: err}
	}
	for i, s := range S.symbols {
		c := S.coords.Vec(i)
		var err error
		if S.atomKE != nil {
			_, err = fmt.Fprintf(w, "%-2s %15.8f %15.8f %15.8f %s\n", s, c[0], c[1], c[2], strconv.FormatFloat(S.atomKE[i], 'g', -1, 64))
		} else {
			_, err = fmt.Fprintf(w, "%-2s %15.8f %15.8f %15.8f\n", s, c[0], c[1], c[2])
		}
		if err != nil {
			return &Error{message: fmt.Sprintf("can't write atom %d", i), deco: []string{"WriteFrame"}, critical: true, err: err}
		}
	}
	return nil
}

// Write writes S to the file name, compressed according to the suffix.
func Write(name string, S *Snapshot) error {
	return WriteTrajectory(name, []*Snapshot{S})
}

// WriteTrajectory writes all frames to the file name, compressed according to the
// suffix, so a whole run can be opened at once in visualization programs.
// If the file exists it will be overwritten.
func WriteTrajectory(name string, frames []*Snapshot) error {
	f, err := os.Create(name)
	if err != nil {
		return &Error{message: UnableToOpen, filename: name, deco: []string{"WriteTrajectory"}, critical: true, err: err}
	}
	if err := writeFrames(f, name, frames); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return &Error{message: "can't close file", filename: name, deco: []string{"WriteTrajectory"}, critical: true, err: err}
	}
	return nil
}

func writeFrames(f io.Writer, name string, frames []*Snapshot) error {
	bw := bufio.NewWriter(f)
	w, err := anyNewWriter(name, bw)
	if err != nil {
		return &Error{message: "can't set up compression", filename: name, deco: []string{"WriteTrajectory"}, critical: true, err: err}
	}
	for i, S := range frames {
		if err := WriteFrame(w, S); err != nil {
			w.Close()
			return stopping.ErrDecorate(err, fmt.Sprintf("WriteTrajectory: frame %d", i))
		}
	}
	if err := w.Close(); err != nil {
		return &Error{message: "can't finish compressed stream", filename: name, deco: []string{"WriteTrajectory"}, critical: true, err: err}
	}
	if err := bw.Flush(); err != nil {
		return &Error{message: "can't flush", filename: name, deco: []string{"WriteTrajectory"}, critical: true, err: err}
	}
	return nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func anyNewWriter(name string, w io.Writer) (io.WriteCloser, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(name), ".zst"):
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	case strings.HasSuffix(strings.ToLower(name), ".gz"):
		return gzip.NewWriterLevel(w, gzip.BestCompression)
	default:
		return nopWriteCloser{w}, nil
	}
}
