/*
 * xyz_test.go, part of goStopping.
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
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stopping "github.com/rmera/gostopping"
	v3 "github.com/rmera/gostopping/v3"
)

const momentaFrame = `3
Lattice="8.1 0.0 0.0 0.0 8.1 0.0 0.0 0.0 8.1" Properties=species:S:1:pos:R:3:momenta:R:3 pbc="T T T"
Al 0.0 0.0 0.0 0.0 0.0 0.0
Al 2.025 2.025 0.0 0.0 0.0 0.0
H 1.5 4.05 4.05 2.0 0.0 0.0
`

func writeFile(Te *testing.T, name, content string) string {
	Te.Helper()
	path := filepath.Join(Te.TempDir(), name)
	require.NoError(Te, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadMomenta(Te *testing.T) {
	S, err := Read(writeFile(Te, "p_40k_step10.xyz", momentaFrame))
	require.NoError(Te, err)
	require.Equal(Te, 3, S.Len())
	assert.Equal(Te, []string{"Al", "Al", "H"}, S.Symbols())
	assert.Equal(Te, [3]float64{1.5, 4.05, 4.05}, S.Positions().Vec(2))
	m, _ := stopping.Mass("H")
	want := 4.0 / (2 * m)
	require.Len(Te, S.AtomKineticEnergies(), 3)
	assert.InDelta(Te, want, S.AtomKineticEnergies()[2], 1e-12)
	assert.InDelta(Te, want, S.KineticEnergy(), 1e-12)
	assert.True(Te, S.HasKineticEnergy())
	pbc, ok := S.Info("pbc")
	assert.True(Te, ok)
	assert.Equal(Te, "T T T", pbc)
}

func TestReadVelocitiesAndMasses(Te *testing.T) {
	content := `2
Properties=species:S:1:pos:R:3:velocities:R:3:masses:R:1
Al 0 0 0 0 0 0 27.0
H 1 0 0 0.5 0 0 2.0
`
	S, err := Read(writeFile(Te, "v.xyz", content))
	require.NoError(Te, err)
	assert.InDelta(Te, 0.5*2.0*0.25, S.KineticEnergy(), 1e-12)
	assert.Equal(Te, 0.0, S.AtomKineticEnergies()[0])
}

func TestReadCommentEnergy(Te *testing.T) {
	content := "2\nkinetic_energy=39871.5 step=20\nAl 0 0 0\nH 3.2 4.05 4.05\n"
	S, err := Read(writeFile(Te, "c.xyz", content))
	require.NoError(Te, err)
	assert.Equal(Te, 39871.5, S.KineticEnergy())
	assert.Nil(Te, S.AtomKineticEnergies())
	assert.Equal(Te, 3.2, stopping.HyperchannellingTrajectory(0).Projection(S.Positions().Vec(1)))
}

func TestReadErrors(Te *testing.T) {
	cases := map[string]string{
		"badcount":  "two\n\nH 0 0 0\n",
		"short":     "3\n\nH 0 0 0\n",
		"badcoord":  "1\n\nH 0 x 0\n",
		"badprops":  "1\nProperties=species:S\nH 0 0 0\n",
		"unknownel": "1\nProperties=species:S:1:pos:R:3:momenta:R:3\nXx 0 0 0 1 1 1\n",
		"empty":     "",
		"noatoms":   "0\nProperties=species:S:1:pos:R:3\n",
		"huge":      "99999999\n\nH 0 0 0\n",
	}
	for name, content := range cases {
		_, err := Read(writeFile(Te, name+".xyz", content))
		require.Error(Te, err, name)
		var e *Error
		require.ErrorAs(Te, err, &e, name)
		assert.True(Te, e.Critical(), name)
	}
	_, err := Read(filepath.Join(Te.TempDir(), "missing.xyz"))
	var e *Error
	require.ErrorAs(Te, err, &e)
	assert.True(Te, errors.Is(err, os.ErrNotExist))
}

func TestTrajectoryRoundTrip(Te *testing.T) {
	for _, name := range []string{"traj.xyz", "traj.xyz.gz", "traj.xyz.zst"} {
		frames := make([]*Snapshot, 0, 4)
		for i := 0; i < 4; i++ {
			c, err := v3.NewMatrix([]float64{0, 0, 0, float64(i), 4.05, 4.05})
			require.NoError(Te, err)
			S, err := NewSnapshot([]string{"Al", "H"}, c, []float64{0, 40000 - 100*float64(i)})
			require.NoError(Te, err)
			S.SetInfo("run", "40 keV")
			frames = append(frames, S)
		}
		path := filepath.Join(Te.TempDir(), name)
		require.NoError(Te, WriteTrajectory(path, frames), name)

		read, err := ReadFrames(path)
		require.NoError(Te, err, name)
		require.Len(Te, read, 4, name)
		for i, S := range read {
			assert.Equal(Te, float64(i), S.Positions().At(1, 0), name)
			assert.Equal(Te, 40000-100*float64(i), S.AtomKineticEnergies()[1], name)
			assert.Equal(Te, 40000-100*float64(i), S.KineticEnergy(), name)
			run, _ := S.Info("run")
			assert.Equal(Te, "40 keV", run, name)
		}
	}
}

func TestReaderLastFrame(Te *testing.T) {
	path := writeFile(Te, "one.xyz", momentaFrame)
	R, err := New(path)
	require.NoError(Te, err)
	defer R.Close()
	_, err = R.Next()
	require.NoError(Te, err)
	_, err = R.Next()
	require.Error(Te, err)
	_, ok := err.(LastFrameError)
	assert.True(Te, ok)
	assert.True(Te, errors.Is(err, io.EOF))
	assert.False(Te, R.Readable())
}

func TestNewSnapshotChecks(Te *testing.T) {
	c := v3.Zeros(2)
	_, err := NewSnapshot([]string{"H"}, c, nil)
	require.Error(Te, err)
	_, err = NewSnapshot([]string{"H", "H"}, c, []float64{1})
	require.Error(Te, err)
	S, err := NewSnapshot([]string{"H", "H"}, c, nil)
	require.NoError(Te, err)
	assert.False(Te, S.HasKineticEnergy())
	assert.Zero(Te, S.KineticEnergy())
}

func TestLoader(Te *testing.T) {
	dir := Te.TempDir()
	require.NoError(Te, os.WriteFile(filepath.Join(dir, "a.xyz"), []byte(momentaFrame), 0o644))
	require.NoError(Te, os.WriteFile(filepath.Join(dir, "b.xyz"), []byte("1\n\nH 0 0 0\n"), 0o644))
	L := NewLoader(dir)
	S, err := L.Load(context.Background(), "a.xyz")
	require.NoError(Te, err)
	assert.Equal(Te, 3, S.Len())

	_, err = L.Load(context.Background(), "b.xyz")
	var e *Error
	require.ErrorAs(Te, err, &e)
	assert.Contains(Te, e.Error(), NoEnergy)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = L.Load(ctx, "a.xyz")
	assert.ErrorIs(Te, err, context.Canceled)
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteTrajectoryErrors(Te *testing.T) {
	c, err := v3.NewMatrix([]float64{0, 0, 0, 1, 4.05, 4.05})
	require.NoError(Te, err)
	S, err := NewSnapshot([]string{"Al", "H"}, c, []float64{0, 100})
	require.NoError(Te, err)

	err = writeFrames(failingWriter{}, "traj.xyz", []*Snapshot{S})
	var e *Error
	require.ErrorAs(Te, err, &e)
	assert.Equal(Te, "traj.xyz", e.FileName())
	assert.EqualError(Te, errors.Unwrap(err), "disk full")

	dir := Te.TempDir()
	err = WriteTrajectory(filepath.Join(dir, "bad.xyz"), []*Snapshot{S, nil})
	require.ErrorAs(Te, err, &e)
	err = WriteTrajectory(filepath.Join(dir, "missing", "t.xyz"), []*Snapshot{S})
	require.ErrorAs(Te, err, &e)
	assert.True(Te, errors.Is(err, os.ErrNotExist))

	path := filepath.Join(dir, "ok.xyz.zst")
	require.NoError(Te, WriteTrajectory(path, []*Snapshot{S}))
	read, err := ReadFrames(path)
	require.NoError(Te, err)
	assert.Len(Te, read, 1)
}
