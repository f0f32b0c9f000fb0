/*
 * v3_test.go, part of goStopping.
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

package v3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrix(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	require.NoError(Te, err)
	assert.Equal(Te, 2, A.NVecs())
	assert.Equal(Te, [3]float64{4, 5, 6}, A.Vec(1))

	_, err = NewMatrix([]float64{1, 2})
	require.Error(Te, err)
	var e *Error
	require.ErrorAs(Te, err, &e)
	assert.True(Te, e.Critical())
	e.Decorate("caller")
	assert.Equal(Te, []string{"NewMatrix", "caller"}, e.Decorate(""))

	_, err = NewMatrix(nil)
	require.Error(Te, err)
}

func TestZeros(Te *testing.T) {
	A := Zeros(3)
	assert.Equal(Te, 3, A.NVecs())
	A.SetVec(2, [3]float64{1, 2, 3})
	assert.Equal(Te, [3]float64{1, 2, 3}, A.Vec(2))
	assert.Panics(Te, func() { A.Vec(3) })

	E := Zeros(0)
	assert.NotPanics(Te, func() { E.NVecs() })
	assert.Equal(Te, 0, E.NVecs())
	assert.Equal(Te, 0, Zeros(-2).NVecs())
	assert.Panics(Te, func() { E.Vec(0) })
}
