/*
Copyright © 2024 the mcdc authors.
This file is part of mcdc.

mcdc is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

mcdc is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with mcdc.  If not, see <http://www.gnu.org/licenses/>.
*/

package mcdc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaterialValidateAcceptsConsistentCrossSections(t *testing.T) {
	m := &Material{
		Name:   "fuel",
		SigmaT: []float64{1.0, 2.0},
		SigmaC: []float64{0.3, 0.5},
		SigmaS: []float64{0.6, 1.2},
		SigmaF: []float64{0.1, 0.3},
		Nu:     []float64{2.5, 2.5},
		ScatterDist:  [][]float64{{1, 0}, {0, 1}},
		FissionDist:  [][]float64{{1, 0}, {0, 1}},
	}
	require.NoError(t, m.Validate())
}

func TestMaterialValidateRejectsInconsistentCrossSections(t *testing.T) {
	m := &Material{
		Name:   "bad",
		SigmaT: []float64{1.0},
		SigmaC: []float64{0.3},
		SigmaS: []float64{0.3},
		SigmaF: []float64{0.3}, // 0.3+0.3+0.3 != 1.0
		Nu:     []float64{2.5},
	}
	require.Error(t, m.Validate())
}

func TestMaterialValidateRejectsMismatchedLengths(t *testing.T) {
	m := &Material{
		Name:   "ragged",
		SigmaT: []float64{1.0, 1.0},
		SigmaC: []float64{1.0},
		SigmaS: []float64{0},
		SigmaF: []float64{0},
		Nu:     []float64{0},
	}
	require.Error(t, m.Validate())
}
