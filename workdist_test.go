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

func TestPartitionCoversWithoutOverlap(t *testing.T) {
	for _, tc := range []struct{ nHist, size int }{
		{100, 1}, {100, 3}, {100, 7}, {1, 1}, {7, 7}, {10000, 16},
	} {
		covered := make([]bool, tc.nHist)
		for rank := 0; rank < tc.size; rank++ {
			start, length := Partition(tc.nHist, rank, tc.size)
			for i := start; i < start+length; i++ {
				require.False(t, covered[i], "nHist=%d size=%d index %d covered twice", tc.nHist, tc.size, i)
				covered[i] = true
			}
		}
		for i, c := range covered {
			require.True(t, c, "nHist=%d size=%d index %d never covered", tc.nHist, tc.size, i)
		}
	}
}

func TestPartitionRangeLengthsDifferByAtMostOne(t *testing.T) {
	const nHist, size = 103, 7
	lengths := make([]int, size)
	for rank := range lengths {
		_, lengths[rank] = Partition(nHist, rank, size)
	}
	min, max := lengths[0], lengths[0]
	for _, l := range lengths {
		if l < min {
			min = l
		}
		if l > max {
			max = l
		}
	}
	require.LessOrEqual(t, max-min, 1)
}
