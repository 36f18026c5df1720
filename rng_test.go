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

func TestSkipAheadMatchesRepeatedNext(t *testing.T) {
	const n = 37
	direct := NewRNG(DefaultSeed, DefaultStride)
	for i := 0; i < n; i++ {
		direct.Next()
	}

	skipped := NewRNG(DefaultSeed, DefaultStride)
	skipped.SkipAhead(n, false)

	require.Equal(t, direct.State(), skipped.State())
}

func TestSkipAheadComposition(t *testing.T) {
	a, b := int64(41), int64(59)

	seq := NewRNG(DefaultSeed, DefaultStride)
	seq.SkipAhead(a, true)
	seq.SkipAhead(b, true)

	combined := NewRNG(DefaultSeed, DefaultStride)
	combined.SkipAhead(a+b, true)

	require.Equal(t, combined.State(), seq.State())
	require.Equal(t, combined.Base(), seq.Base())
}

func TestSkipAheadWithoutRebaseIsRelativeToBase(t *testing.T) {
	r := NewRNG(DefaultSeed, DefaultStride)
	r.SkipAhead(100, true) // rebase to 100

	r.SkipAhead(5, false)
	firstState := r.State()

	r.SkipAhead(5, false) // relative to base (100), not to state (105)
	require.Equal(t, firstState, r.State())
}

func TestSkipAheadHistoriesScalesByStride(t *testing.T) {
	r1 := NewRNG(DefaultSeed, 17)
	r1.SkipAheadHistories(3, true)

	r2 := NewRNG(DefaultSeed, 17)
	r2.SkipAhead(3*17, true)

	require.Equal(t, r2.State(), r1.State())
}

// TestRankSplitReproducibility is property 6 and scenario 6: history i's
// initial substream must be identical whether it is the first history
// assigned to a rank or the i-th history on a single rank, as long as
// both rebase to the same work_start before drawing.
func TestRankSplitReproducibility(t *testing.T) {
	const stride = 101

	singleRank := NewRNG(DefaultSeed, stride)
	singleRank.SkipAhead(0, true) // work_start = 0 for the whole run
	singleRank.SkipAheadHistories(5, false)
	var single [100]float64
	for i := range single {
		single[i] = singleRank.Next()
	}

	// Rank 1 of a multi-rank split whose work_start happens to land
	// history 5 at the start of its range.
	rankOne := NewRNG(DefaultSeed, stride)
	rankOne.SkipAheadHistories(5, true)  // work_start = 5
	rankOne.SkipAheadHistories(0, false) // rank-local history 0
	var split [100]float64
	for i := range split {
		split[i] = rankOne.Next()
	}

	require.Equal(t, single, split)
}

func TestNextProducesValuesInUnitInterval(t *testing.T) {
	r := NewRNG(DefaultSeed, DefaultStride)
	for i := 0; i < 10000; i++ {
		u := r.Next()
		require.True(t, u > 0 && u < 1, "draw %v out of (0,1)", u)
	}
}
