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

func equalWeightBank(n int, w float64) []*Particle {
	ps := make([]*Particle, n)
	for i := range ps {
		ps[i] = &Particle{W: w, Alive: true, Dir: Vector{Z: 1}}
	}
	return ps
}

// TestPCTCombingIdentity is scenario 5: feeding Combing a bank of
// N_hist equal-weight particles with target N_hist must return exactly
// N_hist particles of the same weight.
func TestPCTCombingIdentity(t *testing.T) {
	const n = 1000
	const w = 2.5
	bank := equalWeightBank(n, w)

	r := NewRNG(DefaultSeed, DefaultStride)
	out, err := ApplyPCT(PCTCombing, r, bank, n)
	require.NoError(t, err)
	require.Len(t, out, n)
	for _, p := range out {
		require.InDelta(t, w, p.W, 1e-9)
	}
}

// TestPCTCombingConservesTotalWeightExactly is property 7's exact half:
// CO/COX must conserve total weight exactly, not merely in expectation.
func TestPCTCombingConservesTotalWeightExactly(t *testing.T) {
	r := NewRNG(DefaultSeed, DefaultStride)
	bank := []*Particle{
		{W: 1.0, Alive: true},
		{W: 3.0, Alive: true},
		{W: 0.5, Alive: true},
		{W: 7.2, Alive: true},
	}
	want := totalWeight(bank)

	out, err := ApplyPCT(PCTCombing, r, bank, 10)
	require.NoError(t, err)
	require.InDelta(t, want, totalWeight(out), 1e-9)
}

// TestPCTCombingWeightedConservesTotalWeightExactly is property 7's
// exact half for COX: even though its population size is itself random,
// every tooth still carries weight total/N, so the sum is conserved
// exactly regardless of which N was drawn.
func TestPCTCombingWeightedConservesTotalWeightExactly(t *testing.T) {
	r := NewRNG(DefaultSeed, DefaultStride)
	bank := []*Particle{
		{W: 1.0, Alive: true},
		{W: 2.0, Alive: true},
		{W: 3.0, Alive: true},
		{W: 0.5, Alive: true},
	}
	want := totalWeight(bank)

	out, err := ApplyPCT(PCTCombingWeighted, r, bank, 8)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	require.InDelta(t, want, totalWeight(out), 1e-9)
}

// TestPCTCombingWeightedSizeVariesAroundTarget checks COX's population
// size is itself random (a Binomial(2*target, 1/2) draw, mean target),
// unlike CO's fixed-size comb.
func TestPCTCombingWeightedSizeVariesAroundTarget(t *testing.T) {
	const target = 20
	bank := equalWeightBank(target, 1.0)

	r := NewRNG(DefaultSeed, DefaultStride)
	sizes := map[int]bool{}
	for i := 0; i < 50; i++ {
		out, err := ApplyPCT(PCTCombingWeighted, r, bank, target)
		require.NoError(t, err)
		sizes[len(out)] = true
	}
	require.Greater(t, len(sizes), 1, "expected COX's output size to vary across draws")
}

// TestPCTSplittingRouletteExpectedWeightPreserved is property 7's
// expectation half: repeat many trials and check the average total
// weight converges to the input total.
func TestPCTSplittingRouletteExpectedWeightPreserved(t *testing.T) {
	bank := equalWeightBank(50, 1.3)
	want := totalWeight(bank)

	r := NewRNG(DefaultSeed, DefaultStride)
	var sum float64
	const trials = 2000
	for i := 0; i < trials; i++ {
		out, err := ApplyPCT(PCTSplittingRoulette, r, bank, 50)
		require.NoError(t, err)
		sum += totalWeight(out)
	}
	mean := sum / trials
	require.InDelta(t, want, mean, want*0.05)
}

func TestPCTDuplicateDiscardExpectedWeightPreserved(t *testing.T) {
	bank := equalWeightBank(80, 1.0)
	want := totalWeight(bank)

	r := NewRNG(DefaultSeed, DefaultStride)
	var sum float64
	const trials = 2000
	for i := 0; i < trials; i++ {
		out, err := ApplyPCT(PCTDuplicateDiscard, r, bank, 40)
		require.NoError(t, err)
		require.Len(t, out, 40)
		sum += totalWeight(out)
	}
	mean := sum / trials
	require.InDelta(t, want, mean, want*0.05)
}

// TestPCTSimpleSamplingIsPassThrough checks SS's spec.md §4.4 semantics:
// a null technique that returns the bank unchanged (fresh copies, same
// weights, same length), even when target differs from len(in).
func TestPCTSimpleSamplingIsPassThrough(t *testing.T) {
	r := NewRNG(DefaultSeed, DefaultStride)
	bank := []*Particle{
		{W: 1.0, Alive: true},
		{W: 3.0, Alive: true},
		{W: 0.5, Alive: true},
	}

	out, err := ApplyPCT(PCTSimpleSampling, r, bank, 7)
	require.NoError(t, err)
	require.Len(t, out, len(bank))
	for i, p := range out {
		require.Equal(t, bank[i].W, p.W)
		require.NotSame(t, bank[i], p)
	}
}

func TestApplyPCTRejectsNonPositiveTarget(t *testing.T) {
	r := NewRNG(DefaultSeed, DefaultStride)
	_, err := ApplyPCT(PCTCombing, r, equalWeightBank(3, 1), 0)
	require.Error(t, err)
}

func TestApplyPCTUnknownKind(t *testing.T) {
	r := NewRNG(DefaultSeed, DefaultStride)
	_, err := ApplyPCT(PCTKind(99), r, equalWeightBank(3, 1), 3)
	require.Error(t, err)
}
