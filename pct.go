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
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// PCTKind selects one of the five population control techniques a
// Simulator can resize bank_stored with between iterations, toward the
// configured target size.
type PCTKind int

const (
	PCTSimpleSampling PCTKind = iota
	PCTSplittingRoulette
	PCTCombing
	PCTCombingWeighted
	PCTDuplicateDiscard
)

func (k PCTKind) String() string {
	switch k {
	case PCTSimpleSampling:
		return "simple-sampling"
	case PCTSplittingRoulette:
		return "splitting-roulette"
	case PCTCombing:
		return "combing"
	case PCTCombingWeighted:
		return "combing-weighted"
	case PCTDuplicateDiscard:
		return "duplicate-discard"
	default:
		return fmt.Sprintf("PCTKind(%d)", int(k))
	}
}

// ApplyPCT resizes in to a bank of approximately target particles,
// using rng for every random decision the technique needs. CO and DD
// return exactly target particles; SS returns len(in) particles and
// ignores target; SR's count is random with expected value target; COX
// draws its own population size from a binomial distribution centered
// on target (spec.md §4.4). It never mutates the Particle values in in;
// every returned particle is a fresh Copy.
func ApplyPCT(kind PCTKind, rng *RNG, in []*Particle, target int) ([]*Particle, error) {
	if target <= 0 {
		return nil, fmt.Errorf("mcdc: %w: population control target must be positive, got %d", ErrInvariant, target)
	}
	if len(in) == 0 {
		return nil, fmt.Errorf("mcdc: %w: population control called on an empty bank", ErrInvariant)
	}
	switch kind {
	case PCTSimpleSampling:
		return pctSimpleSampling(rng, in, target), nil
	case PCTSplittingRoulette:
		return pctSplittingRoulette(rng, in, target), nil
	case PCTCombing:
		return pctCombing(rng, in, target), nil
	case PCTCombingWeighted:
		return pctCombingWeighted(rng, in, target), nil
	case PCTDuplicateDiscard:
		return pctDuplicateDiscard(rng, in, target), nil
	default:
		return nil, fmt.Errorf("mcdc: %w: unknown population control technique %v", ErrConfig, kind)
	}
}

// totalWeight sums a bank's weights via gonum/floats, which orders its
// summation to bound rounding error better than a naive running total
// -- worth it here since combing's exact-conservation invariant is
// checked against this same sum.
func totalWeight(in []*Particle) float64 {
	w := make([]float64, len(in))
	for i, p := range in {
		w[i] = p.W
	}
	return floats.Sum(w)
}

// pctSimpleSampling is the null technique: a bare copy of in, used when
// the natural population is already being tracked and no resizing or
// reweighting is wanted. It ignores target; rng is unused but kept for
// a uniform PCT signature.
func pctSimpleSampling(rng *RNG, in []*Particle, target int) []*Particle {
	out := make([]*Particle, len(in))
	for i, p := range in {
		out[i] = p.Copy()
	}
	return out
}

// pctSplittingRoulette gives every particle floor(w/avg) guaranteed
// copies plus, with probability equal to the fractional remainder, one
// more via Russian roulette -- the classical split/kill scheme. Each
// produced copy carries weight avg, so E[total] = sum(w) exactly even
// though any single realization may not conserve it.
func pctSplittingRoulette(rng *RNG, in []*Particle, target int) []*Particle {
	avg := totalWeight(in) / float64(target)
	var out []*Particle
	for _, p := range in {
		n := p.W / avg
		k := int(n)
		frac := n - float64(k)
		if rng.Next() < frac {
			k++
		}
		for j := 0; j < k; j++ {
			cp := p.Copy()
			cp.W = avg
			out = append(out, cp)
		}
	}
	if len(out) == 0 {
		// Degenerate case (every particle rolled zero copies): fall back
		// to a single equal-weight copy of the heaviest particle so the
		// bank never empties outright.
		heaviest := in[0]
		for _, p := range in[1:] {
			if p.W > heaviest.W {
				heaviest = p
			}
		}
		cp := heaviest.Copy()
		cp.W = totalWeight(in)
		out = append(out, cp)
	}
	return out
}

// pctCombing is systematic resampling: a comb of target evenly spaced
// teeth (spacing = W_total/target) is laid down at a single random
// offset, and each tooth picks the particle whose cumulative-weight
// range it falls in. Every produced copy carries weight = spacing, so
// the total is conserved exactly: target*spacing == W_total.
func pctCombing(rng *RNG, in []*Particle, target int) []*Particle {
	return comb(rng, in, target, totalWeight(in))
}

// comb implements the shared combing algorithm over a bank whose
// weights are assumed non-negative and sum to total.
func comb(rng *RNG, in []*Particle, target int, total float64) []*Particle {
	if total == 0 {
		// Degenerate case (every particle carries zero weight): there is
		// no cumulative-weight interval to plant teeth in, so fall back
		// to a uniform resample with replacement rather than combing.
		out := make([]*Particle, target)
		for i := range out {
			j := int(rng.Next() * float64(len(in)))
			if j >= len(in) {
				j = len(in) - 1
			}
			out[i] = in[j].Copy()
		}
		return out
	}
	spacing := total / float64(target)
	cum := make([]float64, len(in))
	running := 0.0
	for i, p := range in {
		running += p.W
		cum[i] = running
	}
	offset := rng.Next() * spacing
	out := make([]*Particle, target)
	for k := 0; k < target; k++ {
		pos := offset + float64(k)*spacing
		if pos >= total {
			pos = total - 1e-12
		}
		i := sort.Search(len(cum), func(j int) bool { return cum[j] > pos })
		if i >= len(in) {
			i = len(in) - 1
		}
		cp := in[i].Copy()
		cp.W = spacing
		out[k] = cp
	}
	return out
}

// pctCombingWeighted is CO with the tooth count itself randomized: N is
// drawn from Binomial(2*target, 1/2), which has mean target, instead of
// being fixed at target. A fixed tooth count gives zero variance to the
// resulting population size; COX restores some of that variance (to
// better match the natural fluctuation a non-combed technique would
// have) while still conserving total weight exactly, since every tooth
// carries weight total/N regardless of how N was chosen.
func pctCombingWeighted(rng *RNG, in []*Particle, target int) []*Particle {
	n := rng.binomial(2*target, 0.5)
	if n < 1 {
		n = 1
	}
	return comb(rng, in, n, totalWeight(in))
}

// binomial draws a sample from Binomial(n, p) by summing n independent
// Bernoulli(p) trials. COX calls this once per PCT invocation (not once
// per particle), so the O(n) draw cost is acceptable.
func (r *RNG) binomial(n int, p float64) int {
	k := 0
	for i := 0; i < n; i++ {
		if r.Next() < p {
			k++
		}
	}
	return k
}

// pctDuplicateDiscard is the simplest technique: pick target particles
// from in uniformly, then rescale every produced copy's weight by
// len(in)/target. Shrinking (target <= len(in)) picks without
// replacement, dropping particles and boosting survivors; growing
// (target > len(in)) picks with replacement, duplicating particles and
// shrinking each copy. Either way E[total] = W_total, but
// unlike combing it is not conserved in any single realization.
func pctDuplicateDiscard(rng *RNG, in []*Particle, target int) []*Particle {
	scale := float64(len(in)) / float64(target)
	if len(in) >= target {
		idx := rng.permIndices(len(in))[:target]
		out := make([]*Particle, target)
		for i, j := range idx {
			cp := in[j].Copy()
			cp.W *= scale
			out[i] = cp
		}
		return out
	}
	out := make([]*Particle, target)
	for i := range out {
		j := int(rng.Next() * float64(len(in)))
		if j >= len(in) {
			j = len(in) - 1
		}
		cp := in[j].Copy()
		cp.W *= scale
		out[i] = cp
	}
	return out
}

// permIndices returns a uniformly random permutation of 0..n-1, drawn
// with a Fisher-Yates shuffle consuming n-1 RNG draws.
func (r *RNG) permIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := int(r.Next() * float64(i+1))
		if j > i {
			j = i
		}
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx
}
