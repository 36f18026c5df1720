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
	"math"
	"sort"

	"github.com/ctessum/sparse"
)

// Grid is one filter's ordered bin edges. A nil Grid means "no filter
// present" -- everything maps to the grid's single bin 0.
type Grid struct {
	Edges []float64
}

// NBins returns the number of bins the grid divides its axis into.
func (g *Grid) NBins() int {
	if g == nil || len(g.Edges) == 0 {
		return 1
	}
	return len(g.Edges) - 1
}

// Index returns i such that Edges[i] <= x < Edges[i+1], or ok=false if
// x falls outside every bin.
func (g *Grid) Index(x float64) (i int, ok bool) {
	if g == nil || len(g.Edges) == 0 {
		return 0, true
	}
	n := len(g.Edges)
	// sort.Search finds the first edge strictly greater than x.
	j := sort.Search(n, func(k int) bool { return g.Edges[k] > x })
	i = j - 1
	if i < 0 || i >= n-1 {
		return 0, false
	}
	return i, true
}

// EdgeCrossed returns the index of the first grid edge e with
// lo < e <= hi, or ok=false if there is none. When the step crosses
// several edges, only the first is reported.
func (g *Grid) EdgeCrossed(lo, hi float64) (idx int, ok bool) {
	if g == nil {
		return 0, false
	}
	for i, e := range g.Edges {
		if e > lo && e <= hi {
			return i, true
		}
	}
	return 0, false
}

// ScoreKind is one of the three estimator kinds a Score can compute.
type ScoreKind int

const (
	ScoreFlux ScoreKind = iota
	ScoreFluxEdge
	ScoreCurrent
)

// Score accumulates one estimator across (iter, spatial, time, energy,
// angular) bins. hist holds per-history contributions (sparse: a
// single history typically touches only a handful of bins); mean and
// sdev are the batch accumulators closed out across histories and,
// separately, across iterations.
type Score struct {
	Name string
	Kind ScoreKind

	hist *sparse.SparseArray
	mean *sparse.DenseArray
	sdev *sparse.DenseArray

	shape []int
}

// Mean returns the closed-out mean accumulator.
func (s *Score) Mean() *sparse.DenseArray { return s.mean }

// Sdev returns the closed-out sample standard deviation accumulator.
func (s *Score) Sdev() *sparse.DenseArray { return s.sdev }

// Tally is a Cartesian product of filter grids plus a set of scores.
type Tally struct {
	Name string

	Spatial *Grid
	Time    *Grid
	Energy  *Grid
	Angular *Grid

	// SpatialVolume gives the bin volume (e.g. slab thickness) for each
	// spatial bin; a single-element slice means every bin shares that
	// volume. A real geometry component would derive this from the
	// mesh; it is supplied directly here since general mesh geometry is
	// out of scope for this engine.
	SpatialVolume []float64

	Scores []*Score

	nIter int
}

func (t *Tally) binVolume(spatialIdx int) float64 {
	if len(t.SpatialVolume) == 0 {
		return 1
	}
	if len(t.SpatialVolume) == 1 {
		return t.SpatialVolume[0]
	}
	return t.SpatialVolume[spatialIdx]
}

// SetupBins allocates the per-score accumulators for nIter iterations.
func (t *Tally) SetupBins(nIter int) {
	t.nIter = nIter
	shape := []int{nIter, t.Spatial.NBins(), t.Time.NBins(), t.Energy.NBins(), t.Angular.NBins()}
	for _, s := range t.Scores {
		s.shape = shape
		s.hist = sparse.ZerosSparse(shape...)
		s.mean = sparse.ZerosDense(shape...)
		s.sdev = sparse.ZerosDense(shape...)
	}
}

// bins locates the (spatial, time, energy, angular) bin for the step:
// spatial, time and energy from the particle's shadow (pre-step) state,
// angular from its current direction (after the step's event). It
// returns ok=false if any filter is out of range (the step is simply
// not scored).
func (t *Tally) bins(p *Particle) (sp, tm, en, ang int, ok bool) {
	sp, ok = t.Spatial.Index(p.prev.Pos.X)
	if !ok {
		return
	}
	tm, ok = t.Time.Index(p.prev.T)
	if !ok {
		return
	}
	en, ok = t.Energy.Index(float64(p.prev.G))
	if !ok {
		return
	}
	ang, ok = t.Angular.Index(p.Dir.Z)
	if !ok {
		return
	}
	return
}

// Score adds this step's contribution to every score's hist_accum,
// using the shadow state for (w_old, g_old, cell_old) and the
// post-move Distance for track-length estimators, per the engine's
// per-step scoring contract.
func (t *Tally) Score(iter int, p *Particle) {
	sp, tm, en, ang, ok := t.bins(p)
	if !ok {
		return
	}
	vol := t.binVolume(sp)
	for _, s := range t.Scores {
		switch s.Kind {
		case ScoreFlux:
			s.hist.AddVal(p.prev.W*p.Distance/vol, iter, sp, tm, en, ang)
		case ScoreFluxEdge:
			if edgeIdx, crossed := t.Time.EdgeCrossed(p.prev.T, p.prev.T+p.Distance/math.Max(p.Speed, 1e-300)); crossed {
				s.hist.AddVal(p.prev.W/vol, iter, sp, edgeIdx, en, ang)
			}
		case ScoreCurrent:
			if p.Surface != nil {
				normal := p.Surface.NormalAt(p.Pos)
				s.hist.AddVal(p.prev.W*p.Dir.Dot(normal), iter, sp, tm, en, ang)
			}
		}
	}
}

// CloseoutHistory folds every score's hist_accum into mean and
// sum-of-squares (sdev holds the running sum of squares until
// Closeout converts it to a standard deviation), then zeros hist_accum.
func (t *Tally) CloseoutHistory() {
	for _, s := range t.Scores {
		for idx1d, x := range s.hist.Elements {
			s.mean.Elements[idx1d] += x
			s.sdev.Elements[idx1d] += x * x
		}
		s.hist.Elements = map[int]float64{}
	}
}

// Closeout converts the running sums in mean/sdev for iteration iter
// into a batch mean and sample standard deviation over nTotal
// histories (the globally MPI-reduced history count).
func (t *Tally) Closeout(nTotal int, iter int) {
	if nTotal < 2 {
		return
	}
	n := float64(nTotal)
	for _, s := range t.Scores {
		sliceSize := 1
		for _, d := range s.shape[1:] {
			sliceSize *= d
		}
		start := iter * sliceSize
		for i := start; i < start+sliceSize; i++ {
			sum := s.mean.Elements[i]
			sumSq := s.sdev.Elements[i]
			mean := sum / n
			variance := (sumSq/n - mean*mean) / (n - 1)
			if variance < 0 {
				variance = 0
			}
			s.mean.Elements[i] = mean
			s.sdev.Elements[i] = math.Sqrt(variance)
		}
	}
}
