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
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/go-transport/mcdc/internal/hash"
)

// Simulator owns one run's full setup (materials, geometry, sources,
// tallies) and its mutable run state (banks, RNG, iteration index).
// Construct with NewSimulator; configure the fields below directly,
// then call Run.
type Simulator struct {
	Speeds  []float64
	Cells   []*Cell
	Sources []*Source
	Tallies []*Tally
	NHist   int

	Output string

	Seed   uint64
	Stride int64

	ModeEigenvalue bool
	ModeK          bool
	KEff           float64
	NIter          int
	IIter          int

	PCT        PCTKind
	CensusTime []float64

	BankStored  *Bank
	BankSource  *Bank
	BankHistory *Bank
	bankFission *Bank

	TimeTotal time.Duration

	Comm Communicator
	Log  *logrus.Logger

	KMean []float64

	rng         *RNG
	nuSigmaFSum float64

	workStart, workSize, workSizeTotal int
}

// NewSimulator returns a Simulator with defaults matching the
// reference engine's factory defaults (simple-sampling PCT, a single
// census at +Inf, the default RNG seed and stride, a single-rank
// communicator, and a logrus logger writing to stderr at Info level).
func NewSimulator() *Simulator {
	log := logrus.New()
	return &Simulator{
		Output:      "output",
		Seed:        DefaultSeed,
		Stride:      DefaultStride,
		KEff:        1.0,
		NIter:       1,
		PCT:         PCTSimpleSampling,
		CensusTime:  []float64{math.Inf(1)},
		BankStored:  NewBank(),
		BankSource:  NewBank(),
		BankHistory: NewBank(),
		Comm:        SingleRankCommunicator{},
		Log:         log,
	}
}

// SetKMode switches the simulator into k-eigenvalue mode.
func (sim *Simulator) SetKMode(nIter int, kInit float64) {
	sim.ModeEigenvalue = true
	sim.ModeK = true
	sim.NIter = nIter
	sim.KEff = kInit
	if sim.Comm.IsMaster() {
		sim.KMean = make([]float64, nIter)
	}
}

// SetPCT sets the population control technique and the census-time
// grid used to decide when a history banks for the next time step.
func (sim *Simulator) SetPCT(pct PCTKind, censusTime []float64) {
	sim.PCT = pct
	sim.CensusTime = censusTime
}

// Validate checks the setup-time invariants from the configuration's
// error taxonomy: missing speeds, an unsorted census grid not ending
// at +Inf, and malformed materials.
func (sim *Simulator) Validate() error {
	if len(sim.Speeds) == 0 {
		return fmt.Errorf("mcdc: %w: speeds must be set", ErrConfig)
	}
	if len(sim.CensusTime) == 0 {
		return fmt.Errorf("mcdc: %w: census_time must be non-empty", ErrConfig)
	}
	if !sort.Float64sAreSorted(sim.CensusTime) {
		return fmt.Errorf("mcdc: %w: census_time must be sorted ascending", ErrConfig)
	}
	if last := sim.CensusTime[len(sim.CensusTime)-1]; !math.IsInf(last, 1) {
		return fmt.Errorf("mcdc: %w: census_time must end at +Inf", ErrConfig)
	}
	seen := map[*Cell]bool{}
	for _, c := range sim.Cells {
		if seen[c] {
			continue
		}
		seen[c] = true
		if err := c.Material.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrConfig, err)
		}
	}
	switch sim.PCT {
	case PCTSimpleSampling, PCTSplittingRoulette, PCTCombing, PCTCombingWeighted, PCTDuplicateDiscard:
	default:
		return fmt.Errorf("mcdc: %w: unknown PCT %v", ErrConfig, sim.PCT)
	}
	return sim.normalizeSourceProbabilities()
}

// normalizeSourceProbabilities rescales Sources' Prob fields to sum to
// 1, mirroring the reference driver's pre-run normalization pass.
func (sim *Simulator) normalizeSourceProbabilities() error {
	if len(sim.Sources) == 0 {
		return nil
	}
	var norm float64
	for _, s := range sim.Sources {
		norm += s.Prob
	}
	if norm <= 0 {
		return fmt.Errorf("mcdc: %w: source probabilities must sum to a positive value", ErrConfig)
	}
	for _, s := range sim.Sources {
		s.Prob /= norm
	}
	return nil
}

// Run executes the full simulation loop: setup, then iterate the
// source/history loop until fixed-source termination (bank_stored
// empties) or the configured number of k-eigenvalue iterations
// completes, then closes out fixed-source tallies and stops the timer.
func (sim *Simulator) Run() error {
	start := time.Now()

	if err := sim.Validate(); err != nil {
		return err
	}

	for _, t := range sim.Tallies {
		t.SetupBins(sim.NIter)
	}

	sim.rng = NewRNG(sim.Seed, sim.Stride)

	if sim.ModeEigenvalue {
		sim.CensusTime = []float64{math.Inf(1)}
	}

	sim.workStart, sim.workSize = Partition(sim.NHist, sim.Comm.Rank(), sim.Comm.Size())
	sim.workSizeTotal = sim.NHist

	sim.Log.WithFields(logrus.Fields{
		"rank":        sim.Comm.Rank(),
		"size":        sim.Comm.Size(),
		"n_hist":      sim.NHist,
		"setup_fp":    sim.setupFingerprint(),
		"work_start":  sim.workStart,
		"work_size":   sim.workSize,
	}).Info("starting run")

	for {
		if sim.ModeEigenvalue {
			sim.bankFission = sim.BankStored
		} else {
			sim.bankFission = sim.BankHistory
		}

		if err := sim.loopSource(); err != nil {
			return err
		}

		if sim.ModeEigenvalue {
			for _, t := range sim.Tallies {
				t.Closeout(sim.NHist, sim.IIter)
			}
			sim.KEff = sim.Comm.AllreduceSum(sim.nuSigmaFSum) / float64(sim.workSizeTotal)
			if sim.Comm.IsMaster() {
				sim.KMean[sim.IIter] = sim.KEff
				sim.Log.WithFields(logrus.Fields{
					"iter":  sim.IIter,
					"k_eff": sim.KEff,
				}).Info("iteration complete")
			}
			sim.nuSigmaFSum = 0
		}

		done := false
		if sim.ModeEigenvalue {
			sim.IIter++
			if sim.IIter == sim.NIter {
				done = true
			}
		} else if sim.BankStored.Len() == 0 {
			done = true
		}

		if !done {
			if sim.ModeEigenvalue {
				sim.normalizeWeight(sim.BankStored, sim.NHist)
			}

			sim.rng.SkipAheadHistories(int64(sim.workSizeTotal-sim.workStart), true)

			resized, err := ApplyPCT(sim.PCT, sim.rng, sim.BankStored.All(), sim.NHist)
			if err != nil {
				return err
			}
			sim.BankSource.ReplaceWith(resized)
			sim.BankStored.Reset()

			// COX's tooth count is itself random, so the resized
			// population may not equal NHist exactly; re-partition
			// against its actual size rather than assuming it held.
			sim.workSizeTotal = len(resized)
			sim.workStart, sim.workSize = Partition(sim.workSizeTotal, sim.Comm.Rank(), sim.Comm.Size())
		} else {
			sim.BankSource.Reset()
			sim.BankStored.Reset()
			break
		}
	}

	if !sim.ModeEigenvalue {
		for _, t := range sim.Tallies {
			t.Closeout(sim.NHist, 0)
		}
	}

	sim.TimeTotal = time.Since(start)
	sim.Log.WithField("elapsed", sim.TimeTotal).Info("run complete")
	return nil
}

// setupFingerprint hashes the rank-invariant parts of the setup
// (everything every rank must agree on before the first allreduce can
// be trusted) so a multi-rank run can log a value that should be
// identical across ranks.
func (sim *Simulator) setupFingerprint() string {
	return hash.Hash(struct {
		Speeds     []float64
		NHist      int
		ModeK      bool
		NIter      int
		CensusTime []float64
		Seed       uint64
		Stride     int64
		PCT        PCTKind
	}{sim.Speeds, sim.NHist, sim.ModeK, sim.NIter, sim.CensusTime, sim.Seed, sim.Stride, sim.PCT})
}

// normalizeWeight rescales bank_stored so its total weight equals
// nHist, the weight-conservation step k-eigenvalue mode performs
// between iterations so the population neither grows nor shrinks in
// expected total weight.
func (sim *Simulator) normalizeWeight(bank *Bank, nHist int) {
	total := bank.TotalWeight()
	totalAllRanks := sim.Comm.AllreduceSum(total)
	if totalAllRanks == 0 {
		return
	}
	scale := float64(nHist) / totalAllRanks
	for _, p := range bank.All() {
		p.W *= scale
	}
}

// loopSource drains one full iteration's worth of histories: it
// rebases the RNG to work_start, then for each rank-local history
// index seeds or draws a source particle, resolves its cell and
// time_idx if unset, and drains it (and all its secondaries) through
// the history loop.
func (sim *Simulator) loopSource() error {
	sim.rng.SkipAheadHistories(int64(sim.workStart), true)

	for i := 0; i < sim.workSize; i++ {
		sim.rng.SkipAheadHistories(int64(i), false)

		var p *Particle
		if sim.BankSource.Len() == 0 {
			var err error
			p, err = sim.sampleSource()
			if err != nil {
				return err
			}
			if p.Cell == nil {
				c, ok := FindCell(sim.Cells, p.Pos)
				if !ok {
					return fmt.Errorf("mcdc: %w: source particle lost at %+v", ErrInvariant, p.Pos)
				}
				p.Cell = c
			}
			if p.TimeIdx == nil {
				sim.setTimeIdx(p)
			}
		} else {
			p = sim.BankSource.At(i)
		}

		sim.BankHistory.Push(p)

		if err := sim.loopHistory(); err != nil {
			return err
		}
	}
	return nil
}

// sampleSource draws a source particle by cumulative probability over
// Sources.
func (sim *Simulator) sampleSource() (*Particle, error) {
	xi := sim.rng.Next()
	tot := 0.0
	for _, s := range sim.Sources {
		tot += s.Prob
		if xi < tot {
			return s.GetParticle(sim.rng), nil
		}
	}
	return nil, fmt.Errorf("mcdc: %w: source probabilities did not cover xi=%v", ErrInvariant, xi)
}

// setTimeIdx resolves p's census-time bin index via binary search over
// CensusTime: the index of the first edge strictly greater than p.T,
// so a time lying exactly on an edge already resolves past that edge
// and the exact-match check after the search never fires. The particle
// is killed if its time already lies at or past the final census.
func (sim *Simulator) setTimeIdx(p *Particle) {
	n := len(sim.CensusTime)
	idx := sort.Search(n, func(i int) bool { return sim.CensusTime[i] > p.T })
	if idx == n {
		p.Alive = false
		p.TimeIdx = nil
		return
	}
	if p.T == sim.CensusTime[idx] {
		idx++
	}
	p.TimeIdx = &idx
}

// loopHistory drains bank_history LIFO through the particle tracker,
// then closes out every tally's per-history accumulator.
func (sim *Simulator) loopHistory() error {
	for {
		p, ok := sim.BankHistory.Pop()
		if !ok {
			break
		}
		if err := sim.trackParticle(sim.IIter, p); err != nil {
			return err
		}
	}
	for _, t := range sim.Tallies {
		t.CloseoutHistory()
	}
	return nil
}
