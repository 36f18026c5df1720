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
)

// sigmaEps guards the collision-distance sample against a vacuum-like
// material (SigmaT == 0), which would otherwise make d_coll infinite
// and stall the event loop.
const sigmaEps = 1e-20

// smallKick is the nudge distance applied after a surface or census
// crossing to guarantee the particle lands strictly on the far side,
// so the next iteration's point-in-cell test (or census comparison)
// doesn't re-trigger the same event.
const smallKick = 1e-10

type eventKind int

const (
	eventCollision eventKind = iota
	eventSurface
	eventCensus
)

// trackParticle runs the per-particle event loop to completion: the
// particle is alive on entry and dead (or census-banked and dead) on
// return. iter is the current iteration index, threaded through to the
// tally engine so scores land in the right iteration's slice.
func (sim *Simulator) trackParticle(iter int, p *Particle) error {
	for p.Alive {
		// Setup.
		p.SavePreviousState()
		p.Speed = sim.Speeds[p.G]

		// Distances to the three candidate events.
		dColl := sim.distanceToCollision(p)
		surf, dSurf := sim.nearestSurface(p)
		if p.TimeIdx == nil {
			return fmt.Errorf("mcdc: %w: particle has no time_idx set before tracking", ErrInvariant)
		}
		if *p.TimeIdx >= len(sim.CensusTime) {
			return fmt.Errorf("mcdc: %w: particle time_idx %d past final census bin", ErrInvariant, *p.TimeIdx)
		}
		tCensus := sim.CensusTime[*p.TimeIdx]
		dCens := p.Speed * (tCensus - p.T)

		// Event selection: collision < surface < census on ties.
		event := eventCollision
		d := dColl
		if d > dSurf {
			event = eventSurface
			d = dSurf
		}
		if d > dCens {
			event = eventCensus
			d = dCens
		}

		sim.moveParticle(p, d)

		switch event {
		case eventCollision:
			sim.collision(p)
		case eventSurface:
			p.Surface = surf
			if err := sim.surfaceHit(p); err != nil {
				return err
			}
		case eventCensus:
			sim.moveParticle(p, smallKick*p.Speed)
			*p.TimeIdx++
			if *p.TimeIdx < len(sim.CensusTime) {
				sim.BankStored.Push(p.Copy())
			}
			p.Alive = false
		}

		for _, t := range sim.Tallies {
			t.Score(iter, p)
		}

		if sim.ModeEigenvalue {
			m := p.prev.Cell.Material
			nu := m.Nu[p.prev.G]
			sigmaF := m.SigmaF[p.prev.G]
			sim.nuSigmaFSum += p.prev.W * p.Distance * nu * sigmaF
		}
	}
	return nil
}

// distanceToCollision samples the exponential flight distance to the
// next collision in the particle's current cell and group.
func (sim *Simulator) distanceToCollision(p *Particle) float64 {
	xi := sim.rng.Next()
	sigmaT := p.Cell.Material.SigmaT[p.G] + sigmaEps
	return -math.Log(xi) / sigmaT
}

// nearestSurface returns the surface in the particle's current cell
// closest along its direction, and the distance to it. Ties are broken
// by list order (the first minimal surface wins).
func (sim *Simulator) nearestSurface(p *Particle) (Surface, float64) {
	var best Surface
	dBest := math.Inf(1)
	for _, h := range p.Cell.Halves {
		d := h.Surface.Distance(p.Pos, p.Dir)
		if d < dBest {
			best = h.Surface
			dBest = d
		}
	}
	return best, dBest
}

// moveParticle advances p by distance d along its current direction,
// updating time by d/speed and accumulating the step's total distance.
func (sim *Simulator) moveParticle(p *Particle, d float64) {
	p.Pos = p.Pos.Add(p.Dir.Scale(d))
	p.T += d / p.Speed
	p.Distance += d
}

// surfaceHit applies the crossed surface's boundary condition, nudges
// the particle strictly across it if still alive, and re-resolves its
// current cell.
func (sim *Simulator) surfaceHit(p *Particle) error {
	p.Surface.ApplyBC(p)
	if p.Alive {
		sim.moveParticle(p, smallKick)
		c, ok := FindCell(sim.Cells, p.Pos)
		if !ok {
			return fmt.Errorf("mcdc: %w: particle lost at %+v after surface crossing", ErrInvariant, p.Pos)
		}
		p.Cell = c
	}
	return nil
}

// collision samples whether this collision is a scatter, fission, or
// capture, and dispatches accordingly.
func (sim *Simulator) collision(p *Particle) {
	m := p.Cell.Material
	sigmaT := m.SigmaT[p.G]
	sigmaS := m.SigmaS[p.G]
	sigmaF := m.SigmaF[p.G]

	xi := sim.rng.Next() * sigmaT
	switch {
	case xi < sigmaS:
		sim.collisionScattering(p)
	case xi < sigmaS+sigmaF:
		sim.collisionFission(p)
	default:
		p.Alive = false
	}
}

// collisionScattering samples the outgoing group and scattering cosine
// and rotates the particle's direction accordingly.
func (sim *Simulator) collisionScattering(p *Particle) {
	m := p.Cell.Material
	dist := m.ScatterDist[p.G]

	xi := sim.rng.Next()
	gOut := sampleCumulative(dist, xi)
	p.G = gOut

	mu := 2*sim.rng.Next() - 1
	p.Dir = scatterDirection(sim.rng, p.Dir, mu)
}

// collisionFission kills the current particle and banks its fission
// progeny (to bank_fission, aliased per-iteration to bank_stored in
// k-eigenvalue mode or bank_history in fixed-source mode).
func (sim *Simulator) collisionFission(p *Particle) {
	p.Alive = false

	m := p.Cell.Material
	dist := m.FissionDist[p.G]
	nu := m.Nu[p.G]

	n := int(math.Floor(nu/sim.KEff + sim.rng.Next()))
	for i := 0; i < n; i++ {
		xi := sim.rng.Next()
		gOut := sampleCumulative(dist, xi)
		dir := (DistPointIsotropic{}).Sample(sim.rng)

		var timeIdx *int
		if p.TimeIdx != nil {
			idx := *p.TimeIdx
			timeIdx = &idx
		}
		sim.bankFission.Push(&Particle{
			Pos:     p.Pos,
			Dir:     dir,
			G:       gOut,
			T:       p.T,
			W:       p.W,
			Alive:   true,
			Cell:    p.Cell,
			TimeIdx: timeIdx,
		})
	}
}

// sampleCumulative returns the smallest i such that the running sum of
// dist[0:i+1] exceeds xi, clamped to the last index if rounding error
// leaves xi just shy of the total.
func sampleCumulative(dist []float64, xi float64) int {
	tot := 0.0
	for i, v := range dist {
		tot += v
		if tot > xi {
			return i
		}
	}
	return len(dist) - 1
}
