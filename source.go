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

// DistVector samples a 3-D vector, used for both position and
// direction samplers -- DistPoint and DistPointIsotropic both satisfy
// it.
type DistVector interface {
	Sample(rng *RNG) Vector
}

// Source describes one emission point a fixed-source or initial
// k-eigenvalue guess draws histories from. Prob is this source's share
// of the combined cumulative-probability draw across Simulator.Sources
// (normalized to sum to 1 by Simulator.Validate when a run starts).
type Source struct {
	Prob      float64
	Position  DistVector
	Direction DistVector // nil defaults to isotropic
	G         int        // energy group index
	Time      Dist1D     // nil defaults to t=0
	Weight    float64

	// Cell and TimeIdx, if non-nil, are stamped onto every particle this
	// source emits instead of being resolved by the driver's set_cell /
	// set_time_idx -- used when the source's emission point is known in
	// advance to lie in a specific cell or time bin.
	Cell    *Cell
	TimeIdx *int
}

// GetParticle samples one fresh alive particle from the source.
func (s *Source) GetParticle(rng *RNG) *Particle {
	pos := s.Position.Sample(rng)
	dir := Vector{}
	if s.Direction != nil {
		dir = s.Direction.Sample(rng)
	} else {
		dir = (DistPointIsotropic{}).Sample(rng)
	}
	t := 0.0
	if s.Time != nil {
		t = s.Time.Sample(rng)
	}
	p := &Particle{
		Pos:    pos,
		Dir:    dir,
		G:      s.G,
		T:      t,
		W:      s.Weight,
		Alive:  true,
		Cell:   s.Cell,
	}
	if s.TimeIdx != nil {
		idx := *s.TimeIdx
		p.TimeIdx = &idx
	}
	return p
}
