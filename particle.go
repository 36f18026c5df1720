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

// Particle is one neutron history's current state.
type Particle struct {
	Pos Vector
	Dir Vector
	G   int     // energy group index
	T   float64 // time
	W   float64 // weight
	Alive bool

	Cell    *Cell
	Surface Surface // nil unless the particle just crossed one

	// TimeIdx satisfies census_time[TimeIdx-1] <= T < census_time[TimeIdx].
	// It is a pointer so "unset" is representable without colliding with
	// the valid index 0 (see design notes: the source implementation this
	// was modeled on used a zero-as-unset sentinel, which is wrong because
	// 0 is a legitimate index).
	TimeIdx *int

	Distance float64 // cumulative distance traveled this step
	Speed    float64

	// Shadow state captured at the start of the current step, used by
	// tallies to score track-length estimators across the step just taken.
	prev previousState
}

type previousState struct {
	W    float64
	G    int
	Cell *Cell
	T    float64
	Pos  Vector
}

// SavePreviousState snapshots the particle's pre-step state into its
// shadow slot and resets the per-step distance accumulator.
func (p *Particle) SavePreviousState() {
	p.prev = previousState{W: p.W, G: p.G, Cell: p.Cell, T: p.T, Pos: p.Pos}
	p.Distance = 0
}

// Copy returns an independent copy of p, as used when banking a census
// survivor or a fission progeny.
func (p *Particle) Copy() *Particle {
	cp := *p
	if p.TimeIdx != nil {
		idx := *p.TimeIdx
		cp.TimeIdx = &idx
	}
	return &cp
}

// Bank is an append-only sequence of owned Particle values.
type Bank struct {
	particles []*Particle
}

// NewBank returns an empty bank.
func NewBank() *Bank { return &Bank{} }

// Push appends p to the bank.
func (b *Bank) Push(p *Particle) {
	b.particles = append(b.particles, p)
}

// Pop removes and returns the last particle pushed (LIFO drain, used
// to drain bank_history).
func (b *Bank) Pop() (*Particle, bool) {
	n := len(b.particles)
	if n == 0 {
		return nil, false
	}
	p := b.particles[n-1]
	b.particles = b.particles[:n-1]
	return p, true
}

// Len returns the number of particles currently in the bank.
func (b *Bank) Len() int { return len(b.particles) }

// At returns the i-th particle without removing it, used to consume
// bank_source in order.
func (b *Bank) At(i int) *Particle { return b.particles[i] }

// All returns the bank's particles; the caller must not retain beyond
// the next mutation of the bank.
func (b *Bank) All() []*Particle { return b.particles }

// TotalWeight returns the sum of particle weights in the bank.
func (b *Bank) TotalWeight() float64 {
	var w float64
	for _, p := range b.particles {
		w += p.W
	}
	return w
}

// Reset empties the bank, as when rotating bank_stored into bank_source.
func (b *Bank) Reset() {
	b.particles = b.particles[:0]
}

// ReplaceWith swaps the bank's contents for ps.
func (b *Bank) ReplaceWith(ps []*Particle) {
	b.particles = ps
}
