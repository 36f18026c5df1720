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

import "math"

// Surface is the geometry/BC contract the tracker consumes. A real
// general-purpose implementation (curved surfaces, CSG) is an external
// collaborator; PlaneSurface below is the minimal concrete surface
// needed to run the slab scenarios this engine is tested against.
type Surface interface {
	// Distance returns the distance along dir from pos to the surface,
	// in [0, +Inf]; +Inf means dir never reaches it.
	Distance(pos, dir Vector) float64
	// Eval returns a signed half-space value at pos; the sign convention
	// is the surface's own and is combined with a Cell's HalfSpace.Sign.
	Eval(pos Vector) float64
	// ApplyBC mutates p according to this surface's boundary condition:
	// vacuum kills it, reflective mirrors its direction, transmission is
	// a no-op.
	ApplyBC(p *Particle)
	// NormalAt returns the outward unit normal at pos, used by current
	// tallies to project the crossing direction onto the surface that
	// was actually crossed instead of assuming a fixed axis.
	NormalAt(pos Vector) Vector
}

// BCKind enumerates the three boundary conditions a PlaneSurface can
// carry. The set is closed and small, so a tagged kind is used instead
// of one BC type per implementation.
type BCKind int

const (
	BCVacuum BCKind = iota
	BCReflective
	BCTransmission
)

// PlaneSurface is the plane {x : Normal·x = Offset}, with Normal a
// unit vector; a Cell's HalfSpace.Sign picks which side of it counts.
type PlaneSurface struct {
	Name   string
	Normal Vector
	Offset float64
	BC     BCKind
}

// Eval returns Normal·pos - Offset.
func (s *PlaneSurface) Eval(pos Vector) float64 {
	return s.Normal.Dot(pos) - s.Offset
}

// Distance returns the non-negative distance to the plane along dir,
// or +Inf if dir is parallel to the plane or moving away from it.
func (s *PlaneSurface) Distance(pos, dir Vector) float64 {
	denom := s.Normal.Dot(dir)
	if denom == 0 {
		return math.Inf(1)
	}
	d := (s.Offset - s.Normal.Dot(pos)) / denom
	if d < 0 {
		return math.Inf(1)
	}
	return d
}

// NormalAt returns the plane's fixed unit normal; pos is unused since a
// plane's normal does not vary by position.
func (s *PlaneSurface) NormalAt(pos Vector) Vector {
	return s.Normal
}

// ApplyBC implements the surface's boundary condition.
func (s *PlaneSurface) ApplyBC(p *Particle) {
	switch s.BC {
	case BCVacuum:
		p.Alive = false
	case BCReflective:
		comp := p.Dir.Dot(s.Normal)
		p.Dir = p.Dir.Add(s.Normal.Scale(-2 * comp))
	case BCTransmission:
		// no-op: the particle passes through unaffected.
	}
}

// HalfSpace is one signed surface constraint bounding a Cell.
type HalfSpace struct {
	Surface Surface
	Sign    float64 // +1 or -1
}

// Cell is an ordered list of half-space constraints plus the material
// filling it. A point lies in the cell iff every signed evaluation is
// non-negative.
type Cell struct {
	Name     string
	Halves   []HalfSpace
	Material *Material
}

// Contains reports whether pos satisfies every half-space constraint.
func (c *Cell) Contains(pos Vector) bool {
	for _, h := range c.Halves {
		if h.Sign*h.Surface.Eval(pos) < 0 {
			return false
		}
	}
	return true
}

// FindCell returns the first cell in cells containing pos, following
// the first-match-wins convention used both at source time and after a
// surface crossing.
func FindCell(cells []*Cell, pos Vector) (*Cell, bool) {
	for _, c := range cells {
		if c.Contains(pos) {
			return c, true
		}
	}
	return nil, false
}
