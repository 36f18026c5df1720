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

// Package mcdc is a multi-group Monte Carlo neutron transport engine:
// the particle-tracking state machine, its banked population, the
// reproducible RNG stream, population control, and tally accumulation.
package mcdc

import "math"

// Vector is a 3-D point or direction.
type Vector struct {
	X, Y, Z float64
}

// Add returns v + w.
func (v Vector) Add(w Vector) Vector {
	return Vector{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Scale returns v scaled by s.
func (v Vector) Scale(s float64) Vector {
	return Vector{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and w.
func (v Vector) Dot(w Vector) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// IsUnit reports whether v is unit-norm within tol.
func (v Vector) IsUnit(tol float64) bool {
	return math.Abs(v.Norm()-1.0) <= tol
}
