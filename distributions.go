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

// Dist1D samples a single scalar, consuming a documented number of RNG
// draws in a documented order -- tests pin both.
type Dist1D interface {
	Sample(rng *RNG) float64
}

// DistDelta always returns V, consuming zero draws.
type DistDelta struct {
	V float64
}

// Sample returns V.
func (d DistDelta) Sample(rng *RNG) float64 { return d.V }

// DistUniform samples uniformly over [A,B), consuming one draw.
type DistUniform struct {
	A, B float64
}

// Sample returns A + u*(B-A).
func (d DistUniform) Sample(rng *RNG) float64 {
	return d.A + rng.Next()*(d.B-d.A)
}

// DistPoint samples a 3-D point from three independent per-axis
// distributions, drawing X then Y then Z.
type DistPoint struct {
	X, Y, Z Dist1D
}

// Sample draws the axes in X, Y, Z order.
func (d DistPoint) Sample(rng *RNG) Vector {
	x := d.X.Sample(rng)
	y := d.Y.Sample(rng)
	z := d.Z.Sample(rng)
	return Vector{X: x, Y: y, Z: z}
}

// DistPointIsotropic samples a unit direction uniform on the sphere,
// consuming two draws: mu = 2u-1, then phi = 2*pi*u'.
type DistPointIsotropic struct{}

// Sample returns (sqrt(1-mu^2)*cos(phi), sqrt(1-mu^2)*sin(phi), mu).
func (DistPointIsotropic) Sample(rng *RNG) Vector {
	mu := 2*rng.Next() - 1
	phi := 2 * math.Pi * rng.Next()
	sinTheta := math.Sqrt(1 - mu*mu)
	return Vector{
		X: sinTheta * math.Cos(phi),
		Y: sinTheta * math.Sin(phi),
		Z: mu,
	}
}

// scatterDirection rotates dir by polar cosine mu and a freshly sampled
// azimuthal angle, using the standard rotation-of-direction formula
// with a singularity guard at |dir.z| == 1 (y and z roles swap).
func scatterDirection(rng *RNG, dir Vector, mu float64) Vector {
	azi := 2 * math.Pi * rng.Next()
	cosAzi := math.Cos(azi)
	sinAzi := math.Sin(azi)
	ac := math.Sqrt(math.Max(0, 1-mu*mu))

	if dir.Z != 1.0 && dir.Z != -1.0 {
		b := math.Sqrt(1 - dir.Z*dir.Z)
		c := ac / b
		return Vector{
			X: dir.X*mu + (dir.X*dir.Z*cosAzi-dir.Y*sinAzi)*c,
			Y: dir.Y*mu + (dir.Y*dir.Z*cosAzi+dir.X*sinAzi)*c,
			Z: dir.Z*mu - cosAzi*ac*b,
		}
	}
	// dir = (0,0,+-1): interchange y and z in the rotation formula to
	// avoid dividing by zero.
	b := math.Sqrt(1 - dir.Y*dir.Y)
	c := ac / b
	return Vector{
		X: dir.X*mu + (dir.X*dir.Y*cosAzi-dir.Z*sinAzi)*c,
		Z: dir.Z*mu + (dir.Z*dir.Y*cosAzi+dir.X*sinAzi)*c,
		Y: dir.Y*mu - cosAzi*ac*b,
	}
}
