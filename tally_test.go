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

// TestScoreCurrentUsesCrossedSurfaceNormal checks that a current score
// projects onto the normal of the surface the particle actually
// crossed, not a fixed axis -- a surface with a y-normal should score
// the particle's y-direction component (0.8 of a (0.6, 0.8) direction),
// not its x component.
func TestScoreCurrentUsesCrossedSurfaceNormal(t *testing.T) {
	tally := &Tally{
		Spatial: &Grid{Edges: []float64{-10, 10}},
		Scores:  []*Score{{Name: "current", Kind: ScoreCurrent}},
	}
	tally.SetupBins(1)

	ySurface := &PlaneSurface{Normal: Vector{Y: 1}, Offset: 5, BC: BCVacuum}

	p := &Particle{
		Pos: Vector{X: 1, Y: 5}, Dir: Vector{X: 0.6, Y: 0.8}, W: 2.0, Alive: true,
		Surface: ySurface,
	}
	p.SavePreviousState()

	tally.Score(0, p)

	require.InDelta(t, 2.0*0.8, tally.Scores[0].hist.Elements[0], 1e-12)
}

// TestScoreCurrentSkipsUncrossedStep checks that a step which did not
// end in a surface crossing (Surface nil) contributes nothing to a
// current score.
func TestScoreCurrentSkipsUncrossedStep(t *testing.T) {
	tally := &Tally{
		Spatial: &Grid{Edges: []float64{-10, 10}},
		Scores:  []*Score{{Name: "current", Kind: ScoreCurrent}},
	}
	tally.SetupBins(1)

	p := &Particle{Pos: Vector{X: 1}, Dir: Vector{X: 1}, W: 2.0, Alive: true}
	p.SavePreviousState()

	tally.Score(0, p)

	require.Empty(t, tally.Scores[0].hist.Elements)
}
