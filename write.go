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

import "github.com/go-transport/mcdc/output"

// snapshot converts a Tally's filter grids and closed-out scores into
// the output package's persistence types.
func (t *Tally) snapshot() output.Tally {
	var grids []output.TallyGrid
	for kind, g := range map[string]*Grid{
		"energy":  t.Energy,
		"angular": t.Angular,
		"time":    t.Time,
		"spatial": t.Spatial,
	} {
		if g != nil && len(g.Edges) > 0 {
			grids = append(grids, output.TallyGrid{Kind: kind, Edges: g.Edges})
		}
	}
	scores := make([]output.TallyScore, len(t.Scores))
	for i, s := range t.Scores {
		scores[i] = output.TallyScore{
			Name:  s.Name,
			Shape: s.shape,
			Mean:  append([]float64(nil), s.mean.Elements...),
			Sdev:  append([]float64(nil), s.sdev.Elements...),
		}
	}
	return output.Tally{Name: t.Name, Grids: grids, Scores: scores}
}

// WriteOutput persists the simulator's runtime, tallies, and (if in
// k-eigenvalue mode) k_eff sequence through w, following spec.md §6's
// layout. It is the caller's responsibility to only invoke this on the
// designated writer rank (spec.md §5).
func (sim *Simulator) WriteOutput(w output.Writer) error {
	tallies := make([]output.Tally, len(sim.Tallies))
	for i, t := range sim.Tallies {
		tallies[i] = t.snapshot()
	}
	var keff []float64
	if sim.ModeEigenvalue {
		keff = sim.KMean
	}
	if err := w.Write(sim.TimeTotal.Seconds(), tallies, keff); err != nil {
		return err
	}
	return w.Close()
}
