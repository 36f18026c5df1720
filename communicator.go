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

// Communicator is the rank-coordination contract the driver needs:
// how many ranks there are, which one this process is, and the two
// collective reductions the iteration barrier performs. A real MPI
// transport is an external collaborator; it need only implement this
// interface to drive the engine across ranks.
type Communicator interface {
	Rank() int
	Size() int
	// AllreduceSum returns the sum of local across every rank, visible
	// identically to every rank (an MPI_Allreduce, not a gather-to-root).
	AllreduceSum(local float64) float64
	// AllreduceSumInts is AllreduceSum for integer counts (bank sizes,
	// history counts).
	AllreduceSumInts(local int) int
	// IsMaster reports whether this rank is the one responsible for
	// writing output and printing progress.
	IsMaster() bool
}

// SingleRankCommunicator is the default Communicator for a single
// process: every reduction is a no-op identity, and rank 0 is always
// the (only, and therefore master) rank.
type SingleRankCommunicator struct{}

func (SingleRankCommunicator) Rank() int                          { return 0 }
func (SingleRankCommunicator) Size() int                          { return 1 }
func (SingleRankCommunicator) AllreduceSum(local float64) float64 { return local }
func (SingleRankCommunicator) AllreduceSumInts(local int) int     { return local }
func (SingleRankCommunicator) IsMaster() bool                     { return true }
