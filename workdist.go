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

// Partition splits nHist histories into size contiguous, disjoint
// ranges covering [0, nHist) and returns the range belonging to rank.
// The first (nHist mod size) ranks get one extra history, so ranges
// differ in length by at most one -- adapted from the goroutine
// work-striding idiom the teacher's Calculations used (there, modulo
// striping over a grid; here, contiguous ranges, since the RNG
// reproducibility contract requires every rank's histories to be a
// contiguous slice of the global index space).
func Partition(nHist, rank, size int) (start, length int) {
	base := nHist / size
	rem := nHist % size
	if rank < rem {
		start = rank * (base + 1)
		length = base + 1
		return
	}
	start = rem*(base+1) + (rank-rem)*base
	length = base
	return
}
