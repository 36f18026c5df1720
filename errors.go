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

import "errors"

// Sentinel errors every package-level error wraps, so callers can tell
// a misconfigured run from a mid-run invariant violation with errors.Is.
var (
	// ErrConfig marks a problem detected while validating a Config
	// before a run starts (unknown PCT, missing data, bad option
	// combination).
	ErrConfig = errors.New("mcdc: invalid configuration")

	// ErrInvariant marks a violation of an internal invariant the
	// engine assumes but cannot check cheaply on every call (detected
	// deep in the tracker or population control, not at setup time).
	ErrInvariant = errors.New("mcdc: invariant violation")

	// ErrReductionMismatch marks a disagreement between ranks in a
	// quantity that every rank must agree on independent of how
	// histories were partitioned (e.g. k_eff after an allreduce).
	ErrReductionMismatch = errors.New("mcdc: cross-rank reduction mismatch")
)
