// Copyright 2026 The Keepstate Authors
// This file is part of Keepstate.
//
// Keepstate is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Keepstate is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Keepstate. If not, see <http://www.gnu.org/licenses/>.

package statetable

import (
	"errors"
	"fmt"
)

// ErrInvalidSequenceNumber is returned by Commit when called with seq == 0
// and no caller-supplied failure. Prepare treats seq == 0 as a silent
// no-op instead (spec §4.2); a correct caller never reaches either path.
var ErrInvalidSequenceNumber = errors.New("statetable: invalid sequence number")

// orderingViolation panics: Prepare's precondition (seq strictly greater
// than every seq previously passed to Prepare) was not honored. This is a
// defensive check the spec calls out as optional but recommended; it does
// not change the public contract, since a correct caller never triggers it.
func orderingViolation(prev, got uint64) {
	panic(fmt.Sprintf("statetable: ordering violation: Prepare seq %d is not strictly greater than previous seq %d", got, prev))
}

// missingContext panics: Commit was called for a seq that was never
// Prepared (or whose context already fully drained and was discarded).
func missingContext(seq uint64) {
	panic(fmt.Sprintf("statetable: missing replication context for seq %d", seq))
}
