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
	"context"

	"github.com/google/uuid"
)

// replicationContext tracks the completion state of one Prepare call's
// group of entries. It is created under the write lock by Prepare and
// mutated only under the write lock thereafter; its one-shot completion
// signal is fulfilled outside the lock by Commit (see table.go).
type replicationContext struct {
	seq uint64

	// debugID correlates this group across log lines without threading a
	// request id through every call.
	debugID uuid.UUID

	replicationDone bool
	failure         error

	// associatedEntries counts staging nodes still referencing this
	// context; it is decremented as each drains, regardless of outcome.
	associatedEntries int

	done     chan struct{}
	signaled bool
}

func newReplicationContext(seq uint64, entryCount int) *replicationContext {
	return &replicationContext{
		seq:               seq,
		debugID:           uuid.New(),
		associatedEntries: entryCount,
		done:              make(chan struct{}),
	}
}

// signal fulfills the completion signal exactly once. Callers must not hold
// the table's gate when calling signal: continuations registered via Wait
// may run synchronously and call back into the table.
func (c *replicationContext) signal() {
	if c.signaled {
		return
	}
	c.signaled = true
	close(c.done)
}

// CommitAwaiter is returned by Commit. It resolves either immediately
// (when the caller's own group was drained and signaled during the same
// Commit call) or later, when a subsequent Commit drains the staging
// prefix past this group's sequence number.
type CommitAwaiter struct {
	immediate    bool
	immediateErr error
	ctx          *replicationContext
}

// Wait blocks until the awaited group has drained (successfully or not),
// or until ctx is done. It returns the group's replication failure, if any.
func (a CommitAwaiter) Wait(ctx context.Context) error {
	if a.immediate {
		return a.immediateErr
	}
	select {
	case <-a.ctx.done:
		return a.ctx.failure
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done reports whether the awaiter has already resolved, without blocking.
func (a CommitAwaiter) Done() bool {
	if a.immediate {
		return true
	}
	select {
	case <-a.ctx.done:
		return true
	default:
		return false
	}
}
