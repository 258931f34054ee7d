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
	"cmp"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/keepstate-project/keepstate/internal/metrics"
)

// typeLabel renders a Type discriminator as a Prometheus label value.
func typeLabel[Type comparable](typ Type) string {
	return fmt.Sprint(typ)
}

// StateTable is the facade described by spec §4 (component C6): Prepare
// stages a replicated batch, Commit drains completed prefixes into the
// committed view, ApplyMany installs already-committed entries on a
// secondary replica, and the read paths serve the committed view.
//
// The zero value is not usable; construct with New.
type StateTable[Type comparable, Key cmp.Ordered] struct {
	id uuid.UUID

	log     *zap.Logger
	metrics *metrics.Recorder

	gate gate

	staging   stagingList[Type, Key]
	committed committedList[Type, Key]
	index     map[Type]map[Key]*committedNode[Type, Key]
	pending   map[uint64]*replicationContext

	lastPrepared uint64
}

// Option configures a StateTable at construction time.
type Option[Type comparable, Key cmp.Ordered] func(*StateTable[Type, Key])

// WithLogger attaches a structured logger. The zero value logs nothing.
func WithLogger[Type comparable, Key cmp.Ordered](log *zap.Logger) Option[Type, Key] {
	return func(t *StateTable[Type, Key]) {
		if log == nil {
			log = zap.NewNop()
		}
		t.log = log
	}
}

// WithMetrics attaches a Prometheus recorder. A nil recorder (the default)
// disables metrics entirely.
func WithMetrics[Type comparable, Key cmp.Ordered](m *metrics.Recorder) Option[Type, Key] {
	return func(t *StateTable[Type, Key]) { t.metrics = m }
}

// New builds an empty StateTable.
func New[Type comparable, Key cmp.Ordered](opts ...Option[Type, Key]) *StateTable[Type, Key] {
	t := &StateTable[Type, Key]{
		id:      uuid.New(),
		log:     zap.NewNop(),
		index:   make(map[Type]map[Key]*committedNode[Type, Key]),
		pending: make(map[uint64]*replicationContext),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Prepare stages a batch of entries under seq, assigning seq to every entry
// in the batch. seq == 0 is treated as an invalid/rejected LSN: a no-op,
// matching spec §4.2. The caller must pass a seq strictly greater than
// every seq previously passed to Prepare; violating this is a defensive
// fatal error (see errors.go).
//
// Prepare never blocks on replication; it is a pure append under the write
// lock.
func (t *StateTable[Type, Key]) Prepare(entries []Entry[Type, Key], seq uint64) {
	if seq == seqInvalid {
		return
	}
	if len(entries) == 0 {
		return
	}

	t.gate.withWrite(func() {
		if t.lastPrepared != 0 && seq <= t.lastPrepared {
			orderingViolation(t.lastPrepared, seq)
		}
		t.lastPrepared = seq

		ctx := newReplicationContext(seq, len(entries))
		for i := range entries {
			entries[i].Seq = seq
			t.staging.pushBack(&stagingNode[Type, Key]{entry: entries[i], ctx: ctx})
		}
		t.pending[seq] = ctx

		if t.metrics != nil {
			t.metrics.PreparesTotal.Inc()
			t.metrics.StagingDepth.Set(float64(t.staging.length))
		}
	})
}

// Commit marks the replication of seq complete (or failed, if failure is
// non-nil) and, if seq is the current staging head, drains the longest
// prefix of now-complete staging nodes into the committed view.
//
// Commit returns an awaiter the caller can use to learn when this group's
// own completion signal fires — immediately, if this call's drain reached
// it, or later, once a subsequent Commit's drain catches up to it.
func (t *StateTable[Type, Key]) Commit(seq uint64, failure error) (CommitAwaiter, error) {
	if seq == seqInvalid {
		if failure != nil {
			return CommitAwaiter{}, failure
		}
		return CommitAwaiter{}, ErrInvalidSequenceNumber
	}

	var toSignal []*replicationContext
	var selfCtx *replicationContext
	selfSignaled := false

	t.gate.withWrite(func() {
		ctx, ok := t.pending[seq]
		if !ok {
			missingContext(seq)
		}
		selfCtx = ctx
		ctx.replicationDone = true
		ctx.failure = failure

		if t.staging.empty() || t.staging.head.entry.Seq != seq {
			return
		}

		for !t.staging.empty() && t.staging.head.ctx.replicationDone {
			node := t.staging.popFront()
			if node.ctx.failure == nil {
				t.applyToCommitted(node.entry)
			}
			node.ctx.associatedEntries--
			if node.ctx.associatedEntries == 0 {
				delete(t.pending, node.ctx.seq)
				toSignal = append(toSignal, node.ctx)
				if node.ctx == ctx {
					selfSignaled = true
				}
			}
		}

		if t.metrics != nil {
			t.metrics.StagingDepth.Set(float64(t.staging.length))
			for typ, keys := range t.index {
				t.metrics.CommittedSize.WithLabelValues(typeLabel(typ)).Set(float64(len(keys)))
			}
		}
	})

	// Signaling happens outside the gate: a completion continuation may run
	// synchronously on this goroutine and call back into the table, which
	// would deadlock against the gate's non-reentrancy (spec §4.3, §5).
	for _, c := range toSignal {
		if c.failure != nil {
			t.log.Warn("replication group failed, discarded from staging",
				zap.String("instance", t.id.String()),
				zap.String("group", c.debugID.String()),
				zap.Uint64("seq", c.seq),
				zap.Error(c.failure))
			if t.metrics != nil {
				t.metrics.CommitsFailed.Inc()
			}
		} else if t.metrics != nil {
			t.metrics.CommitsTotal.Inc()
		}
		c.signal()
	}

	if selfSignaled {
		return CommitAwaiter{immediate: true, immediateErr: selfCtx.failure}, nil
	}
	return CommitAwaiter{ctx: selfCtx}, nil
}

// applyToCommitted implements spec §4.4. It must be called under the write
// lock.
func (t *StateTable[Type, Key]) applyToCommitted(e Entry[Type, Key]) {
	keys, ok := t.index[e.Type]
	if !ok {
		if e.IsDelete {
			return
		}
		keys = make(map[Key]*committedNode[Type, Key])
		t.index[e.Type] = keys
	}

	if prior, ok := keys[e.Key]; ok {
		t.committed.remove(prior)
		delete(keys, e.Key)
	}

	node := &committedNode[Type, Key]{entry: e}
	if !e.IsDelete {
		keys[e.Key] = node
	}

	if t.committed.tail != nil && t.committed.tail.entry.IsDelete {
		t.committed.removeTail()
	}
	t.committed.pushBack(node)
}

// ApplyMany installs already-committed entries directly into the committed
// view, in order, with no staging step and no replication context — the
// secondary-replica path of spec §4.7. The caller is responsible for
// ascending-seq ordering.
func (t *StateTable[Type, Key]) ApplyMany(entries []Entry[Type, Key]) {
	if len(entries) == 0 {
		return
	}
	t.gate.withWrite(func() {
		for _, e := range entries {
			t.applyToCommitted(e)
		}
		if t.metrics != nil {
			t.metrics.AppliesTotal.Add(float64(len(entries)))
		}
	})
}

// TryGet returns the live committed value for (typ, key), if any.
func (t *StateTable[Type, Key]) TryGet(typ Type, key Key) (value []byte, ok bool) {
	t.gate.withRead(func() {
		keys, exists := t.index[typ]
		if !exists {
			return
		}
		node, exists := keys[key]
		if !exists {
			return
		}
		value, ok = node.entry.Value, true
	})
	return value, ok
}

// Keys returns a snapshot of the committed keys for typ, sorted ascending.
// Sorting happens outside the read lock to minimize contention.
func (t *StateTable[Type, Key]) Keys(typ Type) []Key {
	var keys []Key
	t.gate.withRead(func() {
		m, ok := t.index[typ]
		if !ok {
			return
		}
		keys = make([]Key, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
	})
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Values returns a snapshot of the committed values for typ, in unspecified
// order.
func (t *StateTable[Type, Key]) Values(typ Type) [][]byte {
	var values [][]byte
	t.gate.withRead(func() {
		m, ok := t.index[typ]
		if !ok {
			return
		}
		values = make([][]byte, 0, len(m))
		for _, node := range m {
			values = append(values, node.entry.Value)
		}
	})
	return values
}

// EnumerateType returns a snapshot cursor over typ's current committed
// entries only (no uncommitted entries are included).
func (t *StateTable[Type, Key]) EnumerateType(typ Type) *Enumerator[Type, Key] {
	var committedBuf []Entry[Type, Key]
	t.gate.withRead(func() {
		for n := t.committed.head; n != nil; n = n.next {
			if n.entry.Type == typ {
				committedBuf = append(committedBuf, n.entry)
			}
		}
	})
	return newEnumerator[Type, Key](committedBuf, nil)
}

// SnapshotUpTo builds a cursor suitable for streaming a state-transfer
// build to a joining secondary: committed entries with seq <= maxSeq,
// followed — only if the committed walk didn't already reach maxSeq — by
// staging entries with seq <= maxSeq. See spec §4.6.
func (t *StateTable[Type, Key]) SnapshotUpTo(maxSeq uint64) *Enumerator[Type, Key] {
	var committedBuf, uncommittedBuf []Entry[Type, Key]
	t.gate.withRead(func() {
		committedBuf = t.committed.snapshotUpTo(maxSeq, nil)
		var highestCopied uint64
		if n := len(committedBuf); n > 0 {
			highestCopied = committedBuf[n-1].Seq
		}
		if highestCopied < maxSeq {
			uncommittedBuf = t.staging.snapshotUpTo(maxSeq, nil)
		}
	})
	if t.metrics != nil {
		t.metrics.SnapshotEntries.Observe(float64(len(committedBuf) + len(uncommittedBuf)))
	}
	return newEnumerator[Type, Key](committedBuf, uncommittedBuf)
}

// HighestKnownSeq returns the seq of the last staging node, if any,
// otherwise the last committed node, otherwise 0.
func (t *StateTable[Type, Key]) HighestKnownSeq() uint64 {
	var seq uint64
	t.gate.withRead(func() {
		if t.staging.tail != nil {
			seq = t.staging.tail.entry.Seq
			return
		}
		if t.committed.tail != nil {
			seq = t.committed.tail.entry.Seq
		}
	})
	return seq
}

// HighestCommittedSeq returns the seq of the last committed node, if any,
// otherwise 0.
func (t *StateTable[Type, Key]) HighestCommittedSeq() uint64 {
	var seq uint64
	t.gate.withRead(func() {
		if t.committed.tail != nil {
			seq = t.committed.tail.entry.Seq
		}
	})
	return seq
}
