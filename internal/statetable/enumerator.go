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

import "cmp"

// Enumerator is a cursor over a point-in-time copy of committed entries
// followed by uncommitted (staging) entries, both in original ascending-seq
// order. It is produced by EnumerateType and SnapshotUpTo and holds no
// reference back into the table: once built, it is detached and safe to
// stream at whatever pace the consumer wants, even as the table keeps
// mutating underneath it.
//
// A consumer typically calls PeekNext to decide whether it wants to send
// the next entry, and MoveNext to advance past it once it has — the split
// lets a streaming layer batch without committing to every entry one at a
// time (spec §4.6).
type Enumerator[Type comparable, Key cmp.Ordered] struct {
	committed   []Entry[Type, Key]
	uncommitted []Entry[Type, Key]
	pos         int
}

func newEnumerator[Type comparable, Key cmp.Ordered](committed, uncommitted []Entry[Type, Key]) *Enumerator[Type, Key] {
	return &Enumerator[Type, Key]{committed: committed, uncommitted: uncommitted}
}

// CommittedCount returns how many of the enumerator's entries came from the
// committed view (as opposed to still-uncommitted staging entries, which
// may later fail and never actually commit).
func (e *Enumerator[Type, Key]) CommittedCount() int { return len(e.committed) }

// UncommittedCount returns how many of the enumerator's entries are
// provisional: copied from staging, not yet known to have committed.
func (e *Enumerator[Type, Key]) UncommittedCount() int { return len(e.uncommitted) }

func (e *Enumerator[Type, Key]) total() int { return len(e.committed) + len(e.uncommitted) }

func (e *Enumerator[Type, Key]) at(i int) Entry[Type, Key] {
	if i < len(e.committed) {
		return e.committed[i]
	}
	return e.uncommitted[i-len(e.committed)]
}

// PeekNext returns the next entry without consuming it. ok is false once
// the enumerator is exhausted.
func (e *Enumerator[Type, Key]) PeekNext() (entry Entry[Type, Key], ok bool) {
	if e.pos >= e.total() {
		return entry, false
	}
	return e.at(e.pos), true
}

// MoveNext advances past the entry PeekNext would currently return. It
// reports whether there was an entry to advance past.
func (e *Enumerator[Type, Key]) MoveNext() bool {
	if e.pos >= e.total() {
		return false
	}
	e.pos++
	return true
}
