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

// committedNode is one committed entry, linked into committedList in
// ascending seq order. The per-type index holds a direct pointer to the
// node so a later overwrite or delete can splice it out in O(1).
type committedNode[Type comparable, Key cmp.Ordered] struct {
	entry Entry[Type, Key]

	prev, next *committedNode[Type, Key]
}

// committedList is the authoritative ordered view: head to tail strictly
// ascending by seq, with at most one trailing tombstone node (see
// table.go's applyToCommitted, which implements spec §4.4).
type committedList[Type comparable, Key cmp.Ordered] struct {
	head, tail *committedNode[Type, Key]
	length     int
}

func (l *committedList[Type, Key]) pushBack(n *committedNode[Type, Key]) {
	n.prev, n.next = l.tail, nil
	if l.tail != nil {
		l.tail.next = n
	} else {
		l.head = n
	}
	l.tail = n
	l.length++
}

// remove splices n out of the list. n must currently belong to l.
func (l *committedList[Type, Key]) remove(n *committedNode[Type, Key]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev, n.next = nil, nil
	l.length--
}

// removeTail pops the tail node, if any.
func (l *committedList[Type, Key]) removeTail() {
	if l.tail != nil {
		l.remove(l.tail)
	}
}

// snapshotUpTo copies entries with seq <= maxSeq, in list order, into buf,
// stopping at the first entry exceeding maxSeq (the committed list is
// ordered, so that entry and everything after it also exceeds maxSeq).
func (l *committedList[Type, Key]) snapshotUpTo(maxSeq uint64, buf []Entry[Type, Key]) []Entry[Type, Key] {
	for n := l.head; n != nil; n = n.next {
		if n.entry.Seq > maxSeq {
			break
		}
		buf = append(buf, n.entry)
	}
	return buf
}
