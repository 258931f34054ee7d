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

// stagingNode is one pending mutation, linked into stagingList in ascending
// seq order and back-referencing the replication context it belongs to.
type stagingNode[Type comparable, Key cmp.Ordered] struct {
	entry Entry[Type, Key]
	ctx   *replicationContext

	prev, next *stagingNode[Type, Key]
}

// stagingList is the doubly linked list of uncommitted nodes, head to tail
// strictly ascending by seq. It is intrusive: nodes are appended and popped
// in O(1), and the list never needs to search for a node by seq — Commit
// only ever pops from the head.
type stagingList[Type comparable, Key cmp.Ordered] struct {
	head, tail *stagingNode[Type, Key]
	length     int
}

func (l *stagingList[Type, Key]) pushBack(n *stagingNode[Type, Key]) {
	n.prev, n.next = l.tail, nil
	if l.tail != nil {
		l.tail.next = n
	} else {
		l.head = n
	}
	l.tail = n
	l.length++
}

// popFront removes and returns the head node, or nil if the list is empty.
func (l *stagingList[Type, Key]) popFront() *stagingNode[Type, Key] {
	n := l.head
	if n == nil {
		return nil
	}
	l.head = n.next
	if l.head != nil {
		l.head.prev = nil
	} else {
		l.tail = nil
	}
	n.next, n.prev = nil, nil
	l.length--
	return n
}

func (l *stagingList[Type, Key]) empty() bool { return l.head == nil }

// snapshotUpTo copies entries with seq <= maxSeq, in list order, into buf.
func (l *stagingList[Type, Key]) snapshotUpTo(maxSeq uint64, buf []Entry[Type, Key]) []Entry[Type, Key] {
	for n := l.head; n != nil && n.entry.Seq <= maxSeq; n = n.next {
		buf = append(buf, n.entry)
	}
	return buf
}
