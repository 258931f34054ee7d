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

// Package statetable holds the volatile, replicated in-memory state of an
// actor runtime's primary replica: mutations are staged under a sequence
// number assigned by an external replicator, drained into a committed view
// once replication for a contiguous prefix completes, and exposed for
// point lookups, sorted-key scans, and snapshot build streams.
package statetable

import "cmp"

// Entry is one (type, key, value-or-tombstone, seq) mutation record. Entries
// are immutable once Prepare has assigned their Seq (or ApplyMany has
// installed them); the Type and
// Key fields must support equality (for map use) and, for Key, a total
// order (for sorted enumeration).
//
// Type is the partition/type discriminator a caller's mutation belongs to
// (e.g. a reliable-collection name); Key identifies an entry within that
// Type. Value carries the embedder's already-serialized state payload and is
// meaningless when IsDelete is true.
type Entry[Type comparable, Key cmp.Ordered] struct {
	Type     Type
	Key      Key
	Value    []byte
	IsDelete bool

	// Seq is assigned during Prepare (or supplied directly to ApplyMany on
	// the secondary path). Zero means "unassigned".
	Seq uint64
}

// seqInvalid is the reserved "no sequence number assigned" value.
const seqInvalid uint64 = 0
