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
	"errors"
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

type testGroup struct {
	seq    uint64
	keys   [2]string
	failed bool
}

// TestPropertyGroupedAtomicityAndFailureIsolation drives Prepare in strict
// seq order, then Commit in a randomized order (with randomized per-group
// failures), and checks after every single Commit call that:
//
//   - no group is ever partially visible (grouped atomicity, spec §8), and
//   - a failed group's entries are never visible (failure isolation), and
//   - highest_committed_seq never decreases (monotone visibility).
func TestPropertyGroupedAtomicityAndFailureIsolation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(2, 10).Draw(t, "n")
		tbl := newTestTable()

		groups := make([]testGroup, n)
		for i := 0; i < n; i++ {
			g := testGroup{
				seq:    uint64((i + 1) * 10),
				keys:   [2]string{fmt.Sprintf("k%d-a", i), fmt.Sprintf("k%d-b", i)},
				failed: rapid.Bool().Draw(t, fmt.Sprintf("fail%d", i)),
			}
			groups[i] = g
			tbl.Prepare([]Entry[string, string]{
				{Type: "T", Key: g.keys[0], Value: []byte(g.keys[0])},
				{Type: "T", Key: g.keys[1], Value: []byte(g.keys[1])},
			}, g.seq)
		}

		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		for i := n - 1; i > 0; i-- {
			j := rapid.IntRange(0, i).Draw(t, fmt.Sprintf("swap%d", i))
			order[i], order[j] = order[j], order[i]
		}

		var lastHighestCommitted uint64
		awaiters := make([]CommitAwaiter, n)
		failures := make([]error, n)
		for _, idx := range order {
			g := groups[idx]
			if g.failed {
				failures[idx] = errors.New("injected replication failure")
			}
			awaiter, err := tbl.Commit(g.seq, failures[idx])
			if err != nil {
				t.Fatalf("Commit(%d): %v", g.seq, err)
			}
			awaiters[idx] = awaiter

			for _, other := range groups {
				_, aPresent := tbl.TryGet("T", other.keys[0])
				_, bPresent := tbl.TryGet("T", other.keys[1])
				if aPresent != bPresent {
					t.Fatalf("group seq=%d torn: key0 present=%v key1 present=%v", other.seq, aPresent, bPresent)
				}
				if other.failed && aPresent {
					t.Fatalf("failed group seq=%d is visible", other.seq)
				}
			}

			current := tbl.HighestCommittedSeq()
			if current < lastHighestCommitted {
				t.Fatalf("highest committed seq decreased: %d -> %d", lastHighestCommitted, current)
			}
			lastHighestCommitted = current
		}

		// An out-of-order Commit's awaiter resolves only once the head drains,
		// so awaiters are checked after every group has been committed.
		for idx, g := range groups {
			if err := awaiters[idx].Wait(context.Background()); g.failed && !errors.Is(err, failures[idx]) {
				t.Fatalf("Commit(%d) awaiter error = %v, want %v", g.seq, err, failures[idx])
			}
		}

		for _, g := range groups {
			_, aPresent := tbl.TryGet("T", g.keys[0])
			if g.failed {
				if aPresent {
					t.Fatalf("failed group seq=%d still visible after full drain", g.seq)
				}
				continue
			}
			if !aPresent {
				t.Fatalf("successful group seq=%d missing after full drain", g.seq)
			}
		}
	})
}

// TestPropertySnapshotNeverExceedsBound checks spec §8's "snapshot
// seq-bound" property across randomized commit orders and randomized
// snapshot bounds.
func TestPropertySnapshotNeverExceedsBound(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(t, "n")
		tbl := newTestTable()

		seqs := make([]uint64, n)
		for i := 0; i < n; i++ {
			seq := uint64((i + 1) * 10)
			seqs[i] = seq
			tbl.Prepare([]Entry[string, string]{{Type: "T", Key: fmt.Sprintf("k%d", i), Value: []byte("v")}}, seq)
		}

		committed := rapid.IntRange(0, n).Draw(t, "committedPrefix")
		for i := 0; i < committed; i++ {
			if _, err := tbl.Commit(seqs[i], nil); err != nil {
				t.Fatalf("Commit(%d): %v", seqs[i], err)
			}
		}

		bound := rapid.Uint64Range(0, uint64(n)*10+10).Draw(t, "bound")
		enum := tbl.SnapshotUpTo(bound)
		for {
			e, ok := enum.PeekNext()
			if !ok {
				break
			}
			if e.Seq > bound {
				t.Fatalf("snapshot entry seq %d exceeds bound %d", e.Seq, bound)
			}
			enum.MoveNext()
		}
	})
}
