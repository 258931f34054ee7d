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

import "sync"

// gate is the single-writer/many-reader mutual exclusion primitive the
// table serializes all mutation through. It is not reentrant: a caller
// holding either side must not invoke an operation that re-acquires it —
// in particular, replicationContext.signal must never be called while a
// gate acquisition is held, or completion continuations that call back
// into the table will deadlock.
type gate struct {
	mu sync.RWMutex
}

func (g *gate) withWrite(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn()
}

func (g *gate) withRead(fn func()) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	fn()
}
