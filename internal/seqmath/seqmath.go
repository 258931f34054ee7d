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

// Package seqmath collects the small integer helpers the debug surface and
// snapshot batching need around seq values: parsing a bound from a flag or
// query string, and sizing snapshot batches.
package seqmath

import (
	"fmt"
	"math/bits"
	"strconv"
)

// ParseUint64 parses s as a seq value in decimal or hexadecimal syntax
// (a leading "0x"/"0X" selects hex). The empty string parses as zero, so a
// caller can treat "no bound supplied" the same as "bound = 0".
func ParseUint64(s string) (uint64, bool) {
	if s == "" {
		return 0, true
	}
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 64)
		return v, err == nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	return v, err == nil
}

// MustParseUint64 parses s as a seq value and panics if it isn't one. It is
// meant for CLI flag defaults and other call sites where the input has
// already been validated upstream.
func MustParseUint64(s string) uint64 {
	v, ok := ParseUint64(s)
	if !ok {
		panic(fmt.Sprintf("seqmath: invalid seq value %q", s))
	}
	return v
}

// SafeAdd returns x+y and reports whether the addition overflowed uint64 —
// used when accumulating a running entry count across snapshot batches.
func SafeAdd(x, y uint64) (sum uint64, overflowed bool) {
	sum, carryOut := bits.Add64(x, y, 0)
	return sum, carryOut != 0
}

// CeilDiv returns ceil(x/y), or 0 if y is 0. Used to size the number of
// batches a SnapshotUpTo stream splits into given a fixed batch size.
func CeilDiv(x, y int) int {
	if y == 0 {
		return 0
	}
	return (x + y - 1) / y
}
