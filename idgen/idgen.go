// Copyright (c) 2022 the didpoop authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package idgen

import (
	"sync/atomic"
	"time"
)

// EpochMillis is the reference instant every identifier's timestamp field
// is measured from, in Unix milliseconds (2022-01-17T18:26:51.996Z).
// It must never change once IDs have been issued: moving it would reorder
// every new ID relative to the existing ones.
const EpochMillis int64 = 1642444011996

const (
	seqBits = 20
	seqMask = 1<<seqBits - 1
)

// Generator produces time-ordered 64-bit row identifiers with no external
// coordination. Each ID packs the milliseconds elapsed since EpochMillis
// into the high 44 bits and a per-process sequence value into the low 20
// bits, so comparing two IDs as integers compares their creation order.
//
// The sequence wraps at 2^20 (1,048,576): if more IDs than that are
// requested within a single millisecond, values repeat and two IDs can
// collide. A wall clock that moves backward can likewise produce an ID
// smaller than an earlier one. Neither case is guarded against; the
// generator reproduces the original server-side id_gen behavior exactly.
//
// The 44-bit timestamp field holds roughly 550 years from the epoch.
// One Generator is expected to be active per primary-key space; the
// counter is per-process and does not survive restarts.
type Generator struct {
	seq atomic.Uint64
	now func() time.Time
}

// New returns a Generator reading the system wall clock.
func New() *Generator {
	return &Generator{now: time.Now}
}

// NextID returns a fresh identifier. It is safe for concurrent use:
// every call performs exactly one atomic increment of the shared
// counter, and no two calls observe the same counter value. No lock is
// held across the clock read, so two concurrent IDs issued within the
// same millisecond are only approximately ordered. NextID never fails.
func (g *Generator) NextID() int64 {
	seq := (g.seq.Add(1) - 1) & seqMask
	delta := g.now().UnixMilli() - EpochMillis
	return delta<<seqBits | int64(seq)
}

// Issued reports how many IDs this generator has handed out: the raw
// counter value before modulo reduction.
func (g *Generator) Issued() uint64 {
	return g.seq.Load()
}

// Decompose splits an identifier back into the wall-clock instant it was
// minted at (millisecond resolution) and its sequence field.
func Decompose(id int64) (time.Time, uint32) {
	return time.UnixMilli(id>>seqBits + EpochMillis), uint32(id & seqMask)
}
