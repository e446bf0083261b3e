// Package atomic provides thin, typed wrappers over sync/atomic - the same
// shape the teacher codebase wraps its counters in (atomic.Int64,
// atomic.Uint32, ...), so call sites read `x.Inc()` / `x.Load()` rather
// than bare `atomic.AddInt64(&x, 1)`.
/*
 * Copyright (c) 2024-2026, dirhandoff contributors.
 */
package atomic

import "sync/atomic"

type Int64 struct{ v int64 }

func (i *Int64) Load() int64       { return atomic.LoadInt64(&i.v) }
func (i *Int64) Store(n int64)     { atomic.StoreInt64(&i.v, n) }
func (i *Int64) Inc() int64        { return atomic.AddInt64(&i.v, 1) }
func (i *Int64) Add(n int64) int64 { return atomic.AddInt64(&i.v, n) }
func (i *Int64) CAS(old, n int64) bool {
	return atomic.CompareAndSwapInt64(&i.v, old, n)
}

type Uint32 struct{ v uint32 }

func (u *Uint32) Load() uint32        { return atomic.LoadUint32(&u.v) }
func (u *Uint32) Store(n uint32)      { atomic.StoreUint32(&u.v, n) }
func (u *Uint32) Add(n uint32) uint32 { return atomic.AddUint32(&u.v, n) }

type Bool struct{ v int32 }

func (b *Bool) Load() bool {
	return atomic.LoadInt32(&b.v) != 0
}

func (b *Bool) Store(val bool) {
	var n int32
	if val {
		n = 1
	}
	atomic.StoreInt32(&b.v, n)
}

// CAS compares-and-swaps the boolean, returning whether it won.
func (b *Bool) CAS(old, n bool) bool {
	var oldI, nI int32
	if old {
		oldI = 1
	}
	if n {
		nI = 1
	}
	return atomic.CompareAndSwapInt32(&b.v, oldI, nI)
}
