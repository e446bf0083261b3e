//go:build !mono

// Package mono provides low-level monotonic time.
/*
 * Copyright (c) 2024-2026, dirhandoff contributors.
 */
package mono

import "time"

var start = time.Now()

// portable stand-in for the linkname'd runtime.nanotime, used whenever
// the build doesn't carry the `mono` tag: nanoseconds on the monotonic
// clock since package initialization.
func NanoTime() int64 { return int64(time.Since(start)) }
