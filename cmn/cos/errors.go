// Package cos provides common low-level types and utilities shared across
// this module's packages.
/*
 * Copyright (c) 2024-2026, dirhandoff contributors.
 */
package cos

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound reports a missing dictionary entry (mirrored partition,
// grain, follower) without committing callers to a sentinel value per
// collection.
type ErrNotFound struct{ what string }

func NewErrNotFound(format string, a ...any) *ErrNotFound {
	return &ErrNotFound{fmt.Sprintf(format, a...)}
}

func (e *ErrNotFound) Error() string { return e.what + " does not exist" }

func IsErrNotFound(err error) bool {
	var e *ErrNotFound
	return errors.As(err, &e)
}

// Errs accumulates a bounded number of distinct errors, deduplicated by
// message, for operations that fan out over many peers (see
// DestroyDuplicateActivations) and want to report "what went wrong"
// without letting one noisy peer dominate the log.
type Errs struct {
	mu   sync.Mutex
	errs []error
}

const maxErrs = 4

func (e *Errs) Add(err error) {
	if err == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, added := range e.errs {
		if added.Error() == err.Error() {
			return
		}
	}
	if len(e.errs) < maxErrs {
		e.errs = append(e.errs, err)
	}
}

func (e *Errs) Cnt() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.errs)
}

// JoinErr returns nil if nothing was added.
func (e *Errs) JoinErr() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.errs) == 0 {
		return nil
	}
	return errors.Join(e.errs...)
}
