/*
 * Copyright (c) 2024-2026, dirhandoff contributors.
 */
package cos

import (
	"github.com/teris-io/shortid"

	"github.com/grainmesh/dirhandoff/cmn/atomic"
)

// Alphabet: the same 64 characters as shortid.DefaultABC in a different
// order; kept explicit so generated IDs are URL- and log-line-safe without
// escaping.
const idABC = "-5nZJDft6LuzsjGNpPwY7rQa39vehq4i1cV2FROo8yHSlC0BUEdWbIxMmTgKXAk_"

var (
	sid  *shortid.Shortid
	seed atomic.Uint32
)

func init() {
	sid = shortid.MustNew(4 /*worker*/, idABC, 1)
}

// GenActivationID returns a short, globally-unique-enough id for a new
// grain activation.
func GenActivationID() string { return sid.MustGenerate() }

// GenSiloID returns a short id suitable for naming a silo in tests/demos.
func GenSiloID() string { return sid.MustGenerate() }

// NextTie hands out a monotonically increasing local tie-breaker, used
// when two registrations race with identical timestamps.
func NextTie() uint32 { return seed.Add(1) }
