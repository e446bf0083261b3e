// Package ring provides a consistent-hash ring of silo addresses: given a
// membership set, it answers predecessor/successor queries the way the
// runtime's own HRW (highest-random-weight) target selection answers
// "which node owns this key" (see the teacher's Smap.HrwHash2T /
// HrwTargetList). Ring election and gossip - how membership itself
// changes - are out of scope; this package only computes positions over
// whatever membership it is told about.
/*
 * Copyright (c) 2024-2026, dirhandoff contributors.
 */
package ring

import (
	"sort"

	"github.com/OneOfOne/xxhash"

	"github.com/grainmesh/dirhandoff/core/meta"
)

// HashRing is the concrete, testable ring the handoff manager's
// directory.Ring interface is satisfied by. It is not safe for
// concurrent use across a membership update and a query; callers
// (normally the same single-owner goroutine that runs the directory
// manager) serialize access.
type HashRing struct {
	self    meta.SiloAddress
	members []meta.SiloAddress // kept sorted by hash position
	running bool
}

// New returns a ring whose position is computed by hashing each silo
// address with xxhash; self must be included in members.
func New(self meta.SiloAddress, members []meta.SiloAddress) *HashRing {
	r := &HashRing{self: self, running: true}
	r.SetMembers(members)
	return r
}

func hashOf(s meta.SiloAddress) uint64 {
	return xxhash.Checksum64([]byte(s))
}

// SetMembers replaces the membership set, re-sorting by hash position.
// Called by the (out-of-scope) membership oracle whenever a silo joins
// or leaves; this package does not decide when that happens.
func (r *HashRing) SetMembers(members []meta.SiloAddress) {
	cp := make([]meta.SiloAddress, len(members))
	copy(cp, members)
	sort.Slice(cp, func(i, j int) bool { return hashOf(cp[i]) < hashOf(cp[j]) })
	r.members = cp
}

func (r *HashRing) MyAddress() meta.SiloAddress { return r.self }

func (r *HashRing) Running() bool { return r.running }

// SetRunning flips the running flag (used by tests and the demo command
// to model shutdown).
func (r *HashRing) SetRunning(v bool) { r.running = v }

func (r *HashRing) indexOf(s meta.SiloAddress) int {
	for i, m := range r.members {
		if m == s {
			return i
		}
	}
	return -1
}

// FindSuccessors returns up to k silos immediately succeeding s on the
// ring, in ring order, wrapping around. s need not itself be self.
func (r *HashRing) FindSuccessors(s meta.SiloAddress, k int) []meta.SiloAddress {
	return r.neighbors(s, k, 1)
}

// FindPredecessors returns up to k silos immediately preceding s on the
// ring, in ring order (nearest first), wrapping around.
func (r *HashRing) FindPredecessors(s meta.SiloAddress, k int) []meta.SiloAddress {
	return r.neighbors(s, k, -1)
}

func (r *HashRing) neighbors(s meta.SiloAddress, k, dir int) []meta.SiloAddress {
	n := len(r.members)
	if n == 0 {
		return nil
	}
	idx := r.indexOf(s)
	if idx < 0 {
		// s is not yet a member (e.g. querying predecessors of a silo that
		// just joined, before it's inserted) - locate its would-be slot.
		// members[slot] is already its first successor, so step back one
		// for the successor walk.
		idx = r.slotFor(s)
		if dir > 0 {
			idx--
		}
	}
	out := make([]meta.SiloAddress, 0, k)
	for i := 1; i <= k && i <= n; i++ {
		pos := ((idx+dir*i)%n + n) % n
		if r.members[pos] == s {
			continue
		}
		out = append(out, r.members[pos])
	}
	return out
}

func (r *HashRing) slotFor(s meta.SiloAddress) int {
	h := hashOf(s)
	return sort.Search(len(r.members), func(i int) bool { return hashOf(r.members[i]) >= h })
}

// CalculateOwner returns the silo owning grainID: the first member whose
// hash succeeds the grain's hash on the ring.
func (r *HashRing) CalculateOwner(grainID meta.GrainID) meta.SiloAddress {
	if len(r.members) == 0 {
		return ""
	}
	h := xxhash.Checksum64([]byte(grainID))
	idx := sort.Search(len(r.members), func(i int) bool { return hashOf(r.members[i]) >= h })
	if idx == len(r.members) {
		idx = 0
	}
	return r.members[idx]
}
