package directory

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/grainmesh/dirhandoff/cmn/debug"
	"github.com/grainmesh/dirhandoff/cmn/nlog"
	"github.com/grainmesh/dirhandoff/core/meta"
)

// ProcessSiloRemoveEvent reacts to a silo leaving the ring (§4.2). A
// silo's failure promotes its predecessor to own its range; other nodes
// independently reach the same conclusion from ring state alone, so no
// cross-node coordination is required here.
func (m *Manager) ProcessSiloRemoveEvent(r meta.SiloAddress) {
	m.ResetFollowers()

	m.mu.Lock()
	defer m.mu.Unlock()
	debug.AssertMutexLocked(&m.mu)

	part, ok := m.mirrored[r]
	if !ok {
		return // nothing to take over
	}

	preds := m.ring.FindPredecessors(r, 1)
	if len(preds) == 0 {
		nlog.Warningf("%s: no predecessor found for removed silo %s, dropping its mirrored copy", m.ring.MyAddress(), r)
		delete(m.mirrored, r)
		return
	}
	predecessor := preds[0]

	var duplicates map[meta.SiloAddress][]meta.GrainAddress
	if predecessor == m.ring.MyAddress() {
		duplicates = m.local.Merge(part)
	} else {
		target, ok := m.mirrored[predecessor]
		if !ok {
			nlog.Warningf("%s: no mirrored copy held for %s while absorbing removed silo %s; synthesizing one",
				m.ring.MyAddress(), predecessor, r)
			target = m.ensureMirror(predecessor)
		}
		duplicates = target.Merge(part)
	}

	delete(m.mirrored, r)
	m.scheduleDestroyDuplicates(duplicates)
}

// ProcessSiloAddEvent reacts to a silo joining the ring (§4.3).
func (m *Manager) ProcessSiloAddEvent(a meta.SiloAddress) {
	m.ResetFollowers()

	m.mu.Lock()
	defer m.mu.Unlock()
	debug.AssertMutexLocked(&m.mu)

	successors := m.ring.FindSuccessors(m.ring.MyAddress(), 1)
	isOurConcern := false
	for _, s := range successors {
		if s == a {
			isOurConcern = true
			break
		}
	}
	if !isOurConcern {
		return
	}

	if len(successors) > 0 && successors[0] == a {
		// A is our new immediate successor: split off the range whose
		// ownership just moved to it.
		splitPart := m.local.Split(func(g meta.GrainID) bool { return m.ring.CalculateOwner(g) != m.ring.MyAddress() }, false)
		list := splitPart.ToList()
		m.enqueue(fmt.Sprintf("ProcessAddedSiloAsync(%s)", a), func(ctx context.Context) error {
			return m.processAddedSiloAsync(ctx, a, list)
		})
	} else {
		// A is some later successor: shrink whatever mirrored copy we
		// hold for its predecessor by the portion A now owns.
		preds := m.ring.FindPredecessors(a, 1)
		if len(preds) == 0 {
			return
		}
		predA := preds[0]
		if src, ok := m.mirrored[predA]; ok {
			splitPart := src.Split(func(g meta.GrainID) bool { return m.ring.CalculateOwner(g) != predA }, true)
			m.mirrored[a] = splitPart
		} else {
			nlog.Warningf("%s: missing mirrored copy for %s while adding %s, skipping split", m.ring.MyAddress(), predA, a)
		}
	}

	m.evictOneStaleMirror(a, successors)
}

// evictOneStaleMirror drops a single mirrored entry that is no longer
// among our successors, per event (§4.3 step 5; Design Notes §9 documents
// this as an intentional one-per-event drain rather than an all-at-once
// sweep). The silo that triggered this event is never evicted here, so a
// copy just created in this same event isn't immediately discarded.
func (m *Manager) evictOneStaleMirror(triggered meta.SiloAddress, successors []meta.SiloAddress) {
	debug.AssertMutexLocked(&m.mu)
	inSuccessors := func(s meta.SiloAddress) bool {
		for _, x := range successors {
			if x == s {
				return true
			}
		}
		return false
	}
	for s := range m.mirrored {
		if s == triggered || inSuccessors(s) {
			continue
		}
		delete(m.mirrored, s)
		return
	}
}

// processAddedSiloAsync is ProcessAddedSiloAsync (§4.3.1): a queued op.
func (m *Manager) processAddedSiloAsync(ctx context.Context, a meta.SiloAddress, list []meta.GrainAddress) error {
	if !m.ring.Running() {
		return nil
	}
	if m.status.ApproximateStatus(a) != StatusActive {
		nlog.Warningf("%s: %s not active, dropping split of %d grain(s) (no retry)", m.ring.MyAddress(), a, len(list))
		return nil
	}

	remote := m.remotes.Remote(a)
	if err := remote.AcceptSplitPartition(ctx, list); err != nil {
		return errors.Wrapf(err, "AcceptSplitPartition to %s", a)
	}

	if len(list) > 0 {
		m.mu.Lock()
		for _, addr := range list {
			m.local.Remove(addr.Grain)
		}
		m.mu.Unlock()
	}
	return nil
}

func (m *Manager) scheduleDestroyDuplicates(duplicates map[meta.SiloAddress][]meta.GrainAddress) {
	if len(duplicates) == 0 {
		return
	}
	m.enqueue("DestroyDuplicateActivationsAsync", func(ctx context.Context) error {
		return m.destroyDuplicateActivationsAsync(ctx, duplicates)
	})
}
