package directory

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/grainmesh/dirhandoff/cmn/debug"
	"github.com/grainmesh/dirhandoff/cmn/nlog"
	"github.com/grainmesh/dirhandoff/core/meta"
)

// AcceptHandoffPartition receives a full or delta copy of source's
// partition (§4.5). A delta that arrives before any full copy is logged
// as a warning and an empty mirror is synthesized to apply it onto.
func (m *Manager) AcceptHandoffPartition(source meta.SiloAddress, data map[meta.GrainID]*meta.GrainInfo, isFullCopy bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	debug.AssertMutexLocked(&m.mu)

	part, ok := m.mirrored[source]
	if !ok {
		if !isFullCopy {
			nlog.Warningf("%s: delta handoff from %s received before any full copy; synthesizing empty mirror",
				m.ring.MyAddress(), source)
		}
		part = m.ensureMirror(source)
	}
	if isFullCopy {
		part.Set(data)
	} else {
		part.Update(data)
	}
}

// RemoveHandoffPartition drops the mirrored copy for source. Idempotent.
func (m *Manager) RemoveHandoffPartition(source meta.SiloAddress) {
	m.mu.Lock()
	debug.AssertMutexLocked(&m.mu)
	delete(m.mirrored, source)
	m.mu.Unlock()
}

// AcceptExistingRegistrations enqueues the async reconciliation of a
// batch of activations a peer believes it already owns (§4.5, §4.5.1).
func (m *Manager) AcceptExistingRegistrations(list []meta.GrainAddress) {
	pending := append([]meta.GrainAddress(nil), list...)
	m.enqueue("AcceptExistingRegistrationsAsync", func(ctx context.Context) error {
		return m.acceptExistingRegistrationsAsync(ctx, &pending)
	})
}

// acceptExistingRegistrationsAsync registers every address in *pending in
// parallel, shrinks *pending to just the ones that still need a retry
// (individual RPC/registration failures), and routes registrations that
// lost the race to the duplicate reconciler.
func (m *Manager) acceptExistingRegistrationsAsync(ctx context.Context, pending *[]meta.GrainAddress) error {
	if !m.ring.Running() {
		return nil
	}
	current := *pending
	if len(current) == 0 {
		return nil
	}

	type outcome struct {
		original meta.GrainAddress
		winner   meta.GrainAddress
		err      error
	}
	outcomes := make([]outcome, len(current))

	// Deliberately not errgroup.WithContext: one registration failing
	// must not cancel its siblings - each is independent, and the spec
	// only wants the failed ones retried on the next pass.
	var g errgroup.Group
	for i, addr := range current {
		i, addr := i, addr
		g.Go(func() error {
			winner, err := m.local.Register(ctx, addr)
			outcomes[i] = outcome{original: addr, winner: winner, err: err}
			return err
		})
	}
	aggErr := g.Wait()

	duplicates := make(map[meta.SiloAddress][]meta.GrainAddress)
	var retry []meta.GrainAddress
	for _, o := range outcomes {
		switch {
		case o.err != nil:
			retry = append(retry, o.original)
		case o.winner != o.original:
			duplicates[o.original.Silo] = append(duplicates[o.original.Silo], o.original)
		}
		// o.winner == o.original: this activation already won, nothing
		// further to do - re-registering a winner is a no-op (P7).
	}
	*pending = retry

	m.scheduleDestroyDuplicates(duplicates)

	if aggErr != nil {
		return errors.Wrap(aggErr, "AcceptExistingRegistrationsAsync")
	}
	return nil
}
