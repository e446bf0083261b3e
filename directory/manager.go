package directory

import (
	"context"
	"sync"

	"github.com/grainmesh/dirhandoff/cmn/debug"
	"github.com/grainmesh/dirhandoff/core/meta"
)

// Manager is the directory partition handoff manager. It holds per-node
// handoff state (mirrored predecessor copies, the follower set) and
// drives reconfiguration in response to membership events, while
// delegating outbound network work to a bounded-retry operation queue so
// the synchronous event path never blocks on RPC.
//
// All mutations of mirrored and followers go through mu, matching the
// design notes' "global manager mutex" - event handlers here may be
// invoked both from the local runtime's single-threaded scheduling
// context and from a remote directory's inbound handoff call, so a mutex
// (not just single-threaded-context discipline) is still required.
type Manager struct {
	mu        sync.Mutex
	mirrored  map[meta.SiloAddress]*meta.Partition
	followers []meta.SiloAddress

	ring     Ring
	status   SiloStatusOracle
	sched    Scheduler
	remotes  RemoteDirectoryProvider
	catalogs CatalogProvider
	local    LocalPartition
	factory  PartitionFactory

	queue   *opQueue
	metrics *Metrics
}

// New builds a Manager wired to its collaborators. metrics may be nil, in
// which case the manager runs unobserved.
func New(
	ring Ring,
	status SiloStatusOracle,
	sched Scheduler,
	remotes RemoteDirectoryProvider,
	catalogs CatalogProvider,
	local LocalPartition,
	factory PartitionFactory,
	cfg Config,
	metrics *Metrics,
) *Manager {
	return &Manager{
		mirrored: make(map[meta.SiloAddress]*meta.Partition),
		ring:     ring,
		status:   status,
		sched:    sched,
		remotes:  remotes,
		catalogs: catalogs,
		local:    local,
		factory:  factory,
		queue:    newOpQueue(cfg, metrics),
		metrics:  metrics,
	}
}

// Mirrored returns the mirrored copy held for source, if any - for
// inspection by tests and operators, not mutation.
func (m *Manager) Mirrored(source meta.SiloAddress) (*meta.Partition, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.mirrored[source]
	return p, ok
}

// MirroredSilos lists the silos currently mirrored.
func (m *Manager) MirroredSilos() []meta.SiloAddress {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]meta.SiloAddress, 0, len(m.mirrored))
	for s := range m.mirrored {
		out = append(out, s)
	}
	return out
}

// Followers returns a snapshot of the current follower set.
func (m *Manager) Followers() []meta.SiloAddress {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]meta.SiloAddress(nil), m.followers...)
}

// AddFollower registers a successor as a follower of our partition.
// Follower registration itself is driven externally by the ring (out of
// scope here); this is the entry point that registration calls into.
func (m *Manager) AddFollower(f meta.SiloAddress) {
	m.mu.Lock()
	defer m.mu.Unlock()
	debug.AssertMutexLocked(&m.mu)
	for _, e := range m.followers {
		if e == f {
			return
		}
	}
	m.followers = append(m.followers, f)
}

// QueueDepth reports the number of pending outbound operations.
func (m *Manager) QueueDepth() int { return m.queue.Len() }

// ensureMirror must be called with m.mu already held - it mutates
// m.mirrored directly, same single-owner-under-mutex discipline as every
// other mutation of manager state.
func (m *Manager) ensureMirror(source meta.SiloAddress) *meta.Partition {
	debug.AssertMutexLocked(&m.mu)
	if p, ok := m.mirrored[source]; ok {
		return p
	}
	p := m.factory.New()
	m.mirrored[source] = p
	return p
}

// enqueue is a thin wrapper so event handlers don't reach into the queue
// field directly.
func (m *Manager) enqueue(name string, action func(context.Context) error) {
	m.queue.enqueue(name, action)
}
