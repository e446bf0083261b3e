package directory

import (
	"context"

	"github.com/grainmesh/dirhandoff/cmn/debug"
	"github.com/grainmesh/dirhandoff/core/meta"
)

// ResetFollowers drops every current follower and schedules a fire-and-
// forget unregister RPC per follower (§4.4). Called at the top of every
// membership event; the follower set is rebuilt externally afterward.
func (m *Manager) ResetFollowers() {
	m.mu.Lock()
	debug.AssertMutexLocked(&m.mu)
	snapshot := append([]meta.SiloAddress(nil), m.followers...)
	m.followers = m.followers[:0]
	m.mu.Unlock()

	for _, f := range snapshot {
		m.removeOldFollower(f)
	}
}

// removeOldFollower tells f to stop mirroring us. No retry: a later
// membership event rebuilds the follower set if this is lost.
func (m *Manager) removeOldFollower(f meta.SiloAddress) {
	self := m.ring.MyAddress()
	target := f
	m.sched.QueueTask(func() {
		_ = m.remotes.Remote(target).RemoveHandoffPartition(context.Background(), self)
	})
}
