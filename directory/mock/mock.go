// Package mock provides hand-written fakes for the collaborators
// directory.Manager consumes, in the style of the teacher's own
// cluster/mock package: minimal, behavior-configurable stand-ins used by
// the directory test suite rather than a generated mocking framework.
/*
 * Copyright (c) 2024-2026, dirhandoff contributors.
 */
package mock

import (
	"context"
	"sync"

	"github.com/grainmesh/dirhandoff/cmn/cos"
	"github.com/grainmesh/dirhandoff/cmn/mono"
	"github.com/grainmesh/dirhandoff/core/meta"
	"github.com/grainmesh/dirhandoff/directory"
)

// StatusOracle reports every silo Active unless told otherwise.
type StatusOracle struct {
	mu       sync.Mutex
	statuses map[meta.SiloAddress]directory.SiloStatus
}

func NewStatusOracle() *StatusOracle {
	return &StatusOracle{statuses: make(map[meta.SiloAddress]directory.SiloStatus)}
}

func (s *StatusOracle) Set(addr meta.SiloAddress, st directory.SiloStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[addr] = st
}

func (s *StatusOracle) ApproximateStatus(addr meta.SiloAddress) directory.SiloStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.statuses[addr]; ok {
		return st
	}
	return directory.StatusActive
}

// Scheduler runs fire-and-forget tasks on their own goroutine, same as
// the runtime's real task scheduler would, without any sequencing
// guarantee relative to the caller.
type Scheduler struct{}

func (Scheduler) QueueTask(action func()) { go action() }

// RemoteDirectory records calls made to it and optionally fails them -
// one instance per peer silo, vended by RemoteDirectoryHub.
type RemoteDirectory struct {
	mu sync.Mutex

	FailNTimes int // AcceptSplitPartition fails this many times, then succeeds
	attempts   int

	Splits []([]meta.GrainAddress)
}

func (r *RemoteDirectory) AcceptSplitPartition(_ context.Context, list []meta.GrainAddress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts++
	if r.attempts <= r.FailNTimes {
		return errTransient
	}
	r.Splits = append(r.Splits, append([]meta.GrainAddress(nil), list...))
	return nil
}

func (r *RemoteDirectory) RemoveHandoffPartition(context.Context, meta.SiloAddress) error {
	return nil
}

func (r *RemoteDirectory) AcceptHandoffPartition(context.Context, meta.SiloAddress, map[meta.GrainID]*meta.GrainInfo, bool) error {
	return nil
}

var errTransient = transientError{}

type transientError struct{}

func (transientError) Error() string { return "simulated transient RPC failure" }

// RemoteDirectoryHub lazily vends one RemoteDirectory per peer.
type RemoteDirectoryHub struct {
	mu      sync.Mutex
	remotes map[meta.SiloAddress]*RemoteDirectory
}

func NewRemoteDirectoryHub() *RemoteDirectoryHub {
	return &RemoteDirectoryHub{remotes: make(map[meta.SiloAddress]*RemoteDirectory)}
}

func (h *RemoteDirectoryHub) Remote(s meta.SiloAddress) directory.RemoteDirectory {
	return h.ForSilo(s)
}

// ForSilo returns the concrete fake for s, so tests can inspect or
// configure it directly.
func (h *RemoteDirectoryHub) ForSilo(s meta.SiloAddress) *RemoteDirectory {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.remotes[s]
	if !ok {
		r = &RemoteDirectory{}
		h.remotes[s] = r
	}
	return r
}

// Catalog records DeleteActivations calls.
type Catalog struct {
	mu      sync.Mutex
	Deleted []meta.GrainAddress
}

func (c *Catalog) DeleteActivations(_ context.Context, list []meta.GrainAddress, _, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Deleted = append(c.Deleted, list...)
	return nil
}

// CatalogHub lazily vends one Catalog per silo.
type CatalogHub struct {
	mu   sync.Mutex
	cats map[meta.SiloAddress]*Catalog
}

func NewCatalogHub() *CatalogHub {
	return &CatalogHub{cats: make(map[meta.SiloAddress]*Catalog)}
}

func (h *CatalogHub) Catalog(s meta.SiloAddress) directory.Catalog {
	return h.ForSilo(s)
}

func (h *CatalogHub) ForSilo(s meta.SiloAddress) *Catalog {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.cats[s]
	if !ok {
		c = &Catalog{}
		h.cats[s] = c
	}
	return c
}

// PartitionFactory synthesizes empty partitions via meta.NewPartition.
type PartitionFactory struct{}

func (PartitionFactory) New() *meta.Partition { return meta.NewPartition() }

// LocalPartition is the authoritative partition used in tests: it embeds
// *meta.Partition (promoting Set/Update/Merge/Split/Remove/ToList) and
// adds Register, arbitrating registration races by assigning each new
// registration a fresh rank stamped off the monotonic clock, with
// cmn/cos's shared tie-breaker counter for registrations that land in the
// same instant.
type LocalPartition struct {
	*meta.Partition
	mu sync.Mutex
}

func NewLocalPartition() *LocalPartition {
	return &LocalPartition{Partition: meta.NewPartition()}
}

func (l *LocalPartition) Register(_ context.Context, addr meta.GrainAddress) (meta.GrainAddress, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing, ok := l.Get(addr.Grain)
	if !ok || !existing.SingleActivation() {
		info := &meta.GrainInfo{
			Grain:     addr.Grain,
			Addresses: []meta.GrainAddress{addr},
			Rank:      meta.Rank{Version: mono.NanoTime(), Tie: cos.NextTie()},
		}
		l.Update(map[meta.GrainID]*meta.GrainInfo{addr.Grain: info})
		return addr, nil
	}
	return existing.Addresses[0], nil
}
