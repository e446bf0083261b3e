// Package directory implements the handoff manager: the component that
// drives partition split/merge/handoff across ring membership changes and
// reconciles duplicate registrations, per the surrounding runtime's
// virtual-actor grain directory. The manager itself makes no membership
// decisions and persists nothing - see the package-level doc on Manager.
/*
 * Copyright (c) 2024-2026, dirhandoff contributors.
 */
package directory

import (
	"context"
	"time"

	"github.com/grainmesh/dirhandoff/core/meta"
)

// SiloStatus mirrors the runtime's coarse liveness view of a peer.
type SiloStatus int

const (
	StatusUnknown SiloStatus = iota
	StatusActive
	StatusInactive
)

func (s SiloStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// Ring is the small surface this package consumes from the cluster's
// consistent-hash ring: predecessor/successor queries, this node's own
// address, and whether the local directory is still running. Computing
// ring membership and ownership itself is out of scope; see ring.HashRing
// for one concrete implementation.
type Ring interface {
	MyAddress() meta.SiloAddress
	Running() bool
	FindPredecessors(s meta.SiloAddress, k int) []meta.SiloAddress
	FindSuccessors(s meta.SiloAddress, k int) []meta.SiloAddress
	CalculateOwner(g meta.GrainID) meta.SiloAddress
}

// SiloStatusOracle answers "is this peer up" without a strong consistency
// guarantee - the runtime's liveness oracle is outside this package.
type SiloStatusOracle interface {
	ApproximateStatus(s meta.SiloAddress) SiloStatus
}

// Scheduler dispatches fire-and-forget work onto the runtime's task
// scheduler. Only used for work this package does not itself retry (the
// per-follower unregister RPC); the bounded-retry queue (queue.go) is
// this package's own.
type Scheduler interface {
	QueueTask(action func())
}

// RemoteDirectory is the per-peer proxy this package calls out on.
type RemoteDirectory interface {
	AcceptSplitPartition(ctx context.Context, list []meta.GrainAddress) error
	RemoveHandoffPartition(ctx context.Context, source meta.SiloAddress) error
	AcceptHandoffPartition(ctx context.Context, source meta.SiloAddress, data map[meta.GrainID]*meta.GrainInfo, isFullCopy bool) error
}

// RemoteDirectoryProvider resolves a RemoteDirectory proxy for a given
// peer silo.
type RemoteDirectoryProvider interface {
	Remote(s meta.SiloAddress) RemoteDirectory
}

// Catalog destroys activations on a target silo - collaborator for
// duplicate-activation reconciliation.
type Catalog interface {
	DeleteActivations(ctx context.Context, list []meta.GrainAddress, reason, message string) error
}

// CatalogProvider resolves a Catalog proxy for a given silo.
type CatalogProvider interface {
	Catalog(s meta.SiloAddress) Catalog
}

// PartitionFactory creates the empty partitions this package synthesizes
// when it first hears about a peer (first handoff, or a delta received
// before any full copy).
type PartitionFactory interface {
	New() *meta.Partition
}

// LocalPartition is this node's authoritative partition: the same
// dictionary operations as meta.Partition, plus Register, the
// registration-arbitration entry point AcceptExistingRegistrations drives
// (§4.5.1 of the design: "begin all register(...) in parallel").
type LocalPartition interface {
	Set(m map[meta.GrainID]*meta.GrainInfo)
	Update(m map[meta.GrainID]*meta.GrainInfo)
	Merge(other *meta.Partition) map[meta.SiloAddress][]meta.GrainAddress
	Split(predicate func(meta.GrainID) bool, modifyOriginal bool) *meta.Partition
	Remove(id meta.GrainID)
	ToList() []meta.GrainAddress

	// Register attempts to register addr as the (expected) single
	// activation of addr.Grain, returning the winning address - addr
	// itself if it won the race, or the address that was already
	// authoritative otherwise.
	Register(ctx context.Context, addr meta.GrainAddress) (meta.GrainAddress, error)
}

// Config carries the spec's two tunables.
type Config struct {
	RetryDelay time.Duration
	MaxDequeue int
}

// DefaultConfig matches spec constants: RetryDelay=250ms, MaxDequeue=2.
func DefaultConfig() Config {
	return Config{RetryDelay: 250 * time.Millisecond, MaxDequeue: 2}
}

const (
	ReasonDuplicateActivation = "DuplicateActivation"
	dupMessage                = "This grain has been activated elsewhere"
)
