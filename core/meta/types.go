// Package meta provides the directory's data model: grain and silo
// identities, registered activation addresses, and the partition store
// that maps a GrainID to its directory record.
/*
 * Copyright (c) 2024-2026, dirhandoff contributors.
 */
package meta

// GrainID is an opaque, totally-ordered (by the ring's hash, not by its own
// bytes) grain identity. Comparable and hashable so it can key a Go map.
type GrainID string

// SiloAddress is an opaque peer identity, distinct from GrainID.
type SiloAddress string

// ActivationID distinguishes successive activations of the same grain.
type ActivationID string

// GrainAddress is a registered activation record: equality is on the full
// tuple, matching the spec's "(GrainId, SiloAddress, activationId, ...)".
type GrainAddress struct {
	Grain      GrainID
	Silo       SiloAddress
	Activation ActivationID
}

func (a GrainAddress) String() string {
	return string(a.Grain) + "@" + string(a.Silo) + "#" + string(a.Activation)
}

// Rank orders two registrations of the same grain so a merge can pick a
// deterministic winner: higher Version wins; ties break on Tie. Two ranks
// with equal Version and Tie are not Less in either direction, so
// Partition.Merge keeps the existing record on a full tie.
type Rank struct {
	Version int64
	Tie     uint32
}

// Less reports whether r loses to other.
func (r Rank) Less(other Rank) bool {
	if r.Version != other.Version {
		return r.Version < other.Version
	}
	return r.Tie < other.Tie
}

// GrainInfo is the partition-local record for a GrainID: the address(es)
// currently registered for it plus the metadata merge uses to break ties.
// In steady state Addresses has exactly one entry (single activation); it
// briefly holds more only while a registration race is being reconciled.
type GrainInfo struct {
	Grain     GrainID
	Addresses []GrainAddress
	Rank      Rank
}

// SingleActivation reports whether this record represents exactly one
// live activation - the subset Partition.ToList returns.
func (gi *GrainInfo) SingleActivation() bool { return len(gi.Addresses) == 1 }

// Clone returns a deep-enough copy safe to hand to another owner: the
// Addresses slice is copied, the GrainAddress values in it are shared.
func (gi *GrainInfo) Clone() *GrainInfo {
	cp := &GrainInfo{Grain: gi.Grain, Rank: gi.Rank}
	cp.Addresses = append(cp.Addresses, gi.Addresses...)
	return cp
}
