package meta

// Partition is the dictionary mapping GrainID to its directory record.
// It is not internally synchronized: callers (the handoff manager) own a
// given Partition from a single goroutine at a time, per the single-owner
// discipline recommended in the design notes. The handoff manager's own
// mutex is the synchronization boundary, not Partition itself.
type Partition struct {
	entries map[GrainID]*GrainInfo
}

// NewPartition returns an empty partition.
func NewPartition() *Partition {
	return &Partition{entries: make(map[GrainID]*GrainInfo)}
}

// Len reports the number of grains currently tracked.
func (p *Partition) Len() int { return len(p.entries) }

// Get returns the record for id, if any.
func (p *Partition) Get(id GrainID) (*GrainInfo, bool) {
	gi, ok := p.entries[id]
	return gi, ok
}

// Set replaces all entries with m - the full-copy handoff path.
func (p *Partition) Set(m map[GrainID]*GrainInfo) {
	p.entries = make(map[GrainID]*GrainInfo, len(m))
	for id, gi := range m {
		p.entries[id] = gi
	}
}

// Update merges entries from m into this partition: for each key the
// incoming record supersedes the existing one - the delta-handoff path.
func (p *Partition) Update(m map[GrainID]*GrainInfo) {
	for id, gi := range m {
		p.entries[id] = gi
	}
}

// Merge incorporates other into this partition. When both partitions
// independently hold a record for the same grain, the higher Rank wins
// (see Rank.Less); the loser's addresses are returned grouped by the silo
// hosting the losing activation(s), for the caller to destroy remotely.
func (p *Partition) Merge(other *Partition) map[SiloAddress][]GrainAddress {
	duplicates := make(map[SiloAddress][]GrainAddress)
	for id, incoming := range other.entries {
		existing, ok := p.entries[id]
		if !ok {
			p.entries[id] = incoming
			continue
		}
		loser := incoming
		if existing.Rank.Less(incoming.Rank) {
			p.entries[id] = incoming
			loser = existing
		}
		// the losing record's addresses are duplicates; the winner stays.
		for _, addr := range loser.Addresses {
			duplicates[addr.Silo] = append(duplicates[addr.Silo], addr)
		}
	}
	return duplicates
}

// Split returns a new partition consisting of entries whose key satisfies
// predicate. If modifyOriginal is true, those entries are removed from
// the source; otherwise the source is left untouched.
func (p *Partition) Split(predicate func(GrainID) bool, modifyOriginal bool) *Partition {
	out := NewPartition()
	for id, gi := range p.entries {
		if !predicate(id) {
			continue
		}
		out.entries[id] = gi
		if modifyOriginal {
			delete(p.entries, id)
		}
	}
	return out
}

// Remove deletes the entry if present; idempotent.
func (p *Partition) Remove(id GrainID) {
	delete(p.entries, id)
}

// ToList returns the single-activation subset as a flat sequence of
// GrainAddress; order is unspecified.
func (p *Partition) ToList() []GrainAddress {
	out := make([]GrainAddress, 0, len(p.entries))
	for _, gi := range p.entries {
		if !gi.SingleActivation() {
			continue
		}
		out = append(out, gi.Addresses[0])
	}
	return out
}

// Keys returns the grain ids currently tracked; used by callers that need
// to know membership without copying records (e.g. for predicates used by
// Split).
func (p *Partition) Keys() []GrainID {
	out := make([]GrainID, 0, len(p.entries))
	for id := range p.entries {
		out = append(out, id)
	}
	return out
}
