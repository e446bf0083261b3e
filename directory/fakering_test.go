package directory_test

import "github.com/grainmesh/dirhandoff/core/meta"

// fakeRing is a fully scriptable directory.Ring used by the manager's
// unit tests, so scenarios can be set up without depending on where
// xxhash happens to place a given string - ring.HashRing itself is
// covered separately in the ring package's own tests.
type fakeRing struct {
	self         meta.SiloAddress
	running      bool
	successors   map[meta.SiloAddress][]meta.SiloAddress
	predecessors map[meta.SiloAddress][]meta.SiloAddress
	owners       map[meta.GrainID]meta.SiloAddress
}

func newFakeRing(self meta.SiloAddress) *fakeRing {
	return &fakeRing{
		self:         self,
		running:      true,
		successors:   map[meta.SiloAddress][]meta.SiloAddress{},
		predecessors: map[meta.SiloAddress][]meta.SiloAddress{},
		owners:       map[meta.GrainID]meta.SiloAddress{},
	}
}

func (f *fakeRing) MyAddress() meta.SiloAddress { return f.self }
func (f *fakeRing) Running() bool               { return f.running }

func (f *fakeRing) FindSuccessors(s meta.SiloAddress, _ int) []meta.SiloAddress {
	return f.successors[s]
}

func (f *fakeRing) FindPredecessors(s meta.SiloAddress, _ int) []meta.SiloAddress {
	return f.predecessors[s]
}

func (f *fakeRing) CalculateOwner(g meta.GrainID) meta.SiloAddress { return f.owners[g] }
