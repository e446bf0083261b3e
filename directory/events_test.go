package directory_test

import (
	"fmt"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/grainmesh/dirhandoff/core/meta"
	"github.com/grainmesh/dirhandoff/directory"
	"github.com/grainmesh/dirhandoff/directory/mock"
)

type harness struct {
	ring     *fakeRing
	remotes  *mock.RemoteDirectoryHub
	catalogs *mock.CatalogHub
	status   *mock.StatusOracle
	local    *mock.LocalPartition
	mgr      *directory.Manager
}

func newHarness(self meta.SiloAddress) *harness {
	h := &harness{
		ring:     newFakeRing(self),
		remotes:  mock.NewRemoteDirectoryHub(),
		catalogs: mock.NewCatalogHub(),
		status:   mock.NewStatusOracle(),
		local:    mock.NewLocalPartition(),
	}
	cfg := directory.Config{RetryDelay: 10 * time.Millisecond, MaxDequeue: 2}
	h.mgr = directory.New(h.ring, h.status, mock.Scheduler{}, h.remotes, h.catalogs, h.local, mock.PartitionFactory{}, cfg, nil)
	return h
}

func addr(g meta.GrainID, silo meta.SiloAddress, version int64) *meta.GrainInfo {
	return &meta.GrainInfo{
		Grain:     g,
		Addresses: []meta.GrainAddress{{Grain: g, Silo: silo, Activation: "a1"}},
		Rank:      meta.Rank{Version: version},
	}
}

var _ = Describe("ProcessSiloAddEvent", func() {
	It("splits off the range that moved to a new immediate successor and removes it on ack", func() {
		h := newHarness("self")
		grains := map[meta.GrainID]*meta.GrainInfo{}
		for i := 1; i <= 10; i++ {
			id := meta.GrainID(fmt.Sprintf("g%d", i))
			grains[id] = addr(id, "self", 1)
			if i <= 5 {
				h.ring.owners[id] = "self"
			} else {
				h.ring.owners[id] = "A"
			}
		}
		h.local.Update(grains)
		h.ring.successors["self"] = []meta.SiloAddress{"A"}

		h.mgr.ProcessSiloAddEvent("A")

		Eventually(func() int {
			return len(h.remotes.ForSilo("A").Splits)
		}, time.Second).Should(Equal(1))

		split := h.remotes.ForSilo("A").Splits[0]
		Expect(split).To(HaveLen(5))

		for i := 6; i <= 10; i++ {
			id := meta.GrainID(fmt.Sprintf("g%d", i))
			Eventually(func() bool {
				_, ok := h.local.Get(id)
				return ok
			}, time.Second).Should(BeFalse(), "grain %s should have been removed after ack", id)
		}
		for i := 1; i <= 5; i++ {
			id := meta.GrainID(fmt.Sprintf("g%d", i))
			_, ok := h.local.Get(id)
			Expect(ok).To(BeTrue(), "grain %s should remain local", id)
		}
	})

	It("shrinks the predecessor's mirrored copy when a later successor joins, with no RPC", func() {
		h := newHarness("self")
		h.ring.predecessors["A"] = []meta.SiloAddress{"predA"}
		h.ring.successors["self"] = []meta.SiloAddress{"predA", "A"}

		h.mgr.AcceptHandoffPartition("predA", map[meta.GrainID]*meta.GrainInfo{
			"g1": addr("g1", "predA", 1),
			"g2": addr("g2", "predA", 1),
		}, true)
		h.ring.owners["g1"] = "predA"
		h.ring.owners["g2"] = "A" // g2's ownership moved to A

		h.mgr.ProcessSiloAddEvent("A")

		movedPart, ok := h.mgr.Mirrored("A")
		Expect(ok).To(BeTrue())
		Expect(movedPart.Len()).To(Equal(1))
		_, ok = movedPart.Get("g2")
		Expect(ok).To(BeTrue())

		predPart, ok := h.mgr.Mirrored("predA")
		Expect(ok).To(BeTrue())
		Expect(predPart.Len()).To(Equal(1))

		Expect(h.remotes.ForSilo("A").Splits).To(BeEmpty())
	})
})

var _ = Describe("ProcessSiloRemoveEvent", func() {
	It("absorbs a failed predecessor's partition and destroys the losing duplicate", func() {
		h := newHarness("self")
		h.ring.predecessors["R"] = []meta.SiloAddress{"self"}

		h.local.Update(map[meta.GrainID]*meta.GrainInfo{
			"h1": addr("h1", "self", 5), // newer, active: should win
		})
		h.mgr.AcceptHandoffPartition("R", map[meta.GrainID]*meta.GrainInfo{
			"h1": addr("h1", "Rstale", 1), // stale copy: should lose
			"h2": addr("h2", "Rstale", 1),
		}, true)

		h.mgr.ProcessSiloRemoveEvent("R")

		_, ok := h.mgr.Mirrored("R")
		Expect(ok).To(BeFalse())

		h1, ok := h.local.Get("h1")
		Expect(ok).To(BeTrue())
		Expect(h1.Addresses[0].Silo).To(Equal(meta.SiloAddress("self")))
		_, ok = h.local.Get("h2")
		Expect(ok).To(BeTrue())

		Eventually(func() []meta.GrainAddress {
			return h.catalogs.ForSilo("Rstale").Deleted
		}, time.Second).Should(HaveLen(1))
	})
})
