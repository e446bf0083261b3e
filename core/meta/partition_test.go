package meta_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/grainmesh/dirhandoff/core/meta"
)

func info(g meta.GrainID, silo meta.SiloAddress, version int64) *meta.GrainInfo {
	return &meta.GrainInfo{
		Grain:     g,
		Addresses: []meta.GrainAddress{{Grain: g, Silo: silo, Activation: "a1"}},
		Rank:      meta.Rank{Version: version},
	}
}

var _ = Describe("Partition", func() {
	It("set replaces all entries", func() {
		p := meta.NewPartition()
		p.Update(map[meta.GrainID]*meta.GrainInfo{"g1": info("g1", "s1", 1)})
		p.Set(map[meta.GrainID]*meta.GrainInfo{"g2": info("g2", "s1", 1)})
		Expect(p.Len()).To(Equal(1))
		_, ok := p.Get("g1")
		Expect(ok).To(BeFalse())
		_, ok = p.Get("g2")
		Expect(ok).To(BeTrue())
	})

	It("update supersedes existing keys without touching others", func() {
		p := meta.NewPartition()
		p.Update(map[meta.GrainID]*meta.GrainInfo{
			"g1": info("g1", "s1", 1),
			"g2": info("g2", "s1", 1),
		})
		p.Update(map[meta.GrainID]*meta.GrainInfo{"g1": info("g1", "s2", 2)})
		gi, _ := p.Get("g1")
		Expect(gi.Addresses[0].Silo).To(Equal(meta.SiloAddress("s2")))
		_, ok := p.Get("g2")
		Expect(ok).To(BeTrue())
	})

	It("merge picks the higher-rank winner and reports the loser as a duplicate", func() {
		p := meta.NewPartition()
		p.Update(map[meta.GrainID]*meta.GrainInfo{"g1": info("g1", "sA", 5)})

		other := meta.NewPartition()
		other.Update(map[meta.GrainID]*meta.GrainInfo{"g1": info("g1", "sB", 9)})

		dups := p.Merge(other)
		gi, _ := p.Get("g1")
		Expect(gi.Addresses[0].Silo).To(Equal(meta.SiloAddress("sB")))
		Expect(dups).To(HaveKey(meta.SiloAddress("sA")))
		Expect(dups[meta.SiloAddress("sA")]).To(HaveLen(1))
	})

	It("merge reports the same loser regardless of which side calls Merge", func() {
		a := meta.NewPartition()
		a.Update(map[meta.GrainID]*meta.GrainInfo{"g1": info("g1", "sA", 5)})
		b := meta.NewPartition()
		b.Update(map[meta.GrainID]*meta.GrainInfo{"g1": info("g1", "sB", 9)})

		dupsAB := a.Merge(b)

		c := meta.NewPartition()
		c.Update(map[meta.GrainID]*meta.GrainInfo{"g1": info("g1", "sB", 9)})
		d := meta.NewPartition()
		d.Update(map[meta.GrainID]*meta.GrainInfo{"g1": info("g1", "sA", 5)})
		dupsBA := c.Merge(d)

		// sB (version 9) always wins over sA (version 5): the loser reported
		// is sA's address in both directions, never the winner's.
		Expect(dupsAB).To(HaveKey(meta.SiloAddress("sA")))
		Expect(dupsAB).NotTo(HaveKey(meta.SiloAddress("sB")))
		Expect(dupsBA).To(HaveKey(meta.SiloAddress("sA")))
		Expect(dupsBA).NotTo(HaveKey(meta.SiloAddress("sB")))
	})

	It("split moves matching entries when modifyOriginal is true", func() {
		p := meta.NewPartition()
		p.Update(map[meta.GrainID]*meta.GrainInfo{
			"g1": info("g1", "s1", 1),
			"g2": info("g2", "s1", 1),
		})
		moved := p.Split(func(id meta.GrainID) bool { return id == "g2" }, true)
		Expect(moved.Len()).To(Equal(1))
		Expect(p.Len()).To(Equal(1))
		_, ok := p.Get("g2")
		Expect(ok).To(BeFalse())
	})

	It("split leaves the source untouched when modifyOriginal is false", func() {
		p := meta.NewPartition()
		p.Update(map[meta.GrainID]*meta.GrainInfo{"g1": info("g1", "s1", 1)})
		cp := p.Split(func(meta.GrainID) bool { return true }, false)
		Expect(cp.Len()).To(Equal(1))
		Expect(p.Len()).To(Equal(1))
	})

	It("remove is idempotent", func() {
		p := meta.NewPartition()
		p.Update(map[meta.GrainID]*meta.GrainInfo{"g1": info("g1", "s1", 1)})
		p.Remove("g1")
		p.Remove("g1")
		Expect(p.Len()).To(Equal(0))
	})

	It("toList returns only single-activation entries", func() {
		multi := &meta.GrainInfo{Grain: "g2", Addresses: []meta.GrainAddress{
			{Grain: "g2", Silo: "s1", Activation: "a1"},
			{Grain: "g2", Silo: "s2", Activation: "a2"},
		}}
		p := meta.NewPartition()
		p.Update(map[meta.GrainID]*meta.GrainInfo{
			"g1": info("g1", "s1", 1),
			"g2": multi,
		})
		Expect(p.ToList()).To(HaveLen(1))
	})
})
