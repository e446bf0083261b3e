// Command griddemo exercises the directory partition handoff manager
// standalone, against in-memory mock collaborators and a real
// ring.HashRing, the way the teacher's small single-subsystem cmd/
// binaries exercise one package in isolation.
/*
 * Copyright (c) 2024-2026, dirhandoff contributors.
 */
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/grainmesh/dirhandoff/cmn/cos"
	"github.com/grainmesh/dirhandoff/cmn/nlog"
	"github.com/grainmesh/dirhandoff/core/meta"
	"github.com/grainmesh/dirhandoff/directory"
	"github.com/grainmesh/dirhandoff/directory/mock"
	"github.com/grainmesh/dirhandoff/ring"
)

const self meta.SiloAddress = "silo-1"

func main() {
	joiner := meta.SiloAddress("silo-" + cos.GenSiloID())
	leaver := meta.SiloAddress("silo-" + cos.GenSiloID())

	members := []meta.SiloAddress{self, leaver}
	r := ring.New(self, members)

	local := mock.NewLocalPartition()
	for i := 1; i <= 20; i++ {
		g := meta.GrainID(fmt.Sprintf("grain-%02d", i))
		winner, err := local.Register(context.Background(), meta.GrainAddress{
			Grain: g, Silo: self, Activation: meta.ActivationID(cos.GenActivationID()),
		})
		if err != nil {
			nlog.Errorf("register %s: %v", g, err)
			continue
		}
		_ = winner
	}
	nlog.Infof("seeded %d grains on %s", local.Len(), self)

	mgr := directory.New(
		r,
		mock.NewStatusOracle(),
		mock.Scheduler{},
		mock.NewRemoteDirectoryHub(),
		mock.NewCatalogHub(),
		local,
		mock.PartitionFactory{},
		directory.DefaultConfig(),
		nil,
	)

	nlog.Infof("--- %s joins the ring ---", joiner)
	members = append(members, joiner)
	r.SetMembers(members)
	mgr.ProcessSiloAddEvent(joiner)
	waitForQueue(mgr)
	nlog.Infof("local grains remaining on %s: %d", self, local.Len())
	nlog.Infof("mirrored silos: %v", mgr.MirroredSilos())

	nlog.Infof("--- %s leaves the ring ---", leaver)
	members = remove(members, leaver)
	r.SetMembers(members)
	mgr.ProcessSiloRemoveEvent(leaver)
	waitForQueue(mgr)
	nlog.Infof("local grains on %s: %d", self, local.Len())
	nlog.Infof("mirrored silos: %v", mgr.MirroredSilos())

	nlog.Infof("--- shutting down ---")
	r.SetRunning(false)
}

func remove(members []meta.SiloAddress, target meta.SiloAddress) []meta.SiloAddress {
	out := make([]meta.SiloAddress, 0, len(members))
	for _, m := range members {
		if m != target {
			out = append(out, m)
		}
	}
	return out
}

func waitForQueue(mgr *directory.Manager) {
	for i := 0; i < 50 && mgr.QueueDepth() > 0; i++ {
		time.Sleep(20 * time.Millisecond)
	}
}
