package directory

import (
	"context"

	"github.com/pkg/errors"

	"github.com/grainmesh/dirhandoff/cmn/cos"
	"github.com/grainmesh/dirhandoff/core/meta"
)

// destroyDuplicateActivationsAsync is DestroyDuplicateActivations (§4.6):
// for each silo hosting a losing registration, ask its catalog to destroy
// the stale activations. Each entry is removed from the working map as
// soon as it is attempted, success or failure alike - only entries this
// pass never reached (because ctx was cancelled mid-loop) survive for the
// executor's retry of this same op; a per-entry RPC failure is recorded in
// the aggregate error (which the executor logs) but is not retried on its own, since
// the spec explicitly rules out a per-entry retry loop here.
func (m *Manager) destroyDuplicateActivationsAsync(ctx context.Context, duplicates map[meta.SiloAddress][]meta.GrainAddress) error {
	var errs cos.Errs
	for silo, list := range duplicates {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		delete(duplicates, silo)

		if m.status.ApproximateStatus(silo) != StatusActive {
			continue
		}
		cat := m.catalogs.Catalog(silo)
		if err := cat.DeleteActivations(ctx, list, ReasonDuplicateActivation, dupMessage); err != nil {
			errs.Add(errors.Wrapf(err, "DeleteActivations on %s", silo))
			continue
		}
		if m.metrics != nil {
			m.metrics.duplicatesDestroyed.Add(float64(len(list)))
		}
	}
	return errs.JoinErr()
}
