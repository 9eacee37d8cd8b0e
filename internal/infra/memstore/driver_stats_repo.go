package memstore

import (
	"context"

	"booking-engine/internal/domain/partnership"
	"booking-engine/internal/infra"

	"github.com/google/uuid"
)

type driverStatsRepo struct {
	tx *memTx
}

func (r *driverStatsRepo) FindByDriverID(_ context.Context, driverID uuid.UUID) (*partnership.DriverStats, error) {
	s, ok := lookup(r.tx.stats, r.tx.store.stats, &r.tx.store.mu, driverID)
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "driver stats not found")
	}
	return cloneStats(s), nil
}

// FindByDriverIDForUpdate needs no extra lock: unscoped transactions already
// run one at a time.
func (r *driverStatsRepo) FindByDriverIDForUpdate(ctx context.Context, driverID uuid.UUID) (*partnership.DriverStats, error) {
	return r.FindByDriverID(ctx, driverID)
}

func (r *driverStatsRepo) Save(_ context.Context, s *partnership.DriverStats) error {
	r.tx.stats[s.DriverID()] = cloneStats(s)
	return nil
}
