package commands

//go:generate mockgen -source=driver.go -destination=../../../tests/mock/commands/driver.go -package=commandsmock

import (
	"context"
	"log/slog"

	"booking-engine/internal/domain/partnership"
	"booking-engine/internal/infra"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type DriverCommands interface {
	// RecomputeDriverTier is invoked by the ride-completion collaborator.
	RecomputeDriverTier(ctx context.Context, driverID uuid.UUID) (*partnership.DriverStats, error)
	// RecordStats stores the collaborator's accumulated statistics for a driver.
	RecordStats(ctx context.Context, in partnership.StatsInput) (*partnership.DriverStats, error)
}

type driverCommandsImpl struct {
	uow      shared.UnitOfWork
	resolver *partnership.TierResolver
	sink     shared.NotificationSink
	clock    clock.Clock
}

func NewDriverCommands(uow shared.UnitOfWork, resolver *partnership.TierResolver, sink shared.NotificationSink, clock clock.Clock) DriverCommands {
	return &driverCommandsImpl{uow: uow, resolver: resolver, sink: sink, clock: clock}
}

func (c *driverCommandsImpl) RecomputeDriverTier(ctx context.Context, driverID uuid.UUID) (*partnership.DriverStats, error) {
	var (
		stats   *partnership.DriverStats
		before  partnership.Tier
		changed bool
	)
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := tx.DriverStats().FindByDriverIDForUpdate(ctx, driverID)
		if err != nil {
			return repoErr(err, ErrDriverStatsNotFound)
		}
		before = s.PartnershipLevel()
		changed = s.Recompute(c.resolver, c.clock.Now())
		if changed {
			if err := tx.DriverStats().Save(ctx, s); err != nil {
				return repoErr(err, ErrDriverStatsNotFound)
			}
		}
		stats = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		c.announce(ctx, stats, before)
	}
	return stats, nil
}

func (c *driverCommandsImpl) RecordStats(ctx context.Context, in partnership.StatsInput) (*partnership.DriverStats, error) {
	var (
		stats   *partnership.DriverStats
		before  partnership.Tier
		changed bool
	)
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := c.clock.Now()
		s, err := tx.DriverStats().FindByDriverIDForUpdate(ctx, in.DriverID)
		switch {
		case err == nil:
			before = s.PartnershipLevel()
			changed = s.Apply(c.resolver, in, now)
		case infra.IsKind(err, infra.KindNotFound):
			s = partnership.NewDriverStats(c.resolver, in, now)
			before = partnership.TierBronze
			changed = s.PartnershipLevel() != before
		default:
			return repoErr(err, ErrDriverStatsNotFound)
		}
		if err := tx.DriverStats().Save(ctx, s); err != nil {
			return repoErr(err, ErrDriverStatsNotFound)
		}
		stats = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		c.announce(ctx, stats, before)
	}
	return stats, nil
}

func (c *driverCommandsImpl) announce(ctx context.Context, s *partnership.DriverStats, before partnership.Tier) {
	slog.InfoContext(ctx, "driver tier changed",
		slog.String("driver_id", s.DriverID().String()),
		slog.String("from", before.String()),
		slog.String("to", s.PartnershipLevel().String()))
	c.sink.Notify(ctx, s.DriverID(), shared.Event{
		Type:       shared.EventDriverTierChanged,
		SubjectID:  s.ID(),
		Status:     s.PartnershipLevel().String(),
		OccurredAt: s.UpdatedAt(),
	})
}
