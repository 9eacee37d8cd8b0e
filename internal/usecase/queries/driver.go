package queries

//go:generate mockgen -source=driver.go -destination=../../../tests/mock/queries/driver.go -package=queriesmock

import (
	"context"

	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type DriverQueries interface {
	Stats(ctx context.Context, driverID uuid.UUID) (*DriverStatsView, error)
}

type driverQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewDriverQueries(uow shared.UnitOfWork) DriverQueries {
	return &driverQueriesImpl{uow: uow}
}

func (q *driverQueriesImpl) Stats(ctx context.Context, driverID uuid.UUID) (*DriverStatsView, error) {
	var view *DriverStatsView
	err := q.uow.Read(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := tx.DriverStats().FindByDriverID(ctx, driverID)
		if err != nil {
			return readErr(err, ErrDriverStatsNotFound)
		}
		view = ToDriverStatsView(s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}
