package queries

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/queries/booking.go -package=queriesmock

import (
	"context"

	"booking-engine/internal/domain/identity"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingQueries interface {
	GetByID(ctx context.Context, caller identity.Caller, id uuid.UUID) (*BookingView, error)
	ListMine(ctx context.Context, caller identity.Caller, limit int) ([]*BookingView, error)
}

type bookingQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewBookingQueries(uow shared.UnitOfWork) BookingQueries {
	return &bookingQueriesImpl{uow: uow}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, caller identity.Caller, id uuid.UUID) (*BookingView, error) {
	var view *BookingView
	err := q.uow.Read(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByID(ctx, id)
		if err != nil {
			return readErr(err, ErrBookingNotFound)
		}
		if !caller.IsAdmin() && !b.IsParticipant(caller.ID) {
			return ErrForbidden
		}
		view = ToBookingView(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListMine(ctx context.Context, caller identity.Caller, limit int) ([]*BookingView, error) {
	var views []*BookingView
	err := q.uow.Read(ctx, func(ctx context.Context, tx shared.Tx) error {
		rows, err := tx.Bookings().ListByParticipant(ctx, caller.ID, clampLimit(limit))
		if err != nil {
			return readErr(err, ErrBookingNotFound)
		}
		views = make([]*BookingView, 0, len(rows))
		for _, b := range rows {
			views = append(views, ToBookingView(b))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}
