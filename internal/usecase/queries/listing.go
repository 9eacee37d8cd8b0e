package queries

//go:generate mockgen -source=listing.go -destination=../../../tests/mock/queries/listing.go -package=queriesmock

import (
	"context"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/identity"
	"booking-engine/internal/domain/listing"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type ListingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ListingView, error)
	// Availability answers the overlap question without reserving anything.
	Availability(ctx context.Context, listingID uuid.UUID, stay availability.Interval) (*AvailabilityView, error)
	Ledger(ctx context.Context, caller identity.Caller, listingID uuid.UUID, afterSeq int64, limit int) ([]LedgerEntryView, error)
}

type listingQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewListingQueries(uow shared.UnitOfWork) ListingQueries {
	return &listingQueriesImpl{uow: uow}
}

func (q *listingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ListingView, error) {
	var view *ListingView
	err := q.uow.Read(ctx, func(ctx context.Context, tx shared.Tx) error {
		l, err := tx.Listings().FindByID(ctx, id)
		if err != nil {
			return readErr(err, ErrListingNotFound)
		}
		view = ToListingView(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (q *listingQueriesImpl) Availability(ctx context.Context, listingID uuid.UUID, stay availability.Interval) (*AvailabilityView, error) {
	var view *AvailabilityView
	err := q.uow.Read(ctx, func(ctx context.Context, tx shared.Tx) error {
		l, err := tx.Listings().FindByID(ctx, listingID)
		if err != nil {
			return readErr(err, ErrListingNotFound)
		}
		if l.ServiceType() != listing.ServiceStay {
			return ErrNotStayListing
		}
		slots, err := tx.Bookings().ActiveStays(ctx, listingID)
		if err != nil {
			return readErr(err, ErrListingNotFound)
		}
		detector, err := availability.NewDetector(slots)
		if err != nil {
			return err
		}
		conflict, err := detector.Conflicts(stay)
		if err != nil {
			return err
		}
		checkIn, checkOut := stay.Bounds()
		view = &AvailabilityView{
			ListingID: listingID,
			CheckIn:   checkIn,
			CheckOut:  checkOut,
			Available: !conflict,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (q *listingQueriesImpl) Ledger(ctx context.Context, caller identity.Caller, listingID uuid.UUID, afterSeq int64, limit int) ([]LedgerEntryView, error) {
	var views []LedgerEntryView
	err := q.uow.Read(ctx, func(ctx context.Context, tx shared.Tx) error {
		l, err := tx.Listings().FindByID(ctx, listingID)
		if err != nil {
			return readErr(err, ErrListingNotFound)
		}
		if !caller.IsAdmin() && caller.ID != l.ProviderID() {
			return ErrForbidden
		}
		entries, err := tx.Ledger().Entries(ctx, listingID, afterSeq, clampLimit(limit))
		if err != nil {
			return readErr(err, ErrListingNotFound)
		}
		views = make([]LedgerEntryView, 0, len(entries))
		for _, e := range entries {
			views = append(views, ToLedgerEntryView(e))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}
