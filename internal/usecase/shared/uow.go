package shared

import (
	"context"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/inventory"
	"booking-engine/internal/domain/listing"
	"booking-engine/internal/domain/negotiation"
	"booking-engine/internal/domain/partnership"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// WithinListing: transaction holding the listing's exclusive lock; every
	// write to seats, stays or negotiations of that listing goes through here
	WithinListing(ctx context.Context, listingID uuid.UUID, fn func(ctx context.Context, tx Tx) error) error
	// Within: transaction without a listing lock
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Read: read-only view for queries
	Read(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Listings() ListingRepository
	Bookings() BookingRepository
	Negotiations() NegotiationRepository
	DriverStats() DriverStatsRepository
	Ledger() LedgerRepository
}

type ListingRepository interface {
	Create(ctx context.Context, l *listing.Listing) error
	FindByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error)
	UpdateSeats(ctx context.Context, l *listing.Listing) error
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// Update is a compare-and-swap on the stored status.
	Update(ctx context.Context, b *booking.Booking, prev booking.Status) error
	ActiveStays(ctx context.Context, listingID uuid.UUID) ([]availability.Slot, error)
	ActiveForNegotiation(ctx context.Context, negotiationID uuid.UUID) (bool, error)
	ListByParticipant(ctx context.Context, userID uuid.UUID, limit int) ([]*booking.Booking, error)
}

type NegotiationRepository interface {
	Create(ctx context.Context, n *negotiation.Negotiation) error
	FindByID(ctx context.Context, id uuid.UUID) (*negotiation.Negotiation, error)
	Update(ctx context.Context, n *negotiation.Negotiation, prev negotiation.Status) error
	// ListStale returns open negotiations whose expiry has passed.
	ListStale(ctx context.Context, now time.Time, limit int) ([]*negotiation.Negotiation, error)
}

type DriverStatsRepository interface {
	FindByDriverID(ctx context.Context, driverID uuid.UUID) (*partnership.DriverStats, error)
	// FindByDriverIDForUpdate holds the row until the transaction ends, so a
	// read-modify-write cannot overwrite a concurrent writer's totals.
	FindByDriverIDForUpdate(ctx context.Context, driverID uuid.UUID) (*partnership.DriverStats, error)
	Save(ctx context.Context, s *partnership.DriverStats) error
}

type LedgerRepository interface {
	CreateToken(ctx context.Context, t *inventory.Token) error
	FindToken(ctx context.Context, id uuid.UUID) (*inventory.Token, error)
	UpdateToken(ctx context.Context, t *inventory.Token, prev inventory.TokenStatus) error
	LastSeq(ctx context.Context, listingID uuid.UUID) (int64, error)
	Append(ctx context.Context, e inventory.Entry) error
	Entries(ctx context.Context, listingID uuid.UUID, afterSeq int64, limit int) ([]inventory.Entry, error)
}
