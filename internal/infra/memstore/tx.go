package memstore

import (
	"sync"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/inventory"
	"booking-engine/internal/domain/listing"
	"booking-engine/internal/domain/negotiation"
	"booking-engine/internal/domain/partnership"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// memTx reads through its own staged writes to the committed state.
type memTx struct {
	store *Store

	listings     map[uuid.UUID]*listing.Listing
	bookings     map[uuid.UUID]booking.Snapshot
	newBookings  []uuid.UUID
	negotiations map[uuid.UUID]*negotiation.Negotiation
	stats        map[uuid.UUID]*partnership.DriverStats
	tokens       map[uuid.UUID]*inventory.Token
	entries      map[uuid.UUID][]inventory.Entry
}

func newTx(s *Store) *memTx {
	return &memTx{
		store:        s,
		listings:     make(map[uuid.UUID]*listing.Listing),
		bookings:     make(map[uuid.UUID]booking.Snapshot),
		negotiations: make(map[uuid.UUID]*negotiation.Negotiation),
		stats:        make(map[uuid.UUID]*partnership.DriverStats),
		tokens:       make(map[uuid.UUID]*inventory.Token),
		entries:      make(map[uuid.UUID][]inventory.Entry),
	}
}

func (t *memTx) Listings() shared.ListingRepository         { return &listingRepo{tx: t} }
func (t *memTx) Bookings() shared.BookingRepository         { return &bookingRepo{tx: t} }
func (t *memTx) Negotiations() shared.NegotiationRepository { return &negotiationRepo{tx: t} }
func (t *memTx) DriverStats() shared.DriverStatsRepository  { return &driverStatsRepo{tx: t} }
func (t *memTx) Ledger() shared.LedgerRepository            { return &ledgerRepo{tx: t} }

func (t *memTx) commit() {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, l := range t.listings {
		s.listings[id] = l
	}
	for _, id := range t.newBookings {
		snap := t.bookings[id]
		s.byListing[snap.ListingID] = append(s.byListing[snap.ListingID], id)
	}
	for id, b := range t.bookings {
		s.bookings[id] = b
	}
	for id, n := range t.negotiations {
		s.negotiations[id] = n
	}
	for driverID, st := range t.stats {
		s.stats[driverID] = st
	}
	for id, tok := range t.tokens {
		s.tokens[id] = tok
	}
	for listingID, es := range t.entries {
		s.entries[listingID] = append(s.entries[listingID], es...)
	}
}

func lookup[V any](staged, committed map[uuid.UUID]V, mu *sync.RWMutex, id uuid.UUID) (V, bool) {
	if v, ok := staged[id]; ok {
		return v, true
	}
	mu.RLock()
	defer mu.RUnlock()
	v, ok := committed[id]
	return v, ok
}
