package memstore

import (
	"context"
	"sort"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/booking"
	"booking-engine/internal/infra"

	"github.com/google/uuid"
)

type bookingRepo struct {
	tx *memTx
}

func (r *bookingRepo) Create(_ context.Context, b *booking.Booking) error {
	if _, ok := lookup(r.tx.bookings, r.tx.store.bookings, &r.tx.store.mu, b.ID()); ok {
		return infra.NewRepoErr(infra.KindDuplicateKey, "booking already exists")
	}
	r.tx.bookings[b.ID()] = b.Snapshot()
	r.tx.newBookings = append(r.tx.newBookings, b.ID())
	return nil
}

func (r *bookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	snap, ok := lookup(r.tx.bookings, r.tx.store.bookings, &r.tx.store.mu, id)
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "booking not found")
	}
	return booking.ReconstructBooking(snap), nil
}

func (r *bookingRepo) Update(_ context.Context, b *booking.Booking, prev booking.Status) error {
	cur, ok := lookup(r.tx.bookings, r.tx.store.bookings, &r.tx.store.mu, b.ID())
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "booking not found")
	}
	if cur.Status != prev {
		return infra.NewRepoErr(infra.KindConflict, "booking status changed from "+prev.String()+" to "+cur.Status.String())
	}
	r.tx.bookings[b.ID()] = b.Snapshot()
	return nil
}

func (r *bookingRepo) ActiveStays(_ context.Context, listingID uuid.UUID) ([]availability.Slot, error) {
	r.tx.store.mu.RLock()
	ids := append([]uuid.UUID(nil), r.tx.store.byListing[listingID]...)
	r.tx.store.mu.RUnlock()
	for _, id := range r.tx.newBookings {
		if r.tx.bookings[id].ListingID == listingID {
			ids = append(ids, id)
		}
	}

	var slots []availability.Slot
	for _, id := range ids {
		snap, _ := lookup(r.tx.bookings, r.tx.store.bookings, &r.tx.store.mu, id)
		if snap.Stay == nil || !snap.Status.HoldsInventory() {
			continue
		}
		slots = append(slots, availability.Slot{BookingID: id, Interval: *snap.Stay})
	}
	return slots, nil
}

func (r *bookingRepo) ActiveForNegotiation(_ context.Context, negotiationID uuid.UUID) (bool, error) {
	for _, snap := range r.merged() {
		if snap.NegotiationID != nil && *snap.NegotiationID == negotiationID &&
			snap.Status != booking.StatusCancelled && snap.Status != booking.StatusRejected {
			return true, nil
		}
	}
	return false, nil
}

func (r *bookingRepo) ListByParticipant(_ context.Context, userID uuid.UUID, limit int) ([]*booking.Booking, error) {
	var out []*booking.Booking
	for _, snap := range r.merged() {
		if snap.CustomerID == userID || snap.ProviderID == userID {
			out = append(out, booking.ReconstructBooking(snap))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *bookingRepo) merged() map[uuid.UUID]booking.Snapshot {
	r.tx.store.mu.RLock()
	all := make(map[uuid.UUID]booking.Snapshot, len(r.tx.store.bookings)+len(r.tx.bookings))
	for id, snap := range r.tx.store.bookings {
		all[id] = snap
	}
	r.tx.store.mu.RUnlock()
	for id, snap := range r.tx.bookings {
		all[id] = snap
	}
	return all
}
