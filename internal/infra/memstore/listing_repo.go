package memstore

import (
	"context"

	"booking-engine/internal/domain/listing"
	"booking-engine/internal/infra"

	"github.com/google/uuid"
)

type listingRepo struct {
	tx *memTx
}

func (r *listingRepo) Create(_ context.Context, l *listing.Listing) error {
	if _, ok := lookup(r.tx.listings, r.tx.store.listings, &r.tx.store.mu, l.ID()); ok {
		return infra.NewRepoErr(infra.KindDuplicateKey, "listing already exists")
	}
	r.tx.listings[l.ID()] = cloneListing(l)
	return nil
}

func (r *listingRepo) FindByID(_ context.Context, id uuid.UUID) (*listing.Listing, error) {
	l, ok := lookup(r.tx.listings, r.tx.store.listings, &r.tx.store.mu, id)
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "listing not found")
	}
	return cloneListing(l), nil
}

func (r *listingRepo) UpdateSeats(_ context.Context, l *listing.Listing) error {
	if _, ok := lookup(r.tx.listings, r.tx.store.listings, &r.tx.store.mu, l.ID()); !ok {
		return infra.NewRepoErr(infra.KindNotFound, "listing not found")
	}
	r.tx.listings[l.ID()] = cloneListing(l)
	return nil
}
