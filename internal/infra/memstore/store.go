// Package memstore keeps engine state in process memory. Each listing has
// its own lock; a transaction stages its writes and publishes them in one
// step on commit, so a failed operation leaves nothing behind.
package memstore

import (
	"context"
	"sync"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/inventory"
	"booking-engine/internal/domain/listing"
	"booking-engine/internal/domain/negotiation"
	"booking-engine/internal/domain/partnership"
	"booking-engine/internal/pkg/keylock"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex // guards the committed maps below

	listings     map[uuid.UUID]*listing.Listing
	bookings     map[uuid.UUID]booking.Snapshot
	byListing    map[uuid.UUID][]uuid.UUID
	negotiations map[uuid.UUID]*negotiation.Negotiation
	stats        map[uuid.UUID]*partnership.DriverStats
	tokens       map[uuid.UUID]*inventory.Token
	entries      map[uuid.UUID][]inventory.Entry

	listingLocks *keylock.Locker[uuid.UUID]
	unscoped     sync.Mutex
}

func New() *Store {
	return &Store{
		listings:     make(map[uuid.UUID]*listing.Listing),
		bookings:     make(map[uuid.UUID]booking.Snapshot),
		byListing:    make(map[uuid.UUID][]uuid.UUID),
		negotiations: make(map[uuid.UUID]*negotiation.Negotiation),
		stats:        make(map[uuid.UUID]*partnership.DriverStats),
		tokens:       make(map[uuid.UUID]*inventory.Token),
		entries:      make(map[uuid.UUID][]inventory.Entry),
		listingLocks: keylock.New[uuid.UUID](),
	}
}

type memUoW struct {
	store *Store
}

func NewUnitOfWork(s *Store) shared.UnitOfWork {
	return &memUoW{store: s}
}

func (u *memUoW) WithinListing(ctx context.Context, listingID uuid.UUID, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	unlock := u.store.listingLocks.Lock(listingID)
	defer unlock()
	return u.run(ctx, fn)
}

func (u *memUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u.store.unscoped.Lock()
	defer u.store.unscoped.Unlock()
	return u.run(ctx, fn)
}

func (u *memUoW) Read(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, newTx(u.store))
}

func (u *memUoW) run(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	tx := newTx(u.store)
	if err := fn(ctx, tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}
