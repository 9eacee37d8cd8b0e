package commands

import (
	"context"
	"log/slog"
	"time"

	"booking-engine/internal/domain/inventory"
	"booking-engine/internal/domain/listing"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// InventoryLedger owns the seat counters of ride and event listings. Each
// call runs in the listing's critical section, so concurrent reserves for
// the last seat cannot both succeed.
type InventoryLedger interface {
	Reserve(ctx context.Context, listingID uuid.UUID, quantity int) (*inventory.Token, error)
	// Release is idempotent; a second call for the same token credits nothing.
	Release(ctx context.Context, tokenID uuid.UUID) error
	Commit(ctx context.Context, tokenID uuid.UUID) error
}

type inventoryLedgerImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewInventoryLedger(uow shared.UnitOfWork, clock clock.Clock) InventoryLedger {
	return &inventoryLedgerImpl{uow: uow, clock: clock}
}

func (l *inventoryLedgerImpl) Reserve(ctx context.Context, listingID uuid.UUID, quantity int) (*inventory.Token, error) {
	var token *inventory.Token
	err := l.uow.WithinListing(ctx, listingID, func(ctx context.Context, tx shared.Tx) error {
		lst, err := tx.Listings().FindByID(ctx, listingID)
		if err != nil {
			return repoErr(err, ErrListingNotFound)
		}
		token, err = l.reserveTx(ctx, tx, lst, quantity)
		return err
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}

func (l *inventoryLedgerImpl) Release(ctx context.Context, tokenID uuid.UUID) error {
	listingID, err := l.tokenListing(ctx, tokenID)
	if err != nil {
		return err
	}
	return l.uow.WithinListing(ctx, listingID, func(ctx context.Context, tx shared.Tx) error {
		return l.releaseTx(ctx, tx, tokenID)
	})
}

func (l *inventoryLedgerImpl) Commit(ctx context.Context, tokenID uuid.UUID) error {
	listingID, err := l.tokenListing(ctx, tokenID)
	if err != nil {
		return err
	}
	return l.uow.WithinListing(ctx, listingID, func(ctx context.Context, tx shared.Tx) error {
		return l.commitTx(ctx, tx, tokenID)
	})
}

func (l *inventoryLedgerImpl) tokenListing(ctx context.Context, tokenID uuid.UUID) (uuid.UUID, error) {
	var listingID uuid.UUID
	err := l.uow.Read(ctx, func(ctx context.Context, tx shared.Tx) error {
		t, err := tx.Ledger().FindToken(ctx, tokenID)
		if err != nil {
			return repoErr(err, ErrTokenNotFound)
		}
		listingID = t.ListingID()
		return nil
	})
	return listingID, err
}

// reserveTx must run inside WithinListing for lst.
func (l *inventoryLedgerImpl) reserveTx(ctx context.Context, tx shared.Tx, lst *listing.Listing, quantity int) (*inventory.Token, error) {
	now := l.clock.Now()
	if err := lst.ReserveSeats(quantity, now); err != nil {
		return nil, reportIntegrity(ctx, err, string(inventory.OpReserve),
			slog.String("listing_id", lst.ID().String()),
			slog.String("seats", lst.Seats().String()))
	}
	if err := tx.Listings().UpdateSeats(ctx, lst); err != nil {
		return nil, repoErr(err, ErrListingNotFound)
	}

	token := inventory.NewToken(lst.ID(), quantity, now)
	if err := tx.Ledger().CreateToken(ctx, token); err != nil {
		return nil, repoErr(err, ErrTokenNotFound)
	}
	if err := l.appendEntry(ctx, tx, lst, inventory.OpReserve, token, now); err != nil {
		return nil, err
	}
	return token, nil
}

// releaseTx must run inside WithinListing for the token's listing.
func (l *inventoryLedgerImpl) releaseTx(ctx context.Context, tx shared.Tx, tokenID uuid.UUID) error {
	token, err := tx.Ledger().FindToken(ctx, tokenID)
	if err != nil {
		return repoErr(err, ErrTokenNotFound)
	}
	prev := token.Status()
	now := l.clock.Now()
	if !token.Release(now) {
		return nil
	}

	lst, err := tx.Listings().FindByID(ctx, token.ListingID())
	if err != nil {
		return repoErr(err, ErrListingNotFound)
	}
	if err := lst.ReleaseSeats(token.Quantity(), now); err != nil {
		return reportIntegrity(ctx, err, string(inventory.OpRelease),
			slog.String("listing_id", lst.ID().String()),
			slog.String("token_id", tokenID.String()),
			slog.String("seats", lst.Seats().String()))
	}
	if err := tx.Listings().UpdateSeats(ctx, lst); err != nil {
		return repoErr(err, ErrListingNotFound)
	}
	if err := tx.Ledger().UpdateToken(ctx, token, prev); err != nil {
		return repoErr(err, ErrTokenNotFound)
	}
	return l.appendEntry(ctx, tx, lst, inventory.OpRelease, token, now)
}

// commitTx must run inside WithinListing for the token's listing.
func (l *inventoryLedgerImpl) commitTx(ctx context.Context, tx shared.Tx, tokenID uuid.UUID) error {
	token, err := tx.Ledger().FindToken(ctx, tokenID)
	if err != nil {
		return repoErr(err, ErrTokenNotFound)
	}
	prev := token.Status()
	now := l.clock.Now()
	changed, err := token.Commit(now)
	if err != nil || !changed {
		return err
	}

	lst, err := tx.Listings().FindByID(ctx, token.ListingID())
	if err != nil {
		return repoErr(err, ErrListingNotFound)
	}
	if err := tx.Ledger().UpdateToken(ctx, token, prev); err != nil {
		return repoErr(err, ErrTokenNotFound)
	}
	return l.appendEntry(ctx, tx, lst, inventory.OpCommit, token, now)
}

func (l *inventoryLedgerImpl) appendEntry(ctx context.Context, tx shared.Tx, lst *listing.Listing, op inventory.Op, token *inventory.Token, now time.Time) error {
	last, err := tx.Ledger().LastSeq(ctx, lst.ID())
	if err != nil {
		return repoErr(err, ErrListingNotFound)
	}
	entry := inventory.Entry{
		ListingID:      lst.ID(),
		Seq:            last + 1,
		Op:             op,
		TokenID:        token.ID(),
		Quantity:       token.Quantity(),
		AvailableAfter: lst.Seats().Available,
		At:             now,
	}
	if err := tx.Ledger().Append(ctx, entry); err != nil {
		return repoErr(err, ErrListingNotFound)
	}

	slog.DebugContext(ctx, "ledger mutation",
		slog.String("listing_id", entry.ListingID.String()),
		slog.Int64("seq", entry.Seq),
		slog.String("op", string(entry.Op)),
		slog.Int("quantity", entry.Quantity),
		slog.Int("available_after", entry.AvailableAfter))
	return nil
}
