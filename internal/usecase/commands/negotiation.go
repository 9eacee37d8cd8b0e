package commands

//go:generate mockgen -source=negotiation.go -destination=../../../tests/mock/commands/negotiation.go -package=commandsmock

import (
	"context"
	"log/slog"
	"time"

	"booking-engine/internal/domain/negotiation"
	"booking-engine/internal/domain/pricing"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type NegotiationCommands interface {
	Propose(ctx context.Context, customerID, listingID uuid.UUID, price pricing.Money) (*negotiation.Negotiation, error)
	Counter(ctx context.Context, negotiationID, actorID uuid.UUID, price pricing.Money) (*negotiation.Negotiation, error)
	Accept(ctx context.Context, negotiationID, actorID uuid.UUID) (*negotiation.Negotiation, error)
	Reject(ctx context.Context, negotiationID, actorID uuid.UUID) (*negotiation.Negotiation, error)
	// Get applies lazy expiry before returning the negotiation to a participant.
	Get(ctx context.Context, negotiationID, actorID uuid.UUID) (*negotiation.Negotiation, error)
	// ExpireStale moves up to limit overdue negotiations to expired.
	ExpireStale(ctx context.Context, limit int) (int, error)
}

type negotiationCommandsImpl struct {
	uow   shared.UnitOfWork
	sink  shared.NotificationSink
	clock clock.Clock
	ttl   time.Duration
}

func NewNegotiationCommands(uow shared.UnitOfWork, sink shared.NotificationSink, clock clock.Clock, ttl time.Duration) NegotiationCommands {
	return &negotiationCommandsImpl{uow: uow, sink: sink, clock: clock, ttl: ttl}
}

func (c *negotiationCommandsImpl) Propose(ctx context.Context, customerID, listingID uuid.UUID, price pricing.Money) (*negotiation.Negotiation, error) {
	var created *negotiation.Negotiation
	err := c.uow.WithinListing(ctx, listingID, func(ctx context.Context, tx shared.Tx) error {
		lst, err := tx.Listings().FindByID(ctx, listingID)
		if err != nil {
			return repoErr(err, ErrListingNotFound)
		}
		n, err := negotiation.Propose(lst, customerID, price, c.ttl, c.clock.Now())
		if err != nil {
			return err
		}
		if err := tx.Negotiations().Create(ctx, n); err != nil {
			return repoErr(err, ErrNegotiationNotFound)
		}
		created = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	notifyNegotiation(ctx, c.sink, created, shared.EventNegotiationProposed, &customerID)
	return created, nil
}

func (c *negotiationCommandsImpl) Counter(ctx context.Context, negotiationID, actorID uuid.UUID, price pricing.Money) (*negotiation.Negotiation, error) {
	n, err := c.transition(ctx, negotiationID, actorID, func(ctx context.Context, tx shared.Tx, n *negotiation.Negotiation) error {
		lst, err := tx.Listings().FindByID(ctx, n.ListingID())
		if err != nil {
			return repoErr(err, ErrListingNotFound)
		}
		return n.Counter(actorID, price, lst.Negotiation(), c.ttl, c.clock.Now())
	})
	if err != nil {
		return nil, err
	}
	notifyNegotiation(ctx, c.sink, n, shared.EventNegotiationCountered, &actorID)
	return n, nil
}

func (c *negotiationCommandsImpl) Accept(ctx context.Context, negotiationID, actorID uuid.UUID) (*negotiation.Negotiation, error) {
	n, err := c.transition(ctx, negotiationID, actorID, func(_ context.Context, _ shared.Tx, n *negotiation.Negotiation) error {
		return n.Accept(actorID, c.clock.Now())
	})
	if err != nil {
		return nil, err
	}
	notifyNegotiation(ctx, c.sink, n, shared.EventNegotiationAccepted, &actorID)
	return n, nil
}

func (c *negotiationCommandsImpl) Reject(ctx context.Context, negotiationID, actorID uuid.UUID) (*negotiation.Negotiation, error) {
	n, err := c.transition(ctx, negotiationID, actorID, func(_ context.Context, _ shared.Tx, n *negotiation.Negotiation) error {
		return n.Reject(actorID, c.clock.Now())
	})
	if err != nil {
		return nil, err
	}
	notifyNegotiation(ctx, c.sink, n, shared.EventNegotiationRejected, &actorID)
	return n, nil
}

func (c *negotiationCommandsImpl) Get(ctx context.Context, negotiationID, actorID uuid.UUID) (*negotiation.Negotiation, error) {
	n, err := c.load(ctx, negotiationID)
	if err != nil {
		return nil, err
	}
	if _, err := n.PartyOf(actorID); err != nil {
		return nil, err
	}
	if n.Status().IsTerminal() || c.clock.Now().Before(n.ExpiresAt()) {
		return n, nil
	}

	expired, err := c.expire(ctx, n.ListingID(), negotiationID)
	if err != nil {
		return nil, err
	}
	if expired != nil {
		return expired, nil
	}
	return c.load(ctx, negotiationID)
}

func (c *negotiationCommandsImpl) ExpireStale(ctx context.Context, limit int) (int, error) {
	var stale []*negotiation.Negotiation
	err := c.uow.Read(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		stale, err = tx.Negotiations().ListStale(ctx, c.clock.Now(), limit)
		return repoErr(err, ErrNegotiationNotFound)
	})
	if err != nil {
		return 0, err
	}

	count := 0
	for _, n := range stale {
		expired, err := c.expire(ctx, n.ListingID(), n.ID())
		if err != nil {
			return count, err
		}
		if expired != nil {
			count++
		}
	}
	return count, nil
}

// expire persists lazy expiry under the listing lock. It returns nil when the
// negotiation was no longer due.
func (c *negotiationCommandsImpl) expire(ctx context.Context, listingID, negotiationID uuid.UUID) (*negotiation.Negotiation, error) {
	var expired *negotiation.Negotiation
	err := c.uow.WithinListing(ctx, listingID, func(ctx context.Context, tx shared.Tx) error {
		n, err := tx.Negotiations().FindByID(ctx, negotiationID)
		if err != nil {
			return repoErr(err, ErrNegotiationNotFound)
		}
		prev := n.Status()
		if !n.ExpireIfDue(c.clock.Now()) {
			return nil
		}
		if err := tx.Negotiations().Update(ctx, n, prev); err != nil {
			return repoErr(err, ErrNegotiationNotFound)
		}
		expired = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	if expired != nil {
		slog.InfoContext(ctx, "negotiation expired",
			slog.String("negotiation_id", negotiationID.String()),
			slog.String("listing_id", listingID.String()))
		notifyNegotiation(ctx, c.sink, expired, shared.EventNegotiationExpired, nil)
	}
	return expired, nil
}

// transition expires an overdue negotiation before applying the change, and
// commits the expiry even though the change itself is refused.
// transition refuses non-participants before lazy expiry can be persisted.
func (c *negotiationCommandsImpl) transition(
	ctx context.Context,
	negotiationID, actorID uuid.UUID,
	apply func(ctx context.Context, tx shared.Tx, n *negotiation.Negotiation) error,
) (*negotiation.Negotiation, error) {
	current, err := c.load(ctx, negotiationID)
	if err != nil {
		return nil, err
	}
	listingID := current.ListingID()

	var result *negotiation.Negotiation
	expired := false
	err = c.uow.WithinListing(ctx, listingID, func(ctx context.Context, tx shared.Tx) error {
		expired = false
		n, err := tx.Negotiations().FindByID(ctx, negotiationID)
		if err != nil {
			return repoErr(err, ErrNegotiationNotFound)
		}
		if _, err := n.PartyOf(actorID); err != nil {
			return err
		}
		prev := n.Status()
		if n.ExpireIfDue(c.clock.Now()) {
			expired = true
		} else if err := apply(ctx, tx, n); err != nil {
			return err
		}
		if err := tx.Negotiations().Update(ctx, n, prev); err != nil {
			return reportIntegrity(ctx, repoErr(err, ErrNegotiationNotFound), "negotiation_update",
				slog.String("listing_id", listingID.String()),
				slog.String("negotiation_id", negotiationID.String()))
		}
		result = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	if expired {
		notifyNegotiation(ctx, c.sink, result, shared.EventNegotiationExpired, nil)
		return nil, errs.Wrapf(negotiation.ErrExpired, "expired at %s", result.ExpiresAt().Format(time.RFC3339))
	}
	return result, nil
}

func (c *negotiationCommandsImpl) load(ctx context.Context, negotiationID uuid.UUID) (*negotiation.Negotiation, error) {
	var n *negotiation.Negotiation
	err := c.uow.Read(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		n, err = tx.Negotiations().FindByID(ctx, negotiationID)
		return repoErr(err, ErrNegotiationNotFound)
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}
