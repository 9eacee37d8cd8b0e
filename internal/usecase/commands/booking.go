package commands

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/commands/booking.go -package=commandsmock

import (
	"context"
	"log/slog"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/listing"
	"booking-engine/internal/domain/partnership"
	"booking-engine/internal/domain/pricing"
	"booking-engine/internal/infra"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrServiceTypeMismatch    = errs.Mark(errs.New("service type does not match the listing"), errs.ErrValidation)
	ErrInvalidDecision        = errs.Mark(errs.New("decision must be approve or reject"), errs.ErrValidation)
	ErrNegotiationOnlyRides   = errs.Mark(errs.New("only ride bookings can use a negotiated price"), errs.ErrNegotiationNotAllowed)
	ErrNegotiationUnavailable = errs.Mark(errs.New("negotiation cannot seed this booking"), errs.ErrNegotiationNotAllowed)
)

type CreateBookingInput struct {
	ListingID     uuid.UUID
	ServiceType   listing.ServiceType
	ScheduledAt   *time.Time
	Stay          *availability.Interval
	Quantity      int
	NegotiationID *uuid.UUID
	PaymentMethod string
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, customerID uuid.UUID, in CreateBookingInput) (*booking.Booking, error)
	DecideBooking(ctx context.Context, bookingID, providerID uuid.UUID, decision booking.Decision, reason string) (*booking.Booking, error)
	ConfirmBooking(ctx context.Context, bookingID, customerID uuid.UUID, paymentMethod string) (*booking.Booking, error)
	CancelBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*booking.Booking, error)
	CompleteBooking(ctx context.Context, bookingID uuid.UUID) (*booking.Booking, error)
}

type bookingCommandsImpl struct {
	uow     shared.UnitOfWork
	ledger  *inventoryLedgerImpl
	pricer  *pricing.Resolver
	drivers DriverCommands
	sink    shared.NotificationSink
	clock   clock.Clock
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	pricer *pricing.Resolver,
	drivers DriverCommands,
	sink shared.NotificationSink,
	clock clock.Clock,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:     uow,
		ledger:  &inventoryLedgerImpl{uow: uow, clock: clock},
		pricer:  pricer,
		drivers: drivers,
		sink:    sink,
		clock:   clock,
	}
}

// CreateBooking holds the listing lock across the capacity or overlap check
// and the insert, so two requests can never both take the last seat or the
// same nights.
func (c *bookingCommandsImpl) CreateBooking(ctx context.Context, customerID uuid.UUID, in CreateBookingInput) (*booking.Booking, error) {
	var created *booking.Booking
	err := c.uow.WithinListing(ctx, in.ListingID, func(ctx context.Context, tx shared.Tx) error {
		lst, err := tx.Listings().FindByID(ctx, in.ListingID)
		if err != nil {
			return repoErr(err, ErrListingNotFound)
		}
		if in.ServiceType != "" && in.ServiceType != lst.ServiceType() {
			return errs.Wrapf(ErrServiceTypeMismatch, "requested=%s listing=%s", in.ServiceType, lst.ServiceType())
		}

		req := booking.Request{
			CustomerID:    customerID,
			ScheduledAt:   in.ScheduledAt,
			Stay:          in.Stay,
			Quantity:      in.Quantity,
			NegotiationID: in.NegotiationID,
			PaymentMethod: in.PaymentMethod,
		}
		if err := req.Validate(lst); err != nil {
			return err
		}

		price, err := c.quote(ctx, tx, lst, req)
		if err != nil {
			return err
		}

		var tokenID *uuid.UUID
		if lst.ServiceType().UsesSeatInventory() {
			token, err := c.ledger.reserveTx(ctx, tx, lst, req.Quantity)
			if err != nil {
				return err
			}
			id := token.ID()
			tokenID = &id
		} else if err := c.checkStay(ctx, tx, lst, *req.Stay); err != nil {
			return err
		}

		b, err := booking.NewBooking(lst, req, price, tokenID, c.clock.Now())
		if err != nil {
			return err
		}
		if err := tx.Bookings().Create(ctx, b); err != nil {
			return repoErr(err, ErrBookingNotFound)
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "booking created",
		slog.String("booking_id", created.ID().String()),
		slog.String("listing_id", created.ListingID().String()),
		slog.String("service_type", created.ServiceType().String()),
		slog.Int64("total_cents", created.Price().Total.Cents()))
	notifyBooking(ctx, c.sink, created, shared.EventBookingCreated, &customerID)
	return created, nil
}

// quote resolves the price, reading the negotiation and the customer's tier
// inside the same locked section as the insert.
func (c *bookingCommandsImpl) quote(ctx context.Context, tx shared.Tx, lst *listing.Listing, req booking.Request) (pricing.Breakdown, error) {
	in := pricing.Input{
		BasePrice: lst.BasePrice(),
		Units:     req.BillableUnits(lst),
		Offer:     lst.Offer(),
	}

	if req.NegotiationID != nil {
		if lst.ServiceType() != listing.ServiceRide {
			return pricing.Breakdown{}, ErrNegotiationOnlyRides
		}
		n, err := tx.Negotiations().FindByID(ctx, *req.NegotiationID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return pricing.Breakdown{}, errs.Wrapf(ErrNegotiationUnavailable, "negotiation %s not found", *req.NegotiationID)
			}
			return pricing.Breakdown{}, repoErr(err, ErrNegotiationNotFound)
		}
		accepted, err := n.SeedPrice(lst.ID(), req.CustomerID, c.clock.Now())
		if err != nil {
			return pricing.Breakdown{}, err
		}
		used, err := tx.Bookings().ActiveForNegotiation(ctx, n.ID())
		if err != nil {
			return pricing.Breakdown{}, repoErr(err, ErrBookingNotFound)
		}
		if used {
			return pricing.Breakdown{}, ErrNegotiationReused
		}
		in.AcceptedPrice = &accepted
	}

	if lst.Offer() != nil {
		stats, err := tx.DriverStats().FindByDriverID(ctx, req.CustomerID)
		switch {
		case err == nil:
			in.Tier = tierOf(stats)
		case infra.IsKind(err, infra.KindNotFound):
		default:
			return pricing.Breakdown{}, repoErr(err, ErrDriverStatsNotFound)
		}
	}

	price, err := c.pricer.Resolve(in)
	if err != nil && errs.Is(err, errs.ErrInvalidDiscountConfiguration) {
		slog.ErrorContext(ctx, "pricing misconfigured",
			slog.String("listing_id", lst.ID().String()),
			slog.String("error", err.Error()))
	}
	return price, err
}

func (c *bookingCommandsImpl) checkStay(ctx context.Context, tx shared.Tx, lst *listing.Listing, stay availability.Interval) error {
	slots, err := tx.Bookings().ActiveStays(ctx, lst.ID())
	if err != nil {
		return repoErr(err, ErrBookingNotFound)
	}
	detector, err := availability.NewDetector(slots)
	if err != nil {
		return reportIntegrity(ctx, err, "overlap_index", slog.String("listing_id", lst.ID().String()))
	}
	conflict, err := detector.Conflicts(stay)
	if err != nil {
		return err
	}
	if conflict {
		return errs.Wrapf(availability.ErrOverlap, "listing=%s interval=%s", lst.ID(), stay)
	}
	return nil
}

func (c *bookingCommandsImpl) DecideBooking(
	ctx context.Context,
	bookingID, providerID uuid.UUID,
	decision booking.Decision,
	reason string,
) (*booking.Booking, error) {
	if !decision.IsValid() {
		return nil, ErrInvalidDecision
	}

	event := shared.EventBookingRejected
	b, err := c.transition(ctx, bookingID, func(ctx context.Context, tx shared.Tx, b *booking.Booking) error {
		now := c.clock.Now()
		if decision == booking.DecisionReject {
			if err := b.Reject(providerID, reason, now); err != nil {
				return err
			}
			return c.releaseHold(ctx, tx, b)
		}

		lst, err := tx.Listings().FindByID(ctx, b.ListingID())
		if err != nil {
			return repoErr(err, ErrListingNotFound)
		}
		if err := b.Approve(providerID, !lst.RequiresConfirmation(), now); err != nil {
			return err
		}
		event = shared.EventBookingApproved
		if b.Status() == booking.StatusConfirmed {
			event = shared.EventBookingConfirmed
			return c.commitHold(ctx, tx, b)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	notifyBooking(ctx, c.sink, b, event, &providerID)
	return b, nil
}

func (c *bookingCommandsImpl) ConfirmBooking(ctx context.Context, bookingID, customerID uuid.UUID, paymentMethod string) (*booking.Booking, error) {
	b, err := c.transition(ctx, bookingID, func(ctx context.Context, tx shared.Tx, b *booking.Booking) error {
		if err := b.Confirm(customerID, paymentMethod, c.clock.Now()); err != nil {
			return err
		}
		return c.commitHold(ctx, tx, b)
	})
	if err != nil {
		return nil, err
	}

	notifyBooking(ctx, c.sink, b, shared.EventBookingConfirmed, &customerID)
	return b, nil
}

func (c *bookingCommandsImpl) CancelBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*booking.Booking, error) {
	b, err := c.transition(ctx, bookingID, func(ctx context.Context, tx shared.Tx, b *booking.Booking) error {
		if err := b.Cancel(actorID, c.clock.Now()); err != nil {
			return err
		}
		return c.releaseHold(ctx, tx, b)
	})
	if err != nil {
		return nil, err
	}

	notifyBooking(ctx, c.sink, b, shared.EventBookingCancelled, &actorID)
	return b, nil
}

// CompleteBooking is driven by the delivery collaborator. Ride completions
// feed the driver's partnership tier once the booking is final.
func (c *bookingCommandsImpl) CompleteBooking(ctx context.Context, bookingID uuid.UUID) (*booking.Booking, error) {
	b, err := c.transition(ctx, bookingID, func(_ context.Context, _ shared.Tx, b *booking.Booking) error {
		return b.Complete(c.clock.Now())
	})
	if err != nil {
		return nil, err
	}

	notifyBooking(ctx, c.sink, b, shared.EventBookingCompleted, nil)

	if b.ServiceType() == listing.ServiceRide {
		if _, err := c.drivers.RecomputeDriverTier(ctx, b.ProviderID()); err != nil {
			if errs.Is(err, errs.ErrNotFound) {
				slog.InfoContext(ctx, "no driver stats to recompute",
					slog.String("driver_id", b.ProviderID().String()))
			} else {
				slog.WarnContext(ctx, "driver tier recompute failed",
					slog.String("driver_id", b.ProviderID().String()),
					slog.String("error", err.Error()))
			}
		}
	}
	return b, nil
}

// transition locks the booking's listing, re-reads the booking under the lock
// and persists it with a compare-and-swap on the status it was read with.
func (c *bookingCommandsImpl) transition(
	ctx context.Context,
	bookingID uuid.UUID,
	apply func(ctx context.Context, tx shared.Tx, b *booking.Booking) error,
) (*booking.Booking, error) {
	var listingID uuid.UUID
	err := c.uow.Read(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByID(ctx, bookingID)
		if err != nil {
			return repoErr(err, ErrBookingNotFound)
		}
		listingID = b.ListingID()
		return nil
	})
	if err != nil {
		return nil, err
	}

	var result *booking.Booking
	err = c.uow.WithinListing(ctx, listingID, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByID(ctx, bookingID)
		if err != nil {
			return repoErr(err, ErrBookingNotFound)
		}
		prev := b.Status()
		if err := apply(ctx, tx, b); err != nil {
			return err
		}
		if err := tx.Bookings().Update(ctx, b, prev); err != nil {
			return reportIntegrity(ctx, repoErr(err, ErrBookingNotFound), "booking_update",
				slog.String("listing_id", listingID.String()),
				slog.String("booking_id", bookingID.String()))
		}
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *bookingCommandsImpl) releaseHold(ctx context.Context, tx shared.Tx, b *booking.Booking) error {
	if b.TokenID() == nil {
		return nil
	}
	return c.ledger.releaseTx(ctx, tx, *b.TokenID())
}

func (c *bookingCommandsImpl) commitHold(ctx context.Context, tx shared.Tx, b *booking.Booking) error {
	if b.TokenID() == nil {
		return nil
	}
	return c.ledger.commitTx(ctx, tx, *b.TokenID())
}

func tierOf(stats *partnership.DriverStats) *partnership.Tier {
	if stats == nil {
		return nil
	}
	t := stats.PartnershipLevel()
	return &t
}
