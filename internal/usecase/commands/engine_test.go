//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/identity"
	"booking-engine/internal/domain/listing"
	"booking-engine/internal/domain/negotiation"
	"booking-engine/internal/domain/partnership"
	"booking-engine/internal/domain/pricing"
	"booking-engine/internal/infra/memstore"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/shared"
	"booking-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const negotiationTTL = 24 * time.Hour

type recordingSink struct {
	mu     sync.Mutex
	events map[uuid.UUID][]shared.Event
}

func (s *recordingSink) Notify(_ context.Context, userID uuid.UUID, ev shared.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.events == nil {
		s.events = make(map[uuid.UUID][]shared.Event)
	}
	s.events[userID] = append(s.events[userID], ev)
}

func (s *recordingSink) typesFor(userID uuid.UUID) []shared.EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []shared.EventType
	for _, ev := range s.events[userID] {
		out = append(out, ev.Type)
	}
	return out
}

type engine struct {
	uow          shared.UnitOfWork
	clock        *clock.MockClock
	sink         *recordingSink
	listings     commands.ListingCommands
	bookings     commands.BookingCommands
	negotiations commands.NegotiationCommands
	drivers      commands.DriverCommands
	ledger       commands.InventoryLedger
}

func newEngine(t *testing.T) *engine {
	t.Helper()
	uow := memstore.NewUnitOfWork(memstore.New())
	clk := clock.NewMockClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	sink := &recordingSink{}
	drivers := commands.NewDriverCommands(uow, partnership.NewTierResolver(partnership.DefaultThresholds()), sink, clk)
	return &engine{
		uow:          uow,
		clock:        clk,
		sink:         sink,
		listings:     commands.NewListingCommands(uow, clk),
		bookings:     commands.NewBookingCommands(uow, pricing.NewResolver(), drivers, sink, clk),
		negotiations: commands.NewNegotiationCommands(uow, sink, clk, negotiationTTL),
		drivers:      drivers,
		ledger:       commands.NewInventoryLedger(uow, clk),
	}
}

func (e *engine) register(t *testing.T, b *builder.ListingBuilder) *listing.Listing {
	t.Helper()
	caller := identity.Caller{ID: b.ProviderID, Role: identity.RoleProvider, VerifiedProvider: true}
	l, err := e.listings.RegisterListing(context.Background(), caller, b.BuildParams())
	require.NoError(t, err)
	return l
}

func (e *engine) book(b *builder.BookingBuilder) (*booking.Booking, error) {
	in, err := b.BuildInput()
	if err != nil {
		return nil, err
	}
	return e.bookings.CreateBooking(context.Background(), b.CustomerID, in)
}

func (e *engine) seats(t *testing.T, listingID uuid.UUID) listing.SeatCapacity {
	t.Helper()
	var seats listing.SeatCapacity
	err := e.uow.Read(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		l, err := tx.Listings().FindByID(ctx, listingID)
		if err != nil {
			return err
		}
		seats = l.Seats()
		return nil
	})
	require.NoError(t, err)
	return seats
}

func (e *engine) bookingStatus(t *testing.T, id uuid.UUID) booking.Status {
	t.Helper()
	var status booking.Status
	err := e.uow.Read(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByID(ctx, id)
		if err != nil {
			return err
		}
		status = b.Status()
		return nil
	})
	require.NoError(t, err)
	return status
}

func TestRegisterListing(t *testing.T) {
	e := newEngine(t)

	t.Run("unverified providers are refused", func(t *testing.T) {
		b := builder.NewRideListingBuilder()
		caller := identity.Caller{ID: b.ProviderID, Role: identity.RoleProvider}
		_, err := e.listings.RegisterListing(context.Background(), caller, b.BuildParams())
		assert.ErrorIs(t, err, commands.ErrProviderNotVerified)
	})

	t.Run("provider id comes from the caller", func(t *testing.T) {
		b := builder.NewRideListingBuilder()
		params := b.BuildParams()
		params.ProviderID = uuid.New()
		caller := identity.Caller{ID: b.ProviderID, Role: identity.RoleProvider, VerifiedProvider: true}

		l, err := e.listings.RegisterListing(context.Background(), caller, params)
		require.NoError(t, err)
		assert.Equal(t, b.ProviderID, l.ProviderID())
	})

	t.Run("unit price that would wrap the booking total is refused", func(t *testing.T) {
		b := builder.NewRideListingBuilder().With(func(b *builder.ListingBuilder) {
			b.BasePriceCents = 1<<62 + 1000
			b.NegotiationEnabled = false
		})
		caller := identity.Caller{ID: b.ProviderID, Role: identity.RoleProvider, VerifiedProvider: true}
		_, err := e.listings.RegisterListing(context.Background(), caller, b.BuildParams())
		assert.ErrorIs(t, err, pricing.ErrAmountTooLarge)
		assert.True(t, errs.Is(err, errs.ErrValidation))
	})

	t.Run("largest unit price books at the exact total", func(t *testing.T) {
		l := e.register(t, builder.NewRideListingBuilder().With(func(b *builder.ListingBuilder) {
			b.BasePriceCents = pricing.MaxCents
			b.NegotiationEnabled = false
		}))
		created, err := e.book(builder.NewRideBookingBuilder(l.ID()).With(func(b *builder.BookingBuilder) { b.Quantity = 4 }))
		require.NoError(t, err)
		assert.Equal(t, 4*pricing.MaxCents, created.Price().Original.Cents())
		assert.Equal(t, 4*pricing.MaxCents, created.Price().Total.Cents())
	})
}

func TestInventoryLedger(t *testing.T) {
	ctx := context.Background()

	t.Run("three racers for two seats", func(t *testing.T) {
		e := newEngine(t)
		l := e.register(t, builder.NewEventListingBuilder().With(func(b *builder.ListingBuilder) { b.MaxSeats = 2 }))

		var wg sync.WaitGroup
		results := make(chan error, 3)
		for range 3 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := e.ledger.Reserve(ctx, l.ID(), 1)
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		succeeded, refused := 0, 0
		for err := range results {
			switch {
			case err == nil:
				succeeded++
			case errs.Is(err, errs.ErrInsufficientCapacity):
				refused++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 2, succeeded)
		assert.Equal(t, 1, refused)
		assert.Equal(t, listing.SeatCapacity{Max: 2, Available: 0}, e.seats(t, l.ID()))
	})

	t.Run("many racers never oversell", func(t *testing.T) {
		e := newEngine(t)
		l := e.register(t, builder.NewEventListingBuilder().With(func(b *builder.ListingBuilder) { b.MaxSeats = 10 }))

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
		)
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := e.ledger.Reserve(ctx, l.ID(), 1); err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 10, succeeded)
		assert.Equal(t, 0, e.seats(t, l.ID()).Available)
	})

	t.Run("release is idempotent and logged in order", func(t *testing.T) {
		e := newEngine(t)
		l := e.register(t, builder.NewEventListingBuilder())

		token, err := e.ledger.Reserve(ctx, l.ID(), 3)
		require.NoError(t, err)
		assert.Equal(t, 7, e.seats(t, l.ID()).Available)

		require.NoError(t, e.ledger.Release(ctx, token.ID()))
		require.NoError(t, e.ledger.Release(ctx, token.ID()))
		assert.Equal(t, 10, e.seats(t, l.ID()).Available, "second release credits nothing")

		err = e.ledger.Commit(ctx, token.ID())
		assert.True(t, errs.Is(err, errs.ErrInvalidTransition))

		var seqs []int64
		err = e.uow.Read(ctx, func(ctx context.Context, tx shared.Tx) error {
			entries, err := tx.Ledger().Entries(ctx, l.ID(), 0, 100)
			for _, en := range entries {
				seqs = append(seqs, en.Seq)
			}
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2}, seqs)
	})

	t.Run("unknown listing", func(t *testing.T) {
		e := newEngine(t)

		_, err := e.ledger.Reserve(ctx, uuid.New(), 1)
		assert.ErrorIs(t, err, commands.ErrListingNotFound)
	})
}

func TestCreateBooking_Stays(t *testing.T) {
	t.Run("touching stays are allowed and overlaps refused", func(t *testing.T) {
		e := newEngine(t)
		l := e.register(t, builder.NewStayListingBuilder())

		_, err := e.book(builder.NewStayBookingBuilder(l.ID()).Stay("2025-09-01", "2025-09-03"))
		require.NoError(t, err)

		_, err = e.book(builder.NewStayBookingBuilder(l.ID()).Stay("2025-09-02", "2025-09-04"))
		assert.True(t, errs.Is(err, errs.ErrDateConflict))

		_, err = e.book(builder.NewStayBookingBuilder(l.ID()).Stay("2025-09-03", "2025-09-05"))
		require.NoError(t, err)
	})

	t.Run("concurrent requests for the same nights", func(t *testing.T) {
		e := newEngine(t)
		l := e.register(t, builder.NewStayListingBuilder())

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
			conflicts int
		)
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := e.book(builder.NewStayBookingBuilder(l.ID()).Stay("2026-04-10", "2026-04-14"))
				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					succeeded++
				} else if errs.Is(err, errs.ErrDateConflict) {
					conflicts++
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, succeeded)
		assert.Equal(t, 19, conflicts)
	})

	t.Run("cancelling frees the nights", func(t *testing.T) {
		e := newEngine(t)
		l := e.register(t, builder.NewStayListingBuilder())
		req := builder.NewStayBookingBuilder(l.ID())

		b, err := e.book(req)
		require.NoError(t, err)
		_, err = e.bookings.CancelBooking(context.Background(), b.ID(), req.CustomerID)
		require.NoError(t, err)

		_, err = e.book(builder.NewStayBookingBuilder(l.ID()))
		assert.NoError(t, err)
	})

	t.Run("date and datetime stays are not mixed", func(t *testing.T) {
		e := newEngine(t)
		l := e.register(t, builder.NewStayListingBuilder())

		_, err := e.book(builder.NewStayBookingBuilder(l.ID()))
		require.NoError(t, err)

		_, err = e.book(builder.NewStayBookingBuilder(l.ID()).Stay("2026-05-01T14:00:00Z", "2026-05-03T10:00:00Z"))
		assert.True(t, errs.Is(err, errs.ErrGranularityMismatch))
	})

	t.Run("gold tier earns the partnership discount", func(t *testing.T) {
		e := newEngine(t)
		l := e.register(t, builder.NewStayListingBuilder())
		req := builder.NewStayBookingBuilder(l.ID())

		_, err := e.drivers.RecordStats(context.Background(), builder.NewDriverStatsBuilder().
			With(func(b *builder.DriverStatsBuilder) { b.DriverID = req.CustomerID }).BuildInput())
		require.NoError(t, err)

		b, err := e.book(req)
		require.NoError(t, err)
		assert.Equal(t, int64(30000), b.Price().Original.Cents())
		assert.Equal(t, int64(4500), b.Price().Discount.Cents())
		assert.Equal(t, int64(25500), b.Price().Total.Cents())
	})

	t.Run("service type must match the listing", func(t *testing.T) {
		e := newEngine(t)
		l := e.register(t, builder.NewStayListingBuilder())

		_, err := e.book(builder.NewStayBookingBuilder(l.ID()).With(func(b *builder.BookingBuilder) { b.ServiceType = listing.ServiceEvent }))
		assert.ErrorIs(t, err, commands.ErrServiceTypeMismatch)
	})
}

func TestCreateBooking_Seats(t *testing.T) {
	ctx := context.Background()

	t.Run("holds seats until rejected", func(t *testing.T) {
		e := newEngine(t)
		l := e.register(t, builder.NewRideListingBuilder())

		b, err := e.book(builder.NewRideBookingBuilder(l.ID()).With(func(b *builder.BookingBuilder) { b.Quantity = 3 }))
		require.NoError(t, err)
		require.NotNil(t, b.TokenID())
		assert.Equal(t, 1, e.seats(t, l.ID()).Available)

		_, err = e.book(builder.NewRideBookingBuilder(l.ID()).With(func(b *builder.BookingBuilder) { b.Quantity = 2 }))
		assert.True(t, errs.Is(err, errs.ErrInsufficientCapacity))

		rejected, err := e.bookings.DecideBooking(ctx, b.ID(), l.ProviderID(), booking.DecisionReject, "no luggage space")
		require.NoError(t, err)
		assert.Equal(t, booking.StatusRejected, rejected.Status())
		assert.Equal(t, 4, e.seats(t, l.ID()).Available)
	})

	t.Run("reject by another provider leaves the booking pending", func(t *testing.T) {
		e := newEngine(t)
		l := e.register(t, builder.NewRideListingBuilder())
		b, err := e.book(builder.NewRideBookingBuilder(l.ID()))
		require.NoError(t, err)

		_, err = e.bookings.DecideBooking(ctx, b.ID(), uuid.New(), booking.DecisionReject, "")
		assert.True(t, errs.Is(err, errs.ErrNotAuthorized))
		assert.Equal(t, booking.StatusPendingApproval, e.bookingStatus(t, b.ID()))
		assert.Equal(t, 3, e.seats(t, l.ID()).Available)
	})

	t.Run("approval auto-confirms without a confirmation step", func(t *testing.T) {
		e := newEngine(t)
		l := e.register(t, builder.NewEventListingBuilder())
		req := builder.NewEventBookingBuilder(l.ID())
		b, err := e.book(req)
		require.NoError(t, err)

		approved, err := e.bookings.DecideBooking(ctx, b.ID(), l.ProviderID(), booking.DecisionApprove, "")
		require.NoError(t, err)
		assert.Equal(t, booking.StatusConfirmed, approved.Status())
		assert.Contains(t, e.sink.typesFor(req.CustomerID), shared.EventBookingConfirmed)

		completed, err := e.bookings.CompleteBooking(ctx, b.ID())
		require.NoError(t, err)
		assert.Equal(t, booking.StatusCompleted, completed.Status())
		assert.Equal(t, 8, e.seats(t, l.ID()).Available, "completed bookings keep their seats")
	})

	t.Run("confirmation step then cancel returns seats", func(t *testing.T) {
		e := newEngine(t)
		l := e.register(t, builder.NewRideListingBuilder().With(func(b *builder.ListingBuilder) { b.RequiresConfirmation = true }))
		req := builder.NewRideBookingBuilder(l.ID())
		b, err := e.book(req)
		require.NoError(t, err)

		approved, err := e.bookings.DecideBooking(ctx, b.ID(), l.ProviderID(), booking.DecisionApprove, "")
		require.NoError(t, err)
		assert.Equal(t, booking.StatusApproved, approved.Status())

		_, err = e.bookings.ConfirmBooking(ctx, b.ID(), l.ProviderID(), "card")
		assert.True(t, errs.Is(err, errs.ErrNotAuthorized))

		confirmed, err := e.bookings.ConfirmBooking(ctx, b.ID(), req.CustomerID, "wallet")
		require.NoError(t, err)
		assert.Equal(t, booking.StatusConfirmed, confirmed.Status())
		assert.Equal(t, "wallet", confirmed.PaymentMethod())

		cancelled, err := e.bookings.CancelBooking(ctx, b.ID(), l.ProviderID())
		require.NoError(t, err)
		assert.Equal(t, booking.StatusCancelled, cancelled.Status())
		assert.Equal(t, 4, e.seats(t, l.ID()).Available)

		_, err = e.bookings.CancelBooking(ctx, b.ID(), req.CustomerID)
		assert.True(t, errs.Is(err, errs.ErrInvalidTransition))
		assert.Equal(t, 4, e.seats(t, l.ID()).Available)
	})

	t.Run("invalid decision", func(t *testing.T) {
		e := newEngine(t)

		_, err := e.bookings.DecideBooking(ctx, uuid.New(), uuid.New(), booking.Decision("maybe"), "")
		assert.ErrorIs(t, err, commands.ErrInvalidDecision)
	})

	t.Run("unknown booking", func(t *testing.T) {
		e := newEngine(t)

		_, err := e.bookings.CancelBooking(ctx, uuid.New(), uuid.New())
		assert.ErrorIs(t, err, commands.ErrBookingNotFound)
	})
}

func TestNegotiatedBooking(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*engine, *listing.Listing, *negotiation.Negotiation, uuid.UUID) {
		t.Helper()
		e := newEngine(t)
		l := e.register(t, builder.NewRideListingBuilder().With(func(b *builder.ListingBuilder) {
			b.BasePriceCents, b.MinPriceCents, b.MaxPriceCents = 1000, 500, 1500
		}))
		customerID := uuid.New()
		n, err := e.negotiations.Propose(ctx, customerID, l.ID(), pricing.MoneyFromCents(800))
		require.NoError(t, err)
		return e, l, n, customerID
	}

	t.Run("accepted price replaces the base price", func(t *testing.T) {
		e, l, n, customerID := setup(t)
		_, err := e.drivers.RecordStats(ctx, builder.NewDriverStatsBuilder().
			With(func(b *builder.DriverStatsBuilder) { b.DriverID = customerID }).BuildInput())
		require.NoError(t, err)

		accepted, err := e.negotiations.Accept(ctx, n.ID(), l.ProviderID())
		require.NoError(t, err)
		assert.Equal(t, negotiation.StatusAccepted, accepted.Status())

		nid := n.ID()
		b, err := e.book(builder.NewRideBookingBuilder(l.ID()).With(func(b *builder.BookingBuilder) {
			b.CustomerID = customerID
			b.NegotiationID = &nid
		}))
		require.NoError(t, err)
		assert.Equal(t, int64(800), b.Price().Original.Cents())
		assert.Equal(t, int64(0), b.Price().Discount.Cents())
		assert.Equal(t, int64(800), b.Price().Total.Cents())

		_, err = e.book(builder.NewRideBookingBuilder(l.ID()).With(func(b *builder.BookingBuilder) {
			b.CustomerID = customerID
			b.NegotiationID = &nid
		}))
		assert.ErrorIs(t, err, commands.ErrNegotiationReused)

		_, err = e.bookings.CancelBooking(ctx, b.ID(), customerID)
		require.NoError(t, err)
		_, err = e.book(builder.NewRideBookingBuilder(l.ID()).With(func(b *builder.BookingBuilder) {
			b.CustomerID = customerID
			b.NegotiationID = &nid
		}))
		assert.NoError(t, err, "a cancelled booking frees the negotiation")
	})

	t.Run("pending negotiations cannot seed", func(t *testing.T) {
		e, l, n, customerID := setup(t)

		nid := n.ID()
		_, err := e.book(builder.NewRideBookingBuilder(l.ID()).With(func(b *builder.BookingBuilder) {
			b.CustomerID = customerID
			b.NegotiationID = &nid
		}))
		assert.True(t, errs.Is(err, errs.ErrNegotiationNotAllowed))
		assert.Equal(t, 4, e.seats(t, l.ID()).Available, "failed bookings take nothing")
	})

	t.Run("another customer cannot use it", func(t *testing.T) {
		e, l, n, _ := setup(t)
		_, err := e.negotiations.Accept(ctx, n.ID(), l.ProviderID())
		require.NoError(t, err)

		nid := n.ID()
		_, err = e.book(builder.NewRideBookingBuilder(l.ID()).With(func(b *builder.BookingBuilder) { b.NegotiationID = &nid }))
		assert.True(t, errs.Is(err, errs.ErrNegotiationNotAllowed))
	})

	t.Run("counter then accept", func(t *testing.T) {
		e, l, n, customerID := setup(t)

		countered, err := e.negotiations.Counter(ctx, n.ID(), l.ProviderID(), pricing.MoneyFromCents(900))
		require.NoError(t, err)
		assert.Equal(t, negotiation.StatusCountered, countered.Status())

		accepted, err := e.negotiations.Accept(ctx, n.ID(), customerID)
		require.NoError(t, err)
		require.NotNil(t, accepted.AcceptedPrice())
		assert.Equal(t, int64(900), accepted.AcceptedPrice().Cents())
		assert.Equal(t, []shared.EventType{
			shared.EventNegotiationProposed,
			shared.EventNegotiationCountered,
			shared.EventNegotiationAccepted,
		}, e.sink.typesFor(l.ProviderID()))
	})

	t.Run("acting after expiry persists the expiry", func(t *testing.T) {
		e, l, n, customerID := setup(t)
		e.clock.Add(negotiationTTL)

		_, err := e.negotiations.Accept(ctx, n.ID(), l.ProviderID())
		assert.ErrorIs(t, err, negotiation.ErrExpired)

		got, err := e.negotiations.Get(ctx, n.ID(), customerID)
		require.NoError(t, err)
		assert.Equal(t, negotiation.StatusExpired, got.Status())
	})

	t.Run("strangers acting after expiry are refused and change nothing", func(t *testing.T) {
		e, l, n, _ := setup(t)
		e.clock.Add(negotiationTTL)
		stranger := uuid.New()

		_, err := e.negotiations.Accept(ctx, n.ID(), stranger)
		assert.ErrorIs(t, err, negotiation.ErrNotParticipant)
		_, err = e.negotiations.Reject(ctx, n.ID(), stranger)
		assert.ErrorIs(t, err, negotiation.ErrNotParticipant)
		_, err = e.negotiations.Counter(ctx, n.ID(), stranger, pricing.MoneyFromCents(900))
		assert.ErrorIs(t, err, negotiation.ErrNotParticipant)

		var stored *negotiation.Negotiation
		require.NoError(t, e.uow.Read(ctx, func(ctx context.Context, tx shared.Tx) error {
			stored, err = tx.Negotiations().FindByID(ctx, n.ID())
			return err
		}))
		assert.Equal(t, negotiation.StatusPending, stored.Status())
		assert.NotContains(t, e.sink.typesFor(l.ProviderID()), shared.EventNegotiationExpired)
	})

	t.Run("strangers cannot read it", func(t *testing.T) {
		e, _, n, _ := setup(t)

		_, err := e.negotiations.Get(ctx, n.ID(), uuid.New())
		assert.True(t, errs.Is(err, errs.ErrNotAuthorized))
	})
}

func TestExpireStale(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	l := e.register(t, builder.NewRideListingBuilder())

	var ids []uuid.UUID
	for range 3 {
		n, err := e.negotiations.Propose(ctx, uuid.New(), l.ID(), pricing.MoneyFromCents(1800))
		require.NoError(t, err)
		ids = append(ids, n.ID())
	}
	_, err := e.negotiations.Accept(ctx, ids[0], l.ProviderID())
	require.NoError(t, err)

	count, err := e.negotiations.ExpireStale(ctx, 10)
	require.NoError(t, err)
	assert.Zero(t, count, "nothing is due yet")

	e.clock.Add(negotiationTTL + time.Minute)
	count, err = e.negotiations.ExpireStale(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = e.negotiations.ExpireStale(ctx, 10)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDriverCommands(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)
	driverID := uuid.New()

	_, err := e.drivers.RecomputeDriverTier(ctx, driverID)
	assert.ErrorIs(t, err, commands.ErrDriverStatsNotFound)

	stats, err := e.drivers.RecordStats(ctx, builder.NewDriverStatsBuilder().
		With(func(b *builder.DriverStatsBuilder) { b.DriverID = driverID; b.TotalRides = 30 }).BuildInput())
	require.NoError(t, err)
	assert.Equal(t, partnership.TierSilver, stats.PartnershipLevel())
	assert.Equal(t, []shared.EventType{shared.EventDriverTierChanged}, e.sink.typesFor(driverID))

	stats, err = e.drivers.RecordStats(ctx, builder.NewDriverStatsBuilder().
		With(func(b *builder.DriverStatsBuilder) { b.DriverID = driverID; b.TotalRides = 120; b.AverageRating = 4.9 }).BuildInput())
	require.NoError(t, err)
	assert.Equal(t, partnership.TierPlatinum, stats.PartnershipLevel())

	stats, err = e.drivers.RecomputeDriverTier(ctx, driverID)
	require.NoError(t, err)
	assert.Equal(t, partnership.TierPlatinum, stats.PartnershipLevel())
	assert.Len(t, e.sink.typesFor(driverID), 2, "recompute without change is silent")
}
