//go:build unit

package negotiation_test

import (
	"testing"
	"time"

	"booking-engine/internal/domain/listing"
	"booking-engine/internal/domain/negotiation"
	"booking-engine/internal/domain/pricing"
	"booking-engine/internal/pkg/errs"
	"booking-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ttl = 24 * time.Hour

func setup(t *testing.T) (*listing.Listing, *negotiation.Negotiation, time.Time) {
	t.Helper()
	l, err := builder.NewRideListingBuilder().BuildDomain()
	require.NoError(t, err)
	nb := builder.NewNegotiationBuilder()
	n, err := nb.BuildDomain(l)
	require.NoError(t, err)
	return l, n, nb.Now
}

func TestPropose(t *testing.T) {
	t.Run("opens pending with the listing price recorded", func(t *testing.T) {
		l, n, now := setup(t)

		assert.Equal(t, negotiation.StatusPending, n.Status())
		assert.Equal(t, l.ProviderID(), n.ProviderID())
		assert.Equal(t, l.BasePrice(), n.OriginalPrice())
		assert.Equal(t, int64(1800), n.CurrentPrice().Cents())
		assert.Equal(t, now.Add(ttl), n.ExpiresAt())
	})

	t.Run("disabled listing", func(t *testing.T) {
		l, err := builder.NewRideListingBuilder().With(func(b *builder.ListingBuilder) { b.NegotiationEnabled = false }).BuildDomain()
		require.NoError(t, err)

		_, err = builder.NewNegotiationBuilder().BuildDomain(l)
		assert.ErrorIs(t, err, negotiation.ErrNegotiationDisabled)
		assert.True(t, errs.Is(err, errs.ErrNegotiationNotAllowed))
	})

	t.Run("stays never negotiate", func(t *testing.T) {
		l, err := builder.NewStayListingBuilder().BuildDomain()
		require.NoError(t, err)

		_, err = builder.NewNegotiationBuilder().BuildDomain(l)
		assert.True(t, errs.Is(err, errs.ErrNegotiationNotAllowed))
	})

	for _, cents := range []int64{1499, 2501} {
		t.Run("outside range", func(t *testing.T) {
			l, err := builder.NewRideListingBuilder().BuildDomain()
			require.NoError(t, err)

			_, err = builder.NewNegotiationBuilder().With(func(b *builder.NegotiationBuilder) { b.ProposedCents = cents }).BuildDomain(l)
			assert.ErrorIs(t, err, negotiation.ErrPriceOutOfRange)
		})
	}

	t.Run("range bounds are inclusive", func(t *testing.T) {
		l, err := builder.NewRideListingBuilder().BuildDomain()
		require.NoError(t, err)

		for _, cents := range []int64{1500, 2500} {
			_, err := builder.NewNegotiationBuilder().With(func(b *builder.NegotiationBuilder) { b.ProposedCents = cents }).BuildDomain(l)
			assert.NoError(t, err)
		}
	})

	t.Run("provider cannot negotiate with themselves", func(t *testing.T) {
		l, err := builder.NewRideListingBuilder().BuildDomain()
		require.NoError(t, err)

		_, err = builder.NewNegotiationBuilder().With(func(b *builder.NegotiationBuilder) { b.CustomerID = l.ProviderID() }).BuildDomain(l)
		assert.ErrorIs(t, err, negotiation.ErrSelfNegotiation)
	})
}

func TestNegotiation_Actions(t *testing.T) {
	t.Run("provider accepts the proposal", func(t *testing.T) {
		l, n, now := setup(t)

		assert.ErrorIs(t, n.Accept(n.CustomerID(), now), negotiation.ErrOwnPriceAccept)
		require.NoError(t, n.Accept(l.ProviderID(), now))
		assert.Equal(t, negotiation.StatusAccepted, n.Status())
		require.NotNil(t, n.AcceptedPrice())
		assert.Equal(t, int64(1800), n.AcceptedPrice().Cents())
	})

	t.Run("customer accepts the counter", func(t *testing.T) {
		l, n, now := setup(t)
		later := now.Add(time.Hour)

		require.NoError(t, n.Counter(l.ProviderID(), pricing.MoneyFromCents(2100), l.Negotiation(), ttl, later))
		assert.Equal(t, negotiation.StatusCountered, n.Status())
		assert.Equal(t, later.Add(ttl), n.ExpiresAt(), "counter restarts the window")
		assert.Equal(t, int64(1800), n.ProposedPrice().Cents(), "proposal is kept")

		assert.ErrorIs(t, n.Accept(l.ProviderID(), later), negotiation.ErrOwnPriceAccept)
		require.NoError(t, n.Accept(n.CustomerID(), later))
		assert.Equal(t, int64(2100), n.CurrentPrice().Cents())
	})

	t.Run("only the provider counters", func(t *testing.T) {
		l, n, now := setup(t)

		err := n.Counter(n.CustomerID(), pricing.MoneyFromCents(1900), l.Negotiation(), ttl, now)
		assert.ErrorIs(t, err, negotiation.ErrOnlyProviderCounter)
		assert.True(t, errs.Is(err, errs.ErrNotAuthorized))
	})

	t.Run("one counter per negotiation", func(t *testing.T) {
		l, n, now := setup(t)
		require.NoError(t, n.Counter(l.ProviderID(), pricing.MoneyFromCents(2100), l.Negotiation(), ttl, now))

		err := n.Counter(l.ProviderID(), pricing.MoneyFromCents(2200), l.Negotiation(), ttl, now)
		assert.ErrorIs(t, err, negotiation.ErrNotCounterable)
	})

	t.Run("counter must stay in range", func(t *testing.T) {
		l, n, now := setup(t)

		err := n.Counter(l.ProviderID(), pricing.MoneyFromCents(3000), l.Negotiation(), ttl, now)
		assert.ErrorIs(t, err, negotiation.ErrPriceOutOfRange)
		assert.Equal(t, negotiation.StatusPending, n.Status())
	})

	t.Run("strangers are refused", func(t *testing.T) {
		_, n, now := setup(t)

		assert.ErrorIs(t, n.Reject(uuid.New(), now), negotiation.ErrNotParticipant)
		assert.ErrorIs(t, n.Accept(uuid.New(), now), negotiation.ErrNotParticipant)
	})

	t.Run("either party rejects", func(t *testing.T) {
		_, n, now := setup(t)

		require.NoError(t, n.Reject(n.CustomerID(), now))
		assert.Equal(t, negotiation.StatusRejected, n.Status())
	})

	t.Run("final negotiations are immutable", func(t *testing.T) {
		l, n, now := setup(t)
		require.NoError(t, n.Accept(l.ProviderID(), now))

		assert.ErrorIs(t, n.Reject(n.CustomerID(), now), negotiation.ErrAlreadyFinal)
		assert.ErrorIs(t, n.Counter(l.ProviderID(), pricing.MoneyFromCents(2000), l.Negotiation(), ttl, now), negotiation.ErrAlreadyFinal)
		assert.ErrorIs(t, n.Accept(n.CustomerID(), now), negotiation.ErrAlreadyFinal)
		assert.Equal(t, int64(1800), n.CurrentPrice().Cents())
	})
}

func TestNegotiation_Expiry(t *testing.T) {
	t.Run("acting after expiry expires it", func(t *testing.T) {
		l, n, now := setup(t)

		err := n.Accept(l.ProviderID(), now.Add(ttl))
		assert.ErrorIs(t, err, negotiation.ErrExpired)
		assert.Equal(t, negotiation.StatusExpired, n.Status())
	})

	t.Run("ExpireIfDue", func(t *testing.T) {
		_, n, now := setup(t)

		assert.False(t, n.ExpireIfDue(now.Add(ttl-time.Second)))
		assert.Equal(t, negotiation.StatusPending, n.Status())
		assert.True(t, n.ExpireIfDue(now.Add(ttl)))
		assert.Equal(t, negotiation.StatusExpired, n.Status())
		assert.False(t, n.ExpireIfDue(now.Add(2*ttl)), "already expired")
	})

	t.Run("accepted negotiations do not expire", func(t *testing.T) {
		l, n, now := setup(t)
		require.NoError(t, n.Accept(l.ProviderID(), now))

		assert.False(t, n.ExpireIfDue(now.Add(10*ttl)))
		assert.Equal(t, negotiation.StatusAccepted, n.Status())
	})
}

func TestNegotiation_SeedPrice(t *testing.T) {
	l, n, now := setup(t)

	_, err := n.SeedPrice(l.ID(), n.CustomerID(), now)
	assert.True(t, errs.Is(err, errs.ErrNegotiationNotAllowed), "pending cannot seed")

	require.NoError(t, n.Accept(l.ProviderID(), now))

	price, err := n.SeedPrice(l.ID(), n.CustomerID(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1800), price.Cents())

	_, err = n.SeedPrice(uuid.New(), n.CustomerID(), now)
	assert.True(t, errs.Is(err, errs.ErrNegotiationNotAllowed), "other listing")

	_, err = n.SeedPrice(l.ID(), uuid.New(), now)
	assert.True(t, errs.Is(err, errs.ErrNegotiationNotAllowed), "other customer")
}
