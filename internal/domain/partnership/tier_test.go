//go:build unit

package partnership_test

import (
	"testing"
	"time"

	"booking-engine/internal/domain/partnership"
	"booking-engine/internal/pkg/errs"
	"booking-engine/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tierFor(rides int, rating float64) partnership.Tier {
	return builder.NewDriverStatsBuilder().With(func(b *builder.DriverStatsBuilder) {
		b.TotalRides = rides
		b.AverageRating = rating
	}).BuildDomain().PartnershipLevel()
}

func TestTierResolver(t *testing.T) {
	tests := []struct {
		name   string
		rides  int
		rating float64
		want   partnership.Tier
	}{
		{name: "new driver", rides: 0, rating: 0, want: partnership.TierBronze},
		{name: "just below silver", rides: 24, rating: 5.0, want: partnership.TierBronze},
		{name: "silver threshold", rides: 25, rating: 0, want: partnership.TierSilver},
		{name: "gold rides without gold rating", rides: 50, rating: 4.49, want: partnership.TierSilver},
		{name: "gold threshold", rides: 50, rating: 4.5, want: partnership.TierGold},
		{name: "platinum rides without platinum rating", rides: 100, rating: 4.69, want: partnership.TierGold},
		{name: "platinum threshold", rides: 100, rating: 4.7, want: partnership.TierPlatinum},
		{name: "many rides poor rating", rides: 500, rating: 3.0, want: partnership.TierSilver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tierFor(tt.rides, tt.rating))
		})
	}
}

func TestTierResolver_Monotonic(t *testing.T) {
	rides := []int{0, 10, 24, 25, 49, 50, 99, 100, 150}
	ratings := []float64{0, 3.0, 4.49, 4.5, 4.69, 4.7, 5.0}

	for i, r := range rides {
		for j, rt := range ratings {
			base := tierFor(r, rt)
			if i+1 < len(rides) {
				more := tierFor(rides[i+1], rt)
				assert.True(t, more.AtLeast(base), "rides %d->%d at rating %.2f lowered %s to %s", r, rides[i+1], rt, base, more)
			}
			if j+1 < len(ratings) {
				better := tierFor(r, ratings[j+1])
				assert.True(t, better.AtLeast(base), "rating %.2f->%.2f at %d rides lowered %s to %s", rt, ratings[j+1], r, base, better)
			}
		}
	}
}

func TestDriverStats_Apply(t *testing.T) {
	resolver := partnership.NewTierResolver(partnership.DefaultThresholds())
	b := builder.NewDriverStatsBuilder().With(func(b *builder.DriverStatsBuilder) {
		b.TotalRides = 30
		b.AverageRating = 4.9
	})
	stats := b.BuildDomain()
	require.Equal(t, partnership.TierSilver, stats.PartnershipLevel())

	t.Run("unchanged tier reports no change", func(t *testing.T) {
		in := b.BuildInput()
		in.TotalRides = 31
		assert.False(t, stats.Apply(resolver, in, b.Now.Add(time.Hour)))
		assert.Equal(t, 31, stats.TotalRides())
	})

	t.Run("crossing a threshold reports the change", func(t *testing.T) {
		in := b.BuildInput()
		in.TotalRides = 120
		assert.True(t, stats.Apply(resolver, in, b.Now.Add(2*time.Hour)))
		assert.Equal(t, partnership.TierPlatinum, stats.PartnershipLevel())
	})

	t.Run("recompute with new thresholds", func(t *testing.T) {
		strict := partnership.NewTierResolver(partnership.Thresholds{
			SilverMinRides:    200,
			GoldMinRides:      300,
			GoldMinRating:     4.9,
			PlatinumMinRides:  400,
			PlatinumMinRating: 4.95,
		})
		assert.True(t, stats.Recompute(strict, b.Now.Add(3*time.Hour)))
		assert.Equal(t, partnership.TierBronze, stats.PartnershipLevel())
		assert.False(t, stats.Recompute(strict, b.Now.Add(4*time.Hour)))
	})
}

func TestOffer(t *testing.T) {
	t.Run("rejects rates outside 0..100", func(t *testing.T) {
		_, err := partnership.NewOffer(true, map[partnership.Tier]float64{partnership.TierGold: 101}, partnership.TierBronze)
		assert.ErrorIs(t, err, partnership.ErrRateOutOfRange)
		assert.True(t, errs.Is(err, errs.ErrInvalidDiscountConfiguration))

		_, err = partnership.NewOffer(true, map[partnership.Tier]float64{partnership.TierGold: -1}, partnership.TierBronze)
		assert.ErrorIs(t, err, partnership.ErrRateOutOfRange)
	})

	t.Run("rejects unknown tiers", func(t *testing.T) {
		_, err := partnership.NewOffer(true, map[partnership.Tier]float64{"diamond": 5}, partnership.TierBronze)
		assert.ErrorIs(t, err, partnership.ErrUnknownTier)

		_, err = partnership.NewOffer(true, nil, "diamond")
		assert.ErrorIs(t, err, partnership.ErrUnknownTier)
	})

	t.Run("applies from the minimum tier up", func(t *testing.T) {
		offer, err := partnership.NewOffer(true, map[partnership.Tier]float64{partnership.TierGold: 15}, partnership.TierSilver)
		require.NoError(t, err)

		assert.False(t, offer.Applies(partnership.TierBronze))
		assert.True(t, offer.Applies(partnership.TierSilver))
		assert.True(t, offer.Applies(partnership.TierPlatinum))

		rate, err := offer.RateForTier(partnership.TierSilver)
		require.NoError(t, err)
		assert.Zero(t, rate, "tiers missing from the table discount nothing")
	})

	t.Run("disabled and nil offers never apply", func(t *testing.T) {
		offer, err := partnership.NewOffer(false, map[partnership.Tier]float64{partnership.TierGold: 15}, partnership.TierBronze)
		require.NoError(t, err)
		assert.False(t, offer.Applies(partnership.TierGold))

		var none *partnership.Offer
		assert.False(t, none.Applies(partnership.TierGold))
	})

	t.Run("stored misconfiguration surfaces at pricing time", func(t *testing.T) {
		offer := partnership.ReconstructOffer(true, map[partnership.Tier]float64{partnership.TierGold: 120}, partnership.TierBronze)
		_, err := offer.RateForTier(partnership.TierGold)
		assert.True(t, errs.Is(err, errs.ErrInvalidDiscountConfiguration))
	})

	t.Run("flat rate round trip", func(t *testing.T) {
		flat, err := partnership.OfferFromFlatRate(true, 12.5)
		require.NoError(t, err)
		rate, ok := flat.FlatRate()
		assert.True(t, ok)
		assert.Equal(t, 12.5, rate)

		tiered, err := partnership.NewOffer(true, map[partnership.Tier]float64{partnership.TierGold: 15}, partnership.TierBronze)
		require.NoError(t, err)
		_, ok = tiered.FlatRate()
		assert.False(t, ok)
	})
}
