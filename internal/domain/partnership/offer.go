package partnership

import (
	"booking-engine/internal/pkg/errs"
)

var (
	ErrRateOutOfRange = errs.Mark(errs.New("partnership discount rate must be between 0 and 100"), errs.ErrInvalidDiscountConfiguration)
	ErrUnknownTier    = errs.Mark(errs.New("partnership offer references an unknown tier"), errs.ErrInvalidDiscountConfiguration)
)

// Offer is an accommodation's partnership program: a percentage discount per
// tier, granted to drivers at or above MinimumTier.
type Offer struct {
	enabled     bool
	rates       map[Tier]float64
	minimumTier Tier
}

// NewOffer validates the rate table. Tiers missing from rates discount nothing.
func NewOffer(enabled bool, rates map[Tier]float64, minimumTier Tier) (*Offer, error) {
	if !minimumTier.IsValid() {
		return nil, ErrUnknownTier
	}
	copied := make(map[Tier]float64, len(rates))
	for tier, rate := range rates {
		if !tier.IsValid() {
			return nil, ErrUnknownTier
		}
		if err := validateRate(rate); err != nil {
			return nil, err
		}
		copied[tier] = rate
	}
	return &Offer{enabled: enabled, rates: copied, minimumTier: minimumTier}, nil
}

// OfferFromFlatRate maps the flat driverDiscountRate shape onto a tiered offer
// that grants the same rate at every tier.
func OfferFromFlatRate(enabled bool, rate float64) (*Offer, error) {
	rates := make(map[Tier]float64, len(tierRank))
	for _, t := range Tiers() {
		rates[t] = rate
	}
	return NewOffer(enabled, rates, TierBronze)
}

// ReconstructOffer rebuilds a stored offer without validation so that a
// misconfigured row still surfaces at pricing time instead of disappearing.
func ReconstructOffer(enabled bool, rates map[Tier]float64, minimumTier Tier) *Offer {
	copied := make(map[Tier]float64, len(rates))
	for tier, rate := range rates {
		copied[tier] = rate
	}
	return &Offer{enabled: enabled, rates: copied, minimumTier: minimumTier}
}

func validateRate(rate float64) error {
	if rate < 0 || rate > 100 {
		return ErrRateOutOfRange
	}
	return nil
}

// Applies reports whether a driver at tier qualifies for any discount.
func (o *Offer) Applies(tier Tier) bool {
	return o != nil && o.enabled && tier.IsValid() && tier.AtLeast(o.minimumTier)
}

// RateForTier returns the percentage for tier. A stored rate outside [0,100]
// is reported instead of clamped.
func (o *Offer) RateForTier(tier Tier) (float64, error) {
	rate := o.rates[tier]
	if err := validateRate(rate); err != nil {
		return 0, err
	}
	return rate, nil
}

// FlatRate reports the single rate when the offer grants the same rate at
// every tier from bronze up, which is how the flat shape is persisted.
func (o *Offer) FlatRate() (float64, bool) {
	if o.minimumTier != TierBronze || len(o.rates) != len(tierRank) {
		return 0, false
	}
	rate := o.rates[TierBronze]
	for _, r := range o.rates {
		if r != rate {
			return 0, false
		}
	}
	return rate, true
}

func (o *Offer) Enabled() bool     { return o.enabled }
func (o *Offer) MinimumTier() Tier { return o.minimumTier }

func (o *Offer) Rates() map[Tier]float64 {
	copied := make(map[Tier]float64, len(o.rates))
	for tier, rate := range o.rates {
		copied[tier] = rate
	}
	return copied
}
