package pricing

import (
	"booking-engine/internal/domain/partnership"
	"booking-engine/internal/pkg/errs"
)

var (
	ErrInvalidUnits     = errs.Mark(errs.New("billable units must be positive"), errs.ErrValidation)
	ErrNegativeTotal    = errs.Mark(errs.New("discount exceeds original price"), errs.ErrInvalidDiscountConfiguration)
	ErrNegativeDiscount = errs.Mark(errs.New("discount cannot be negative"), errs.ErrInvalidDiscountConfiguration)
)

// Breakdown holds Total = Original - Discount with Discount >= 0 and Total >= 0.
type Breakdown struct {
	Original Money
	Discount Money
	Total    Money
}

// Input is everything the resolver needs. AcceptedPrice is set only when an
// accepted negotiation seeds the booking; Tier is nil when the customer has
// no driver stats.
type Input struct {
	BasePrice     Money
	Units         int64
	AcceptedPrice *Money
	Offer         *partnership.Offer
	Tier          *partnership.Tier
}

type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

func (r *Resolver) Resolve(in Input) (Breakdown, error) {
	if in.Units <= 0 {
		return Breakdown{}, ErrInvalidUnits
	}

	unitPrice := in.BasePrice
	if in.AcceptedPrice != nil {
		unitPrice = *in.AcceptedPrice
	}
	original, err := unitPrice.Times(in.Units)
	if err != nil {
		return Breakdown{}, err
	}

	discount := Money{}
	if in.Tier != nil && in.Offer.Applies(*in.Tier) {
		rate, err := in.Offer.RateForTier(*in.Tier)
		if err != nil {
			return Breakdown{}, err
		}
		if discount, err = original.Percent(rate); err != nil {
			return Breakdown{}, errs.Mark(err, errs.ErrInvalidDiscountConfiguration)
		}
	}

	return NewBreakdown(original, discount)
}

// NewBreakdown enforces the price invariant. A violation means the inputs were
// misconfigured, so it is reported rather than clamped.
func NewBreakdown(original, discount Money) (Breakdown, error) {
	if discount.cents < 0 {
		return Breakdown{}, ErrNegativeDiscount
	}
	total := original.Sub(discount)
	if total.cents < 0 {
		return Breakdown{}, ErrNegativeTotal
	}
	return Breakdown{Original: original, Discount: discount, Total: total}, nil
}
