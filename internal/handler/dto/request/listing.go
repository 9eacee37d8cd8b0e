package request

import (
	"booking-engine/internal/domain/listing"
	"booking-engine/internal/domain/partnership"
	"booking-engine/internal/domain/pricing"
)

type NegotiationTermsRequest struct {
	Enabled       bool  `json:"enabled"`
	MinPriceCents int64 `json:"minPriceCents"`
	MaxPriceCents int64 `json:"maxPriceCents"`
}

// OfferRequest accepts either a per-tier table or a single flatRate.
type OfferRequest struct {
	Enabled     bool               `json:"enabled"`
	Rates       map[string]float64 `json:"rates,omitempty"`
	MinimumTier string             `json:"minimumTier,omitempty"`
	FlatRate    *float64           `json:"flatRate,omitempty"`
}

type RegisterListingRequest struct {
	ServiceType          string                   `json:"serviceType" binding:"required"`
	Title                string                   `json:"title" binding:"required"`
	BasePriceCents       int64                    `json:"basePriceCents"`
	MaxSeats             int                      `json:"maxSeats,omitempty"`
	MaxGuests            int                      `json:"maxGuests,omitempty"`
	Negotiation          *NegotiationTermsRequest `json:"negotiation,omitempty"`
	Offer                *OfferRequest            `json:"offer,omitempty"`
	RequiresConfirmation bool                     `json:"requiresConfirmation"`
}

// ToParams leaves ProviderID empty; the usecase takes it from the caller.
func (r RegisterListingRequest) ToParams() (listing.Params, error) {
	serviceType, err := listing.NewServiceType(r.ServiceType)
	if err != nil {
		return listing.Params{}, err
	}
	basePrice, err := pricing.NewMoney(r.BasePriceCents)
	if err != nil {
		return listing.Params{}, err
	}

	params := listing.Params{
		ServiceType:          serviceType,
		Title:                r.Title,
		BasePrice:            basePrice,
		MaxSeats:             r.MaxSeats,
		MaxGuests:            r.MaxGuests,
		RequiresConfirmation: r.RequiresConfirmation,
	}

	if n := r.Negotiation; n != nil && n.Enabled {
		minPrice, err := pricing.NewMoney(n.MinPriceCents)
		if err != nil {
			return listing.Params{}, err
		}
		maxPrice, err := pricing.NewMoney(n.MaxPriceCents)
		if err != nil {
			return listing.Params{}, err
		}
		params.Negotiation = listing.NegotiationTerms{Enabled: true, MinPrice: minPrice, MaxPrice: maxPrice}
	}

	if r.Offer != nil {
		offer, err := r.Offer.toDomain()
		if err != nil {
			return listing.Params{}, err
		}
		params.Offer = offer
	}

	return params, nil
}

func (o OfferRequest) toDomain() (*partnership.Offer, error) {
	if o.FlatRate != nil {
		return partnership.OfferFromFlatRate(o.Enabled, *o.FlatRate)
	}

	rates := make(map[partnership.Tier]float64, len(o.Rates))
	for name, rate := range o.Rates {
		tier, err := partnership.NewTier(name)
		if err != nil {
			return nil, err
		}
		rates[tier] = rate
	}
	minimum := partnership.TierBronze
	if o.MinimumTier != "" {
		tier, err := partnership.NewTier(o.MinimumTier)
		if err != nil {
			return nil, err
		}
		minimum = tier
	}
	return partnership.NewOffer(o.Enabled, rates, minimum)
}

type LedgerQuery struct {
	AfterSeq int64 `form:"afterSeq"`
	Limit    int   `form:"limit"`
}

type AvailabilityQuery struct {
	CheckIn  string `form:"checkIn" binding:"required"`
	CheckOut string `form:"checkOut" binding:"required"`
}

type ListQuery struct {
	Limit int `form:"limit"`
}
