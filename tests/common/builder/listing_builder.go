//go:build unit || e2e

package builder

import (
	"time"

	"booking-engine/internal/domain/listing"
	"booking-engine/internal/domain/partnership"
	"booking-engine/internal/domain/pricing"
	reqdto "booking-engine/internal/handler/dto/request"
	"booking-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type ListingBuilder struct {
	ProviderID           uuid.UUID
	ServiceType          listing.ServiceType
	Title                string
	BasePriceCents       int64
	MaxSeats             int
	MaxGuests            int
	NegotiationEnabled   bool
	MinPriceCents        int64
	MaxPriceCents        int64
	OfferRates           map[partnership.Tier]float64
	OfferMinimumTier     partnership.Tier
	RequiresConfirmation bool
	Now                  time.Time
}

// NewRideListingBuilder: 4 seats at 20.00, negotiable between 15.00 and 25.00
func NewRideListingBuilder() *ListingBuilder {
	return &ListingBuilder{
		ProviderID:         uuid.New(),
		ServiceType:        listing.ServiceRide,
		Title:              "Airport shuttle",
		BasePriceCents:     2000,
		MaxSeats:           4,
		NegotiationEnabled: true,
		MinPriceCents:      1500,
		MaxPriceCents:      2500,
		Now:                time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

// NewStayListingBuilder: 100.00 per night with a 10% partnership discount from silver
func NewStayListingBuilder() *ListingBuilder {
	return &ListingBuilder{
		ProviderID:     uuid.New(),
		ServiceType:    listing.ServiceStay,
		Title:          "Harbour apartment",
		BasePriceCents: 10000,
		MaxGuests:      4,
		OfferRates: map[partnership.Tier]float64{
			partnership.TierSilver:   10,
			partnership.TierGold:     15,
			partnership.TierPlatinum: 20,
		},
		OfferMinimumTier: partnership.TierSilver,
		Now:              time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func NewEventListingBuilder() *ListingBuilder {
	return &ListingBuilder{
		ProviderID:     uuid.New(),
		ServiceType:    listing.ServiceEvent,
		Title:          "Harbour jazz night",
		BasePriceCents: 4500,
		MaxSeats:       10,
		Now:            time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (b *ListingBuilder) With(mutate func(*ListingBuilder)) *ListingBuilder {
	mutate(b)
	return b
}

func (b *ListingBuilder) WithoutOffer() *ListingBuilder {
	b.OfferRates = nil
	return b
}

// Build methods
func (b *ListingBuilder) BuildParams() listing.Params {
	p := listing.Params{
		ProviderID:           b.ProviderID,
		ServiceType:          b.ServiceType,
		Title:                b.Title,
		BasePrice:            pricing.MoneyFromCents(b.BasePriceCents),
		MaxSeats:             b.MaxSeats,
		MaxGuests:            b.MaxGuests,
		RequiresConfirmation: b.RequiresConfirmation,
	}
	if b.NegotiationEnabled {
		p.Negotiation = listing.NegotiationTerms{
			Enabled:  true,
			MinPrice: pricing.MoneyFromCents(b.MinPriceCents),
			MaxPrice: pricing.MoneyFromCents(b.MaxPriceCents),
		}
	}
	if b.OfferRates != nil {
		p.Offer = partnership.ReconstructOffer(true, b.OfferRates, b.OfferMinimumTier)
	}
	return p
}

func (b *ListingBuilder) BuildDomain() (*listing.Listing, error) {
	return listing.NewListing(b.BuildParams(), b.Now)
}

func (b *ListingBuilder) BuildRegisterRequestDTO() reqdto.RegisterListingRequest {
	req := reqdto.RegisterListingRequest{
		ServiceType:          b.ServiceType.String(),
		Title:                b.Title,
		BasePriceCents:       b.BasePriceCents,
		MaxSeats:             b.MaxSeats,
		MaxGuests:            b.MaxGuests,
		RequiresConfirmation: b.RequiresConfirmation,
	}
	if b.NegotiationEnabled {
		req.Negotiation = &reqdto.NegotiationTermsRequest{
			Enabled:       true,
			MinPriceCents: b.MinPriceCents,
			MaxPriceCents: b.MaxPriceCents,
		}
	}
	if b.OfferRates != nil {
		rates := make(map[string]float64, len(b.OfferRates))
		for tier, rate := range b.OfferRates {
			rates[tier.String()] = rate
		}
		req.Offer = &reqdto.OfferRequest{
			Enabled:     true,
			Rates:       rates,
			MinimumTier: b.OfferMinimumTier.String(),
		}
	}
	return req
}

func (b *ListingBuilder) BuildView() *queries.ListingView {
	l, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return queries.ToListingView(l)
}
