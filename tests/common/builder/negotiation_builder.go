//go:build unit || e2e

package builder

import (
	"time"

	"booking-engine/internal/domain/listing"
	"booking-engine/internal/domain/negotiation"
	"booking-engine/internal/domain/pricing"
	reqdto "booking-engine/internal/handler/dto/request"

	"github.com/google/uuid"
)

type NegotiationBuilder struct {
	CustomerID    uuid.UUID
	ProposedCents int64
	TTL           time.Duration
	Now           time.Time
}

func NewNegotiationBuilder() *NegotiationBuilder {
	return &NegotiationBuilder{
		CustomerID:    uuid.New(),
		ProposedCents: 1800,
		TTL:           24 * time.Hour,
		Now:           time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (b *NegotiationBuilder) With(mutate func(*NegotiationBuilder)) *NegotiationBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *NegotiationBuilder) BuildDomain(l *listing.Listing) (*negotiation.Negotiation, error) {
	return negotiation.Propose(l, b.CustomerID, pricing.MoneyFromCents(b.ProposedCents), b.TTL, b.Now)
}

func (b *NegotiationBuilder) BuildProposeRequestDTO(listingID uuid.UUID) reqdto.ProposeNegotiationRequest {
	return reqdto.ProposeNegotiationRequest{
		ListingID:  listingID,
		PriceCents: b.ProposedCents,
	}
}
