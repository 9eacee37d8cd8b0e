package request

import (
	"github.com/google/uuid"
)

type ProposeNegotiationRequest struct {
	ListingID  uuid.UUID `json:"listingId" binding:"required"`
	PriceCents int64     `json:"priceCents" binding:"required"`
}

type CounterNegotiationRequest struct {
	PriceCents int64 `json:"priceCents" binding:"required"`
}
