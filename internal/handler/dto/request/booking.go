package request

import (
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/listing"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/commands"

	"github.com/google/uuid"
)

var ErrIncompleteStay = errs.Mark(errs.New("checkIn and checkOut must be given together"), errs.ErrValidation)

type CreateBookingRequest struct {
	ListingID     uuid.UUID  `json:"listingId" binding:"required"`
	ServiceType   string     `json:"serviceType" binding:"required"`
	ScheduledAt   *time.Time `json:"scheduledAt,omitempty"`
	CheckIn       string     `json:"checkIn,omitempty"`
	CheckOut      string     `json:"checkOut,omitempty"`
	Quantity      int        `json:"quantity" binding:"required"`
	NegotiationID *uuid.UUID `json:"negotiationId,omitempty"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
}

func (r CreateBookingRequest) ToInput() (commands.CreateBookingInput, error) {
	serviceType, err := listing.NewServiceType(r.ServiceType)
	if err != nil {
		return commands.CreateBookingInput{}, err
	}

	in := commands.CreateBookingInput{
		ListingID:     r.ListingID,
		ServiceType:   serviceType,
		ScheduledAt:   r.ScheduledAt,
		Quantity:      r.Quantity,
		NegotiationID: r.NegotiationID,
		PaymentMethod: r.PaymentMethod,
	}

	switch {
	case r.CheckIn == "" && r.CheckOut == "":
	case r.CheckIn == "" || r.CheckOut == "":
		return commands.CreateBookingInput{}, ErrIncompleteStay
	default:
		stay, err := availability.ParseInterval(r.CheckIn, r.CheckOut)
		if err != nil {
			return commands.CreateBookingInput{}, err
		}
		in.Stay = &stay
	}

	return in, nil
}

type DecisionRequest struct {
	Decision string `json:"decision" binding:"required"`
	Reason   string `json:"reason,omitempty"`
}

type ConfirmBookingRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"required"`
}
