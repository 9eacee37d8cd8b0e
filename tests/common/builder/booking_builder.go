//go:build unit || e2e

package builder

import (
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/listing"
	"booking-engine/internal/domain/pricing"
	reqdto "booking-engine/internal/handler/dto/request"
	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	CustomerID    uuid.UUID
	ListingID     uuid.UUID
	ServiceType   listing.ServiceType
	ScheduledAt   *time.Time
	CheckIn       string
	CheckOut      string
	Quantity      int
	NegotiationID *uuid.UUID
	PaymentMethod string
	Now           time.Time
}

func NewRideBookingBuilder(listingID uuid.UUID) *BookingBuilder {
	pickup := time.Date(2026, 3, 10, 7, 30, 0, 0, time.UTC)
	return &BookingBuilder{
		CustomerID:    uuid.New(),
		ListingID:     listingID,
		ServiceType:   listing.ServiceRide,
		ScheduledAt:   &pickup,
		Quantity:      1,
		PaymentMethod: "card",
		Now:           time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func NewStayBookingBuilder(listingID uuid.UUID) *BookingBuilder {
	return &BookingBuilder{
		CustomerID:    uuid.New(),
		ListingID:     listingID,
		ServiceType:   listing.ServiceStay,
		CheckIn:       "2026-03-01",
		CheckOut:      "2026-03-04",
		Quantity:      2,
		PaymentMethod: "card",
		Now:           time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC),
	}
}

func NewEventBookingBuilder(listingID uuid.UUID) *BookingBuilder {
	return &BookingBuilder{
		CustomerID:    uuid.New(),
		ListingID:     listingID,
		ServiceType:   listing.ServiceEvent,
		Quantity:      2,
		PaymentMethod: "card",
		Now:           time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) Stay(checkIn, checkOut string) *BookingBuilder {
	b.CheckIn = checkIn
	b.CheckOut = checkOut
	return b
}

// Build methods
func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		ListingID:     b.ListingID,
		ServiceType:   b.ServiceType.String(),
		ScheduledAt:   b.ScheduledAt,
		CheckIn:       b.CheckIn,
		CheckOut:      b.CheckOut,
		Quantity:      b.Quantity,
		NegotiationID: b.NegotiationID,
		PaymentMethod: b.PaymentMethod,
	}
}

func (b *BookingBuilder) BuildInput() (commands.CreateBookingInput, error) {
	return b.BuildCreateRequestDTO().ToInput()
}

// BuildDomain prices the booking at the listing's base price without discount.
func (b *BookingBuilder) BuildDomain(l *listing.Listing) (*booking.Booking, error) {
	in, err := b.BuildInput()
	if err != nil {
		return nil, err
	}
	req := booking.Request{
		CustomerID:    b.CustomerID,
		ScheduledAt:   in.ScheduledAt,
		Stay:          in.Stay,
		Quantity:      in.Quantity,
		NegotiationID: in.NegotiationID,
		PaymentMethod: in.PaymentMethod,
	}
	if err := req.Validate(l); err != nil {
		return nil, err
	}
	original, err := l.BasePrice().Times(req.BillableUnits(l))
	if err != nil {
		return nil, err
	}
	price, err := pricing.NewBreakdown(original, pricing.Money{})
	if err != nil {
		return nil, err
	}
	return booking.NewBooking(l, req, price, nil, b.Now)
}

func (b *BookingBuilder) BuildView(l *listing.Listing) *queries.BookingView {
	bk, err := b.BuildDomain(l)
	if err != nil {
		panic(err)
	}
	return queries.ToBookingView(bk)
}
