package queries

import (
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/inventory"
	"booking-engine/internal/domain/listing"
	"booking-engine/internal/domain/negotiation"
	"booking-engine/internal/domain/partnership"
	"booking-engine/internal/domain/pricing"

	"github.com/google/uuid"
)

type PriceView struct {
	OriginalCents int64 `json:"originalCents"`
	DiscountCents int64 `json:"discountCents"`
	TotalCents    int64 `json:"totalCents"`
}

type StayView struct {
	CheckIn     string `json:"checkIn"`
	CheckOut    string `json:"checkOut"`
	Granularity string `json:"granularity"`
	Nights      int64  `json:"nights"`
}

type BookingView struct {
	ID              uuid.UUID  `json:"id"`
	CustomerID      uuid.UUID  `json:"customerId"`
	ProviderID      uuid.UUID  `json:"providerId"`
	ListingID       uuid.UUID  `json:"listingId"`
	ServiceType     string     `json:"serviceType"`
	ScheduledAt     *time.Time `json:"scheduledAt,omitempty"`
	Stay            *StayView  `json:"stay,omitempty"`
	Quantity        int        `json:"quantity"`
	Price           PriceView  `json:"price"`
	Status          string     `json:"status"`
	NegotiationID   *uuid.UUID `json:"negotiationId,omitempty"`
	PaymentMethod   string     `json:"paymentMethod,omitempty"`
	RejectionReason *string    `json:"rejectionReason,omitempty"`
	CancelledBy     *string    `json:"cancelledBy,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	ConfirmedAt     *time.Time `json:"confirmedAt,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	RejectedAt      *time.Time `json:"rejectedAt,omitempty"`
	CancelledAt     *time.Time `json:"cancelledAt,omitempty"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type NegotiationView struct {
	ID                 uuid.UUID `json:"id"`
	ListingID          uuid.UUID `json:"listingId"`
	CustomerID         uuid.UUID `json:"customerId"`
	ProviderID         uuid.UUID `json:"providerId"`
	OriginalPriceCents int64     `json:"originalPriceCents"`
	ProposedPriceCents int64     `json:"proposedPriceCents"`
	CounterPriceCents  *int64    `json:"counterPriceCents,omitempty"`
	AcceptedPriceCents *int64    `json:"acceptedPriceCents,omitempty"`
	Status             string    `json:"status"`
	ExpiresAt          time.Time `json:"expiresAt"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type SeatsView struct {
	Max       int `json:"max"`
	Available int `json:"available"`
}

type OfferView struct {
	Enabled     bool               `json:"enabled"`
	MinimumTier string             `json:"minimumTier"`
	Rates       map[string]float64 `json:"rates"`
}

type ListingView struct {
	ID                   uuid.UUID  `json:"id"`
	ProviderID           uuid.UUID  `json:"providerId"`
	ServiceType          string     `json:"serviceType"`
	Title                string     `json:"title"`
	BasePriceCents       int64      `json:"basePriceCents"`
	Seats                *SeatsView `json:"seats,omitempty"`
	MaxGuests            *int       `json:"maxGuests,omitempty"`
	NegotiationEnabled   bool       `json:"negotiationEnabled"`
	MinPriceCents        *int64     `json:"minPriceCents,omitempty"`
	MaxPriceCents        *int64     `json:"maxPriceCents,omitempty"`
	Offer                *OfferView `json:"offer,omitempty"`
	RequiresConfirmation bool       `json:"requiresConfirmation"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

type AvailabilityView struct {
	ListingID uuid.UUID `json:"listingId"`
	CheckIn   string    `json:"checkIn"`
	CheckOut  string    `json:"checkOut"`
	Available bool      `json:"available"`
}

type LedgerEntryView struct {
	Seq            int64     `json:"seq"`
	Op             string    `json:"op"`
	TokenID        uuid.UUID `json:"tokenId"`
	Quantity       int       `json:"quantity"`
	AvailableAfter int       `json:"availableAfter"`
	At             time.Time `json:"at"`
}

type DriverStatsView struct {
	DriverID                uuid.UUID  `json:"driverId"`
	TotalRides              int        `json:"totalRides"`
	TotalDistanceKm         float64    `json:"totalDistanceKm"`
	AverageRating           float64    `json:"averageRating"`
	CompletedRidesThisMonth int        `json:"completedRidesThisMonth"`
	CompletedRidesThisYear  int        `json:"completedRidesThisYear"`
	PartnershipLevel        string     `json:"partnershipLevel"`
	LastRideDate            *time.Time `json:"lastRideDate,omitempty"`
	UpdatedAt               time.Time  `json:"updatedAt"`
}

func ToPriceView(p pricing.Breakdown) PriceView {
	return PriceView{
		OriginalCents: p.Original.Cents(),
		DiscountCents: p.Discount.Cents(),
		TotalCents:    p.Total.Cents(),
	}
}

func ToBookingView(b *booking.Booking) *BookingView {
	v := &BookingView{
		ID:              b.ID(),
		CustomerID:      b.CustomerID(),
		ProviderID:      b.ProviderID(),
		ListingID:       b.ListingID(),
		ServiceType:     b.ServiceType().String(),
		ScheduledAt:     b.ScheduledAt(),
		Quantity:        b.Quantity(),
		Price:           ToPriceView(b.Price()),
		Status:          b.Status().String(),
		NegotiationID:   b.NegotiationID(),
		PaymentMethod:   b.PaymentMethod(),
		RejectionReason: b.RejectionReason(),
		CreatedAt:       b.CreatedAt(),
		ApprovedAt:      b.ApprovedAt(),
		ConfirmedAt:     b.ConfirmedAt(),
		CompletedAt:     b.CompletedAt(),
		RejectedAt:      b.RejectedAt(),
		CancelledAt:     b.CancelledAt(),
		UpdatedAt:       b.UpdatedAt(),
	}
	if s := b.Stay(); s != nil {
		checkIn, checkOut := s.Bounds()
		v.Stay = &StayView{
			CheckIn:     checkIn,
			CheckOut:    checkOut,
			Granularity: string(s.Granularity()),
			Nights:      s.Nights(),
		}
	}
	if by := b.CancelledBy(); by != nil {
		s := string(*by)
		v.CancelledBy = &s
	}
	return v
}

func ToNegotiationView(n *negotiation.Negotiation) *NegotiationView {
	v := &NegotiationView{
		ID:                 n.ID(),
		ListingID:          n.ListingID(),
		CustomerID:         n.CustomerID(),
		ProviderID:         n.ProviderID(),
		OriginalPriceCents: n.OriginalPrice().Cents(),
		ProposedPriceCents: n.ProposedPrice().Cents(),
		Status:             n.Status().String(),
		ExpiresAt:          n.ExpiresAt(),
		CreatedAt:          n.CreatedAt(),
		UpdatedAt:          n.UpdatedAt(),
	}
	if p := n.CounterPrice(); p != nil {
		c := p.Cents()
		v.CounterPriceCents = &c
	}
	if p := n.AcceptedPrice(); p != nil {
		c := p.Cents()
		v.AcceptedPriceCents = &c
	}
	return v
}

func ToListingView(l *listing.Listing) *ListingView {
	v := &ListingView{
		ID:                   l.ID(),
		ProviderID:           l.ProviderID(),
		ServiceType:          l.ServiceType().String(),
		Title:                l.Title(),
		BasePriceCents:       l.BasePrice().Cents(),
		RequiresConfirmation: l.RequiresConfirmation(),
		CreatedAt:            l.CreatedAt(),
		UpdatedAt:            l.UpdatedAt(),
	}
	if l.ServiceType().UsesSeatInventory() {
		seats := l.Seats()
		v.Seats = &SeatsView{Max: seats.Max, Available: seats.Available}
	} else {
		g := l.Unit().MaxGuests
		v.MaxGuests = &g
	}
	if terms := l.Negotiation(); terms.Enabled {
		minPrice, maxPrice := terms.MinPrice.Cents(), terms.MaxPrice.Cents()
		v.NegotiationEnabled = true
		v.MinPriceCents = &minPrice
		v.MaxPriceCents = &maxPrice
	}
	if o := l.Offer(); o != nil {
		rates := make(map[string]float64, len(o.Rates()))
		for tier, rate := range o.Rates() {
			rates[tier.String()] = rate
		}
		v.Offer = &OfferView{Enabled: o.Enabled(), MinimumTier: o.MinimumTier().String(), Rates: rates}
	}
	return v
}

func ToLedgerEntryView(e inventory.Entry) LedgerEntryView {
	return LedgerEntryView{
		Seq:            e.Seq,
		Op:             string(e.Op),
		TokenID:        e.TokenID,
		Quantity:       e.Quantity,
		AvailableAfter: e.AvailableAfter,
		At:             e.At,
	}
}

func ToDriverStatsView(s *partnership.DriverStats) *DriverStatsView {
	return &DriverStatsView{
		DriverID:                s.DriverID(),
		TotalRides:              s.TotalRides(),
		TotalDistanceKm:         s.TotalDistanceKm(),
		AverageRating:           s.AverageRating(),
		CompletedRidesThisMonth: s.CompletedRidesThisMonth(),
		CompletedRidesThisYear:  s.CompletedRidesThisYear(),
		PartnershipLevel:        s.PartnershipLevel().String(),
		LastRideDate:            s.LastRideDate(),
		UpdatedAt:               s.UpdatedAt(),
	}
}
