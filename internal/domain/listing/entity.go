package listing

import (
	"strings"
	"time"

	"booking-engine/internal/domain/partnership"
	"booking-engine/internal/domain/pricing"
	"booking-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrEmptyTitle        = errs.Mark(errs.New("listing title cannot be empty"), errs.ErrValidation)
	ErrTitleTooLong      = errs.Mark(errs.New("listing title is too long (max 255 characters)"), errs.ErrValidation)
	ErrInvalidPriceRange = errs.Mark(errs.New("negotiation min price must not exceed max price"), errs.ErrValidation)
	ErrNegotiationOnStay = errs.Mark(errs.New("only ride listings can enable negotiation"), errs.ErrValidation)
	ErrOfferRequiresStay = errs.Mark(errs.New("partnership offers apply to accommodations only"), errs.ErrValidation)
	ErrInvalidGuestLimit = errs.Mark(errs.New("guest limit cannot be negative"), errs.ErrValidation)
)

const MaxTitleLength = 255

// NegotiationTerms bound what a customer may propose for a ride.
type NegotiationTerms struct {
	Enabled  bool
	MinPrice pricing.Money
	MaxPrice pricing.Money
}

// Allows reports whether a proposal is acceptable under these terms.
func (t NegotiationTerms) Allows(price pricing.Money) bool {
	return t.Enabled && !price.LessThan(t.MinPrice) && !t.MaxPrice.LessThan(price)
}

type Listing struct {
	id                   uuid.UUID
	providerID           uuid.UUID
	serviceType          ServiceType
	title                string
	basePrice            pricing.Money
	seats                SeatCapacity
	unit                 UnitCapacity
	negotiation          NegotiationTerms
	offer                *partnership.Offer
	requiresConfirmation bool
	createdAt            time.Time
	updatedAt            time.Time
}

type Params struct {
	ProviderID           uuid.UUID
	ServiceType          ServiceType
	Title                string
	BasePrice            pricing.Money
	MaxSeats             int
	MaxGuests            int
	Negotiation          NegotiationTerms
	Offer                *partnership.Offer
	RequiresConfirmation bool
}

func NewListing(p Params, now time.Time) (*Listing, error) {
	if !p.ServiceType.IsValid() {
		return nil, ErrInvalidServiceType
	}
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if len(title) > MaxTitleLength {
		return nil, ErrTitleTooLong
	}
	if err := p.BasePrice.Validate(); err != nil {
		return nil, errs.Wrap(err, "base price")
	}

	l := &Listing{
		id:                   uuid.New(),
		providerID:           p.ProviderID,
		serviceType:          p.ServiceType,
		title:                title,
		basePrice:            p.BasePrice,
		requiresConfirmation: p.RequiresConfirmation,
		createdAt:            now,
		updatedAt:            now,
	}

	if p.ServiceType.UsesSeatInventory() {
		seats, err := NewSeatCapacity(p.MaxSeats)
		if err != nil {
			return nil, err
		}
		l.seats = seats
	} else {
		if p.MaxGuests < 0 {
			return nil, ErrInvalidGuestLimit
		}
		l.unit = UnitCapacity{Total: 1, MaxGuests: p.MaxGuests}
	}

	if p.Negotiation.Enabled {
		if p.ServiceType != ServiceRide {
			return nil, ErrNegotiationOnStay
		}
		if err := p.Negotiation.MinPrice.Validate(); err != nil {
			return nil, errs.Wrap(err, "negotiation min price")
		}
		if err := p.Negotiation.MaxPrice.Validate(); err != nil {
			return nil, errs.Wrap(err, "negotiation max price")
		}
		if p.Negotiation.MaxPrice.LessThan(p.Negotiation.MinPrice) {
			return nil, ErrInvalidPriceRange
		}
		l.negotiation = p.Negotiation
	}

	if p.Offer != nil {
		if p.ServiceType != ServiceStay {
			return nil, ErrOfferRequiresStay
		}
		l.offer = p.Offer
	}

	return l, nil
}

func ReconstructListing(
	id, providerID uuid.UUID,
	serviceType ServiceType,
	title string,
	basePrice pricing.Money,
	seats SeatCapacity,
	unit UnitCapacity,
	negotiation NegotiationTerms,
	offer *partnership.Offer,
	requiresConfirmation bool,
	createdAt, updatedAt time.Time,
) *Listing {
	return &Listing{
		id:                   id,
		providerID:           providerID,
		serviceType:          serviceType,
		title:                title,
		basePrice:            basePrice,
		seats:                seats,
		unit:                 unit,
		negotiation:          negotiation,
		offer:                offer,
		requiresConfirmation: requiresConfirmation,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
	}
}

// ReserveSeats decrements available seats. Running out is an expected
// outcome; finding the counter already out of bounds is not.
func (l *Listing) ReserveSeats(quantity int, now time.Time) error {
	if !l.serviceType.UsesSeatInventory() {
		return ErrNotSeatInventory
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if err := l.seats.Check(); err != nil {
		return err
	}
	if l.seats.Available < quantity {
		return ErrNoSeatsLeft
	}
	l.seats.Available -= quantity
	l.updatedAt = now
	return nil
}

// ReleaseSeats returns seats. Crediting past Max would mean a double release.
func (l *Listing) ReleaseSeats(quantity int, now time.Time) error {
	if !l.serviceType.UsesSeatInventory() {
		return ErrNotSeatInventory
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	next := l.seats
	next.Available += quantity
	if err := next.Check(); err != nil {
		return err
	}
	l.seats = next
	l.updatedAt = now
	return nil
}

// AcceptsGuests reports whether a stay can host the requested party.
func (l *Listing) AcceptsGuests(guests int) bool {
	return l.unit.MaxGuests == 0 || guests <= l.unit.MaxGuests
}

func (l *Listing) ID() uuid.UUID                 { return l.id }
func (l *Listing) ProviderID() uuid.UUID         { return l.providerID }
func (l *Listing) ServiceType() ServiceType      { return l.serviceType }
func (l *Listing) Title() string                 { return l.title }
func (l *Listing) BasePrice() pricing.Money      { return l.basePrice }
func (l *Listing) Seats() SeatCapacity           { return l.seats }
func (l *Listing) Unit() UnitCapacity            { return l.unit }
func (l *Listing) Negotiation() NegotiationTerms { return l.negotiation }
func (l *Listing) Offer() *partnership.Offer     { return l.offer }
func (l *Listing) RequiresConfirmation() bool    { return l.requiresConfirmation }
func (l *Listing) CreatedAt() time.Time          { return l.createdAt }
func (l *Listing) UpdatedAt() time.Time          { return l.updatedAt }
