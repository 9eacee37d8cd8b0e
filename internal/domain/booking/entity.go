package booking

import (
	"strings"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/listing"
	"booking-engine/internal/domain/pricing"
	"booking-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity   = errs.Mark(errs.New("booking quantity must be positive"), errs.ErrValidation)
	ErrMissingPickupTime = errs.Mark(errs.New("ride bookings require a pickup time"), errs.ErrValidation)
	ErrMissingStay       = errs.Mark(errs.New("stay bookings require check-in and check-out"), errs.ErrValidation)
	ErrUnexpectedStay    = errs.Mark(errs.New("only stay bookings take check-in and check-out"), errs.ErrValidation)
	ErrTooManyGuests     = errs.Mark(errs.New("guest count exceeds the listing's limit"), errs.ErrValidation)
	ErrOwnListing        = errs.Mark(errs.New("providers cannot book their own listing"), errs.ErrValidation)
	ErrReasonTooLong     = errs.Mark(errs.New("rejection reason is too long (max 500 characters)"), errs.ErrValidation)

	ErrNotProvider        = errs.Mark(errs.New("only the booking's provider can decide it"), errs.ErrNotAuthorized)
	ErrNotCustomer        = errs.Mark(errs.New("only the booking's customer can confirm it"), errs.ErrNotAuthorized)
	ErrNotParticipant     = errs.Mark(errs.New("only the booking's customer or provider can cancel it"), errs.ErrNotAuthorized)
	ErrTerminal           = errs.Mark(errs.New("booking is already final"), errs.ErrInvalidTransition)
	ErrWrongStatus        = errs.Mark(errs.New("booking is not in the required status"), errs.ErrInvalidTransition)
	ErrConfirmUnsupported = errs.Mark(errs.New("listing does not take a separate confirmation"), errs.ErrInvalidTransition)
)

const MaxReasonLength = 500

type Booking struct {
	id              uuid.UUID
	customerID      uuid.UUID
	providerID      uuid.UUID
	listingID       uuid.UUID
	serviceType     listing.ServiceType
	scheduledAt     *time.Time
	stay            *availability.Interval
	quantity        int
	price           pricing.Breakdown
	status          Status
	negotiationID   *uuid.UUID
	tokenID         *uuid.UUID
	paymentMethod   string
	rejectionReason *string
	cancelledBy     *Canceller
	createdAt       time.Time
	approvedAt      *time.Time
	confirmedAt     *time.Time
	completedAt     *time.Time
	rejectedAt      *time.Time
	cancelledAt     *time.Time
	updatedAt       time.Time
}

// Request is a validated booking request before inventory is checked.
type Request struct {
	CustomerID    uuid.UUID
	ScheduledAt   *time.Time
	Stay          *availability.Interval
	Quantity      int
	NegotiationID *uuid.UUID
	PaymentMethod string
}

// Validate checks the request shape against the listing it targets.
func (r Request) Validate(l *listing.Listing) error {
	if r.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if r.CustomerID == l.ProviderID() {
		return ErrOwnListing
	}
	switch l.ServiceType() {
	case listing.ServiceRide:
		if r.ScheduledAt == nil {
			return ErrMissingPickupTime
		}
		if r.Stay != nil {
			return ErrUnexpectedStay
		}
	case listing.ServiceEvent:
		if r.Stay != nil {
			return ErrUnexpectedStay
		}
	case listing.ServiceStay:
		if r.Stay == nil {
			return ErrMissingStay
		}
		if !l.AcceptsGuests(r.Quantity) {
			return errs.Wrapf(ErrTooManyGuests, "guests=%d max=%d", r.Quantity, l.Unit().MaxGuests)
		}
	}
	return nil
}

// BillableUnits is what the unit price is multiplied by.
func (r Request) BillableUnits(l *listing.Listing) int64 {
	if l.ServiceType() == listing.ServiceStay {
		return r.Stay.Nights()
	}
	return int64(r.Quantity)
}

// NewBooking freezes the provider from the listing and starts the booking in
// pending_approval.
func NewBooking(l *listing.Listing, req Request, price pricing.Breakdown, tokenID *uuid.UUID, now time.Time) (*Booking, error) {
	if err := req.Validate(l); err != nil {
		return nil, err
	}
	return &Booking{
		id:            uuid.New(),
		customerID:    req.CustomerID,
		providerID:    l.ProviderID(),
		listingID:     l.ID(),
		serviceType:   l.ServiceType(),
		scheduledAt:   req.ScheduledAt,
		stay:          req.Stay,
		quantity:      req.Quantity,
		price:         price,
		status:        StatusPendingApproval,
		negotiationID: req.NegotiationID,
		tokenID:       tokenID,
		paymentMethod: strings.TrimSpace(req.PaymentMethod),
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// Snapshot carries every persisted field; it exists for stores and
// converters only.
type Snapshot struct {
	ID              uuid.UUID
	CustomerID      uuid.UUID
	ProviderID      uuid.UUID
	ListingID       uuid.UUID
	ServiceType     listing.ServiceType
	ScheduledAt     *time.Time
	Stay            *availability.Interval
	Quantity        int
	Price           pricing.Breakdown
	Status          Status
	NegotiationID   *uuid.UUID
	TokenID         *uuid.UUID
	PaymentMethod   string
	RejectionReason *string
	CancelledBy     *Canceller
	CreatedAt       time.Time
	ApprovedAt      *time.Time
	ConfirmedAt     *time.Time
	CompletedAt     *time.Time
	RejectedAt      *time.Time
	CancelledAt     *time.Time
	UpdatedAt       time.Time
}

func ReconstructBooking(s Snapshot) *Booking {
	return &Booking{
		id:              s.ID,
		customerID:      s.CustomerID,
		providerID:      s.ProviderID,
		listingID:       s.ListingID,
		serviceType:     s.ServiceType,
		scheduledAt:     s.ScheduledAt,
		stay:            s.Stay,
		quantity:        s.Quantity,
		price:           s.Price,
		status:          s.Status,
		negotiationID:   s.NegotiationID,
		tokenID:         s.TokenID,
		paymentMethod:   s.PaymentMethod,
		rejectionReason: s.RejectionReason,
		cancelledBy:     s.CancelledBy,
		createdAt:       s.CreatedAt,
		approvedAt:      s.ApprovedAt,
		confirmedAt:     s.ConfirmedAt,
		completedAt:     s.CompletedAt,
		rejectedAt:      s.RejectedAt,
		cancelledAt:     s.CancelledAt,
		updatedAt:       s.UpdatedAt,
	}
}

func (b *Booking) Snapshot() Snapshot {
	return Snapshot{
		ID:              b.id,
		CustomerID:      b.customerID,
		ProviderID:      b.providerID,
		ListingID:       b.listingID,
		ServiceType:     b.serviceType,
		ScheduledAt:     b.scheduledAt,
		Stay:            b.stay,
		Quantity:        b.quantity,
		Price:           b.price,
		Status:          b.status,
		NegotiationID:   b.negotiationID,
		TokenID:         b.tokenID,
		PaymentMethod:   b.paymentMethod,
		RejectionReason: b.rejectionReason,
		CancelledBy:     b.cancelledBy,
		CreatedAt:       b.createdAt,
		ApprovedAt:      b.approvedAt,
		ConfirmedAt:     b.confirmedAt,
		CompletedAt:     b.completedAt,
		RejectedAt:      b.rejectedAt,
		CancelledAt:     b.cancelledAt,
		UpdatedAt:       b.updatedAt,
	}
}

// Approve moves pending_approval to approved. With autoConfirm it continues
// straight to confirmed.
func (b *Booking) Approve(actorID uuid.UUID, autoConfirm bool, now time.Time) error {
	if actorID != b.providerID {
		return ErrNotProvider
	}
	if err := b.require(StatusPendingApproval); err != nil {
		return err
	}
	b.status = StatusApproved
	b.approvedAt = &now
	if autoConfirm {
		b.status = StatusConfirmed
		b.confirmedAt = &now
	}
	b.updatedAt = now
	return nil
}

func (b *Booking) Reject(actorID uuid.UUID, reason string, now time.Time) error {
	if actorID != b.providerID {
		return ErrNotProvider
	}
	reason = strings.TrimSpace(reason)
	if len(reason) > MaxReasonLength {
		return ErrReasonTooLong
	}
	if err := b.require(StatusPendingApproval); err != nil {
		return err
	}
	b.status = StatusRejected
	b.rejectedAt = &now
	if reason != "" {
		b.rejectionReason = &reason
	}
	b.updatedAt = now
	return nil
}

// Confirm is the customer's secondary step for listings that require it.
func (b *Booking) Confirm(actorID uuid.UUID, paymentMethod string, now time.Time) error {
	if actorID != b.customerID {
		return ErrNotCustomer
	}
	if err := b.require(StatusApproved); err != nil {
		return err
	}
	b.status = StatusConfirmed
	b.confirmedAt = &now
	if pm := strings.TrimSpace(paymentMethod); pm != "" {
		b.paymentMethod = pm
	}
	b.updatedAt = now
	return nil
}

func (b *Booking) Cancel(actorID uuid.UUID, now time.Time) error {
	var by Canceller
	switch actorID {
	case b.customerID:
		by = CancelledByCustomer
	case b.providerID:
		by = CancelledByProvider
	default:
		return ErrNotParticipant
	}
	if b.status.IsTerminal() {
		return errs.Wrapf(ErrTerminal, "status=%s", b.status)
	}
	b.status = StatusCancelled
	b.cancelledAt = &now
	b.cancelledBy = &by
	b.updatedAt = now
	return nil
}

func (b *Booking) Complete(now time.Time) error {
	if err := b.require(StatusConfirmed); err != nil {
		return err
	}
	b.status = StatusCompleted
	b.completedAt = &now
	b.updatedAt = now
	return nil
}

func (b *Booking) require(want Status) error {
	if b.status.IsTerminal() {
		return errs.Wrapf(ErrTerminal, "status=%s", b.status)
	}
	if b.status != want {
		return errs.Wrapf(ErrWrongStatus, "status=%s want=%s", b.status, want)
	}
	return nil
}

// IsParticipant reports whether the user is this booking's customer or provider.
func (b *Booking) IsParticipant(userID uuid.UUID) bool {
	return userID == b.customerID || userID == b.providerID
}

func (b *Booking) ID() uuid.UUID                    { return b.id }
func (b *Booking) CustomerID() uuid.UUID            { return b.customerID }
func (b *Booking) ProviderID() uuid.UUID            { return b.providerID }
func (b *Booking) ListingID() uuid.UUID             { return b.listingID }
func (b *Booking) ServiceType() listing.ServiceType { return b.serviceType }
func (b *Booking) ScheduledAt() *time.Time          { return b.scheduledAt }
func (b *Booking) Stay() *availability.Interval     { return b.stay }
func (b *Booking) Quantity() int                    { return b.quantity }
func (b *Booking) Price() pricing.Breakdown         { return b.price }
func (b *Booking) Status() Status                   { return b.status }
func (b *Booking) NegotiationID() *uuid.UUID        { return b.negotiationID }
func (b *Booking) TokenID() *uuid.UUID              { return b.tokenID }
func (b *Booking) PaymentMethod() string            { return b.paymentMethod }
func (b *Booking) RejectionReason() *string         { return b.rejectionReason }
func (b *Booking) CancelledBy() *Canceller          { return b.cancelledBy }
func (b *Booking) CreatedAt() time.Time             { return b.createdAt }
func (b *Booking) ApprovedAt() *time.Time           { return b.approvedAt }
func (b *Booking) ConfirmedAt() *time.Time          { return b.confirmedAt }
func (b *Booking) CompletedAt() *time.Time          { return b.completedAt }
func (b *Booking) RejectedAt() *time.Time           { return b.rejectedAt }
func (b *Booking) CancelledAt() *time.Time          { return b.cancelledAt }
func (b *Booking) UpdatedAt() time.Time             { return b.updatedAt }
