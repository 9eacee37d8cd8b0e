package negotiation

import (
	"time"

	"booking-engine/internal/domain/listing"
	"booking-engine/internal/domain/pricing"
	"booking-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrNegotiationDisabled = errs.Mark(errs.New("negotiation is not enabled for this listing"), errs.ErrNegotiationNotAllowed)
	ErrPriceOutOfRange     = errs.Mark(errs.New("proposed price is outside the listing's negotiation range"), errs.ErrNegotiationNotAllowed)
	ErrNotParticipant      = errs.Mark(errs.New("caller is not a party to this negotiation"), errs.ErrNotAuthorized)
	ErrOnlyProviderCounter = errs.Mark(errs.New("only the provider can counter"), errs.ErrNotAuthorized)
	ErrOwnPriceAccept      = errs.Mark(errs.New("the party that set the current price cannot accept it"), errs.ErrNotAuthorized)
	ErrSelfNegotiation     = errs.Mark(errs.New("providers cannot negotiate on their own listing"), errs.ErrValidation)
	ErrAlreadyFinal        = errs.Mark(errs.New("negotiation is already final"), errs.ErrInvalidTransition)
	ErrNotCounterable      = errs.Mark(errs.New("only a pending negotiation can be countered"), errs.ErrInvalidTransition)
	ErrExpired             = errs.Mark(errs.New("negotiation has expired"), errs.ErrInvalidTransition)
)

type Negotiation struct {
	id            uuid.UUID
	listingID     uuid.UUID
	customerID    uuid.UUID
	providerID    uuid.UUID
	originalPrice pricing.Money
	proposedPrice pricing.Money
	counterPrice  *pricing.Money
	acceptedPrice *pricing.Money
	status        Status
	expiresAt     time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

// Propose opens a negotiation on a ride listing. The proposed price is per
// seat and must sit inside the listing's advertised range.
func Propose(l *listing.Listing, customerID uuid.UUID, proposed pricing.Money, ttl time.Duration, now time.Time) (*Negotiation, error) {
	terms := l.Negotiation()
	if !terms.Enabled {
		return nil, ErrNegotiationDisabled
	}
	if customerID == l.ProviderID() {
		return nil, ErrSelfNegotiation
	}
	if !terms.Allows(proposed) {
		return nil, errs.Wrapf(ErrPriceOutOfRange, "proposed=%d min=%d max=%d",
			proposed.Cents(), terms.MinPrice.Cents(), terms.MaxPrice.Cents())
	}

	return &Negotiation{
		id:            uuid.New(),
		listingID:     l.ID(),
		customerID:    customerID,
		providerID:    l.ProviderID(),
		originalPrice: l.BasePrice(),
		proposedPrice: proposed,
		status:        StatusPending,
		expiresAt:     now.Add(ttl),
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

func ReconstructNegotiation(
	id, listingID, customerID, providerID uuid.UUID,
	originalPrice, proposedPrice pricing.Money,
	counterPrice, acceptedPrice *pricing.Money,
	status Status,
	expiresAt, createdAt, updatedAt time.Time,
) *Negotiation {
	return &Negotiation{
		id:            id,
		listingID:     listingID,
		customerID:    customerID,
		providerID:    providerID,
		originalPrice: originalPrice,
		proposedPrice: proposedPrice,
		counterPrice:  counterPrice,
		acceptedPrice: acceptedPrice,
		status:        status,
		expiresAt:     expiresAt,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// ExpireIfDue moves an open negotiation to expired once expiresAt has passed.
// It reports whether the status changed so callers know to persist it.
func (n *Negotiation) ExpireIfDue(now time.Time) bool {
	if n.status.IsTerminal() || now.Before(n.expiresAt) {
		return false
	}
	n.status = StatusExpired
	n.updatedAt = now
	return true
}

// PartyOf maps a caller to their side of the table.
func (n *Negotiation) PartyOf(actorID uuid.UUID) (Party, error) {
	switch actorID {
	case n.customerID:
		return PartyCustomer, nil
	case n.providerID:
		return PartyProvider, nil
	default:
		return "", ErrNotParticipant
	}
}

// Counter replaces the customer's proposal with the provider's price and
// restarts the expiry window.
func (n *Negotiation) Counter(actorID uuid.UUID, price pricing.Money, terms listing.NegotiationTerms, ttl time.Duration, now time.Time) error {
	if err := n.guardOpen(now); err != nil {
		return err
	}
	party, err := n.PartyOf(actorID)
	if err != nil {
		return err
	}
	if party != PartyProvider {
		return ErrOnlyProviderCounter
	}
	if n.status != StatusPending {
		return ErrNotCounterable
	}
	if !terms.Allows(price) {
		return errs.Wrapf(ErrPriceOutOfRange, "counter=%d", price.Cents())
	}

	n.counterPrice = &price
	n.status = StatusCountered
	n.expiresAt = now.Add(ttl)
	n.updatedAt = now
	return nil
}

// Accept fixes the price on the table. The customer put a pending price
// there and the provider put a countered one, so the other side accepts.
func (n *Negotiation) Accept(actorID uuid.UUID, now time.Time) error {
	if err := n.guardOpen(now); err != nil {
		return err
	}
	party, err := n.PartyOf(actorID)
	if err != nil {
		return err
	}
	if party == n.priceOwner() {
		return ErrOwnPriceAccept
	}

	price := n.CurrentPrice()
	n.acceptedPrice = &price
	n.status = StatusAccepted
	n.updatedAt = now
	return nil
}

func (n *Negotiation) Reject(actorID uuid.UUID, now time.Time) error {
	if err := n.guardOpen(now); err != nil {
		return err
	}
	if _, err := n.PartyOf(actorID); err != nil {
		return err
	}
	n.status = StatusRejected
	n.updatedAt = now
	return nil
}

func (n *Negotiation) guardOpen(now time.Time) error {
	if n.status.IsTerminal() {
		return errs.Wrapf(ErrAlreadyFinal, "status=%s", n.status)
	}
	if !now.Before(n.expiresAt) {
		n.status = StatusExpired
		n.updatedAt = now
		return ErrExpired
	}
	return nil
}

func (n *Negotiation) priceOwner() Party {
	if n.status == StatusCountered {
		return PartyProvider
	}
	return PartyCustomer
}

// CurrentPrice is the per-unit price currently on the table.
func (n *Negotiation) CurrentPrice() pricing.Money {
	if n.acceptedPrice != nil {
		return *n.acceptedPrice
	}
	if n.counterPrice != nil {
		return *n.counterPrice
	}
	return n.proposedPrice
}

// SeedPrice returns the accepted price when the negotiation can seed a
// booking for the given listing and customer.
func (n *Negotiation) SeedPrice(listingID, customerID uuid.UUID, now time.Time) (pricing.Money, error) {
	if n.listingID != listingID || n.customerID != customerID {
		return pricing.Money{}, errs.Mark(
			errs.New("negotiation belongs to a different listing or customer"),
			errs.ErrNegotiationNotAllowed,
		)
	}
	if n.status != StatusAccepted || n.acceptedPrice == nil {
		return pricing.Money{}, errs.Mark(
			errs.Newf("negotiation is %s, not accepted", n.status),
			errs.ErrNegotiationNotAllowed,
		)
	}
	return *n.acceptedPrice, nil
}

func (n *Negotiation) ID() uuid.UUID                 { return n.id }
func (n *Negotiation) ListingID() uuid.UUID          { return n.listingID }
func (n *Negotiation) CustomerID() uuid.UUID         { return n.customerID }
func (n *Negotiation) ProviderID() uuid.UUID         { return n.providerID }
func (n *Negotiation) OriginalPrice() pricing.Money  { return n.originalPrice }
func (n *Negotiation) ProposedPrice() pricing.Money  { return n.proposedPrice }
func (n *Negotiation) CounterPrice() *pricing.Money  { return n.counterPrice }
func (n *Negotiation) AcceptedPrice() *pricing.Money { return n.acceptedPrice }
func (n *Negotiation) Status() Status                { return n.status }
func (n *Negotiation) ExpiresAt() time.Time          { return n.expiresAt }
func (n *Negotiation) CreatedAt() time.Time          { return n.createdAt }
func (n *Negotiation) UpdatedAt() time.Time          { return n.updatedAt }
