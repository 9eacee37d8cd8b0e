package inventory

import (
	"time"

	"booking-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrCommitReleased = errs.Mark(errs.New("cannot commit a released reservation"), errs.ErrInvalidTransition)

type TokenStatus string

const (
	TokenHeld      TokenStatus = "held"
	TokenCommitted TokenStatus = "committed"
	TokenReleased  TokenStatus = "released"
)

func (s TokenStatus) IsValid() bool {
	switch s {
	case TokenHeld, TokenCommitted, TokenReleased:
		return true
	default:
		return false
	}
}

// Token is the receipt for seats taken out of a listing's inventory.
type Token struct {
	id        uuid.UUID
	listingID uuid.UUID
	quantity  int
	status    TokenStatus
	createdAt time.Time
	updatedAt time.Time
}

func NewToken(listingID uuid.UUID, quantity int, now time.Time) *Token {
	return &Token{
		id:        uuid.New(),
		listingID: listingID,
		quantity:  quantity,
		status:    TokenHeld,
		createdAt: now,
		updatedAt: now,
	}
}

func ReconstructToken(id, listingID uuid.UUID, quantity int, status TokenStatus, createdAt, updatedAt time.Time) *Token {
	return &Token{
		id:        id,
		listingID: listingID,
		quantity:  quantity,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// Release reports false when the token was already released; the caller
// must not credit seats twice.
func (t *Token) Release(now time.Time) bool {
	if t.status == TokenReleased {
		return false
	}
	t.status = TokenReleased
	t.updatedAt = now
	return true
}

// Commit reports false when the token was already committed.
func (t *Token) Commit(now time.Time) (bool, error) {
	switch t.status {
	case TokenCommitted:
		return false, nil
	case TokenReleased:
		return false, errs.Wrapf(ErrCommitReleased, "token=%s", t.id)
	}
	t.status = TokenCommitted
	t.updatedAt = now
	return true, nil
}

func (t *Token) ID() uuid.UUID        { return t.id }
func (t *Token) ListingID() uuid.UUID { return t.listingID }
func (t *Token) Quantity() int        { return t.quantity }
func (t *Token) Status() TokenStatus  { return t.status }
func (t *Token) CreatedAt() time.Time { return t.createdAt }
func (t *Token) UpdatedAt() time.Time { return t.updatedAt }
