package usecase

//go:generate mockgen -source=identity.go -destination=../../tests/mock/usecase/identity.go -package=usecasemock

import (
	"booking-engine/internal/domain/identity"
)

// IdentityProvider resolves a bearer token into the caller's id, role and
// verified-provider status. Authentication itself happens elsewhere; the
// engine trusts what this returns.
type IdentityProvider interface {
	Resolve(token string) (identity.Caller, error)
}
