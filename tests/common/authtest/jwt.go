//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"booking-engine/internal/domain/identity"
	"booking-engine/internal/pkg/config"
	"booking-engine/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, caller identity.Caller) string {
	t.Helper()
	duration, err := time.ParseDuration(h.cfg.Duration)
	require.NoError(t, err)
	token, err := jwt.NewService(h.cfg.Secret, duration).GenerateToken(caller)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, caller identity.Caller) string {
	t.Helper()
	token, err := jwt.NewService(h.cfg.Secret, time.Millisecond).GenerateToken(caller)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	return token
}

func Customer() identity.Caller {
	return identity.Caller{ID: uuid.New(), Role: identity.RoleCustomer}
}

func VerifiedProvider() identity.Caller {
	return identity.Caller{ID: uuid.New(), Role: identity.RoleProvider, VerifiedProvider: true}
}

func Admin() identity.Caller {
	return identity.Caller{ID: uuid.New(), Role: identity.RoleAdmin}
}
