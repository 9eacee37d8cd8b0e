package jwt

import (
	"errors"
	"time"

	"booking-engine/internal/domain/identity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

type Claims struct {
	UserID           uuid.UUID `json:"user_id"`
	Role             string    `json:"role"`
	VerifiedProvider bool      `json:"verified_provider,omitempty"`
	jwt.RegisteredClaims
}

type Service struct {
	secretKey     []byte
	tokenDuration time.Duration
}

func NewService(secretKey string, tokenDuration time.Duration) *Service {
	return &Service{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
	}
}

func (s *Service) GenerateToken(caller identity.Caller) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:           caller.ID,
		Role:             caller.Role.String(),
		VerifiedProvider: caller.VerifiedProvider,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   caller.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Resolve turns a bearer token into the caller it identifies.
func (s *Service) Resolve(tokenString string) (identity.Caller, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return identity.Caller{}, err
	}

	role, err := identity.NewRole(claims.Role)
	if err != nil {
		return identity.Caller{}, ErrInvalidToken
	}

	return identity.Caller{
		ID:               claims.UserID,
		Role:             role,
		VerifiedProvider: claims.VerifiedProvider,
	}, nil
}
