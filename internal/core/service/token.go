package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cityfix/platform/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// tokenClaims is the JWT payload: sub, email, role, municipality_id, iat, exp.
type tokenClaims struct {
	jwt.RegisteredClaims
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	MunicipalityID *string `json:"municipality_id"`
}

// TokenOption customises a TokenManager.
type TokenOption func(*TokenManager)

// WithClock replaces the wall clock used for iat, exp and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(m *TokenManager) { m.now = now }
}

// TokenManager issues and validates HMAC-signed bearer tokens.
type TokenManager struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager returns a TokenManager for the given HMAC algorithm
// (HS256, HS384 or HS512).
func NewTokenManager(secret, algorithm string, ttl time.Duration, opts ...TokenOption) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("token: empty signing secret")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("token: unsupported signing algorithm %q", algorithm)
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	m := &TokenManager{secret: []byte(secret), method: method, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Issue signs a token for user.
func (m *TokenManager) Issue(user *domain.User) (string, error) {
	now := m.now().UTC()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Email: user.Email,
		Role:  string(user.Role),
	}
	if user.MunicipalityID != "" {
		mid := user.MunicipalityID
		claims.MunicipalityID = &mid
	}

	signed, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies signature, algorithm and expiry and returns the embedded
// identity. Every failure collapses to domain.ErrInvalidToken.
func (m *TokenManager) Validate(token string) (*domain.Claims, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	role := domain.Role(claims.Role)
	if claims.Subject == "" || claims.Email == "" || !role.Valid() {
		return nil, domain.ErrInvalidToken
	}

	out := &domain.Claims{
		UserID:    claims.Subject,
		Email:     claims.Email,
		Role:      role,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.MunicipalityID != nil {
		out.MunicipalityID = *claims.MunicipalityID
	}
	return out, nil
}
