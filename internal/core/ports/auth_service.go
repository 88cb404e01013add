package ports

import (
	"context"

	"github.com/cityfix/platform/internal/core/domain"
)

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Email          string
	Password       string
	FirstName      string
	LastName       string
	Phone          string
	Role           domain.Role
	MunicipalityID string
}

// AuthResult is returned by every operation that issues a token.
type AuthResult struct {
	AccessToken string
	User        *domain.User
}

// AuthService implements account and token lifecycle operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, claims domain.Claims) (*AuthResult, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (*domain.User, error)
}

// TokenIssuer signs bearer tokens.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// TokenValidator verifies bearer tokens and returns the embedded identity.
type TokenValidator interface {
	Validate(token string) (*domain.Claims, error)
}

// LoginLimiter throttles failed login attempts per principal.
type LoginLimiter interface {
	Allow(ctx context.Context, principal string) (bool, error)
	RecordFailure(ctx context.Context, principal string) error
	Reset(ctx context.Context, principal string) error
}
