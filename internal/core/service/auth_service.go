package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cityfix/platform/internal/core/domain"
	"github.com/cityfix/platform/internal/core/ports"
)

// AuthService implements registration, login and token refresh.
type AuthService struct {
	users   ports.UserRepository
	hasher  *PasswordHasher
	tokens  ports.TokenIssuer
	limiter ports.LoginLimiter
	log     zerolog.Logger
	now     func() time.Time
}

// NewAuthService wires the auth use cases. limiter may be nil to disable
// login throttling.
func NewAuthService(
	users ports.UserRepository,
	hasher *PasswordHasher,
	tokens ports.TokenIssuer,
	limiter ports.LoginLimiter,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		limiter: limiter,
		log:     log,
		now:     time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	role := in.Role
	if role == "" {
		role = domain.RoleCitizen
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Email:          email,
		PasswordHash:   hash,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Phone:          in.Phone,
		Role:           role,
		MunicipalityID: in.MunicipalityID,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return s.issue(created)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login limiter check failed, allowing attempt")
		} else if !allowed {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, email)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(user.PasswordHash, password) || !user.IsActive {
		s.recordFailure(ctx, email)
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login attempts")
		}
	}

	return s.issue(user)
}

// Refresh issues a new token for the user behind claims.
func (s *AuthService) Refresh(ctx context.Context, claims domain.Claims) (*ports.AuthResult, error) {
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (*domain.User, error) {
	if upd.Empty() {
		return nil, domain.ErrNoFieldsToUpdate
	}
	return s.users.Update(ctx, userID, upd)
}

// SeedDevelopmentUsers creates the well-known development accounts when the
// users collection is empty.
func (s *AuthService) SeedDevelopmentUsers(ctx context.Context) error {
	n, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.Info().Msg("users already present, skipping seed")
		return nil
	}

	seeds := []ports.RegisterInput{
		{Email: "admin@cityfix.app", Password: "Admin123!", FirstName: "Admin", LastName: "User", Phone: "+1234567890", Role: domain.RoleAdmin},
		{Email: "citizen@test.com", Password: "Test123!", FirstName: "Test", LastName: "Citizen", Phone: "+1234567891", Role: domain.RoleCitizen},
	}
	for _, in := range seeds {
		if _, err := s.Register(ctx, in); err != nil {
			return err
		}
	}
	s.log.Info().Int("count", len(seeds)).Msg("seeded development users")
	return nil
}

func (s *AuthService) issue(user *domain.User) (*ports.AuthResult, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{AccessToken: token, User: user}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
