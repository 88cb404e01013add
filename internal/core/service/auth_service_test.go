package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/cityfix/platform/internal/core/domain"
	"github.com/cityfix/platform/internal/core/ports"
)

var discardLogger = zerolog.Nop()

type stubUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.seq++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("%024x", r.seq)
	r.users[copy.ID] = copy
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, upd domain.ProfileUpdate) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	if upd.MunicipalityID != nil {
		u.MunicipalityID = *upd.MunicipalityID
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Count(context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

// stubLimiter blocks once failures reach max.
type stubLimiter struct {
	max      int
	failures map[string]int
	err      error
}

func (l *stubLimiter) Allow(_ context.Context, p string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	return l.failures[p] < l.max, nil
}

func (l *stubLimiter) RecordFailure(_ context.Context, p string) error {
	l.failures[p]++
	return nil
}

func (l *stubLimiter) Reset(_ context.Context, p string) error {
	delete(l.failures, p)
	return nil
}

func newTestAuthService(t *testing.T, limiter ports.LoginLimiter) (*AuthService, *stubUserRepo, *TokenManager) {
	t.Helper()
	tokens, err := NewTokenManager("secret", "HS256", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	repo := newStubUserRepo()
	return NewAuthService(repo, NewPasswordHasher(bcrypt.MinCost), tokens, limiter, discardLogger), repo, tokens
}

func registerInput(email string) ports.RegisterInput {
	return ports.RegisterInput{Email: email, Password: "pass1234", FirstName: "Ana", LastName: "Diaz"}
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, _, tokens := newTestAuthService(t, nil)

	res, err := svc.Register(context.Background(), registerInput(" Alice@Example.com "))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.User.Email != "alice@example.com" {
		t.Fatalf("email not normalised: %q", res.User.Email)
	}
	if res.User.Role != domain.RoleCitizen {
		t.Fatalf("expected default role citizen, got %s", res.User.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(res.User.PasswordHash), []byte("pass1234")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	claims, err := tokens.Validate(res.AccessToken)
	if err != nil {
		t.Fatalf("issued token invalid: %v", err)
	}
	if claims.UserID != res.User.ID || claims.Role != domain.RoleCitizen {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _, _ := newTestAuthService(t, nil)

	if _, err := svc.Register(context.Background(), registerInput("bob@example.com")); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), registerInput("BOB@example.com")); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Register_InvalidRole(t *testing.T) {
	svc, _, _ := newTestAuthService(t, nil)

	in := registerInput("eve@example.com")
	in.Role = "superuser"
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _, tokens := newTestAuthService(t, nil)

	in := registerInput("carol@example.com")
	in.Role = domain.RoleAdmin
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := svc.Login(context.Background(), "carol@example.com", "pass1234")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	claims, err := tokens.Validate(res.AccessToken)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Role != domain.RoleAdmin || claims.Email != "carol@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t, nil)

	_, _ = svc.Register(context.Background(), registerInput("dave@example.com"))
	if _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, _, _ := newTestAuthService(t, nil)

	if _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	svc, repo, _ := newTestAuthService(t, nil)

	res, _ := svc.Register(context.Background(), registerInput("frank@example.com"))
	repo.users[res.User.ID].IsActive = false

	if _, err := svc.Login(context.Background(), "frank@example.com", "pass1234"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	limiter := &stubLimiter{max: 2, failures: map[string]int{}}
	svc, _, _ := newTestAuthService(t, limiter)
	ctx := context.Background()

	_, _ = svc.Register(ctx, registerInput("gina@example.com"))
	for i := 0; i < 2; i++ {
		if _, err := svc.Login(ctx, "gina@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}
	if _, err := svc.Login(ctx, "gina@example.com", "pass1234"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_Login_SuccessResetsFailures(t *testing.T) {
	limiter := &stubLimiter{max: 3, failures: map[string]int{}}
	svc, _, _ := newTestAuthService(t, limiter)
	ctx := context.Background()

	_, _ = svc.Register(ctx, registerInput("hugo@example.com"))
	_, _ = svc.Login(ctx, "hugo@example.com", "wrong")
	if _, err := svc.Login(ctx, "hugo@example.com", "pass1234"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if n := limiter.failures["hugo@example.com"]; n != 0 {
		t.Fatalf("expected failures reset, got %d", n)
	}
}

func TestAuthService_Login_LimiterErrorDoesNotBlock(t *testing.T) {
	limiter := &stubLimiter{max: 1, failures: map[string]int{}, err: errors.New("redis down")}
	svc, _, _ := newTestAuthService(t, limiter)
	ctx := context.Background()

	_, _ = svc.Register(ctx, registerInput("ines@example.com"))
	if _, err := svc.Login(ctx, "ines@example.com", "pass1234"); err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}
}

func TestAuthService_UpdateProfile(t *testing.T) {
	svc, _, _ := newTestAuthService(t, nil)
	ctx := context.Background()

	res, _ := svc.Register(ctx, registerInput("jon@example.com"))

	if _, err := svc.UpdateProfile(ctx, res.User.ID, domain.ProfileUpdate{}); !errors.Is(err, domain.ErrNoFieldsToUpdate) {
		t.Fatalf("expected ErrNoFieldsToUpdate, got %v", err)
	}

	phone := "+525512345678"
	updated, err := svc.UpdateProfile(ctx, res.User.ID, domain.ProfileUpdate{Phone: &phone})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Phone != phone || updated.FirstName != "Ana" {
		t.Fatalf("unexpected profile: %+v", updated)
	}

	if _, err := svc.UpdateProfile(ctx, "000000000000000000000000", domain.ProfileUpdate{Phone: &phone}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Refresh(t *testing.T) {
	svc, _, tokens := newTestAuthService(t, nil)
	ctx := context.Background()

	res, _ := svc.Register(ctx, registerInput("kim@example.com"))
	claims, _ := tokens.Validate(res.AccessToken)

	refreshed, err := svc.Refresh(ctx, *claims)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if refreshed.User.ID != res.User.ID {
		t.Fatalf("refreshed token for wrong user: %s", refreshed.User.ID)
	}

	if _, err := svc.Refresh(ctx, domain.Claims{UserID: "missing"}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_SeedDevelopmentUsers(t *testing.T) {
	svc, repo, _ := newTestAuthService(t, nil)
	ctx := context.Background()

	if err := svc.SeedDevelopmentUsers(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(repo.users) != 2 {
		t.Fatalf("expected 2 seeded users, got %d", len(repo.users))
	}
	if err := svc.SeedDevelopmentUsers(ctx); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if len(repo.users) != 2 {
		t.Fatalf("seed must be skipped when users exist, got %d", len(repo.users))
	}
	if _, err := svc.Login(ctx, "admin@cityfix.app", "Admin123!"); err != nil {
		t.Fatalf("seeded admin cannot log in: %v", err)
	}
}
