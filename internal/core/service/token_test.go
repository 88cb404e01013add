package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cityfix/platform/internal/core/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:             "64b7f0c2a1b2c3d4e5f60718",
		Email:          "ana@example.com",
		Role:           domain.RoleOperator,
		MunicipalityID: "64b7f0c2a1b2c3d4e5f60719",
	}
}

func TestTokenManager_IssueAndValidate(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m, err := NewTokenManager("secret", "HS256", time.Hour, WithClock(func() time.Time { return start }))
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	token, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.UserID != "64b7f0c2a1b2c3d4e5f60718" || claims.Role != domain.RoleOperator {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.MunicipalityID != "64b7f0c2a1b2c3d4e5f60719" {
		t.Fatalf("municipality_id lost: %+v", claims)
	}
	if !claims.ExpiresAt.Equal(start.Add(time.Hour)) {
		t.Fatalf("unexpected exp: %v", claims.ExpiresAt)
	}
}

func TestTokenManager_Expired(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	m, _ := NewTokenManager("secret", "HS256", time.Minute, WithClock(clock))

	token, _ := m.Issue(testUser())
	now = now.Add(2 * time.Minute)

	if _, err := m.Validate(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestTokenManager_RejectsForeignSignature(t *testing.T) {
	issuer, _ := NewTokenManager("other-secret", "HS256", time.Hour)
	validator, _ := NewTokenManager("secret", "HS256", time.Hour)

	token, _ := issuer.Issue(testUser())
	if _, err := validator.Validate(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenManager_RejectsOtherAlgorithm(t *testing.T) {
	issuer, _ := NewTokenManager("secret", "HS512", time.Hour)
	validator, _ := NewTokenManager("secret", "HS256", time.Hour)

	token, _ := issuer.Issue(testUser())
	if _, err := validator.Validate(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenManager_RejectsUnknownRole(t *testing.T) {
	m, _ := NewTokenManager("secret", "HS256", time.Hour)

	claims := jwt.MapClaims{
		"sub":   "64b7f0c2a1b2c3d4e5f60718",
		"email": "x@example.com",
		"role":  "root",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := m.Validate(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenManager_RejectsMissingExpiry(t *testing.T) {
	m, _ := NewTokenManager("secret", "HS256", time.Hour)

	claims := jwt.MapClaims{"sub": "u1", "email": "x@example.com", "role": "admin"}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if _, err := m.Validate(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	m, _ := NewTokenManager("secret", "HS256", time.Hour)
	if _, err := m.Validate("not.a.token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestNewTokenManager_Validation(t *testing.T) {
	if _, err := NewTokenManager("", "HS256", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, err := NewTokenManager("secret", "RS256", time.Hour); err == nil {
		t.Fatal("expected error for non-HMAC algorithm")
	}
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(4)
	hash, err := h.Hash("Admin123!")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !h.Verify(hash, "Admin123!") {
		t.Fatal("expected password to verify")
	}
	if h.Verify(hash, "admin123!") {
		t.Fatal("expected wrong password to fail")
	}
}
