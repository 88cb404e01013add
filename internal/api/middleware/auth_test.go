package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/cityfix/platform/internal/core/domain"
)

type stubValidator struct {
	claims *domain.Claims
	err    error
	got    string
}

func (s *stubValidator) Validate(token string) (*domain.Claims, error) {
	s.got = token
	return s.claims, s.err
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	validator := &stubValidator{claims: &domain.Claims{UserID: "u1", Email: "a@b.c", Role: domain.RoleAdmin}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer signed-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(validator)(func(c echo.Context) error {
		called = true
		if c.Get(UserIDKey) != "u1" {
			t.Fatalf("user_id not set")
		}
		if c.Get(RoleKey) != "admin" {
			t.Fatalf("role not set")
		}
		claims, ok := Claims(c)
		if !ok || claims.Email != "a@b.c" {
			t.Fatalf("claims not set: %+v", claims)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if validator.got != "signed-token" {
		t.Fatalf("expected raw token to reach validator, got %q", validator.got)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	cases := map[string]struct {
		header    string
		validator *stubValidator
	}{
		"missing header":   {"", &stubValidator{}},
		"wrong scheme":     {"Token abc", &stubValidator{}},
		"empty token":      {"Bearer ", &stubValidator{}},
		"validator reject": {"Bearer not-a-token", &stubValidator{err: errors.New("bad signature")}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			err := Auth(tc.validator)(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})(c)

			if !errors.Is(err, domain.ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
