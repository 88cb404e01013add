package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/cityfix/platform/internal/core/domain"
)

func rbacContext(claims *domain.Claims) echo.Context {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if claims != nil {
		c.Set(ClaimsKey, *claims)
	}
	return c
}

func TestRBAC_AllowsListedRole(t *testing.T) {
	c := rbacContext(&domain.Claims{UserID: "u1", Role: domain.RoleManager})

	called := false
	err := RBAC(domain.RoleAdmin, domain.RoleManager)(func(c echo.Context) error {
		called = true
		return nil
	})(c)

	if err != nil || !called {
		t.Fatalf("expected pass-through, err=%v called=%v", err, called)
	}
}

func TestRBAC_ForbidsOtherRole(t *testing.T) {
	c := rbacContext(&domain.Claims{UserID: "u1", Role: domain.RoleCitizen})

	err := RBAC(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})(c)

	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRBAC_WithoutClaims(t *testing.T) {
	err := RBAC(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})(rbacContext(nil))

	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
