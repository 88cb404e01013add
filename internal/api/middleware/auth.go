package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cityfix/platform/internal/core/domain"
	"github.com/cityfix/platform/internal/core/ports"
)

// Context keys set by Auth.
const (
	ClaimsKey = "claims"
	UserIDKey = "user_id"
	RoleKey   = "role"
)

// Auth validates the bearer token and injects its claims into the context.
// Every failure surfaces as domain.ErrInvalidToken.
func Auth(validator ports.TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return domain.ErrInvalidToken
			}

			claims, err := validator.Validate(strings.TrimSpace(parts[1]))
			if err != nil {
				return domain.ErrInvalidToken
			}

			c.Set(ClaimsKey, *claims)
			c.Set(UserIDKey, claims.UserID)
			c.Set(RoleKey, string(claims.Role))

			return next(c)
		}
	}
}

// Claims returns the claims injected by Auth.
func Claims(c echo.Context) (domain.Claims, bool) {
	claims, ok := c.Get(ClaimsKey).(domain.Claims)
	return claims, ok
}
