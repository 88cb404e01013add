package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/cityfix/platform/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := Claims(c)
			if !ok {
				return domain.ErrInvalidToken
			}
			if !claims.HasRole(allowedRoles...) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
