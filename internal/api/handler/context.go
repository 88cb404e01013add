package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/cityfix/platform/internal/api/middleware"
	"github.com/cityfix/platform/internal/core/domain"
)

// ctxClaims returns the identity injected by the Auth middleware. A missing
// or id-less identity means the route was mounted without Auth.
func ctxClaims(c echo.Context) (domain.Claims, error) {
	claims, ok := middleware.Claims(c)
	if !ok || claims.UserID == "" {
		return domain.Claims{}, domain.ErrInvalidToken
	}
	return claims, nil
}

// messageResponse is the body of mutations that return no document.
type messageResponse struct {
	Message string `json:"message"`
}

// createdResponse is the body of creations that answer with the new id only.
type createdResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}
