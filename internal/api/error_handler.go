package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cityfix/platform/internal/core/domain"
	"github.com/cityfix/platform/pkg/logger"
)

// ErrorResponse is the canonical error envelope for all API errors.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

type errorMapping struct {
	err    error
	code   int
	detail string
}

// errorTable maps domain errors to HTTP answers. Order matters only for
// errors that wrap one another.
var errorTable = []errorMapping{
	{domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{domain.ErrMunicipalityNotFound, http.StatusNotFound, "Municipality not found"},
	{domain.ErrCategoryNotFound, http.StatusNotFound, "Category not found"},
	{domain.ErrTicketNotFound, http.StatusNotFound, "Ticket not found"},
	{domain.ErrFeedbackNotFound, http.StatusNotFound, "Feedback not found"},
	{domain.ErrFileNotFound, http.StatusNotFound, "File not found"},
	{domain.ErrBoundaryNotFound, http.StatusNotFound, "Boundary not found"},
	{domain.ErrNotificationNotFound, http.StatusNotFound, "Notification not found"},
	{domain.ErrLocationNotFound, http.StatusNotFound, "Location not found"},
	{domain.ErrNotFound, http.StatusNotFound, "Not found"},

	{domain.ErrInvalidID, http.StatusBadRequest, "Invalid ID format"},
	{domain.ErrEmailTaken, http.StatusBadRequest, "Email already registered"},
	{domain.ErrFeedbackExists, http.StatusBadRequest, "Feedback already exists for this ticket"},
	{domain.ErrNoFieldsToUpdate, http.StatusBadRequest, "No fields to update"},
	{domain.ErrFileTypeNotAllowed, http.StatusBadRequest, "File type not allowed"},
	{domain.ErrFileTooLarge, http.StatusBadRequest, "File too large"},
	{domain.ErrInvalidStatus, http.StatusBadRequest, "Invalid status"},
	{domain.ErrStatusReadOnly, http.StatusBadRequest, "Use PUT /api/v1/tickets/{id}/status to change the status"},
	{domain.ErrInvalidRating, http.StatusBadRequest, "Rating must be between 1 and 5"},
	{domain.ErrInvalidRole, http.StatusBadRequest, "Invalid role"},
	{domain.ErrDuplicate, http.StatusBadRequest, "Resource already exists"},

	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Incorrect email or password"},
	{domain.ErrInvalidToken, http.StatusUnauthorized, "Invalid authentication credentials"},
	{domain.ErrForbidden, http.StatusForbidden, "Insufficient permissions"},
	{domain.ErrTooManyAttempts, http.StatusTooManyRequests, "Too many login attempts, try again later"},
	{domain.ErrGeocoderUnavailable, http.StatusServiceUnavailable, "Geocoding service unavailable"},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"detail": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if code == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, ErrorResponse{Detail: msg})
	}
}

func resolveError(err error, base zerolog.Logger, c echo.Context) (int, string) {
	log := logger.FromContext(c.Request().Context(), base)

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Str("path", c.Path()).Msg("request rejected")
		}
		return he.Code, httpErrorDetail(he)
	}

	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			return m.code, m.detail
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Request().URL.Path).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Internal server error"
}

func httpErrorDetail(he *echo.HTTPError) string {
	if he.Code == http.StatusMethodNotAllowed {
		return "Method not allowed"
	}
	if s, ok := he.Message.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", he.Message)
}
