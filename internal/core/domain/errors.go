package domain

import "errors"

// Not found.
var (
	ErrNotFound             = errors.New("resource not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrMunicipalityNotFound = errors.New("municipality not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrTicketNotFound       = errors.New("ticket not found")
	ErrFeedbackNotFound     = errors.New("feedback not found")
	ErrFileNotFound         = errors.New("file not found")
	ErrBoundaryNotFound     = errors.New("boundary not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrLocationNotFound     = errors.New("location not found")
)

// Validation and conflicts.
var (
	ErrInvalidID          = errors.New("invalid id")
	ErrDuplicate          = errors.New("duplicate key")
	ErrEmailTaken         = errors.New("email already registered")
	ErrFeedbackExists     = errors.New("feedback already exists for this ticket")
	ErrNoFieldsToUpdate   = errors.New("no fields to update")
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrFileTooLarge       = errors.New("file too large")
	ErrInvalidStatus      = errors.New("invalid ticket status")
	ErrStatusReadOnly     = errors.New("ticket status changes only through the status endpoint")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
)

// Authentication and authorization.
var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInvalidToken       = errors.New("invalid authentication credentials")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// Upstream dependencies.
var ErrGeocoderUnavailable = errors.New("geocoding service unavailable")

// ErrInvalidRole is returned when a registration names an unknown role.
var ErrInvalidRole = errors.New("invalid role")
