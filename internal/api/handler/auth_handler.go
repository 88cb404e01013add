package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cityfix/platform/internal/api/metrics"
	"github.com/cityfix/platform/internal/core/domain"
	"github.com/cityfix/platform/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	FirstName      string `json:"first_name" validate:"required"`
	LastName       string `json:"last_name" validate:"required"`
	Phone          string `json:"phone,omitempty"`
	Role           string `json:"role,omitempty" validate:"omitempty,oneof=citizen operator manager admin"`
	MunicipalityID string `json:"municipality_id,omitempty" validate:"omitempty,mongodb"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type profileUpdateRequest struct {
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	MunicipalityID *string `json:"municipality_id,omitempty" validate:"omitempty,mongodb"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *domain.User `json:"user"`
}

func newTokenResponse(res *ports.AuthResult) tokenResponse {
	return tokenResponse{AccessToken: res.AccessToken, TokenType: "bearer", User: res.User}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  tokenResponse
// @Failure      400   {object}  api.ErrorResponse
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:          req.Email,
		Password:       req.Password,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		Role:           domain.Role(req.Role),
		MunicipalityID: req.MunicipalityID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, newTokenResponse(res))
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  api.ErrorResponse
// @Failure      429   {object}  api.ErrorResponse
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	switch {
	case err == nil:
		metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	case errors.Is(err, domain.ErrTooManyAttempts):
		metrics.LoginAttemptsTotal.WithLabelValues("throttled").Inc()
		return err
	case errors.Is(err, domain.ErrInvalidCredentials):
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return err
	default:
		return err
	}

	return c.JSON(http.StatusOK, newTokenResponse(res))
}

// Logout is a no-op: tokens are stateless and expire on their own.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Router       /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if _, err := ctxClaims(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Successfully logged out"})
}

// VerifyToken returns the profile behind a valid token.
//
// @Summary      Verify token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/v1/auth/verify-token [get]
func (h *AuthHandler) VerifyToken(c echo.Context) error {
	return h.Profile(c)
}

// RefreshToken issues a fresh token for the caller.
//
// @Summary      Refresh token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  tokenResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/v1/auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	res, err := h.authService.Refresh(c.Request().Context(), claims)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newTokenResponse(res))
}

// Profile returns the caller's profile.
//
// @Summary      Current user profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/v1/users/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Profile(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// UpdateProfile applies a partial update to the caller's profile.
//
// @Summary      Update current user profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileUpdateRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  api.ErrorResponse
// @Failure      404   {object}  api.ErrorResponse
// @Router       /api/v1/users/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req profileUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), claims.UserID, domain.ProfileUpdate{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		MunicipalityID: req.MunicipalityID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// GetUser returns any user by id.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/v1/users/{id} [get]
func (h *AuthHandler) GetUser(c echo.Context) error {
	user, err := h.authService.Profile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
