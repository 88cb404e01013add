package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cityfix/platform/internal/core/domain"
)

// NotificationService is the notification surface used by NotificationHandler.
type NotificationService interface {
	Create(ctx context.Context, body domain.Document) (domain.Document, error)
	List(ctx context.Context, userID string) ([]domain.Document, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Preferences(ctx context.Context, userID string) (domain.Document, error)
	UpdatePreferences(ctx context.Context, userID string, body domain.Document) (domain.Document, error)
}

type NotificationHandler struct {
	notifications NotificationService
}

func NewNotificationHandler(notifications NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// Create stores an in-app notification and queues it for publishing.
//
// @Summary      Create notification
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        body  body      object  true  "Notification fields (user_id, ticket_id, type, title, message)"
// @Success      201   {object}  createdResponse
// @Failure      400   {object}  api.ErrorResponse
// @Router       /api/v1/notifications [post]
func (h *NotificationHandler) Create(c echo.Context) error {
	body, err := bindDocument(c)
	if err != nil {
		return err
	}

	doc, err := h.notifications.Create(c.Request().Context(), body)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, createdResponse{ID: doc.ID(), Message: "Notification created"})
}

// List returns the newest notifications.
//
// @Summary      List notifications
// @Tags         notifications
// @Produce      json
// @Param        user_id  query     string  false  "Recipient ID"
// @Success      200      {array}   map[string]any
// @Failure      400      {object}  api.ErrorResponse
// @Router       /api/v1/notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	docs, err := h.notifications.List(c.Request().Context(), c.QueryParam("user_id"))
	if err != nil {
		return err
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return c.JSON(http.StatusOK, docs)
}

// MarkRead flags a notification as read.
//
// @Summary      Mark notification read
// @Tags         notifications
// @Produce      json
// @Param        id   path      string  true  "Notification ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/v1/notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	if err := h.notifications.MarkRead(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Notification marked as read"})
}

// Delete removes a notification.
//
// @Summary      Delete notification
// @Tags         notifications
// @Produce      json
// @Param        id   path      string  true  "Notification ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/v1/notifications/{id} [delete]
func (h *NotificationHandler) Delete(c echo.Context) error {
	if err := h.notifications.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Notification deleted"})
}

// Preferences returns a user's delivery preferences.
//
// @Summary      Get preferences
// @Tags         preferences
// @Produce      json
// @Param        user_id  path      string  true  "User ID"
// @Success      200      {object}  map[string]any
// @Failure      400      {object}  api.ErrorResponse
// @Router       /api/v1/preferences/{user_id} [get]
func (h *NotificationHandler) Preferences(c echo.Context) error {
	prefs, err := h.notifications.Preferences(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prefs)
}

// UpdatePreferences upserts a user's delivery preferences.
//
// @Summary      Update preferences
// @Tags         preferences
// @Accept       json
// @Produce      json
// @Param        user_id  path      string  true  "User ID"
// @Param        body     body      object  true  "Preference flags"
// @Success      200      {object}  messageResponse
// @Failure      400      {object}  api.ErrorResponse
// @Router       /api/v1/preferences/{user_id} [put]
func (h *NotificationHandler) UpdatePreferences(c echo.Context) error {
	body, err := bindDocument(c)
	if err != nil {
		return err
	}

	if _, err := h.notifications.UpdatePreferences(c.Request().Context(), c.Param("user_id"), body); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Preferences updated successfully"})
}
