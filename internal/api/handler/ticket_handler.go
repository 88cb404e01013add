package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cityfix/platform/internal/core/domain"
	"github.com/cityfix/platform/internal/core/ports"
)

// TicketService is the ticket surface used by TicketHandler.
type TicketService interface {
	ports.ResourceService
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error
}

// TicketHandler serves tickets. CRUD routes come from the embedded
// ResourceHandler.
type TicketHandler struct {
	*ResourceHandler
	tickets TicketService
}

func NewTicketHandler(tickets TicketService, filters ...string) *TicketHandler {
	return &TicketHandler{ResourceHandler: NewResourceHandler(tickets, filters...), tickets: tickets}
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus moves a ticket through its lifecycle.
//
// @Summary      Update ticket status
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Ticket ID"
// @Param        body  body      statusRequest  true  "New status"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  api.ErrorResponse
// @Failure      403   {object}  api.ErrorResponse
// @Failure      404   {object}  api.ErrorResponse
// @Router       /api/v1/tickets/{id}/status [put]
func (h *TicketHandler) UpdateStatus(c echo.Context) error {
	var req statusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.tickets.UpdateStatus(c.Request().Context(), c.Param("id"), domain.TicketStatus(req.Status)); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Status updated successfully"})
}

// CommentService is the comment surface used by CommentHandler.
type CommentService interface {
	Create(ctx context.Context, body domain.Document) (domain.Document, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Document, error)
}

type CommentHandler struct {
	comments CommentService
}

func NewCommentHandler(comments CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// Create adds a comment to a ticket.
//
// @Summary      Create comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        body  body      object  true  "Comment fields (ticket_id, user_id, content)"
// @Success      201   {object}  createdResponse
// @Failure      400   {object}  api.ErrorResponse
// @Router       /api/v1/comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	body, err := bindDocument(c)
	if err != nil {
		return err
	}

	doc, err := h.comments.Create(c.Request().Context(), body)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, createdResponse{ID: doc.ID(), Message: "Comment created"})
}

// ListByTicket returns a ticket's comments, oldest first.
//
// @Summary      List ticket comments
// @Tags         comments
// @Produce      json
// @Param        ticket_id  path      string  true  "Ticket ID"
// @Success      200        {array}   map[string]any
// @Failure      400        {object}  api.ErrorResponse
// @Router       /api/v1/comments/ticket/{ticket_id} [get]
func (h *CommentHandler) ListByTicket(c echo.Context) error {
	docs, err := h.comments.ListByTicket(c.Request().Context(), c.Param("ticket_id"))
	if err != nil {
		return err
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return c.JSON(http.StatusOK, docs)
}

// FeedbackService is the feedback surface used by FeedbackHandler.
type FeedbackService interface {
	Create(ctx context.Context, body domain.Document) (domain.Document, error)
	ByTicket(ctx context.Context, ticketID string) (domain.Document, error)
}

type FeedbackHandler struct {
	feedback FeedbackService
}

func NewFeedbackHandler(feedback FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// Create stores the citizen's rating of a resolved ticket.
//
// @Summary      Create feedback
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Param        body  body      object  true  "Feedback fields (ticket_id, citizen_id, rating, comment)"
// @Success      201   {object}  createdResponse
// @Failure      400   {object}  api.ErrorResponse
// @Router       /api/v1/feedback [post]
func (h *FeedbackHandler) Create(c echo.Context) error {
	body, err := bindDocument(c)
	if err != nil {
		return err
	}

	doc, err := h.feedback.Create(c.Request().Context(), body)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, createdResponse{ID: doc.ID(), Message: "Feedback created"})
}

// ByTicket returns the feedback left on a ticket.
//
// @Summary      Get ticket feedback
// @Tags         feedback
// @Produce      json
// @Param        ticket_id  path      string  true  "Ticket ID"
// @Success      200        {object}  map[string]any
// @Failure      400        {object}  api.ErrorResponse
// @Failure      404        {object}  api.ErrorResponse
// @Router       /api/v1/feedback/ticket/{ticket_id} [get]
func (h *FeedbackHandler) ByTicket(c echo.Context) error {
	doc, err := h.feedback.ByTicket(c.Request().Context(), c.Param("ticket_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}
