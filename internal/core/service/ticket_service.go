package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/cityfix/platform/internal/core/domain"
	"github.com/cityfix/platform/internal/core/ports"
)

// TicketFilterFields are the query parameters accepted when listing tickets.
var TicketFilterFields = []string{"status", "municipality_id", "citizen_id", "assigned_operator_id"}

// TicketService manages civic-issue tickets.
type TicketService struct {
	*ResourceService
	log zerolog.Logger
}

func NewTicketService(store ports.DocumentStore, log zerolog.Logger) *TicketService {
	return &TicketService{ResourceService: newTicketResource(store), log: log}
}

// Update applies a partial update. The status and resolved_at fields belong
// to UpdateStatus, which is role-gated at the route.
func (s *TicketService) Update(ctx context.Context, id string, body domain.Document) error {
	for _, field := range []string{"status", "resolved_at"} {
		if _, ok := body[field]; ok {
			return domain.ErrStatusReadOnly
		}
	}
	return s.ResourceService.Update(ctx, id, body)
}

// UpdateStatus moves a ticket to status. Resolving stamps resolved_at.
func (s *TicketService) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	if !status.Valid() {
		return domain.ErrInvalidStatus
	}
	if err := s.ResourceService.Update(ctx, id, domain.Document{"status": string(status)}); err != nil {
		return err
	}
	s.log.Info().Str("ticket_id", id).Str("status", string(status)).Msg("ticket status updated")
	return nil
}

// CommentService stores discussion threads attached to tickets.
type CommentService struct {
	res *ResourceService
}

func NewCommentService(store ports.DocumentStore) *CommentService {
	return &CommentService{res: newCommentResource(store)}
}

func (s *CommentService) Create(ctx context.Context, body domain.Document) (domain.Document, error) {
	return s.res.Create(ctx, body)
}

// ListByTicket returns the comments of a ticket, oldest first.
func (s *CommentService) ListByTicket(ctx context.Context, ticketID string) ([]domain.Document, error) {
	return s.res.List(ctx, domain.Document{"ticket_id": ticketID})
}

// FeedbackService stores the single citizen rating allowed per ticket.
type FeedbackService struct {
	res *ResourceService
}

func NewFeedbackService(store ports.DocumentStore) *FeedbackService {
	return &FeedbackService{res: newFeedbackResource(store)}
}

func (s *FeedbackService) Create(ctx context.Context, body domain.Document) (domain.Document, error) {
	if err := validateRating(body["rating"]); err != nil {
		return nil, err
	}

	ticketID := body.String("ticket_id")
	if ticketID != "" {
		_, err := s.ByTicket(ctx, ticketID)
		switch {
		case err == nil:
			return nil, domain.ErrFeedbackExists
		case !errors.Is(err, domain.ErrFeedbackNotFound):
			return nil, err
		}
	}

	// The unique index on ticket_id settles concurrent submissions.
	doc, err := s.res.Create(ctx, body)
	if errors.Is(err, domain.ErrDuplicate) {
		return nil, domain.ErrFeedbackExists
	}
	return doc, err
}

func (s *FeedbackService) ByTicket(ctx context.Context, ticketID string) (domain.Document, error) {
	return s.res.FindOne(ctx, domain.Document{"ticket_id": ticketID})
}

// validateRating accepts a missing rating or a whole number from 1 to 5.
// JSON numbers arrive as float64.
func validateRating(v any) error {
	var r float64
	switch n := v.(type) {
	case nil:
		return nil
	case float64:
		r = n
	case int:
		r = float64(n)
	case int64:
		r = float64(n)
	default:
		return domain.ErrInvalidRating
	}
	if r < 1 || r > 5 || r != float64(int(r)) {
		return domain.ErrInvalidRating
	}
	return nil
}
