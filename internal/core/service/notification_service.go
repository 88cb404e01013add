package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/cityfix/platform/internal/core/domain"
	"github.com/cityfix/platform/internal/core/ports"
)

const notificationListLimit = 50

// NotificationService stores in-app notifications and per-user preferences.
// Stored notifications are handed to the dispatcher for publishing.
type NotificationService struct {
	notifications *ResourceService
	store         ports.DocumentStore
	dispatcher    ports.NotificationDispatcher
	log           zerolog.Logger
	now           func() time.Time
}

// NewNotificationService wires the notification use cases. dispatcher may be
// nil, in which case nothing is published.
func NewNotificationService(store ports.DocumentStore, dispatcher ports.NotificationDispatcher, log zerolog.Logger) *NotificationService {
	return &NotificationService{
		notifications: newNotificationResource(store),
		store:         store,
		dispatcher:    dispatcher,
		log:           log,
		now:           time.Now,
	}
}

func (s *NotificationService) Create(ctx context.Context, body domain.Document) (domain.Document, error) {
	doc, err := s.notifications.Create(ctx, body)
	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		s.dispatcher.Enqueue(domain.NotificationEvent{
			NotificationID: doc.ID(),
			UserID:         doc.String("user_id"),
			TicketID:       doc.String("ticket_id"),
			Type:           doc.String("type"),
			Title:          doc.String("title"),
			Message:        doc.String("message"),
			CreatedAt:      doc.Time("created_at"),
		})
	}
	return doc, nil
}

// List returns the newest notifications, optionally for a single user.
func (s *NotificationService) List(ctx context.Context, userID string) ([]domain.Document, error) {
	filter := domain.Document{}
	if userID != "" {
		filter["user_id"] = userID
	}
	return s.notifications.List(ctx, filter)
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	return s.notifications.Update(ctx, id, domain.Document{"read": true})
}

func (s *NotificationService) Delete(ctx context.Context, id string) error {
	return s.notifications.Delete(ctx, id)
}

// Preferences returns the stored preferences of a user, or the defaults.
func (s *NotificationService) Preferences(ctx context.Context, userID string) (domain.Document, error) {
	doc, err := s.store.FindOne(ctx, domain.CollectionNotificationPreferences, domain.Document{"user_id": domain.Ref(userID)})
	if errors.Is(err, domain.ErrNotFound) {
		prefs := domain.DefaultPreferences()
		prefs["user_id"] = userID
		return prefs, nil
	}
	return doc, err
}

// UpdatePreferences merges body over the current preferences of a user and
// stores the result.
func (s *NotificationService) UpdatePreferences(ctx context.Context, userID string, body domain.Document) (domain.Document, error) {
	current, err := s.Preferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	set := stripReserved(current)
	for k, v := range stripReserved(body) {
		set[k] = v
	}
	delete(set, "user_id")
	set["updated_at"] = s.now().UTC()

	filter := domain.Document{"user_id": domain.Ref(userID)}
	if err := s.store.Upsert(ctx, domain.CollectionNotificationPreferences, filter, set); err != nil {
		return nil, err
	}
	return s.Preferences(ctx, userID)
}
