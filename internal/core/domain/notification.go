package domain

import "time"

// DefaultPreferences is returned for users that never stored preferences.
func DefaultPreferences() Document {
	return Document{
		"email_enabled":  true,
		"sms_enabled":    false,
		"push_enabled":   true,
		"in_app_enabled": true,
	}
}

// NotificationEvent is published after a notification has been stored.
type NotificationEvent struct {
	NotificationID string    `json:"notification_id"`
	UserID         string    `json:"user_id"`
	TicketID       string    `json:"ticket_id,omitempty"`
	Type           string    `json:"type,omitempty"`
	Title          string    `json:"title,omitempty"`
	Message        string    `json:"message,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
