package domain

// Collection names shared by every service of the platform.
const (
	CollectionUsers                   = "users"
	CollectionMunicipalities          = "municipalities"
	CollectionCategories              = "maintenance_categories"
	CollectionTickets                 = "tickets"
	CollectionComments                = "ticket_comments"
	CollectionFeedback                = "ticket_feedback"
	CollectionMediaFiles              = "media_files"
	CollectionNotifications           = "notifications"
	CollectionNotificationPreferences = "notification_preferences"
	CollectionBoundaries              = "municipality_boundaries"
)
