package service

import (
	"time"

	"github.com/cityfix/platform/internal/core/domain"
	"github.com/cityfix/platform/internal/core/ports"
)

func NewMunicipalityService(store ports.DocumentStore) *ResourceService {
	return NewResourceService(store, ResourceKind{
		Collection: domain.CollectionMunicipalities,
		NotFound:   domain.ErrMunicipalityNotFound,
		RefFields:  []string{"admin_id"},
		Sort:       ports.FindOptions{SortField: "name"},
	})
}

func NewCategoryService(store ports.DocumentStore) *ResourceService {
	return NewResourceService(store, ResourceKind{
		Collection: domain.CollectionCategories,
		NotFound:   domain.ErrCategoryNotFound,
		Sort:       ports.FindOptions{SortField: "name"},
	})
}

func newTicketResource(store ports.DocumentStore) *ResourceService {
	return NewResourceService(store, ResourceKind{
		Collection: domain.CollectionTickets,
		NotFound:   domain.ErrTicketNotFound,
		RefFields:  []string{"municipality_id", "citizen_id", "assigned_operator_id"},
		Sort:       ports.FindOptions{SortField: "created_at", SortDesc: true},
		OnCreate: func(doc domain.Document, now time.Time) {
			doc["status"] = string(domain.TicketReceived)
			doc["updated_at"] = now
		},
		OnUpdate: stampResolved,
	})
}

func newCommentResource(store ports.DocumentStore) *ResourceService {
	return NewResourceService(store, ResourceKind{
		Collection: domain.CollectionComments,
		RefFields:  []string{"ticket_id", "user_id"},
		Sort:       ports.FindOptions{SortField: "created_at"},
	})
}

func newFeedbackResource(store ports.DocumentStore) *ResourceService {
	return NewResourceService(store, ResourceKind{
		Collection: domain.CollectionFeedback,
		NotFound:   domain.ErrFeedbackNotFound,
		RefFields:  []string{"ticket_id", "citizen_id"},
	})
}

func newBoundaryResource(store ports.DocumentStore) *ResourceService {
	return NewResourceService(store, ResourceKind{
		Collection: domain.CollectionBoundaries,
		NotFound:   domain.ErrBoundaryNotFound,
		RefFields:  []string{"municipality_id"},
	})
}

func newNotificationResource(store ports.DocumentStore) *ResourceService {
	return NewResourceService(store, ResourceKind{
		Collection: domain.CollectionNotifications,
		NotFound:   domain.ErrNotificationNotFound,
		RefFields:  []string{"user_id", "ticket_id"},
		Sort:       ports.FindOptions{SortField: "created_at", SortDesc: true, Limit: notificationListLimit},
		OnCreate: func(doc domain.Document, _ time.Time) {
			doc["read"] = false
		},
	})
}

func stampResolved(set domain.Document, now time.Time) {
	if set.String("status") == string(domain.TicketResolved) {
		set["resolved_at"] = now
	}
}
