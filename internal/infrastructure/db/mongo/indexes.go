package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cityfix/platform/internal/core/domain"
)

// Index is a single-field index on a collection.
type Index struct {
	Collection string
	Field      string
	Unique     bool
	Desc       bool
}

// Index sets created at startup by the owning service.
var (
	UserIndexes = []Index{
		{Collection: domain.CollectionUsers, Field: "email", Unique: true},
		{Collection: domain.CollectionUsers, Field: "municipality_id"},
		{Collection: domain.CollectionUsers, Field: "role"},
		{Collection: domain.CollectionUsers, Field: "created_at", Desc: true},
	}
	TicketIndexes = []Index{
		{Collection: domain.CollectionTickets, Field: "municipality_id"},
		{Collection: domain.CollectionTickets, Field: "status"},
		{Collection: domain.CollectionTickets, Field: "citizen_id"},
		{Collection: domain.CollectionTickets, Field: "created_at", Desc: true},
		{Collection: domain.CollectionComments, Field: "ticket_id"},
		{Collection: domain.CollectionFeedback, Field: "ticket_id", Unique: true},
	}
	MediaIndexes = []Index{
		{Collection: domain.CollectionMediaFiles, Field: "ticket_id"},
	}
	GeoIndexes = []Index{
		{Collection: domain.CollectionBoundaries, Field: "municipality_id", Unique: true},
	}
	NotificationIndexes = []Index{
		{Collection: domain.CollectionNotifications, Field: "user_id"},
		{Collection: domain.CollectionNotifications, Field: "created_at", Desc: true},
		{Collection: domain.CollectionNotificationPreferences, Field: "user_id", Unique: true},
	}
)

// EnsureIndexes creates the given indexes, grouped per collection.
func EnsureIndexes(ctx context.Context, db *mongo.Database, indexes []Index) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	models := make(map[string][]mongo.IndexModel)
	var order []string
	for _, idx := range indexes {
		dir := 1
		if idx.Desc {
			dir = -1
		}
		model := mongo.IndexModel{Keys: bson.D{{Key: idx.Field, Value: dir}}}
		if idx.Unique {
			model.Options = options.Index().SetUnique(true)
		}
		if _, ok := models[idx.Collection]; !ok {
			order = append(order, idx.Collection)
		}
		models[idx.Collection] = append(models[idx.Collection], model)
	}

	for _, coll := range order {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models[coll]); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
