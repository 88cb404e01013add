package ports

import (
	"context"

	"github.com/cityfix/platform/internal/core/domain"
)

// FindOptions controls ordering and size of a Find.
type FindOptions struct {
	SortField string
	SortDesc  bool
	Limit     int64
}

// DocumentStore is the schemaless persistence shared by the backend services.
// Filter and document values of type domain.Ref are stored as object ids.
// Every lookup by id returns domain.ErrNotFound when nothing matches and
// domain.ErrInvalidID when the id is malformed.
type DocumentStore interface {
	Insert(ctx context.Context, collection string, doc domain.Document) (string, error)
	FindByID(ctx context.Context, collection, id string) (domain.Document, error)
	FindOne(ctx context.Context, collection string, filter domain.Document) (domain.Document, error)
	Find(ctx context.Context, collection string, filter domain.Document, opts FindOptions) ([]domain.Document, error)
	UpdateByID(ctx context.Context, collection, id string, set domain.Document) error
	Upsert(ctx context.Context, collection string, filter, set domain.Document) error
	DeleteByID(ctx context.Context, collection, id string) error
	Count(ctx context.Context, collection string, filter domain.Document) (int64, error)
}
