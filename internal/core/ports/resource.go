package ports

import (
	"context"

	"github.com/cityfix/platform/internal/core/domain"
)

// ResourceService is the create/list/read/update/delete surface shared by the
// passthrough collections.
type ResourceService interface {
	Create(ctx context.Context, body domain.Document) (domain.Document, error)
	List(ctx context.Context, filter domain.Document) ([]domain.Document, error)
	Get(ctx context.Context, id string) (domain.Document, error)
	Update(ctx context.Context, id string, body domain.Document) error
	Delete(ctx context.Context, id string) error
}
