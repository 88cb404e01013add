package ports

import (
	"context"

	"github.com/cityfix/platform/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Update applies the non-nil fields of upd and refreshes updated_at.
	Update(ctx context.Context, id string, upd domain.ProfileUpdate) (*domain.User, error)
	Count(ctx context.Context) (int64, error)
}
