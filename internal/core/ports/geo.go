package ports

import (
	"context"

	"github.com/cityfix/platform/internal/core/domain"
)

// Geocoder resolves addresses to coordinates and back. Implementations
// return domain.ErrLocationNotFound for empty results and
// domain.ErrGeocoderUnavailable for upstream failures.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*domain.Location, error)
	Reverse(ctx context.Context, lat, lng float64) (*domain.Location, error)
}
