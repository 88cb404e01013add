package service

import (
	"context"
	"strings"

	"github.com/cityfix/platform/internal/core/domain"
	"github.com/cityfix/platform/internal/core/ports"
)

// GeoService combines address lookups with stored municipality boundaries.
type GeoService struct {
	geocoder   ports.Geocoder
	boundaries *ResourceService
}

func NewGeoService(geocoder ports.Geocoder, store ports.DocumentStore) *GeoService {
	return &GeoService{geocoder: geocoder, boundaries: newBoundaryResource(store)}
}

func (s *GeoService) Geocode(ctx context.Context, address string) (*domain.Location, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, domain.ErrLocationNotFound
	}
	return s.geocoder.Geocode(ctx, address)
}

func (s *GeoService) ReverseGeocode(ctx context.Context, lat, lng float64) (*domain.Location, error) {
	return s.geocoder.Reverse(ctx, lat, lng)
}

func (s *GeoService) CreateBoundary(ctx context.Context, body domain.Document) (domain.Document, error) {
	return s.boundaries.Create(ctx, body)
}

func (s *GeoService) BoundaryByMunicipality(ctx context.Context, municipalityID string) (domain.Document, error) {
	return s.boundaries.FindOne(ctx, domain.Document{"municipality_id": municipalityID})
}
