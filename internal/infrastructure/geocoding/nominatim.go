package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cityfix/platform/internal/core/domain"
)

const (
	DefaultBaseURL = "https://nominatim.openstreetmap.org"
	UserAgent      = "CityFixApp/1.0"
	defaultTimeout = 10 * time.Second
)

// Nominatim resolves addresses with the OpenStreetMap Nominatim HTTP API.
type Nominatim struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

func NewNominatim(baseURL string, timeout time.Duration, log zerolog.Logger) *Nominatim {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Nominatim{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

type place struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Error       string `json:"error"`
}

func (p place) location() (*domain.Location, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse lat %q: %w", p.Lat, err)
	}
	lng, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse lon %q: %w", p.Lon, err)
	}
	return &domain.Location{Address: p.DisplayName, Latitude: lat, Longitude: lng}, nil
}

func (n *Nominatim) Geocode(ctx context.Context, address string) (*domain.Location, error) {
	q := url.Values{"q": {address}, "format": {"json"}, "limit": {"1"}}

	var places []place
	if err := n.get(ctx, "/search", q, &places); err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, domain.ErrLocationNotFound
	}
	loc, err := places[0].location()
	if err != nil {
		n.log.Error().Err(err).Msg("malformed geocoding response")
		return nil, domain.ErrGeocoderUnavailable
	}
	return loc, nil
}

func (n *Nominatim) Reverse(ctx context.Context, lat, lng float64) (*domain.Location, error) {
	q := url.Values{
		"lat":    {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":    {strconv.FormatFloat(lng, 'f', -1, 64)},
		"format": {"json"},
	}

	var p place
	if err := n.get(ctx, "/reverse", q, &p); err != nil {
		return nil, err
	}
	if p.Error != "" || p.DisplayName == "" {
		return nil, domain.ErrLocationNotFound
	}
	loc, err := p.location()
	if err != nil {
		n.log.Error().Err(err).Msg("malformed reverse geocoding response")
		return nil, domain.ErrGeocoderUnavailable
	}
	return loc, nil
}

// get performs one request. Transport failures and non-200 answers map to
// domain.ErrGeocoderUnavailable.
func (n *Nominatim) get(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build geocoding request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.log.Error().Err(err).Str("path", path).Msg("geocoding request failed")
		return domain.ErrGeocoderUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		n.log.Error().Int("status", resp.StatusCode).Str("path", path).Msg("geocoding upstream error")
		return domain.ErrGeocoderUnavailable
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		n.log.Error().Err(err).Str("path", path).Msg("decode geocoding response")
		return domain.ErrGeocoderUnavailable
	}
	return nil
}
