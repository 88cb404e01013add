package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cityfix/platform/internal/core/domain"
)

// GeoService is the geo surface used by GeoHandler.
type GeoService interface {
	Geocode(ctx context.Context, address string) (*domain.Location, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (*domain.Location, error)
	CreateBoundary(ctx context.Context, body domain.Document) (domain.Document, error)
	BoundaryByMunicipality(ctx context.Context, municipalityID string) (domain.Document, error)
}

type GeoHandler struct {
	geo GeoService
}

func NewGeoHandler(geo GeoService) *GeoHandler {
	return &GeoHandler{geo: geo}
}

// Geocode resolves an address to coordinates.
//
// @Summary      Geocode address
// @Tags         geo
// @Produce      json
// @Param        address  query     string  true  "Free-form address"
// @Success      200      {object}  domain.Location
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      503      {object}  api.ErrorResponse
// @Router       /api/v1/geo/geocode [get]
func (h *GeoHandler) Geocode(c echo.Context) error {
	address := strings.TrimSpace(c.QueryParam("address"))
	if address == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "address is required")
	}

	loc, err := h.geo.Geocode(c.Request().Context(), address)
	if errors.Is(err, domain.ErrLocationNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Address not found")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loc)
}

// ReverseGeocode resolves coordinates to an address.
//
// @Summary      Reverse geocode
// @Tags         geo
// @Produce      json
// @Param        lat  query     number  true  "Latitude"
// @Param        lng  query     number  true  "Longitude"
// @Success      200  {object}  domain.Location
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      503  {object}  api.ErrorResponse
// @Router       /api/v1/geo/reverse-geocode [get]
func (h *GeoHandler) ReverseGeocode(c echo.Context) error {
	lat, err := coordinate(c, "lat", 90)
	if err != nil {
		return err
	}
	lng, err := coordinate(c, "lng", 180)
	if err != nil {
		return err
	}

	loc, err := h.geo.ReverseGeocode(c.Request().Context(), lat, lng)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loc)
}

// coordinate parses a required query parameter bounded by ±limit.
func coordinate(c echo.Context, name string, limit float64) (float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < -limit || v > limit {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a valid coordinate")
	}
	return v, nil
}

// CreateBoundary stores a municipality boundary polygon.
//
// @Summary      Create boundary
// @Tags         boundaries
// @Accept       json
// @Produce      json
// @Param        body  body      object  true  "Boundary fields (municipality_id, geometry)"
// @Success      201   {object}  createdResponse
// @Failure      400   {object}  api.ErrorResponse
// @Router       /api/v1/boundaries [post]
func (h *GeoHandler) CreateBoundary(c echo.Context) error {
	body, err := bindDocument(c)
	if err != nil {
		return err
	}

	doc, err := h.geo.CreateBoundary(c.Request().Context(), body)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, createdResponse{ID: doc.ID(), Message: "Boundary created"})
}

// BoundaryByMunicipality returns the boundary of a municipality.
//
// @Summary      Get municipality boundary
// @Tags         boundaries
// @Produce      json
// @Param        id   path      string  true  "Municipality ID"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/v1/boundaries/municipality/{id} [get]
func (h *GeoHandler) BoundaryByMunicipality(c echo.Context) error {
	doc, err := h.geo.BoundaryByMunicipality(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}
