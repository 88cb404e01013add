package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cityfix/platform/internal/core/domain"
	"github.com/cityfix/platform/internal/core/ports"
)

// ResourceHandler exposes a passthrough collection as a REST resource.
type ResourceHandler struct {
	svc ports.ResourceService
	// filters are the query parameters copied into the List filter.
	filters []string
}

func NewResourceHandler(svc ports.ResourceService, filters ...string) *ResourceHandler {
	return &ResourceHandler{svc: svc, filters: filters}
}

// Create stores the request body and returns it with its new id.
//
// @Summary      Create a document
// @Tags         resources
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      object  true  "Document fields"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  api.ErrorResponse
// @Router       /api/v1/municipalities [post]
// @Router       /api/v1/categories [post]
// @Router       /api/v1/tickets [post]
func (h *ResourceHandler) Create(c echo.Context) error {
	body, err := bindDocument(c)
	if err != nil {
		return err
	}

	doc, err := h.svc.Create(c.Request().Context(), body)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, doc)
}

// List returns every document matching the supported query filters.
//
// @Summary      List documents
// @Tags         resources
// @Produce      json
// @Param        status                query  string  false  "Ticket status"
// @Param        municipality_id       query  string  false  "Municipality ID"
// @Param        citizen_id            query  string  false  "Citizen ID"
// @Param        assigned_operator_id  query  string  false  "Operator ID"
// @Success      200  {array}   map[string]any
// @Failure      400  {object}  api.ErrorResponse
// @Router       /api/v1/municipalities [get]
// @Router       /api/v1/categories [get]
// @Router       /api/v1/tickets [get]
func (h *ResourceHandler) List(c echo.Context) error {
	filter := domain.Document{}
	for _, name := range h.filters {
		if v := c.QueryParam(name); v != "" {
			filter[name] = v
		}
	}

	docs, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	if docs == nil {
		docs = []domain.Document{}
	}

	return c.JSON(http.StatusOK, docs)
}

// Get returns a single document.
//
// @Summary      Get a document
// @Tags         resources
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/v1/municipalities/{id} [get]
// @Router       /api/v1/categories/{id} [get]
// @Router       /api/v1/tickets/{id} [get]
func (h *ResourceHandler) Get(c echo.Context) error {
	doc, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

// Update applies the request body as a partial update.
//
// @Summary      Update a document
// @Tags         resources
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Document ID"
// @Param        body  body      object  true  "Fields to change"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  api.ErrorResponse
// @Failure      404   {object}  api.ErrorResponse
// @Router       /api/v1/municipalities/{id} [put]
// @Router       /api/v1/categories/{id} [put]
// @Router       /api/v1/tickets/{id} [put]
func (h *ResourceHandler) Update(c echo.Context) error {
	body, err := bindDocument(c)
	if err != nil {
		return err
	}

	if err := h.svc.Update(c.Request().Context(), c.Param("id"), body); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Updated successfully"})
}

// Delete removes a document.
//
// @Summary      Delete a document
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/v1/municipalities/{id} [delete]
// @Router       /api/v1/categories/{id} [delete]
// @Router       /api/v1/tickets/{id} [delete]
func (h *ResourceHandler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Deleted successfully"})
}
