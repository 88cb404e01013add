package api

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cityfix/platform/internal/api/handler"
	"github.com/cityfix/platform/internal/api/middleware"
	"github.com/cityfix/platform/internal/core/domain"
	"github.com/cityfix/platform/internal/core/ports"
	infrahttp "github.com/cityfix/platform/internal/infrastructure/http"
	"github.com/cityfix/platform/internal/infrastructure/http/handlers"
)

// NewRouter builds the Echo instance of a backend service with error
// mapping, validation and the operational endpoints in place.
func NewRouter(service string, log zerolog.Logger, deps map[string]handlers.Pinger) *echo.Echo {
	return infrahttp.NewRouter(infrahttp.Options{
		Service:      service,
		Log:          log,
		ErrorHandler: NewHTTPErrorHandler(log),
		Validator:    handler.NewValidator(),
		Dependencies: deps,
	})
}

// RegisterAuthRoutes mounts /api/v1/auth and /api/v1/users.
func RegisterAuthRoutes(e *echo.Echo, h *handler.AuthHandler, tokens ports.TokenValidator) {
	authMiddleware := middleware.Auth(tokens)

	auth := e.Group("/api/v1/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/logout", h.Logout, authMiddleware)
	auth.GET("/verify-token", h.VerifyToken, authMiddleware)
	auth.POST("/refresh-token", h.RefreshToken, authMiddleware)

	users := e.Group("/api/v1/users", authMiddleware)
	users.GET("/profile", h.Profile)
	users.PUT("/profile", h.UpdateProfile)
	users.GET("/:id", h.GetUser)
}

// AdminHandlers groups the handlers of the admin service.
type AdminHandlers struct {
	Municipalities *handler.ResourceHandler
	Categories     *handler.ResourceHandler
	Statistics     *handler.StatisticsHandler
}

// RegisterAdminRoutes mounts /api/v1/municipalities, /api/v1/categories and
// /api/v1/statistics. Reads are public; writes require the admin role.
func RegisterAdminRoutes(e *echo.Echo, h AdminHandlers, tokens ports.TokenValidator) {
	authMiddleware := middleware.Auth(tokens)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	mountResource(e.Group("/api/v1/municipalities"), h.Municipalities, authMiddleware, adminOnly)
	mountResource(e.Group("/api/v1/categories"), h.Categories, authMiddleware, adminOnly)

	e.GET("/api/v1/statistics", h.Statistics.Summary,
		authMiddleware, middleware.RBAC(domain.RoleAdmin, domain.RoleManager))
}

func mountResource(g *echo.Group, h *handler.ResourceHandler, guard ...echo.MiddlewareFunc) {
	g.POST("", h.Create, guard...)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update, guard...)
	g.DELETE("/:id", h.Delete, guard...)
}

// TicketHandlers groups the handlers of the ticket service.
type TicketHandlers struct {
	Tickets  *handler.TicketHandler
	Comments *handler.CommentHandler
	Feedback *handler.FeedbackHandler
}

// RegisterTicketRoutes mounts /api/v1/tickets, /api/v1/comments and
// /api/v1/feedback. Only status changes are role-gated.
func RegisterTicketRoutes(e *echo.Echo, h TicketHandlers, tokens ports.TokenValidator) {
	tickets := e.Group("/api/v1/tickets")
	mountResource(tickets, h.Tickets.ResourceHandler)
	tickets.PUT("/:id/status", h.Tickets.UpdateStatus,
		middleware.Auth(tokens), middleware.RBAC(domain.RoleOperator, domain.RoleManager, domain.RoleAdmin))

	e.POST("/api/v1/comments", h.Comments.Create)
	e.GET("/api/v1/comments/ticket/:ticket_id", h.Comments.ListByTicket)

	e.POST("/api/v1/feedback", h.Feedback.Create)
	e.GET("/api/v1/feedback/ticket/:ticket_id", h.Feedback.ByTicket)
}

// RegisterMediaRoutes mounts /api/v1/media and /uploads.
func RegisterMediaRoutes(e *echo.Echo, h *handler.MediaHandler) {
	media := e.Group("/api/v1/media")
	media.POST("/upload", h.Upload)
	media.GET("/files/:id", h.GetFile)
	media.DELETE("/files/:id", h.DeleteFile)

	e.GET("/uploads/:name", h.Serve)
}

// RegisterGeoRoutes mounts /api/v1/geo and /api/v1/boundaries.
func RegisterGeoRoutes(e *echo.Echo, h *handler.GeoHandler) {
	e.GET("/api/v1/geo/geocode", h.Geocode)
	e.GET("/api/v1/geo/reverse-geocode", h.ReverseGeocode)

	e.POST("/api/v1/boundaries", h.CreateBoundary)
	e.GET("/api/v1/boundaries/municipality/:id", h.BoundaryByMunicipality)
}

// RegisterNotificationRoutes mounts /api/v1/notifications and /api/v1/preferences.
func RegisterNotificationRoutes(e *echo.Echo, h *handler.NotificationHandler) {
	notifications := e.Group("/api/v1/notifications")
	notifications.POST("", h.Create)
	notifications.GET("", h.List)
	notifications.PUT("/:id/read", h.MarkRead)
	notifications.DELETE("/:id", h.Delete)

	e.GET("/api/v1/preferences/:user_id", h.Preferences)
	e.PUT("/api/v1/preferences/:user_id", h.UpdatePreferences)
}
