package http

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/cityfix/platform/internal/api/docs"
	"github.com/cityfix/platform/internal/infrastructure/http/handlers"
	"github.com/cityfix/platform/pkg/logger"
)

// Options configures the base Echo instance shared by every service.
type Options struct {
	// Service is reported by /health and / and labels request metrics.
	Service      string
	Log          zerolog.Logger
	ErrorHandler echo.HTTPErrorHandler
	Validator    echo.Validator
	// Dependencies are pinged by /health/ready.
	Dependencies map[string]handlers.Pinger
	// Liveness replaces the default /health handler (the gateway aggregates).
	Liveness echo.HandlerFunc
	// KeepTrailingSlash leaves request paths untouched. The gateway sets it
	// so paths reach backends exactly as sent.
	KeepTrailingSlash bool
}

// NewRouter builds the Echo instance with global middleware and the
// operational endpoints registered. Service routes are added by the caller.
func NewRouter(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	if opts.ErrorHandler != nil {
		e.HTTPErrorHandler = opts.ErrorHandler
	}
	if opts.Validator != nil {
		e.Validator = opts.Validator
	}

	// Request metrics go to a per-instance registry so several routers can
	// live in one process.
	reg := prometheus.NewRegistry()

	// --- Global middleware ---
	if !opts.KeepTrailingSlash {
		e.Pre(middleware.RemoveTrailingSlash())
	}
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestContext(opts.Log))
	e.Use(middleware.CORS())
	e.Use(requestLogger(opts.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "cityfix",
		Subsystem:  metricSubsystem(opts.Service),
		Registerer: reg,
		Skipper:    skipOperational,
	}))

	// --- Operational endpoints (no auth required) ---
	health := handlers.NewHealthHandler(opts.Service)
	ready := handlers.NewHealthDependenciesHandler(opts.Dependencies)

	liveness := opts.Liveness
	if liveness == nil {
		liveness = health.Liveness
	}

	e.GET("/", health.Root)
	e.GET("/health", liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", ready.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, reg},
	}))
	e.GET("/docs/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		Skipper:      skipOperational,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

// requestContext makes a logger tagged with the request id available to
// handlers through logger.FromContext. It must run after RequestID.
func requestContext(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			c.SetRequest(req.WithContext(logger.WithRequest(req.Context(), log, id)))
			return next(c)
		}
	}
}

func skipOperational(c echo.Context) bool {
	p := c.Path()
	return p == "/metrics" || p == "/health" || p == "/health/ready"
}

func metricSubsystem(service string) string {
	return strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(service))
}
