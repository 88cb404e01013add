package gateway

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cityfix/platform/internal/api"
	infrahttp "github.com/cityfix/platform/internal/infrastructure/http"
)

// Options configures the gateway router.
type Options struct {
	Service         string
	Registry        Registry
	Routes          []Route
	UpstreamTimeout time.Duration
	HealthTimeout   time.Duration
	Log             zerolog.Logger
}

// NewRouter builds the gateway: the shared base router, the aggregate
// /health and a catch-all proxy per route prefix.
func NewRouter(opts Options) *echo.Echo {
	if opts.Routes == nil {
		opts.Routes = DefaultRoutes
	}

	health := NewHealthChecker(opts.Registry, opts.HealthTimeout, opts.Log)
	proxy := NewProxy(opts.Registry, opts.Routes, opts.UpstreamTimeout, opts.Log)

	e := infrahttp.NewRouter(infrahttp.Options{
		Service:           opts.Service,
		Log:               opts.Log,
		ErrorHandler:      api.NewHTTPErrorHandler(opts.Log),
		Liveness:          health.Handle,
		KeepTrailingSlash: true,
	})

	for _, r := range opts.Routes {
		e.Any(r.Prefix, proxy.Handle)
		e.Any(r.Prefix+"/*", proxy.Handle)
	}
	return e
}
