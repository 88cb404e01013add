package gateway

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cityfix/platform/internal/api/metrics"
)

const defaultHealthTimeout = 5 * time.Second

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// HealthReport is the aggregate health of the platform.
type HealthReport struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Services map[string]string `json:"services"`
}

// HealthChecker probes GET {base}/health on every registered backend.
type HealthChecker struct {
	registry Registry
	client   *http.Client
	timeout  time.Duration
	log      zerolog.Logger
}

func NewHealthChecker(registry Registry, timeout time.Duration, log zerolog.Logger) *HealthChecker {
	if timeout <= 0 {
		timeout = defaultHealthTimeout
	}
	return &HealthChecker{registry: registry, client: &http.Client{}, timeout: timeout, log: log}
}

// Check probes all backends concurrently. A backend is healthy only when it
// answers 200 within the timeout.
func (h *HealthChecker) Check(ctx context.Context) HealthReport {
	names := make([]string, 0, len(h.registry))
	for name := range h.registry {
		names = append(names, name)
	}
	sort.Strings(names)

	var mu sync.Mutex
	services := make(map[string]string, len(names))

	// Probe failures are recorded, never returned, so one slow backend
	// cannot cancel the others.
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range names {
		g.Go(func() error {
			status := statusUnhealthy
			if err := h.probe(gctx, h.registry[name]); err != nil {
				h.log.Warn().Err(err).Str("service", name).Msg("backend health probe failed")
			} else {
				status = statusHealthy
			}

			up := 0.0
			if status == statusHealthy {
				up = 1
			}
			metrics.BackendUp.WithLabelValues(name).Set(up)

			mu.Lock()
			services[name] = status
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	report := HealthReport{Status: statusHealthy, Service: "Orchestrator", Services: services}
	for _, s := range services {
		if s != statusHealthy {
			report.Status = statusUnhealthy
			break
		}
	}
	return report
}

func (h *HealthChecker) probe(ctx context.Context, base string) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode}
	}
	return nil
}

// Handle serves GET /health: 200 when every backend is healthy, else 503.
func (h *HealthChecker) Handle(c echo.Context) error {
	report := h.Check(c.Request().Context())
	code := http.StatusOK
	if report.Status != statusHealthy {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, report)
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return "unexpected status " + http.StatusText(e.code)
}
