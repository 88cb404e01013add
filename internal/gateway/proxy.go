package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cityfix/platform/internal/api/metrics"
	"github.com/cityfix/platform/pkg/logger"
)

const defaultUpstreamTimeout = 30 * time.Second

// hopHeaders are connection-scoped and never forwarded in either direction.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

var (
	errBadGateway     = echo.NewHTTPError(http.StatusBadGateway, "Bad gateway")
	errGatewayTimeout = echo.NewHTTPError(http.StatusGatewayTimeout, "Gateway timeout")
)

// Proxy forwards matched requests to their backend unchanged: same method,
// path, query, body and headers except Host.
type Proxy struct {
	registry Registry
	routes   []Route
	client   *http.Client
	timeout  time.Duration
	log      zerolog.Logger
}

func NewProxy(registry Registry, routes []Route, timeout time.Duration, log zerolog.Logger) *Proxy {
	if timeout <= 0 {
		timeout = defaultUpstreamTimeout
	}
	return &Proxy{
		registry: registry,
		routes:   routes,
		client: &http.Client{
			// Redirects are relayed to the client, not followed.
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
		timeout: timeout,
		log:     log,
	}
}

// Handle is the echo handler mounted on every route prefix.
func (p *Proxy) Handle(c echo.Context) error {
	req := c.Request()
	route, ok := match(p.routes, req.URL.Path)
	if !ok {
		return echo.ErrNotFound
	}
	if !route.Allows(req.Method) {
		return echo.ErrMethodNotAllowed
	}
	base, ok := p.registry[route.Service]
	if !ok {
		p.log.Error().Str("service", route.Service).Msg("route points to unregistered service")
		return errBadGateway
	}

	ctx, cancel := context.WithTimeout(req.Context(), p.timeout)
	defer cancel()

	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	if requestID != "" && req.Header.Get(echo.HeaderXRequestID) == "" {
		req.Header.Set(echo.HeaderXRequestID, requestID)
	}

	start := time.Now()
	status, header, body, err := p.forward(ctx, base, req)
	metrics.UpstreamDuration.WithLabelValues(route.Service).Observe(time.Since(start).Seconds())

	if err != nil {
		herr := errBadGateway
		if isTimeout(err) {
			herr = errGatewayTimeout
		}
		metrics.ProxiedRequestsTotal.WithLabelValues(route.Service, strconv.Itoa(herr.Code)).Inc()
		log := logger.FromContext(req.Context(), p.log)
		log.Error().Err(err).
			Str("service", route.Service).
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Msg("upstream request failed")
		return herr
	}
	metrics.ProxiedRequestsTotal.WithLabelValues(route.Service, strconv.Itoa(status)).Inc()

	res := c.Response().Header()
	copyHeaders(res, header)
	res.Del(echo.HeaderContentLength)
	if requestID != "" {
		res.Set(echo.HeaderXRequestID, requestID)
	}
	if !json.Valid(body) {
		body = []byte("{}")
	}
	return c.JSONBlob(status, body)
}

func (p *Proxy) forward(ctx context.Context, base string, in *http.Request) (int, http.Header, []byte, error) {
	target := base + in.URL.Path
	if in.URL.RawQuery != "" {
		target += "?" + in.URL.RawQuery
	}

	out, err := http.NewRequestWithContext(ctx, in.Method, target, in.Body)
	if err != nil {
		return 0, nil, nil, err
	}
	out.ContentLength = in.ContentLength
	copyHeaders(out.Header, in.Header)
	out.Header.Del("Host")

	resp, err := p.client.Do(out)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, err
	}
	return resp.StatusCode, resp.Header, body, nil
}

// copyHeaders replaces each header of src in dst, so values the gateway set
// itself (CORS, Vary) are not duplicated by the backend's copy.
func copyHeaders(dst, src http.Header) {
	for k, vv := range src {
		dst[k] = append([]string(nil), vv...)
	}
	for _, h := range hopHeaders {
		dst.Del(h)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
