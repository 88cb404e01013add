package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityfix/platform/internal/api"
)

func newGateway(t *testing.T, registry Registry, upstreamTimeout time.Duration) *echo.Echo {
	t.Helper()
	return NewRouter(Options{
		Service:         "orchestrator",
		Registry:        registry,
		UpstreamTimeout: upstreamTimeout,
		HealthTimeout:   time.Second,
		Log:             zerolog.Nop(),
	})
}

func send(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	s, _ := body["detail"].(string)
	return s
}

func TestRoute_Matches(t *testing.T) {
	r := Route{Prefix: "/api/v1/tickets"}
	assert.True(t, r.Matches("/api/v1/tickets"))
	assert.True(t, r.Matches("/api/v1/tickets/abc/status"))
	assert.False(t, r.Matches("/api/v1/ticketsfoo"))
	assert.False(t, r.Matches("/api/v1/ticket"))
}

func TestProxy_ForwardsRequestUnchanged(t *testing.T) {
	var got *http.Request
	var gotBody string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Backend", "ticket")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"t1"}`))
	}))
	defer backend.Close()

	e := newGateway(t, Registry{"ticket": backend.URL}, time.Second)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/tickets/t1?notify=true", strings.NewReader(`{"title":"pothole"}`))
	req.Header.Set("Authorization", "Bearer abc")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Custom", "kept")
	req.Host = "gateway.example.com"

	rec := send(e, req)

	require.NotNil(t, got)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":"t1"}`, rec.Body.String())
	assert.Equal(t, "ticket", rec.Header().Get("X-Backend"))

	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, "/api/v1/tickets/t1", got.URL.Path)
	assert.Equal(t, "notify=true", got.URL.RawQuery)
	assert.Equal(t, `{"title":"pothole"}`, gotBody)
	assert.Equal(t, "Bearer abc", got.Header.Get("Authorization"))
	assert.Equal(t, "kept", got.Header.Get("X-Custom"))
	assert.NotEqual(t, "gateway.example.com", got.Host)
}

func TestProxy_CORSHeadersNotDuplicated(t *testing.T) {
	upstream := api.NewRouter("ticket-service", zerolog.Nop(), nil)
	upstream.GET("/api/v1/tickets/:id", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"id": c.Param("id")})
	})
	backend := httptest.NewServer(upstream)
	defer backend.Close()

	e := newGateway(t, Registry{"ticket": backend.URL}, time.Second)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tickets/t1", nil)
	req.Header.Set(echo.HeaderOrigin, "https://app.cityfix.example")

	rec := send(e, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"t1"}`, rec.Body.String())
	assert.Equal(t, []string{"*"}, rec.Header().Values(echo.HeaderAccessControlAllowOrigin))
	assert.Len(t, rec.Header().Values(echo.HeaderXRequestID), 1)
}

func TestProxy_KeepsTrailingSlash(t *testing.T) {
	var gotPath string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer backend.Close()

	e := newGateway(t, Registry{"ticket": backend.URL}, time.Second)
	rec := send(e, httptest.NewRequest(http.MethodGet, "/api/v1/tickets/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/api/v1/tickets/", gotPath)
}

func TestProxy_MethodNotAllowed(t *testing.T) {
	e := newGateway(t, Registry{"ticket": "http://127.0.0.1:1"}, time.Second)

	rec := send(e, httptest.NewRequest(http.MethodDelete, "/api/v1/comments/c1", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method not allowed", detail(t, rec))
}

func TestProxy_UnknownPrefix(t *testing.T) {
	e := newGateway(t, Registry{}, time.Second)

	rec := send(e, httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProxy_TimeoutIsGatewayTimeout(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer backend.Close()

	e := newGateway(t, Registry{"ticket": backend.URL}, 50*time.Millisecond)

	start := time.Now()
	rec := send(e, httptest.NewRequest(http.MethodGet, "/api/v1/tickets", nil))

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Equal(t, "Gateway timeout", detail(t, rec))
	assert.Less(t, time.Since(start), time.Second)
}

func TestProxy_UnreachableBackendIsBadGateway(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	url := backend.URL
	backend.Close()

	e := newGateway(t, Registry{"media": url}, time.Second)
	rec := send(e, httptest.NewRequest(http.MethodGet, "/api/v1/media/files/f1", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Bad gateway", detail(t, rec))
}

func TestProxy_NonJSONBodyBecomesEmptyObject(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("plain text"))
	}))
	defer backend.Close()

	e := newGateway(t, Registry{"geo": backend.URL}, time.Second)
	rec := send(e, httptest.NewRequest(http.MethodGet, "/api/v1/geo/geocode?address=x", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "{}", rec.Body.String())
	assert.Equal(t, echo.MIMEApplicationJSON, rec.Header().Get(echo.HeaderContentType))
}

func TestProxy_RelaysBackendErrors(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Ticket not found"}`))
	}))
	defer backend.Close()

	e := newGateway(t, Registry{"ticket": backend.URL}, time.Second)
	rec := send(e, httptest.NewRequest(http.MethodDelete, "/api/v1/tickets/650000000000000000000099", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Ticket not found", detail(t, rec))
}

func TestHealth_AllHealthy(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer ok.Close()

	e := newGateway(t, Registry{"auth": ok.URL, "ticket": ok.URL}, time.Second)
	rec := send(e, httptest.NewRequest(http.MethodGet, "/health", nil))

	var report HealthReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", report.Status)
	assert.Equal(t, "Orchestrator", report.Service)
	assert.Equal(t, map[string]string{"auth": "healthy", "ticket": "healthy"}, report.Services)
}

func TestHealth_OneBackendDown(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ok.Close()
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()

	e := newGateway(t, Registry{"auth": ok.URL, "media": failing.URL, "geo": "http://127.0.0.1:1"}, time.Second)
	rec := send(e, httptest.NewRequest(http.MethodGet, "/health", nil))

	var report HealthReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", report.Status)
	assert.Equal(t, "healthy", report.Services["auth"])
	assert.Equal(t, "unhealthy", report.Services["media"])
	assert.Equal(t, "unhealthy", report.Services["geo"])
}
