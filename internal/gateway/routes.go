package gateway

import (
	"net/http"
	"strings"
)

// Registry maps a backend service name to its base URL. It is fixed at start.
type Registry map[string]string

// Route forwards every path under Prefix to Service.
type Route struct {
	Prefix  string
	Service string
	Methods []string
}

// Matches reports whether path is the prefix itself or lies below it.
func (r Route) Matches(path string) bool {
	if !strings.HasPrefix(path, r.Prefix) {
		return false
	}
	rest := path[len(r.Prefix):]
	return rest == "" || rest[0] == '/'
}

// Allows reports whether method may be forwarded on this route.
func (r Route) Allows(method string) bool {
	for _, m := range r.Methods {
		if m == method {
			return true
		}
	}
	return false
}

var (
	readWrite  = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}
	readCreate = []string{http.MethodGet, http.MethodPost}
)

// DefaultRoutes is the public surface of the platform.
var DefaultRoutes = []Route{
	{Prefix: "/api/v1/auth", Service: "auth", Methods: readWrite},
	{Prefix: "/api/v1/users", Service: "auth", Methods: readWrite},
	{Prefix: "/api/v1/municipalities", Service: "admin", Methods: readWrite},
	{Prefix: "/api/v1/categories", Service: "admin", Methods: readWrite},
	{Prefix: "/api/v1/statistics", Service: "admin", Methods: readCreate},
	{Prefix: "/api/v1/tickets", Service: "ticket", Methods: readWrite},
	{Prefix: "/api/v1/comments", Service: "ticket", Methods: readCreate},
	{Prefix: "/api/v1/feedback", Service: "ticket", Methods: readCreate},
	{Prefix: "/api/v1/media", Service: "media", Methods: []string{http.MethodGet, http.MethodPost, http.MethodDelete}},
	{Prefix: "/api/v1/geo", Service: "geo", Methods: readCreate},
	{Prefix: "/api/v1/boundaries", Service: "geo", Methods: readCreate},
	{Prefix: "/api/v1/notifications", Service: "notification", Methods: readWrite},
	{Prefix: "/api/v1/preferences", Service: "notification", Methods: []string{http.MethodGet, http.MethodPut}},
}

// match returns the first route covering path.
func match(routes []Route, path string) (Route, bool) {
	for _, r := range routes {
		if r.Matches(path) {
			return r, true
		}
	}
	return Route{}, false
}
