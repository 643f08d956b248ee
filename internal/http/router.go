package httpserver

import (
	"net/http"

	"chargehub/internal/http/handlers"
	"chargehub/internal/http/middleware"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	Auth     *handlers.AuthHandlers
	Stations *handlers.StationsHandlers
	Geocode  http.HandlerFunc
	Health   http.HandlerFunc
}

// NewRouter wires HTTP routes. Everything under /api except register and
// login requires an authenticated principal.
func NewRouter(deps RouterDeps, authMiddleware func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	protected := func(handler http.HandlerFunc) http.Handler {
		return middleware.Chain(handler, authMiddleware)
	}

	mux.Handle("GET /health", deps.Health)

	mux.Handle("POST /api/auth/register", http.HandlerFunc(deps.Auth.Register))
	mux.Handle("POST /api/auth/login", http.HandlerFunc(deps.Auth.Login))
	mux.Handle("POST /api/auth/logout", protected(deps.Auth.Logout))

	mux.Handle("POST /api/stations", protected(deps.Stations.Create))
	mux.Handle("GET /api/stations", protected(deps.Stations.List))
	mux.Handle("GET /api/stations/{id}", protected(deps.Stations.Get))
	mux.Handle("PUT /api/stations/{id}", protected(deps.Stations.Update))
	mux.Handle("DELETE /api/stations/{id}", protected(deps.Stations.Delete))

	mux.Handle("GET /api/geocode", protected(deps.Geocode))

	return mux
}
