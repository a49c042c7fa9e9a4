package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/promptdeck/internal/auth"
	"github.com/starford/promptdeck/internal/pageservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether JWT auth is enforced on the data routes;
// mgr and users may be nil/empty when auth is disabled.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// onSeed, if non-nil, is invoked after each successful reseed.
func NewRouter(svc *pageservice.Service, authEnabled bool, mgr *auth.Manager, users map[string]string, sseHandler http.Handler, onSeed func(files int)) chi.Router {
	h := NewHandler(svc, onSeed)

	r := chi.NewRouter()

	// Token endpoints live outside the auth gate. They are only useful
	// when auth is enabled, but mounting them unconditionally keeps the
	// surface stable across modes.
	if mgr != nil {
		ah := NewAuthHandler(mgr, users)
		r.Post("/auth/login", ah.Login)
		r.Post("/auth/refresh", ah.Refresh)
	}

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(authEnabled, mgr))

		r.Post("/seed", h.Seed)
		r.Get("/pages", h.ListPages)
		r.Get("/pages/*", h.GetPage)
		r.Post("/save", h.Save)
		r.Get("/search", h.Search)

		if sseHandler != nil {
			r.Get("/events", sseHandler.ServeHTTP)
		}
	})

	return r
}
