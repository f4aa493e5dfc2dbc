package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/go-link-keeper/models"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/api/health", h.health)
		r.Get("/api/version", h.getServerVersion)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		// long-lived, so no request timeout and no compression
		r.Get("/api/events", h.events)

		r.Route(kindRoute(), func(r chi.Router) {
			r.Use(middleware.Timeout(h.requestTimeout))
			r.Use(withGZip)

			r.Get("/", h.listEntities)
			r.Post("/", h.createEntity)
			r.Put("/{id}", h.updateEntity)
			r.Delete("/{id}", h.deleteEntity)
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, ErrRouteNotFound)
	})
	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

// kindRoute matches known entity kinds only, so it never shadows the other
// /api endpoints.
func kindRoute() string {
	kinds := make([]string, len(models.EntityKinds))
	for i, kind := range models.EntityKinds {
		kinds[i] = kind.String()
	}
	return "/api/{kind:(?:" + strings.Join(kinds, "|") + ")}"
}
