package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/scrivener/internal/session"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// assets is the handler backing image uploads.
func NewRouter(svc *session.Service, authEnabled bool, token string, sseHandler http.Handler, assets *AssetHandler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/documents", h.ListDocuments)
	r.Post("/documents", h.CreateDocument)
	r.Route("/documents/{id}", func(r chi.Router) {
		r.Get("/", h.GetDocument)
		r.Delete("/", h.DeleteDocument)
		r.Post("/elements", h.AddElement)
		r.Post("/compose", h.ComposeDocument)
		r.Get("/render", h.RenderDocument)
		r.Post("/save", h.SaveDocument)
		if assets != nil {
			r.Post("/images", assets.Upload)
		}
	})

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
