package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *BoardHandler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok"}`)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/board", h.Board)
		r.Post("/board/reload", h.Reload)
		r.Put("/input", h.SetInput)

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", h.Create)
			r.Delete("/{id}", h.Delete)
			r.Post("/{id}/toggle", h.Toggle)
			r.Post("/{id}/edit", h.BeginEdit)
		})

		r.Route("/edit", func(r chi.Router) {
			r.Patch("/", h.SetDraft)
			r.Post("/commit", h.CommitEdit)
			r.Delete("/", h.CancelEdit)
		})
	})

	return r
}
