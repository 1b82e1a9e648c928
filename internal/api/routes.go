package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/profiles", func(r chi.Router) {
		r.Get("/", s.handleListProfiles)
		r.Post("/", s.handleCreateProfile)
		r.Get("/active", s.handleActiveProfile)
		r.Get("/{id}", s.handleGetProfile)
		r.Put("/{id}", s.handleUpdateProfile)
		r.Delete("/{id}", s.handleDeleteProfile)
		r.Post("/{id}/activate", s.handleActivateProfile)
		r.Post("/{id}/duplicate", s.handleDuplicateProfile)
	})

	r.Route("/settings", func(r chi.Router) {
		r.Get("/", s.handleListSettings)
		r.Get("/{key}", s.handleGetSetting)
		r.Put("/{key}", s.handleSetSetting)
	})
	return r
}
