package web

import (
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/kozaktomas/photo-faces/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	// Create handlers
	filesHandler := handlers.NewFilesHandler(s.config, s.store, s.urls, s.events)
	facesHandler := handlers.NewFacesHandler(s.config, s.store, filesHandler, s.events)
	eventsHandler := handlers.NewEventsHandler(s.store, s.events)
	blobHandler := handlers.NewBlobHandler(s.urls)
	configHandler := handlers.NewConfigHandler(s.config)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck(s.store, s.urls))

	// Bytes behind live object URLs
	s.router.Get("/blob/{id}", blobHandler.Serve)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Server-sent events stay open; no request timeout
		r.Get("/events", eventsHandler.Stream)

		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware.Timeout(5 * time.Minute))

			// Files
			r.Get("/files", filesHandler.List)
			r.Post("/files", filesHandler.Upload)
			r.Delete("/files", filesHandler.Clear)
			r.Put("/files/people", filesHandler.AssignPeople)

			// Faces
			r.Get("/faces", facesHandler.List)
			r.Put("/faces", facesHandler.Ingest)
			r.Put("/faces/names", facesHandler.UpdateNames)
			r.Post("/faces/cluster", facesHandler.Cluster)

			// Config
			r.Get("/config", configHandler.Get)
		})
	})
}
