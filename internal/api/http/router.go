package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/example/homeboard/internal/logger"
)

// Router assembles the dashboard API routes with recovery, request logging
// and CORS for the browser frontend.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
		},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler)

	r.Get("/healthz", s.health)

	r.Route("/api/alarms", func(r chi.Router) {
		r.Get("/", s.listAlarms)
		r.Post("/", s.createAlarm)
		r.Get("/triggered", s.triggeredAlarms)

		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", s.updateAlarm)
			r.Delete("/", s.deleteAlarm)
			r.Post("/enabled", s.setAlarmEnabled)
		})
	})

	return r
}

// requestLogger logs one line per request through the structured logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		wrapped := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(wrapped, r)

		logger.DebugKV(r.Context(), "Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.Status(),
			"duration", time.Since(started).String(),
		)
	})
}
