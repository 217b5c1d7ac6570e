package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/accio-dl/accio-downloader/internal/config"
)

// NewRouter creates the HTTP router with middleware, the video API,
// the static downloads mount, health check and Prometheus metrics.
func NewRouter(service VideoServiceI, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	videoHandler := NewVideoHandler(service, logger)

	r.Route("/api/v1/video", func(r chi.Router) {
		r.Post("/parse", videoHandler.Parse)
		r.Post("/download", videoHandler.Download)
		r.Get("/tasks", videoHandler.Tasks)
		r.Get("/auth-status", videoHandler.AuthStatus)
	})

	// Completed files are served straight from the organized layout.
	fileServer := http.StripPrefix("/downloads/", http.FileServer(http.Dir(cfg.DownloadDir)))
	r.Get("/downloads/*", fileServer.ServeHTTP)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
