// Package http provides the HTTP delivery layer of the bitbuddies service:
// affiliate redirects, the public video list, and the admin API for links,
// categories, channels and click analytics.
package http

import (
	"net/http"

	"github.com/bitdoze/bitbuddies/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	httpSwagger "github.com/swaggo/http-swagger"
)

// UseCases groups the application services the router dispatches to.
type UseCases struct {
	Links     linkUseCase
	Analytics analyticsUseCase
	Youtube   youtubeUseCase
	Auth      authUseCase
}

// NewRouter initializes and returns a new Chi router configured with middleware and routes for the bitbuddies API.
func NewRouter(logger *httplog.Logger, uc UseCases) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*"},
		AllowedMethods:   []string{"POST", "GET", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept", UserIDHeader},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(recoverer)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yml"),
	))

	r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./docs/swagger.yml")
	})

	r.Handle("/metrics", metrics.Handler())

	validate := newValidator()
	links := newLinkHandler(uc.Links, validate)
	analytics := newAnalyticsHandler(uc.Analytics)
	youtube := newYoutubeHandler(uc.Youtube, validate)

	r.Get("/go/{slug}", links.redirect)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", handlePing)
		r.Get("/videos", youtube.listVideos)

		r.Route("/youtube", func(r chi.Router) {
			r.Use(requireUser(uc.Auth))

			r.Post("/sync", youtube.syncAll)
			r.Post("/channels/{id}/sync", youtube.syncChannel)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAdmin(uc.Auth))

			r.Route("/links", func(r chi.Router) {
				r.Get("/", links.listLinks)
				r.Post("/", links.createLink)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", links.getLink)
					r.Put("/", links.updateLink)
					r.Delete("/", links.deleteLink)
				})
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", links.listCategories)
				r.Post("/", links.createCategory)
				r.Delete("/{id}", links.deleteCategory)
			})

			r.Route("/channels", func(r chi.Router) {
				r.Get("/", youtube.listChannels)
				r.Post("/", youtube.createChannel)
				r.Put("/{id}", youtube.updateChannel)
				r.Delete("/{id}", youtube.deleteChannel)
			})

			r.Post("/videos/cleanup", youtube.cleanup)

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/clicks", analytics.getStats)
				r.Get("/clicks/by-date", analytics.getClicksByDate)
				r.Get("/clicks/by-referrer", analytics.getClicksByReferrer)
				r.Get("/summary", analytics.getSummary)
			})
		})
	})

	return r
}
