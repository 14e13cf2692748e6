package api

import (
	"net/http"

	"github.com/Caltsic/AIourstory-sub001/internal/api/handlers"
	"github.com/Caltsic/AIourstory-sub001/internal/api/middleware"
	"github.com/Caltsic/AIourstory-sub001/internal/config"
	"github.com/Caltsic/AIourstory-sub001/internal/metrics"
	"github.com/Caltsic/AIourstory-sub001/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

func NewRouter(services *service.Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.CORS)
	r.Use(metrics.Middleware)

	authHandler := handlers.NewAuthHandler(services.Account, services.Verification, services.Token)
	profileHandler := handlers.NewProfileHandler(services.Account)
	plazaHandler := handlers.NewPlazaHandler(services.Plaza)
	adminHandler := handlers.NewAdminHandler(services.Moderation)
	reportHandler := handlers.NewReportHandler(services.Report)
	healthHandler := handlers.NewHealthHandler()

	r.Get("/health", healthHandler.Check)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		// Public auth routes, rate limited per IP
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.RateLimit(rate.Limit(cfg.AuthRateLimit), cfg.AuthRateBurst))
			r.Post("/send-code", authHandler.SendCode)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/reset-password", authHandler.ResetPassword)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/device-login", authHandler.DeviceLogin)
		})

		// Public plaza listings
		r.Get("/plaza/prompts", plazaHandler.ListPrompts)
		r.Get("/plaza/stories", plazaHandler.ListStories)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(services.Token))

			r.Get("/profile", profileHandler.Get)
			r.Patch("/profile", profileHandler.Update)

			r.Get("/plaza/mine", plazaHandler.Mine)
			r.Post("/plaza/{type}/{uuid}/like", plazaHandler.Like)
			r.Post("/plaza/{type}/{uuid}/download", plazaHandler.Download)

			r.Post("/reports", reportHandler.Create)

			// Submitting requires a bound account
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireBound)
				r.Post("/plaza/prompts", plazaHandler.SubmitPrompt)
				r.Post("/plaza/stories", plazaHandler.SubmitStory)
			})

			// Moderation
			r.Route("/admin/review", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/prompts", adminHandler.ListPendingPrompts)
				r.Get("/stories", adminHandler.ListPendingStories)
				r.Post("/{type}/{uuid}/approve", adminHandler.Approve)
				r.Post("/{type}/{uuid}/reject", adminHandler.Reject)
			})
		})
	})

	return r
}
