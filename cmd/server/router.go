package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phrazzld/lingodrift-api/internal/api"
	apiMiddleware "github.com/phrazzld/lingodrift-api/internal/api/middleware"
	"github.com/phrazzld/lingodrift-api/internal/generation"
	"github.com/phrazzld/lingodrift-api/internal/service"
)

// corsMaxAge is how long browsers may cache a preflight response, in seconds.
const corsMaxAge = 300

// routerDeps are the services the HTTP layer is built from.
type routerDeps struct {
	logger         *slog.Logger
	allowedOrigins []string
	accounts       service.AccountService
	exams          service.ExamService
	attempts       service.AttemptService
	drafts         generation.ExamDraftGenerator
}

// newRouter creates the application router with all routes and middleware.
func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(deps.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{apiMiddleware.TraceIDHeader},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	}))

	authHandler := api.NewAuthHandler(deps.accounts, deps.logger)
	examHandler := api.NewExamHandler(deps.exams, deps.drafts, deps.logger)
	attemptHandler := api.NewAttemptHandler(deps.attempts, deps.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(deps.accounts)

	r.Get("/", api.Root)
	r.Get("/health", api.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/token", authHandler.Token)

		r.Get("/exams", examHandler.ListExams)
		r.Get("/exams/{id}", examHandler.GetExam)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/me", authHandler.Me)

			r.Post("/exams/{id}/attempts", attemptHandler.StartAttempt)
			r.Get("/attempts", attemptHandler.ListAttempts)
			r.Get("/attempts/{id}", attemptHandler.GetAttempt)
			r.Post("/attempts/{id}/complete", attemptHandler.CompleteAttempt)
			r.Post("/attempts/{id}/abandon", attemptHandler.AbandonAttempt)

			r.Group(func(r chi.Router) {
				r.Use(apiMiddleware.RequireAdmin)
				r.Post("/exams", examHandler.CreateExam)
				r.Post("/exams/drafts", examHandler.DraftExam)
			})
		})
	})

	return r
}
