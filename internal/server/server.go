// Package server wires handlers and middleware into the HTTP router.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/josh-kwaku/rentbook/api"
	"github.com/josh-kwaku/rentbook/internal/config"
	"github.com/josh-kwaku/rentbook/internal/domain"
	"github.com/josh-kwaku/rentbook/internal/handler"
	"github.com/josh-kwaku/rentbook/internal/middleware"
	"github.com/josh-kwaku/rentbook/internal/repository"
	"github.com/josh-kwaku/rentbook/internal/service"
	"github.com/josh-kwaku/rentbook/internal/service/rent"
)

type operatorReader interface {
	GetByEmail(ctx context.Context, email string) (*domain.Operator, error)
}

type idempotencyStore interface {
	Get(ctx context.Context, key string, operatorID uuid.UUID) (*repository.IdempotencyCacheEntry, error)
	Set(ctx context.Context, entry *repository.IdempotencyCacheEntry) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Config      *config.Config
	Logger      *slog.Logger
	Properties  *service.PropertyService
	Rent        *rent.Service
	Operators   operatorReader
	Idempotency idempotencyStore
	Store       pinger
}

func NewRouter(d Deps) *chi.Mux {
	properties := handler.NewPropertyHandler(d.Properties)
	rentH := handler.NewRentHandler(d.Rent)
	authH := handler.NewAuthHandler(d.Operators, d.Config.JWTSecret, d.Config.JWTExpiry)
	health := handler.NewHealthHandler(d.Store)

	r := chi.NewRouter()
	r.Use(middleware.Tracing)
	r.Use(middleware.Logging(d.Logger))
	r.Use(middleware.Recovery)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Config.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Idempotent-Replayed"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	r.Get("/docs", handler.ServeDocs("/docs/openapi.yaml"))
	r.Get("/docs/openapi.yaml", handler.ServeSpec(api.Spec))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", authH.Login)

		r.Group(func(r chi.Router) {
			if d.Config.AuthEnabled() {
				r.Use(middleware.Auth(d.Config.JWTSecret))
			}
			r.Use(middleware.Idempotency(d.Idempotency))

			r.Route("/properties", func(r chi.Router) {
				r.Get("/", properties.List)
				r.Post("/", properties.Create)
				r.Get("/{id}", properties.Get)
				r.Delete("/{id}", properties.Delete)
				r.Put("/{id}/lease", properties.SetLease)
				r.Delete("/{id}/lease", properties.EndLease)
				r.Get("/{id}/ledger", rentH.PropertyLedger)
			})

			r.Route("/rent", func(r chi.Router) {
				r.Get("/activities", rentH.Activities)
				r.Delete("/activities/{id}", rentH.DeleteActivity)
				r.Get("/summary", rentH.Summary)
				r.Get("/collection", rentH.Collection)
				r.Get("/export", rentH.Export)
				r.Post("/generate-charges", rentH.GenerateCharges)
				r.Post("/generate-late-fees", rentH.GenerateLateFees)
				r.Post("/payments", rentH.RecordPayment)
				r.Post("/adjustments", rentH.CreateAdjustment)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handler.RespondAppError(w, handler.ErrResourceNotFound, nil)
	})

	return r
}
