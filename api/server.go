/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:     Unique ID per request for tracing
  2. CleanPath:     Normalize request paths
  3. httplog:       Structured slog request logging (ECS schema)
  4. Recoverer:     Panic recovery (500 instead of crash)
  5. CORS:          Cross-origin requests for the frontend
  6. Heartbeat:     /ping liveness probe
  7. JWT verifier + actor extraction on the /api group

ROUTE GROUPS:
  /api/policies/*       Policy catalog (read)
  /api/requests/*       Request lifecycle
  /api/balance/*        Balance and ledger history
  /api/calendar         Team absence calendar
  /api/reports          Usage reports (manager/hr)
  /api/dashboard        Personal stats
  /api/holidays/*       Holiday configuration (writes hr_admin only)
  /api/admin/*          Provisioning and corrections (hr_admin)

SEE ALSO:
  - handlers.go: Handler implementations
  - auth.go: Token verification and actor extraction
  - cmd/server/main.go: Server startup
*/
package api

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, tokenAuth *jwtauth.JWTAuth) *chi.Mux {
	r := chi.NewRouter()

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "vacation-engine"),
	)

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.CleanPath)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Heartbeat("/ping"))

	// API routes. Every endpoint requires a verified token; the actor's role
	// gates what the domain layer will let them do.
	r.Route("/api", func(r chi.Router) {
		r.Use(jwtauth.Verifier(tokenAuth))
		r.Use(RequireActor)

		r.Route("/policies", func(r chi.Router) {
			r.Get("/", h.ListPolicies)
			r.Get("/{id}", h.GetPolicy)
		})

		r.Route("/requests", func(r chi.Router) {
			r.Post("/", h.SubmitRequest)
			r.Get("/", h.ListRequests)
			r.Get("/{id}", h.GetRequest)
			r.Post("/{id}/approve", h.ApproveRequest)
			r.Post("/{id}/reject", h.RejectRequest)
			r.Post("/{id}/cancel", h.CancelRequest)
		})

		r.Route("/balance", func(r chi.Router) {
			r.Get("/", h.GetBalance)
			r.Get("/history", h.GetBalanceHistory)
		})

		r.Get("/calendar", h.GetCalendar)
		r.Get("/reports", h.GetReport)
		r.Get("/dashboard", h.GetDashboard)

		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin)
				r.Post("/", h.CreateHoliday)
				r.Delete("/{id}", h.DeleteHoliday)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdmin)
			r.Get("/users", h.ListUsers)
			r.Post("/users", h.CreateUser)
			r.Post("/accounts", h.OpenAccount)
			r.Post("/adjustments", h.CreateAdjustment)
			r.Post("/policies", h.CreatePolicy)
			r.Post("/policies/{id}/activate", h.ActivatePolicy)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"service":"vacation-engine","docs":"/api"}`))
	})

	return r
}
