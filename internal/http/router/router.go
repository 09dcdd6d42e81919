package router

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/solarepc/epc-api/internal/auth"
	"github.com/solarepc/epc-api/internal/config"
	"github.com/solarepc/epc-api/internal/database"
	"github.com/solarepc/epc-api/internal/domain"
	"github.com/solarepc/epc-api/internal/http/handler"
	"github.com/solarepc/epc-api/internal/http/middleware"
	"github.com/solarepc/epc-api/internal/metrics"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/solarepc/epc-api/docs" // Import generated swagger docs
)

// Handlers groups the HTTP handlers mounted under /api
type Handlers struct {
	Dashboard     *handler.DashboardHandler
	Leads         *handler.LeadHandler
	Projects      *handler.ProjectHandler
	Vendors       *handler.VendorHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	Invoices      *handler.InvoiceHandler
	Tasks         *handler.TaskHandler
	Documents     *handler.DocumentHandler
	Activities    *handler.ActivityHandler
	Auth          *handler.AuthHandler
}

// ReadinessCheck reports whether an optional dependency is usable
type ReadinessCheck func(ctx context.Context) error

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	db             *gorm.DB
	authMiddleware *auth.Middleware
	rateLimiter    *middleware.RateLimiter
	metrics        *metrics.Metrics
	handlers       Handlers
	checks         map[string]ReadinessCheck
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	m *metrics.Metrics,
	handlers Handlers,
	checks map[string]ReadinessCheck,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		db:             db,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		metrics:        m,
		handlers:       handlers,
		checks:         checks,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(rt.metrics.HTTPMiddleware)
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, domain.APIError{
			Type:   domain.ErrorTypeNotFound,
			Title:  "Not Found",
			Status: http.StatusNotFound,
			Detail: "Route not found",
		})
	})

	// Liveness probes
	alive := func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "healthy",
			"service": rt.cfg.App.Name,
		})
	}
	r.Get("/health", alive)
	r.Get("/healthz", alive)

	r.Get("/health/db", rt.databaseHealth)
	r.Get("/health/ready", rt.readiness)

	if rt.cfg.Server.EnableMetrics {
		r.Handle("/metrics", rt.metrics.Handler())
	}

	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	h := rt.handlers
	r.Route("/api", func(r chi.Router) {
		// Credentials are optional; a valid one attributes writes to the caller
		r.Use(rt.authMiddleware.OptionalAuthenticate)

		r.Get("/dashboard/stats", h.Dashboard.Stats)

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", h.Leads.List)
			r.Post("/", h.Leads.Create)
			r.Get("/stats", h.Leads.Stats)
			r.Get("/by-stage/{stage}", h.Leads.ListByStage)
			r.Get("/{id}", h.Leads.GetByID)
			r.Put("/{id}", h.Leads.Update)
			r.Post("/{id}/convert", h.Leads.Convert)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.Projects.List)
			r.Post("/", h.Projects.Create)
			r.Get("/stats", h.Projects.Stats)
			r.Get("/{id}", h.Projects.GetByID)
			r.Put("/{id}", h.Projects.Update)
			r.Get("/{id}/purchase-orders", h.Projects.ListPurchaseOrders)
			r.Get("/{id}/invoices", h.Projects.ListInvoices)
			r.Get("/{id}/tasks", h.Projects.ListTasks)
		})

		r.Route("/vendors", func(r chi.Router) {
			r.Get("/", h.Vendors.List)
			r.Post("/", h.Vendors.Create)
			r.Get("/{id}", h.Vendors.GetByID)
			r.Put("/{id}", h.Vendors.Update)
		})

		r.Route("/purchase-orders", func(r chi.Router) {
			r.Get("/", h.PurchaseOrder.List)
			r.Post("/", h.PurchaseOrder.Create)
			r.Get("/stats", h.PurchaseOrder.Stats)
			r.Get("/{id}", h.PurchaseOrder.GetByID)
			r.Put("/{id}", h.PurchaseOrder.Update)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", h.Invoices.List)
			r.Post("/", h.Invoices.Create)
			r.Get("/stats", h.Invoices.Stats)
			r.Get("/{id}", h.Invoices.GetByID)
			r.Put("/{id}", h.Invoices.Update)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.Tasks.List)
			r.Post("/", h.Tasks.Create)
			r.Get("/stats", h.Tasks.Stats)
			r.Get("/{id}", h.Tasks.GetByID)
			r.Put("/{id}", h.Tasks.Update)
		})

		r.Route("/documents", func(r chi.Router) {
			r.Post("/", h.Documents.Upload)
			r.Get("/{id}/download", h.Documents.Download)
			r.Get("/{entityType}/{entityId}", h.Documents.ListByEntity)
		})

		r.Get("/activities/{entityType}/{entityId}", h.Activities.ListByEntity)

		r.Post("/auth/login", h.Auth.Login)
		r.Route("/users", func(r chi.Router) {
			r.With(rt.authMiddleware.Authenticate).Get("/me", h.Auth.Me)
			r.With(rt.authMiddleware.RequireRole(domain.RoleAdmin)).Post("/", h.Auth.CreateUser)
		})
	})

	return r
}

// databaseHealth is the readiness probe with connection pool stats
func (rt *Router) databaseHealth(w http.ResponseWriter, r *http.Request) {
	stats, err := database.HealthCheckWithStats(rt.db)
	if err != nil {
		rt.logger.Error("Database health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "unhealthy",
			"error":   err.Error(),
			"service": "database",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "database",
		"stats": map[string]interface{}{
			"max_open_connections": stats.MaxOpenConnections,
			"open_connections":     stats.OpenConnections,
			"in_use":               stats.InUse,
			"idle":                 stats.Idle,
			"wait_count":           stats.WaitCount,
			"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
		},
	})
}

// readiness checks the database and every registered optional dependency
func (rt *Router) readiness(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]interface{})
	allHealthy := true

	record := func(name string, err error) {
		if err != nil {
			rt.logger.Error("Readiness check failed", zap.String("check", name), zap.Error(err))
			checks[name] = map[string]interface{}{"status": "unhealthy", "error": err.Error()}
			allHealthy = false
			return
		}
		checks[name] = map[string]interface{}{"status": "healthy"}
	}

	record("database", database.HealthCheck(rt.db))
	for name, check := range rt.checks {
		record(name, check(r.Context()))
	}

	status, label := http.StatusOK, "healthy"
	if !allHealthy {
		status, label = http.StatusServiceUnavailable, "unhealthy"
	}
	writeJSON(w, status, map[string]interface{}{
		"status": label,
		"checks": checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
