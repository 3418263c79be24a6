package rest

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gearkeep/maintenance-management/internal/auth"
	"github.com/gearkeep/maintenance-management/internal/category"
	"github.com/gearkeep/maintenance-management/internal/company"
	"github.com/gearkeep/maintenance-management/internal/equipment"
	"github.com/gearkeep/maintenance-management/internal/request"
	"github.com/gearkeep/maintenance-management/internal/transport/middleware"
	"github.com/gearkeep/maintenance-management/internal/transport/swagger"
	"github.com/gearkeep/maintenance-management/internal/user"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth      *auth.Handler
	User      *user.Handler
	Company   *company.Handler
	Equipment *equipment.Handler
	Category  *category.Handler
	Request   *request.Handler
}

// RouterConfig carries the transport-level knobs the router needs.
type RouterConfig struct {
	AllowedOrigins string
	AuthRateLimit  float64
	AuthRateBurst  int
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, rbac *auth.RBACAuthorization, cfg RouterConfig) {
	healthHandler := NewHealthHandler(db)
	authLimiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)

	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.Metrics)

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Credential endpoints sit behind a per-IP rate limit.
		r.Route("/auth", func(sr chi.Router) {
			sr.Use(authLimiter.Middleware)
			sr.Post("/register", h.Auth.Register)
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Everything below requires a valid bearer token.
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/users/me", h.User.GetCurrentUser)
			pr.Get("/users", h.User.ListUsers)
			pr.Put("/users/{id}", h.User.UpdateUser)
			pr.Group(func(ar chi.Router) {
				ar.Use(rbac.RequireCompanyAdmin())
				ar.Delete("/users/{id}", h.User.DeactivateUser)
			})

			pr.Route("/companies", func(cr chi.Router) {
				cr.Get("/", h.Company.ListCompanies)
				cr.Get("/{id}", h.Company.GetCompany)
				cr.Group(func(ar chi.Router) {
					ar.Use(rbac.RequirePlatformAdmin())
					ar.Post("/", h.Company.CreateCompany)
					ar.Delete("/{id}", h.Company.DeleteCompany)
				})
				cr.Group(func(ar chi.Router) {
					ar.Use(rbac.RequireCompanyAdmin())
					ar.Put("/{id}", h.Company.UpdateCompany)
				})
			})

			pr.Route("/equipment", func(er chi.Router) {
				er.Get("/", h.Equipment.ListEquipment)
				er.Get("/{id}", h.Equipment.GetEquipment)
				er.Group(func(ar chi.Router) {
					ar.Use(rbac.RequireCompanyAdmin())
					ar.Post("/", h.Equipment.CreateEquipment)
					ar.Put("/{id}", h.Equipment.UpdateEquipment)
					ar.Delete("/{id}", h.Equipment.DeleteEquipment)
				})
			})

			pr.Route("/categories", func(cr chi.Router) {
				cr.Get("/", h.Category.ListCategories)
				cr.Get("/{id}", h.Category.GetCategory)
				cr.Group(func(ar chi.Router) {
					ar.Use(rbac.RequireCompanyAdmin())
					ar.Post("/", h.Category.CreateCategory)
					ar.Put("/{id}", h.Category.UpdateCategory)
					ar.Delete("/{id}", h.Category.DeleteCategory)
					ar.Post("/{id}/assign", h.Category.AssignEmployee)
					ar.Delete("/{id}/assign/{employeeId}", h.Category.RemoveEmployee)
				})
			})

			pr.Route("/requests", func(rr chi.Router) {
				rr.Post("/", h.Request.CreateRequest)
				rr.Get("/", h.Request.ListRequests)
				rr.Get("/dashboard-stats", h.Request.DashboardStats)
				rr.Get("/{id}", h.Request.GetRequest)
				rr.Put("/{id}", h.Request.UpdateRequest)
				rr.Delete("/{id}", h.Request.DeleteRequest)
				rr.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireMaintenanceTeam())
					mr.Post("/{id}/claim", h.Request.ClaimRequest)
				})
			})
		})
	})
}
