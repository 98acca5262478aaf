package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	authsvc "github.com/rcastellanos/taller/internal/auth"
	"github.com/rcastellanos/taller/internal/http/auth"
	"github.com/rcastellanos/taller/internal/http/client"
	"github.com/rcastellanos/taller/internal/http/document"
	"github.com/rcastellanos/taller/internal/http/inventory"
	"github.com/rcastellanos/taller/internal/http/middleware"
	"github.com/rcastellanos/taller/internal/http/parameter"
	"github.com/rcastellanos/taller/internal/http/user"
	"github.com/rcastellanos/taller/internal/http/vehicle"
	userdomain "github.com/rcastellanos/taller/internal/user"
)

func New(
	tokens *authsvc.Service,
	authV1 *auth.Handler,
	usersV1 *user.Handler,
	clientsV1 *client.Handler,
	vehiclesV1 *vehicle.Handler,
	inventoryV1 *inventory.Handler,
	documentsV1 *document.Handler,
	parametersV1 *parameter.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(chimiddleware.AllowContentType("application/json"))
			authV1.Routes(r)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(tokens))
				authV1.ProtectedRoutes(r)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(tokens))

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireRole(userdomain.RoleAdmin))
				usersV1.Routes(r)
			})

			r.Route("/clients", func(r chi.Router) {
				r.Use(middleware.RequireRole(userdomain.RoleAdmin, userdomain.RoleReceptionist))
				clientsV1.Routes(r)
			})

			r.Route("/vehicles", func(r chi.Router) {
				r.Use(middleware.RequireRole(userdomain.RoleAdmin, userdomain.RoleReceptionist, userdomain.RoleMechanic))
				vehiclesV1.Routes(r)
			})

			r.Route("/inventory", func(r chi.Router) {
				r.Use(middleware.RequireRole(userdomain.RoleAdmin, userdomain.RoleReceptionist, userdomain.RoleMechanic))
				inventoryV1.Routes(r)
			})

			r.Route("/work-orders", documentsV1.WorkOrderRoutes)
			r.Route("/budgets", documentsV1.BudgetRoutes)
			r.Route("/invoices", documentsV1.InvoiceRoutes)

			r.Route("/parameters", func(r chi.Router) {
				r.Use(middleware.RequireRole(userdomain.RoleAdmin))
				parametersV1.Routes(r)
			})
		})
	})

	return router
}
