package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/unclebandit/acme-customers-backend/internal/handler"
	"github.com/unclebandit/acme-customers-backend/internal/middleware"
)

// APIBasePath prefixes every authenticated route.
const APIBasePath = "/api"

// NewRouter wires middleware and routes. auth guards everything under /api;
// health stays open so probes need no secret.
func NewRouter(customers *CustomerController, health *handler.HealthHandler, auth func(http.Handler) http.Handler, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))

	if health != nil {
		r.Get("/healthz", health.Health)
	}

	r.Route(APIBasePath, func(r chi.Router) {
		r.Use(auth)

		// Customer routes
		r.Get("/customers", customers.ListCustomers)
		r.Post("/customers", customers.CreateCustomer)
		r.Get("/customers/{id}", customers.GetCustomer)
		r.Put("/customers/{id}", customers.UpdateCustomer)
		r.Delete("/customers/{id}", customers.DeleteCustomer)
	})

	return r
}
