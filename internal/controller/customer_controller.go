// internal/controller/customer_controller.go
package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/unclebandit/acme-customers-backend/internal/dto"
	appErrors "github.com/unclebandit/acme-customers-backend/internal/errors"
	"github.com/unclebandit/acme-customers-backend/internal/middleware"
	"github.com/unclebandit/acme-customers-backend/internal/model"
)

// maxBodyBytes caps POST and PUT payloads.
const maxBodyBytes = 1 << 20

// CustomerService is what the controller needs from the service layer.
type CustomerService interface {
	ListCustomers(ctx context.Context) ([]model.Customer, error)
	GetCustomer(ctx context.Context, id int) (*model.Customer, error)
	CreateCustomer(ctx context.Context, c *model.Customer) error
	UpdateCustomer(ctx context.Context, id int, c *model.Customer) error
	DeleteCustomer(ctx context.Context, id int) error
}

type CustomerController struct {
	CustomerService CustomerService
	Log             zerolog.Logger
	// BasePath prefixes the Location header of created resources.
	BasePath string
}

func (c *CustomerController) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := c.CustomerService.ListCustomers(r.Context())
	if err != nil {
		c.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromModels(customers))
}

func (c *CustomerController) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	customer, err := c.CustomerService.GetCustomer(r.Context(), id)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromModel(customer))
}

func (c *CustomerController) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var body dto.CustomerDTO
	if !decodeBody(w, r, &body) {
		return
	}

	customer := body.ToModel()
	if err := c.CustomerService.CreateCustomer(r.Context(), customer); err != nil {
		c.fail(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s/customers/%d", c.BasePath, customer.ID))
	writeJSON(w, http.StatusCreated, dto.FromModel(customer))
}

func (c *CustomerController) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var body dto.CustomerDTO
	if !decodeBody(w, r, &body) {
		return
	}

	if err := c.CustomerService.UpdateCustomer(r.Context(), id, body.ToModel()); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *CustomerController) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := c.CustomerService.DeleteCustomer(r.Context(), id); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail maps service errors onto status codes. Anything unexpected is a 500
// with the detail kept in the log only.
func (c *CustomerController) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case appErrors.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, appErrors.ErrIDMismatch):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		c.Log.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// pathID parses the {id} segment. Ids are 32-bit in the store, so anything
// outside that range is rejected here rather than sent to Postgres.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return 0, false
	}
	return int(id), true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
