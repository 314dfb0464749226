package customer

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/creditbook/creditbook-api/internal/pkg/errorhandler"
	"github.com/creditbook/creditbook-api/internal/pkg/response"
	"github.com/creditbook/creditbook-api/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /customers
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		errorhandler.Decode(r.Context(), w, err)
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		errorhandler.Validation(r.Context(), w, errs)
		return
	}

	c, err := h.service.Create(r.Context(), &req)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "customer.create", err)
		return
	}
	response.OK(w, c)
}

// List handles GET /customers
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.List(r.Context())
	if err != nil {
		errorhandler.Internal(r.Context(), w, "customer.list", err)
		return
	}
	response.OK(w, customers)
}

// Get handles GET /customers/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	c, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, r, "customer.get", err)
		return
	}
	response.OK(w, c)
}

// Update handles PUT /customers/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		errorhandler.Decode(r.Context(), w, err)
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		errorhandler.Validation(r.Context(), w, errs)
		return
	}

	c, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		h.handleError(w, r, "customer.update", err)
		return
	}
	response.OK(w, c)
}

// Delete handles DELETE /customers/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, "customer.delete", err)
		return
	}
	response.OKMessage(w, "Customer deleted successfully")
}

// Recalculate handles POST /customers/{id}/recalculate
func (h *Handler) Recalculate(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	c, err := h.service.Recalculate(r.Context(), id)
	if err != nil {
		h.handleError(w, r, "customer.recalculate", err)
		return
	}
	response.OK(w, c)
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ErrCustomerNotFound):
		response.NotFound(w, "Customer not found")
	default:
		errorhandler.Internal(r.Context(), w, op, err)
	}
}

// customerID reads the {id} path parameter. An id that is not a UUID
// cannot name a stored customer, so it is answered with 404.
func customerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.NotFound(w, "Customer not found")
		return uuid.Nil, false
	}
	return id, true
}
