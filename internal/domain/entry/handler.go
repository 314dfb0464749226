package entry

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

// Create handles POST /credit-entries
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

	e, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.handleError(w, r, "entry.create", err)
		return
	}
	response.OK(w, e)
}

// ListByCustomer handles GET /credit-entries/{id}, where id is a customer id.
func (h *Handler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListByCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errorhandler.Internal(r.Context(), w, "entry.list", err)
		return
	}
	response.OK(w, entries)
}

// Update handles PUT /credit-entries/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(w, r)
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

	e, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		h.handleError(w, r, "entry.update", err)
		return
	}
	response.OK(w, e)
}

// UpdatePayment handles PATCH /credit-entries/{id}/payment
func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(w, r)
	if !ok {
		return
	}

	var req PaymentRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		errorhandler.Decode(r.Context(), w, err)
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		errorhandler.Validation(r.Context(), w, errs)
		return
	}

	e, err := h.service.UpdatePayment(r.Context(), id, &req)
	if err != nil {
		h.handleError(w, r, "entry.update_payment", err)
		return
	}
	response.OK(w, e)
}

// Delete handles DELETE /credit-entries/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, "entry.delete", err)
		return
	}
	response.OKMessage(w, "Credit entry deleted successfully")
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ErrEntryNotFound):
		response.NotFound(w, "Credit entry not found")
	case errors.Is(err, ErrCustomerNotFound):
		response.NotFound(w, "Customer not found")
	default:
		errorhandler.Internal(r.Context(), w, op, err)
	}
}

func entryID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.NotFound(w, "Credit entry not found")
		return uuid.Nil, false
	}
	return id, true
}
