package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/creditbook/creditbook-api/internal/pkg/errorhandler"
	"github.com/creditbook/creditbook-api/internal/pkg/response"
)

// Handler handles dashboard HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates new dashboard handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetStats returns aggregated figures across all customers
// GET /api/dashboard/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		errorhandler.Internal(r.Context(), w, "dashboard.stats", err)
		return
	}

	response.OK(w, stats)
}

// Routes returns dashboard routes
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/stats", h.GetStats)

	return r
}
