package customer

import "github.com/go-chi/chi/v5"

// Routes returns customer routes, mounted at /api/customers.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		r.Post("/recalculate", h.Recalculate)
	})

	return r
}
