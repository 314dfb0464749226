package entry

import "github.com/go-chi/chi/v5"

// Routes returns credit entry routes, mounted at /api/credit-entries.
// GET /{id} lists by customer id; the other /{id} routes take an entry id.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.ListByCustomer)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		r.Patch("/payment", h.UpdatePayment)
	})

	return r
}
