package documents

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Post("/receipts", h.CreateReceipt)
	r.Post("/withholdings", h.CreateWithholding)
	r.Get("/withholdings", h.ListWithholdings)
	r.Post("/resync/{entryID}", h.Resync)
}
