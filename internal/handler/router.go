package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	custommiddleware "github.com/levenuts/storefront/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware витрины.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.GetProducts)

		r.Group(func(r chi.Router) {
			r.Use(h.profiles.Middleware)

			r.Get("/cart", h.GetCart)
			r.Post("/cart/items", h.AddItem)
			r.Put("/cart/items/{id}", h.SetQuantity)
			r.Post("/cart/items/{id}/increment", h.IncrementItem)
			r.Post("/cart/items/{id}/decrement", h.DecrementItem)
			r.Delete("/cart/items/{id}", h.RemoveItem)

			r.Post("/checkout", h.Checkout)
		})

		r.Get("/orders/{id}/pix", h.GetPixInstructions)
		r.Get("/orders/{id}/pix/qr", h.GetPixQRCode)
		r.Post("/orders/{id}/confirm", h.ConfirmPayment)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/status", h.AdminStatus)
			r.Post("/setup", h.AdminSetup)
			r.Post("/login", h.AdminLogin)

			r.Group(func(r chi.Router) {
				r.Use(custommiddleware.AdminSession(h.admin, h.AdminDenied))

				r.Post("/logout", h.AdminLogout)
				r.Post("/reset", h.AdminReset)
				r.Get("/orders", h.AdminOrders)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	return r
}
