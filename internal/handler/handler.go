// Package handler exposes the storefront and admin operations over HTTP.
package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/xenking/novexa-store/internal/domain/access"
	"github.com/xenking/novexa-store/internal/domain/campaign"
	"github.com/xenking/novexa-store/internal/domain/cart"
	"github.com/xenking/novexa-store/internal/domain/contact"
	"github.com/xenking/novexa-store/internal/domain/order"
	"github.com/xenking/novexa-store/internal/domain/product"
	"github.com/xenking/novexa-store/internal/domain/user"
	"github.com/xenking/novexa-store/pkg/httpmiddleware"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 16

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// ImageBaseURL is prepended to relative image paths in responses.
	// When empty, image paths are returned as stored.
	ImageBaseURL string
}

// Services groups the domain services the handler delegates to.
type Services struct {
	Gate      *access.Gate
	Catalog   *product.Catalog
	Carts     *cart.Service
	Orders    *order.Service
	Users     *user.Service
	Contacts  *contact.Service
	Campaigns *campaign.Service
}

// Handler translates HTTP requests into domain service calls.
type Handler struct {
	gate         *access.Gate
	catalog      *product.Catalog
	carts        *cart.Service
	orders       *order.Service
	users        *user.Service
	contacts     *contact.Service
	campaigns    *campaign.Service
	imageBaseURL string
}

// New constructs a Handler.
func New(cfg Config, s Services) *Handler {
	return &Handler{
		gate:         s.Gate,
		catalog:      s.Catalog,
		carts:        s.Carts,
		orders:       s.Orders,
		users:        s.Users,
		contacts:     s.Contacts,
		campaigns:    s.Campaigns,
		imageBaseURL: strings.TrimSuffix(cfg.ImageBaseURL, "/"),
	}
}

// Routes returns the API router mounted under /api. Middlewares wrap every
// API route; authentication is expected among them.
func (h *Handler) Routes(mws ...httpmiddleware.Middleware) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		for _, mw := range mws {
			r.Use(mw)
		}

		r.Get("/products", h.listProducts)
		r.Get("/products/{id}", h.getProduct)
		r.Post("/contact", h.submitContact)

		r.Get("/me", h.me)
		r.Post("/me/sync", h.syncMe)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.getCart)
			r.Delete("/", h.clearCart)
			r.Post("/items", h.addCartItem)
			r.Delete("/items/{id}", h.removeCartItem)
			r.Get("/quote", h.quoteCart)
		})
		r.Post("/checkout", h.checkout)
		r.Get("/orders", h.listOrders)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/users", h.listUsers)
			r.Put("/users/{id}/role", h.setUserRole)
			r.Post("/users/{id}/role/toggle", h.toggleUserRole)

			r.Get("/contacts", h.listContacts)
			r.Post("/contacts/read", h.markContactsRead)
			r.Patch("/contacts/{id}", h.updateContact)
			r.Delete("/contacts/{id}", h.deleteContact)

			r.Get("/products/export", h.exportProducts)
			r.Post("/email-drafts", h.generateDraft)
		})
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpmiddleware.WriteError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httpmiddleware.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// imageURL prefixes relative image paths with the configured base URL.
func (h *Handler) imageURL(path string) string {
	if h.imageBaseURL == "" || path == "" || strings.Contains(path, "://") {
		return path
	}
	return h.imageBaseURL + "/" + strings.TrimPrefix(path, "/")
}
