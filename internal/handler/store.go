package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/jx"

	"github.com/xenking/novexa-store/internal/domain/user"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, p := range products {
				h.encodeProduct(e, p)
			}
		})
	})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { h.encodeProduct(e, *p) })
}

func (h *Handler) submitContact(w http.ResponseWriter, r *http.Request) {
	var name, email, message string
	err := decodeObject(r, func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "name":
			name, err = d.Str()
		case "email":
			email, err = d.Str()
		case "message":
			message, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	m, err := h.contacts.Submit(r.Context(), name, email, message)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("id", func(e *jx.Encoder) { e.Str(m.ID) })
		})
	})
}

// me reports who the caller is and whether they hold admin standing.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	p, err := h.gate.RequireUser(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	isAdmin := h.gate.IsAdmin(r.Context())
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("id", func(e *jx.Encoder) { e.Str(p.ID) })
			e.Field("email", func(e *jx.Encoder) { e.Str(p.Email) })
			e.Field("isAdmin", func(e *jx.Encoder) { e.Bool(isAdmin) })
		})
	})
}

// syncMe creates the caller's user record on first login.
func (h *Handler) syncMe(w http.ResponseWriter, r *http.Request) {
	p, err := h.gate.RequireUser(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	profile := user.Profile{ID: p.ID, Email: p.Email}
	err = decodeObject(r, func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "firstName":
			profile.FirstName, err = d.Str()
		case "lastName":
			profile.LastName, err = d.Str()
		case "picture":
			profile.Picture, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.users.Sync(r.Context(), profile)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeUser(e, u) })
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { h.encodeCart(e, c) })
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var (
		productID string
		quantity  int64 = 1
	)
	err := decodeObject(r, func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "productId":
			productID, err = d.Str()
		case "quantity":
			if d.Next() != jx.Number {
				return badRequest("quantity must be an integer")
			}
			quantity, err = d.Int64()
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if productID == "" {
		writeError(w, r, badRequest("productId is required"))
		return
	}

	c, err := h.carts.AddItem(r.Context(), productID, quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { h.encodeCart(e, c) })
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.RemoveItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { h.encodeCart(e, c) })
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) quoteCart(w http.ResponseWriter, r *http.Request) {
	q, err := h.carts.Quote(r.Context(), r.URL.Query().Get("coupon"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { h.encodeQuote(e, q) })
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var couponCode string
	if r.ContentLength != 0 {
		err := decodeObject(r, func(d *jx.Decoder, key string) error {
			if key != "couponCode" {
				return d.Skip()
			}
			if d.Next() == jx.Null {
				return d.Null()
			}
			var err error
			couponCode, err = d.Str()
			return err
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
	}

	o, err := h.orders.Checkout(r.Context(), strings.TrimSpace(couponCode))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) { h.encodeOrder(e, o) })
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.History(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for i := range orders {
				h.encodeOrder(e, &orders[i])
			}
		})
	})
}

