package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/novexa-store/internal/domain/cart"
	"github.com/xenking/novexa-store/internal/domain/contact"
	"github.com/xenking/novexa-store/internal/domain/order"
	"github.com/xenking/novexa-store/internal/domain/pricing"
	"github.com/xenking/novexa-store/internal/domain/product"
	"github.com/xenking/novexa-store/internal/domain/user"
)

func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	var e jx.Encoder
	encode(&e)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// decodeObject reads a JSON object body and calls field for every key.
// Unknown keys must be skipped by field.
func decodeObject(r *http.Request, field func(d *jx.Decoder, key string) error) error {
	d := jx.Decode(http.MaxBytesReader(nil, r.Body, maxBodyBytes), 512)
	if d.Next() != jx.Object {
		return badRequest("request body must be a JSON object")
	}
	if err := d.Obj(field); err != nil {
		var malformed requestError
		if errors.As(err, &malformed) {
			return err
		}
		return badRequest("malformed JSON body")
	}
	return nil
}

func encodeTime(e *jx.Encoder, t time.Time) {
	e.Str(t.UTC().Format(time.RFC3339))
}

// encodeCents writes an amount in cents as a decimal number in major units.
func encodeCents(e *jx.Encoder, cents int64) {
	e.Num(jx.Num(decimal.New(cents, -2).StringFixed(2)))
}

func (h *Handler) encodeProduct(e *jx.Encoder, p product.Product) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(p.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(p.Name) })
		e.Field("description", func(e *jx.Encoder) { e.Str(p.Description) })
		e.Field("price", func(e *jx.Encoder) { encodeCents(e, p.Price) })
		e.Field("category", func(e *jx.Encoder) { e.Str(p.Category) })
		e.Field("mainCategory", func(e *jx.Encoder) { e.Str(p.MainCategory) })
		e.Field("stock", func(e *jx.Encoder) { e.Int64(p.Stock) })
		e.Field("images", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, img := range p.Images {
					e.Str(h.imageURL(img))
				}
			})
		})
	})
}

func (h *Handler) encodeLineItems(e *jx.Encoder, items []pricing.LineItem) {
	e.Arr(func(e *jx.Encoder) {
		for _, it := range items {
			e.Obj(func(e *jx.Encoder) {
				e.Field("id", func(e *jx.Encoder) { e.Str(it.ID) })
				e.Field("name", func(e *jx.Encoder) { e.Str(it.Name) })
				e.Field("image", func(e *jx.Encoder) { e.Str(h.imageURL(it.Image)) })
				e.Field("price", func(e *jx.Encoder) { encodeCents(e, it.Price) })
				e.Field("quantity", func(e *jx.Encoder) { e.Int64(it.Quantity) })
			})
		}
	})
}

func (h *Handler) encodeCart(e *jx.Encoder, c *cart.Cart) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("items", func(e *jx.Encoder) { h.encodeLineItems(e, c.Items) })
		e.Field("subtotal", func(e *jx.Encoder) { encodeCents(e, pricing.Subtotal(c.Items)) })
	})
}

func (h *Handler) encodeQuote(e *jx.Encoder, q *cart.Quote) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("items", func(e *jx.Encoder) { h.encodeLineItems(e, q.Items) })
		e.Field("subtotal", func(e *jx.Encoder) { encodeCents(e, q.Subtotal) })
		e.Field("discountPercent", func(e *jx.Encoder) { e.Num(jx.Num(q.DiscountPercent.String())) })
		if q.CouponCode != "" {
			e.Field("couponCode", func(e *jx.Encoder) { e.Str(q.CouponCode) })
		}
		e.Field("total", func(e *jx.Encoder) { encodeCents(e, q.Total) })
	})
}

func (h *Handler) encodeOrder(e *jx.Encoder, o *order.Order) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(o.ID) })
		e.Field("items", func(e *jx.Encoder) { h.encodeLineItems(e, o.Items) })
		e.Field("subtotal", func(e *jx.Encoder) { encodeCents(e, o.Subtotal) })
		e.Field("discountPercent", func(e *jx.Encoder) { e.Num(jx.Num(o.DiscountPercent.String())) })
		if o.CouponCode != "" {
			e.Field("couponCode", func(e *jx.Encoder) { e.Str(o.CouponCode) })
		}
		e.Field("total", func(e *jx.Encoder) { encodeCents(e, o.Total) })
		e.Field("createdAt", func(e *jx.Encoder) { encodeTime(e, o.CreatedAt) })
	})
}

func encodeUser(e *jx.Encoder, u *user.User) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(u.ID) })
		e.Field("email", func(e *jx.Encoder) { e.Str(u.Email) })
		e.Field("firstName", func(e *jx.Encoder) { e.Str(u.FirstName) })
		e.Field("lastName", func(e *jx.Encoder) { e.Str(u.LastName) })
		e.Field("profileImage", func(e *jx.Encoder) { e.Str(u.ProfileImage) })
		e.Field("role", func(e *jx.Encoder) { e.Str(string(u.Role)) })
		e.Field("createdAt", func(e *jx.Encoder) { encodeTime(e, u.CreatedAt) })
	})
}

func encodeContact(e *jx.Encoder, m *contact.Message) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(m.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(m.Name) })
		e.Field("email", func(e *jx.Encoder) { e.Str(m.Email) })
		e.Field("message", func(e *jx.Encoder) { e.Str(m.Body) })
		e.Field("status", func(e *jx.Encoder) { e.Str(string(m.Status)) })
		e.Field("read", func(e *jx.Encoder) { e.Bool(m.Read) })
		e.Field("createdAt", func(e *jx.Encoder) { encodeTime(e, m.CreatedAt) })
	})
}
