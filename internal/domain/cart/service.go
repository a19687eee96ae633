// Package cart manages per-user shopping carts and prices them.
package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/novexa-store/internal/domain/access"
	"github.com/xenking/novexa-store/internal/domain/coupon"
	"github.com/xenking/novexa-store/internal/domain/pricing"
	"github.com/xenking/novexa-store/internal/domain/product"
)

// Authenticator is the part of the access gate the cart depends on.
type Authenticator interface {
	RequireUser(ctx context.Context) (access.Principal, error)
}

// Quote is a priced snapshot of a cart.
type Quote struct {
	Items           []pricing.LineItem
	Subtotal        int64
	DiscountPercent decimal.Decimal
	CouponCode      string
	Total           int64
}

// Service implements cart operations for the current caller.
type Service struct {
	gate     Authenticator
	store    Store
	products product.Repository
	coupons  coupon.Validator
	now      func() time.Time
}

// NewService creates a cart Service.
func NewService(gate Authenticator, store Store, products product.Repository, coupons coupon.Validator) *Service {
	return &Service{
		gate:     gate,
		store:    store,
		products: products,
		coupons:  coupons,
		now:      time.Now,
	}
}

// Get returns the caller's cart.
func (s *Service) Get(ctx context.Context) (*Cart, error) {
	p, err := s.gate.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, p.ID)
}

// AddItem adds qty units of a published product to the caller's cart. A
// line never holds more than MaxQuantity units.
func (s *Service) AddItem(ctx context.Context, productID string, qty int64) (*Cart, error) {
	p, err := s.gate.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if qty <= 0 || qty > MaxQuantity {
		return nil, ErrInvalidQuantity
	}

	prod, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if prod.Status != product.StatusPublished {
		return nil, product.ErrNotFound
	}

	c, err := s.load(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if err := c.Add(pricing.LineItem{
		ID:       prod.ID,
		Name:     prod.Name,
		Image:    prod.Thumbnail(),
		Price:    prod.Price,
		Quantity: qty,
	}); err != nil {
		return nil, err
	}
	c.UpdatedAt = s.now()
	if err := s.store.Save(ctx, c); err != nil {
		return nil, errors.Wrap(err, "save cart")
	}
	return c, nil
}

// RemoveItem drops a product line from the caller's cart.
func (s *Service) RemoveItem(ctx context.Context, productID string) (*Cart, error) {
	p, err := s.gate.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	c, err := s.load(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if !c.Remove(productID) {
		return nil, ErrItemNotFound
	}
	c.UpdatedAt = s.now()
	if err := s.store.Save(ctx, c); err != nil {
		return nil, errors.Wrap(err, "save cart")
	}
	return c, nil
}

// Clear empties the caller's cart.
func (s *Service) Clear(ctx context.Context) error {
	p, err := s.gate.RequireUser(ctx)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, p.ID); err != nil {
		return errors.Wrap(err, "delete cart")
	}
	return nil
}

// Quote prices the caller's cart. An empty couponCode quotes without a
// discount; a code that does not resolve fails the quote.
func (s *Service) Quote(ctx context.Context, couponCode string) (*Quote, error) {
	p, err := s.gate.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	c, err := s.load(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return Price(ctx, c.Items, couponCode, s.coupons.Resolve)
}

// ResolveFunc resolves a discount code against a set of items.
type ResolveFunc func(ctx context.Context, code string, items []pricing.LineItem) (*coupon.Discount, error)

// Price validates items, resolves couponCode through resolve and computes
// the total.
func Price(ctx context.Context, items []pricing.LineItem, couponCode string, resolve ResolveFunc) (*Quote, error) {
	percent := decimal.Zero
	var code string
	if couponCode != "" {
		d, err := resolve(ctx, couponCode, items)
		if err != nil {
			return nil, err
		}
		percent = d.Percent
		code = d.Code
	}
	if err := pricing.Validate(items, percent); err != nil {
		return nil, err
	}
	return &Quote{
		Items:           items,
		Subtotal:        pricing.Subtotal(items),
		DiscountPercent: percent,
		CouponCode:      code,
		Total:           pricing.ComputeCartTotal(items, percent),
	}, nil
}

func (s *Service) load(ctx context.Context, userID string) (*Cart, error) {
	c, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "get cart")
	}
	if c == nil {
		c = &Cart{UserID: userID}
	}
	return c, nil
}
