package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/novexa-store/internal/domain/cart"
	"github.com/xenking/novexa-store/internal/domain/coupon"
	"github.com/xenking/novexa-store/internal/domain/pricing"
	"github.com/xenking/novexa-store/internal/domain/product"
)

// ProductNotFoundError indicates a cart line refers to a product that is no
// longer available.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// Service encapsulates checkout business logic.
type Service struct {
	gate     cart.Authenticator
	carts    cart.Store
	products product.Repository
	coupons  coupon.Validator
	orders   Repository
	now      func() time.Time
}

// NewService creates an order Service with the required domain dependencies.
func NewService(
	gate cart.Authenticator,
	carts cart.Store,
	products product.Repository,
	coupons coupon.Validator,
	orders Repository,
) *Service {
	return &Service{
		gate:     gate,
		carts:    carts,
		products: products,
		coupons:  coupons,
		orders:   orders,
		now:      time.Now,
	}
}

// Checkout prices the caller's cart at current catalog prices, persists the
// order, redeems couponCode and clears the cart.
//
// The coupon is only resolved while pricing; its use is consumed after the
// order is stored, and a failed redemption removes the order again.
func (s *Service) Checkout(ctx context.Context, couponCode string) (*Order, error) {
	p, err := s.gate.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	c, err := s.carts.Get(ctx, p.ID)
	if err != nil {
		return nil, errors.Wrap(err, "get cart")
	}
	if c == nil || c.Len() == 0 {
		return nil, cart.ErrEmpty
	}

	items, err := s.refresh(ctx, c.Items)
	if err != nil {
		return nil, err
	}
	if err := pricing.Validate(items, decimal.Zero); err != nil {
		return nil, err
	}

	q, err := cart.Price(ctx, items, couponCode, s.coupons.Resolve)
	if err != nil {
		return nil, errors.Wrap(err, "price cart")
	}

	o := &Order{
		ID:              uuid.New().String(),
		UserID:          p.ID,
		Items:           q.Items,
		Subtotal:        q.Subtotal,
		DiscountPercent: q.DiscountPercent,
		Total:           q.Total,
		CouponCode:      q.CouponCode,
		CreatedAt:       s.now(),
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	if o.CouponCode != "" {
		if _, err := s.coupons.Redeem(ctx, o.CouponCode, items); err != nil {
			if delErr := s.orders.Delete(ctx, o.ID); delErr != nil {
				zctx.From(ctx).Error("Failed to remove order after coupon redemption failed",
					zap.String("order_id", o.ID),
					zap.String("coupon", o.CouponCode),
					zap.Error(delErr),
				)
			}
			return nil, errors.Wrap(err, "redeem coupon")
		}
	}

	if err := s.carts.Delete(ctx, p.ID); err != nil {
		zctx.From(ctx).Warn("Failed to clear cart after checkout",
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}
	return o, nil
}

// History returns the caller's orders, newest first.
func (s *Service) History(ctx context.Context) ([]Order, error) {
	p, err := s.gate.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.ListByUser(ctx, p.ID)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return orders, nil
}

// refresh reprices lines from the catalog in a single batch lookup. Lines
// whose product is gone or no longer published fail with
// ProductNotFoundError.
func (s *Service) refresh(ctx context.Context, lines []pricing.LineItem) ([]pricing.LineItem, error) {
	ids := make([]string, len(lines))
	for i, line := range lines {
		ids[i] = line.ID
	}
	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}
	byID := make(map[string]product.Product, len(fetched))
	for _, prod := range fetched {
		byID[prod.ID] = prod
	}

	items := make([]pricing.LineItem, len(lines))
	for i, line := range lines {
		prod, ok := byID[line.ID]
		if !ok || prod.Status != product.StatusPublished {
			return nil, &ProductNotFoundError{ProductID: line.ID}
		}
		items[i] = pricing.LineItem{
			ID:       prod.ID,
			Name:     prod.Name,
			Image:    prod.Thumbnail(),
			Price:    prod.Price,
			Quantity: line.Quantity,
		}
	}
	return items, nil
}
