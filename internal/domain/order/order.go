package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xenking/novexa-store/internal/domain/pricing"
)

// Order is a checked-out cart with its pricing frozen at checkout time.
// Amounts are in cents.
type Order struct {
	ID              string
	UserID          string
	Items           []pricing.LineItem
	Subtotal        int64
	DiscountPercent decimal.Decimal
	Total           int64
	CouponCode      string
	CreatedAt       time.Time
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, order *Order) error
	// Delete removes an order. Deleting a missing order is not an error.
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]Order, error)
}
