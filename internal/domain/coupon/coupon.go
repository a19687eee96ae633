package coupon

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidCoupon is returned when a code is not found or the cart does
	// not satisfy the code's minimum item requirement.
	ErrInvalidCoupon = errors.New("invalid coupon code")
	// ErrCouponExpired is returned when a code is outside its valid time window.
	ErrCouponExpired = errors.New("coupon expired")
	// ErrCouponUsageLimitReached is returned when a code has exhausted its allowed uses.
	ErrCouponUsageLimitReached = errors.New("coupon usage limit reached")
)

// Rule defines a discount code and its eligibility constraints. Percent is
// the whole-cart percentage the code grants.
type Rule struct {
	Code        string
	Percent     decimal.Decimal
	MinItems    int64
	Description string
	ValidFrom   *time.Time
	ValidUntil  *time.Time
	MaxUses     int
	Uses        int
}

// Discount is the outcome of a resolved code.
type Discount struct {
	Code        string
	Percent     decimal.Decimal
	Description string
}

// Repository provides lookup and mutation of discount codes.
type Repository interface {
	FindByCode(ctx context.Context, code string) (*Rule, error)
	IncrementUses(ctx context.Context, code string) error
}
