// Package pricing computes cart totals in the smallest currency unit.
//
// All functions are pure: they hold no state and perform no I/O, so they are
// safe to call from any number of goroutines.
package pricing

import (
	"fmt"
	"math"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ErrInvalidInput is matched by every error returned from Validate.
var ErrInvalidInput = errors.New("invalid pricing input")

// LineItem is one product line in a cart. Price is in cents.
type LineItem struct {
	ID       string
	Name     string
	Image    string
	Price    int64
	Quantity int64
}

// InvalidInputError describes the first offending value found by Validate.
type InvalidInputError struct {
	ItemID string
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.ItemID == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s for item %s: %s", e.Field, e.ItemID, e.Reason)
}

// Is reports whether target is ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Subtotal returns the sum of price * quantity across all items.
func Subtotal(items []LineItem) int64 {
	var sum int64
	for _, item := range items {
		sum += item.Price * item.Quantity
	}
	return sum
}

// ComputeCartTotal returns the payable total for items with a whole-cart
// percentage discount applied.
//
// A zero discount returns the exact subtotal. Any other value is applied
// mechanically as subtotal * (1 - discountPercent/100) and rounded to the
// nearest cent, half away from zero. Values outside [0, 100] are not rejected
// here: a negative percentage inflates the total and a percentage above 100
// yields a negative total. Use Validate to refuse such input.
func ComputeCartTotal(items []LineItem, discountPercent decimal.Decimal) int64 {
	subtotal := Subtotal(items)
	if discountPercent.IsZero() {
		return subtotal
	}

	discounted := decimal.NewFromInt(subtotal).Mul(hundred.Sub(discountPercent)).Div(hundred)
	return discounted.Round(0).IntPart()
}

// Validate checks that every item has a non-negative price and a positive
// quantity, that the line totals and the subtotal fit in an int64, and that
// discountPercent lies within [0, 100]. Subtotal and ComputeCartTotal are
// only meaningful for items that pass Validate.
func Validate(items []LineItem, discountPercent decimal.Decimal) error {
	var sum int64
	for _, item := range items {
		if item.Price < 0 {
			return &InvalidInputError{ItemID: item.ID, Field: "price", Reason: "must not be negative"}
		}
		if item.Quantity < 1 {
			return &InvalidInputError{ItemID: item.ID, Field: "quantity", Reason: "must be at least 1"}
		}
		if item.Price > 0 && item.Quantity > math.MaxInt64/item.Price {
			return &InvalidInputError{ItemID: item.ID, Field: "quantity", Reason: "line total out of range"}
		}
		line := item.Price * item.Quantity
		if sum > math.MaxInt64-line {
			return &InvalidInputError{Field: "subtotal", Reason: "out of range"}
		}
		sum += line
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(hundred) {
		return &InvalidInputError{Field: "discount", Reason: "must be between 0 and 100"}
	}
	return nil
}
