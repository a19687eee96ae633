package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/xenking/novexa-store/internal/domain/pricing"
)

// MaxQuantity is the largest quantity a single cart line may hold.
const MaxQuantity = 10_000

var (
	// ErrEmpty is returned when an operation needs at least one line item.
	ErrEmpty = errors.New("cart is empty")
	// ErrInvalidQuantity is returned for a quantity outside [1, MaxQuantity].
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 10000")
	// ErrItemNotFound is returned when removing a product the cart does not hold.
	ErrItemNotFound = errors.New("item not in cart")
)

// Cart is the set of line items a user intends to buy. Totals are never
// stored on the cart; they are recomputed from the items on every quote.
type Cart struct {
	UserID    string
	Items     []pricing.LineItem
	UpdatedAt time.Time
}

// Store persists carts keyed by user id. Get returns an empty cart when the
// user has none.
type Store interface {
	Get(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, userID string) error
}

// Add merges item into the cart. An existing line for the same product has
// its quantity increased and its price refreshed. The cart is left unchanged
// and ErrInvalidQuantity returned when the resulting line quantity falls
// outside [1, MaxQuantity].
func (c *Cart) Add(item pricing.LineItem) error {
	if item.Quantity < 1 || item.Quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	for i := range c.Items {
		if c.Items[i].ID == item.ID {
			if c.Items[i].Quantity > MaxQuantity-item.Quantity {
				return ErrInvalidQuantity
			}
			c.Items[i].Quantity += item.Quantity
			c.Items[i].Price = item.Price
			c.Items[i].Name = item.Name
			c.Items[i].Image = item.Image
			return nil
		}
	}
	c.Items = append(c.Items, item)
	return nil
}

// Remove drops the line for productID. It reports whether a line was removed.
func (c *Cart) Remove(productID string) bool {
	for i := range c.Items {
		if c.Items[i].ID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.Items)
}
