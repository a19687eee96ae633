package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Status is the publication state of a product.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Product represents a catalog item. Price is in cents.
type Product struct {
	ID           string
	Name         string
	Description  string
	Price        int64
	Status       Status
	Category     string
	MainCategory string
	Stock        int64
	Images       []string
	CreatedAt    time.Time
}

// Thumbnail returns the first image, if any.
func (p Product) Thumbnail() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Repository defines read operations for the product catalog.
type Repository interface {
	// ListPublished returns up to limit published products; limit <= 0
	// means no limit.
	ListPublished(ctx context.Context, limit int) ([]Product, error)
	// ListAll returns every product, newest first.
	ListAll(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	// GetByIDs returns the products matching any of ids, in no particular
	// order. Unknown ids are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
}
