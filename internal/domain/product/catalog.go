package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/novexa-store/internal/domain/access"
	"github.com/xenking/novexa-store/internal/domain/admin"
)

const uncategorized = "Uncategorized"

// ExportRow is one product in an admin export. Price is in major currency
// units.
type ExportRow struct {
	ID           string
	Name         string
	Price        decimal.Decimal
	Status       Status
	Category     string
	MainCategory string
	Stock        int64
	CreatedAt    time.Time
}

// Catalog serves the storefront catalog and the admin export.
type Catalog struct {
	repo  Repository
	guard *admin.Guard
}

// NewCatalog creates a Catalog.
func NewCatalog(repo Repository, guard *admin.Guard) *Catalog {
	return &Catalog{repo: repo, guard: guard}
}

// List returns all published products.
func (c *Catalog) List(ctx context.Context) ([]Product, error) {
	products, err := c.repo.ListPublished(ctx, 0)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return products, nil
}

// Get returns a published product. Drafts and archived products are
// reported as ErrNotFound.
func (c *Catalog) Get(ctx context.Context, id string) (*Product, error) {
	p, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusPublished {
		return nil, ErrNotFound
	}
	return p, nil
}

// Export returns every product as export rows, newest first. Admin only.
func (c *Catalog) Export(ctx context.Context) ([]ExportRow, error) {
	var rows []ExportRow
	err := c.guard.Run(ctx, "product.export", admin.Target{Type: "product"},
		func(ctx context.Context, _ access.Principal) (map[string]any, error) {
			products, err := c.repo.ListAll(ctx)
			if err != nil {
				return nil, err
			}
			rows = make([]ExportRow, len(products))
			for i, p := range products {
				rows[i] = toExportRow(p)
			}
			return map[string]any{"count": len(rows)}, nil
		})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func toExportRow(p Product) ExportRow {
	category := p.Category
	if category == "" {
		category = uncategorized
	}
	return ExportRow{
		ID:           p.ID,
		Name:         p.Name,
		Price:        decimal.New(p.Price, -2),
		Status:       p.Status,
		Category:     category,
		MainCategory: p.MainCategory,
		Stock:        p.Stock,
		CreatedAt:    p.CreatedAt,
	}
}
