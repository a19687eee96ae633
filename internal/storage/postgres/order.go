package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/novexa-store/internal/domain/order"
	"github.com/xenking/novexa-store/internal/domain/pricing"
)

const (
	createOrderSQL = `INSERT INTO orders
		(id, user_id, items, subtotal, discount_percent, total, coupon_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	deleteOrderSQL = `DELETE FROM orders WHERE id = $1`

	listOrdersByUserSQL = `SELECT id, user_id, items, subtotal, discount_percent, total, coupon_code, created_at
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order. The line items are serialized to JSON for
// storage in the JSONB column.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	_, err := r.pool.Exec(ctx, createOrderSQL,
		o.ID, o.UserID, encodeLineItems(o.Items), o.Subtotal,
		o.DiscountPercent, o.Total, o.CouponCode, o.CreatedAt,
	)
	if err != nil {
		return errors.Wrapf(err, "create order %q", o.ID)
	}
	return nil
}

// Delete removes the order with the given id.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, deleteOrderSQL, id); err != nil {
		return errors.Wrapf(err, "delete order %q", id)
	}
	return nil
}

// ListByUser returns the orders of a user, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByUserSQL, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return pgx.CollectRows(rows, scanOrder)
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o     order.Order
		items []byte
	)
	if err := row.Scan(
		&o.ID, &o.UserID, &items, &o.Subtotal,
		&o.DiscountPercent, &o.Total, &o.CouponCode, &o.CreatedAt,
	); err != nil {
		return o, err
	}
	decoded, err := decodeLineItems(items)
	if err != nil {
		return o, errors.Wrapf(err, "decode items of order %q", o.ID)
	}
	o.Items = decoded
	return o, nil
}

func encodeLineItems(items []pricing.LineItem) []byte {
	var e jx.Encoder
	e.Arr(func(e *jx.Encoder) {
		for _, it := range items {
			e.Obj(func(e *jx.Encoder) {
				e.Field("id", func(e *jx.Encoder) { e.Str(it.ID) })
				e.Field("name", func(e *jx.Encoder) { e.Str(it.Name) })
				e.Field("image", func(e *jx.Encoder) { e.Str(it.Image) })
				e.Field("price", func(e *jx.Encoder) { e.Int64(it.Price) })
				e.Field("quantity", func(e *jx.Encoder) { e.Int64(it.Quantity) })
			})
		}
	})
	return e.Bytes()
}

func decodeLineItems(data []byte) ([]pricing.LineItem, error) {
	var items []pricing.LineItem
	err := jx.DecodeBytes(data).Arr(func(d *jx.Decoder) error {
		var it pricing.LineItem
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "id":
				it.ID, err = d.Str()
			case "name":
				it.Name, err = d.Str()
			case "image":
				it.Image, err = d.Str()
			case "price":
				it.Price, err = d.Int64()
			case "quantity":
				it.Quantity, err = d.Int64()
			default:
				err = d.Skip()
			}
			return err
		}); err != nil {
			return err
		}
		items = append(items, it)
		return nil
	})
	return items, err
}
