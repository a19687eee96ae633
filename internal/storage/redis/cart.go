// Package redis stores shopping carts in Redis.
package redis

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/redis/go-redis/v9"

	"github.com/xenking/novexa-store/internal/domain/cart"
	"github.com/xenking/novexa-store/internal/domain/pricing"
)

// DefaultTTL is how long an untouched cart is kept.
const DefaultTTL = 7 * 24 * time.Hour

var _ cart.Store = (*CartStore)(nil)

// CartStore implements cart.Store. Each cart is one JSON value whose
// expiry is refreshed on every save.
type CartStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewCartStore creates a CartStore. A non-positive ttl selects DefaultTTL.
func NewCartStore(client redis.UniversalClient, ttl time.Duration) *CartStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CartStore{client: client, ttl: ttl}
}

// Get returns the stored cart or nil when the user has none.
func (s *CartStore) Get(ctx context.Context, userID string) (*cart.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis get")
	}

	c, err := decodeCart(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decode cart of %q", userID)
	}
	c.UserID = userID
	return c, nil
}

// Save stores c and resets its expiry. An empty cart is deleted.
func (s *CartStore) Save(ctx context.Context, c *cart.Cart) error {
	if c.Len() == 0 {
		return s.Delete(ctx, c.UserID)
	}
	if err := s.client.Set(ctx, cartKey(c.UserID), encodeCart(c), s.ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

// Delete removes the user's cart. Deleting a missing cart is not an error.
func (s *CartStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return errors.Wrap(err, "redis delete")
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (s *CartStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func cartKey(userID string) string {
	return "cart:" + userID
}

func encodeCart(c *cart.Cart) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("updated_at", func(e *jx.Encoder) { e.Str(c.UpdatedAt.UTC().Format(time.RFC3339Nano)) })
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, it := range c.Items {
					e.Obj(func(e *jx.Encoder) {
						e.Field("id", func(e *jx.Encoder) { e.Str(it.ID) })
						e.Field("name", func(e *jx.Encoder) { e.Str(it.Name) })
						e.Field("image", func(e *jx.Encoder) { e.Str(it.Image) })
						e.Field("price", func(e *jx.Encoder) { e.Int64(it.Price) })
						e.Field("quantity", func(e *jx.Encoder) { e.Int64(it.Quantity) })
					})
				}
			})
		})
	})
	return e.Bytes()
}

func decodeCart(data []byte) (*cart.Cart, error) {
	c := &cart.Cart{}
	err := jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "updated_at":
			s, err := d.Str()
			if err != nil {
				return err
			}
			t, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return errors.Wrap(err, "parse updated_at")
			}
			c.UpdatedAt = t
			return nil
		case "items":
			return d.Arr(func(d *jx.Decoder) error {
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
				c.Items = append(c.Items, it)
				return nil
			})
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
