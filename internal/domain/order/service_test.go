package order

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/novexa-store/internal/domain/access"
	"github.com/xenking/novexa-store/internal/domain/cart"
	"github.com/xenking/novexa-store/internal/domain/coupon"
	"github.com/xenking/novexa-store/internal/domain/pricing"
	"github.com/xenking/novexa-store/internal/domain/product"
)

// --- Mock implementations ---

type stubGate struct {
	err error
}

func (s stubGate) RequireUser(context.Context) (access.Principal, error) {
	if s.err != nil {
		return access.Principal{}, s.err
	}
	return access.Principal{ID: "u1", Email: "u1@example.com"}, nil
}

type mockCartStore struct {
	cart      *cart.Cart
	deleted   bool
	deleteErr error
}

func (m *mockCartStore) Get(context.Context, string) (*cart.Cart, error) { return m.cart, nil }
func (m *mockCartStore) Save(context.Context, *cart.Cart) error         { return nil }

func (m *mockCartStore) Delete(context.Context, string) error {
	m.deleted = true
	return m.deleteErr
}

type mockProductRepo struct {
	byID    map[string]product.Product
	getErr  error
	batches int
}

func (m *mockProductRepo) ListPublished(context.Context, int) ([]product.Product, error) {
	return nil, nil
}

func (m *mockProductRepo) ListAll(context.Context) ([]product.Product, error) { return nil, nil }

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*product.Product, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

func (m *mockProductRepo) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	m.batches++
	if m.getErr != nil {
		return nil, m.getErr
	}
	var out []product.Product
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockCouponValidator struct {
	discount  *coupon.Discount
	err       error
	redeemErr error
	redeemed  int
}

func (m *mockCouponValidator) Resolve(context.Context, string, []pricing.LineItem) (*coupon.Discount, error) {
	return m.discount, m.err
}

func (m *mockCouponValidator) Redeem(context.Context, string, []pricing.LineItem) (*coupon.Discount, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.redeemErr != nil {
		return nil, m.redeemErr
	}
	m.redeemed++
	return m.discount, nil
}

type mockOrderRepo struct {
	lastOrder *Order
	err       error
	deleted   []string
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	if m.err != nil {
		return m.err
	}
	m.lastOrder = o
	return nil
}

func (m *mockOrderRepo) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockOrderRepo) ListByUser(context.Context, string) ([]Order, error) {
	if m.lastOrder == nil {
		return nil, m.err
	}
	return []Order{*m.lastOrder}, m.err
}

// --- Helpers ---

func newProductRepo(products ...product.Product) *mockProductRepo {
	byID := make(map[string]product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &mockProductRepo{byID: byID}
}

func published(id string, price int64) product.Product {
	return product.Product{ID: id, Name: id, Price: price, Status: product.StatusPublished}
}

func cartWith(items ...pricing.LineItem) *mockCartStore {
	return &mockCartStore{cart: &cart.Cart{UserID: "u1", Items: items}}
}

func newTestService(carts *mockCartStore, products *mockProductRepo, cv *mockCouponValidator, orders *mockOrderRepo) *Service {
	s := NewService(stubGate{}, carts, products, cv, orders)
	s.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }
	return s
}

// --- Tests ---

func TestCheckout_EmptyCart(t *testing.T) {
	orders := &mockOrderRepo{}
	svc := newTestService(&mockCartStore{}, newProductRepo(), &mockCouponValidator{}, orders)

	_, err := svc.Checkout(context.Background(), "")
	require.ErrorIs(t, err, cart.ErrEmpty)
	assert.Nil(t, orders.lastOrder)
}

func TestCheckout_Anonymous(t *testing.T) {
	carts := cartWith(pricing.LineItem{ID: "p1", Quantity: 1})
	svc := NewService(
		stubGate{err: &access.UnauthorizedError{Reason: access.ReasonNoIdentity}},
		carts, newProductRepo(published("p1", 100)), &mockCouponValidator{}, &mockOrderRepo{},
	)

	_, err := svc.Checkout(context.Background(), "")
	require.ErrorIs(t, err, access.ErrUnauthorized)
	assert.False(t, carts.deleted)
}

func TestCheckout_NoCoupon(t *testing.T) {
	carts := cartWith(
		pricing.LineItem{ID: "p1", Price: 100, Quantity: 2},
		pricing.LineItem{ID: "p2", Price: 50, Quantity: 1},
	)
	orders := &mockOrderRepo{}
	svc := newTestService(carts, newProductRepo(published("p1", 100), published("p2", 50)), &mockCouponValidator{}, orders)

	o, err := svc.Checkout(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, int64(250), o.Subtotal)
	assert.Equal(t, int64(250), o.Total)
	assert.True(t, o.DiscountPercent.IsZero())
	assert.Equal(t, "u1", o.UserID)
	assert.Same(t, o, orders.lastOrder)
	assert.True(t, carts.deleted)
}

func TestCheckout_WithCoupon(t *testing.T) {
	carts := cartWith(
		pricing.LineItem{ID: "p1", Price: 100, Quantity: 2},
		pricing.LineItem{ID: "p2", Price: 50, Quantity: 1},
	)
	cv := &mockCouponValidator{discount: &coupon.Discount{Code: "SAVE10", Percent: decimal.NewFromInt(10)}}
	svc := newTestService(carts, newProductRepo(published("p1", 100), published("p2", 50)), cv, &mockOrderRepo{})

	o, err := svc.Checkout(context.Background(), "save10")

	require.NoError(t, err)
	assert.Equal(t, int64(225), o.Total)
	assert.Equal(t, "SAVE10", o.CouponCode)
	assert.Equal(t, 1, cv.redeemed)
}

func TestCheckout_UsesCurrentPrices(t *testing.T) {
	carts := cartWith(pricing.LineItem{ID: "p1", Price: 100, Quantity: 3})
	svc := newTestService(carts, newProductRepo(published("p1", 120)), &mockCouponValidator{}, &mockOrderRepo{})

	o, err := svc.Checkout(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, int64(360), o.Total)
	assert.Equal(t, int64(120), o.Items[0].Price)
}

func TestCheckout_ProductUnavailable(t *testing.T) {
	archived := published("p2", 50)
	archived.Status = product.StatusArchived

	tests := []struct {
		name     string
		products *mockProductRepo
	}{
		{name: "deleted", products: newProductRepo(published("p1", 100))},
		{name: "archived", products: newProductRepo(published("p1", 100), archived)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			carts := cartWith(
				pricing.LineItem{ID: "p1", Price: 100, Quantity: 1},
				pricing.LineItem{ID: "p2", Price: 50, Quantity: 1},
			)
			cv := &mockCouponValidator{}
			svc := newTestService(carts, tt.products, cv, &mockOrderRepo{})

			_, err := svc.Checkout(context.Background(), "SAVE10")

			var pnfErr *ProductNotFoundError
			require.ErrorAs(t, err, &pnfErr)
			assert.Equal(t, "p2", pnfErr.ProductID)
			assert.Zero(t, cv.redeemed)
		})
	}
}

func TestCheckout_InvalidQuantity(t *testing.T) {
	carts := cartWith(pricing.LineItem{ID: "p1", Price: 100, Quantity: 0})
	cv := &mockCouponValidator{discount: &coupon.Discount{Code: "SAVE10", Percent: decimal.NewFromInt(10)}}
	svc := newTestService(carts, newProductRepo(published("p1", 100)), cv, &mockOrderRepo{})

	_, err := svc.Checkout(context.Background(), "SAVE10")

	require.ErrorIs(t, err, pricing.ErrInvalidInput)
	assert.Zero(t, cv.redeemed, "coupon must not be consumed for an invalid cart")
}

func TestCheckout_InvalidCoupon(t *testing.T) {
	carts := cartWith(pricing.LineItem{ID: "p1", Price: 100, Quantity: 1})
	orders := &mockOrderRepo{}
	cv := &mockCouponValidator{err: coupon.ErrInvalidCoupon}
	svc := newTestService(carts, newProductRepo(published("p1", 100)), cv, orders)

	_, err := svc.Checkout(context.Background(), "BOGUS")

	require.ErrorIs(t, err, coupon.ErrInvalidCoupon)
	assert.Nil(t, orders.lastOrder)
	assert.False(t, carts.deleted)
}

func TestCheckout_OrderCreateError(t *testing.T) {
	carts := cartWith(pricing.LineItem{ID: "p1", Price: 100, Quantity: 1})
	svc := newTestService(
		carts,
		newProductRepo(published("p1", 100)),
		&mockCouponValidator{},
		&mockOrderRepo{err: errors.New("db write failed")},
	)

	_, err := svc.Checkout(context.Background(), "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create order")
	assert.False(t, carts.deleted)
}

func TestCheckout_OrderCreateErrorKeepsCouponUse(t *testing.T) {
	carts := cartWith(pricing.LineItem{ID: "p1", Price: 100, Quantity: 1})
	cv := &mockCouponValidator{discount: &coupon.Discount{Code: "SAVE10", Percent: decimal.NewFromInt(10)}}
	svc := newTestService(
		carts,
		newProductRepo(published("p1", 100)),
		cv,
		&mockOrderRepo{err: errors.New("db down")},
	)

	_, err := svc.Checkout(context.Background(), "SAVE10")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create order")
	assert.Zero(t, cv.redeemed)
	assert.False(t, carts.deleted)
}

func TestCheckout_RedeemFailureRemovesOrder(t *testing.T) {
	carts := cartWith(pricing.LineItem{ID: "p1", Price: 100, Quantity: 1})
	cv := &mockCouponValidator{
		discount:  &coupon.Discount{Code: "SAVE10", Percent: decimal.NewFromInt(10)},
		redeemErr: coupon.ErrCouponUsageLimitReached,
	}
	orders := &mockOrderRepo{}
	svc := newTestService(carts, newProductRepo(published("p1", 100)), cv, orders)

	_, err := svc.Checkout(context.Background(), "SAVE10")

	require.ErrorIs(t, err, coupon.ErrCouponUsageLimitReached)
	require.NotNil(t, orders.lastOrder)
	assert.Equal(t, []string{orders.lastOrder.ID}, orders.deleted)
	assert.False(t, carts.deleted)
}

func TestCheckout_TotalOutOfRange(t *testing.T) {
	carts := cartWith(pricing.LineItem{ID: "p1", Price: 3, Quantity: 1 << 62})
	orders := &mockOrderRepo{}
	cv := &mockCouponValidator{}
	svc := newTestService(carts, newProductRepo(published("p1", 3)), cv, orders)

	_, err := svc.Checkout(context.Background(), "")

	require.ErrorIs(t, err, pricing.ErrInvalidInput)
	assert.Nil(t, orders.lastOrder)
	assert.Zero(t, cv.redeemed)
}

func TestCheckout_LoadsProductsInOneBatch(t *testing.T) {
	carts := cartWith(
		pricing.LineItem{ID: "p1", Price: 100, Quantity: 1},
		pricing.LineItem{ID: "p2", Price: 50, Quantity: 2},
		pricing.LineItem{ID: "p3", Price: 10, Quantity: 3},
	)
	products := newProductRepo(published("p1", 100), published("p2", 50), published("p3", 10))
	svc := newTestService(carts, products, &mockCouponValidator{}, &mockOrderRepo{})

	o, err := svc.Checkout(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, 1, products.batches)
	assert.Equal(t, int64(230), o.Total)
	assert.Equal(t, []string{"p1", "p2", "p3"}, []string{o.Items[0].ID, o.Items[1].ID, o.Items[2].ID})
}

func TestCheckout_ProductLookupError(t *testing.T) {
	carts := cartWith(pricing.LineItem{ID: "p1", Price: 100, Quantity: 1})
	products := newProductRepo(published("p1", 100))
	products.getErr = errors.New("connection refused")
	svc := newTestService(carts, products, &mockCouponValidator{}, &mockOrderRepo{})

	_, err := svc.Checkout(context.Background(), "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "get products")
}

func TestCheckout_CartClearFailureKeepsOrder(t *testing.T) {
	carts := cartWith(pricing.LineItem{ID: "p1", Price: 100, Quantity: 1})
	carts.deleteErr = errors.New("redis down")
	svc := newTestService(carts, newProductRepo(published("p1", 100)), &mockCouponValidator{}, &mockOrderRepo{})

	o, err := svc.Checkout(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, int64(100), o.Total)
}

func TestHistory(t *testing.T) {
	carts := cartWith(pricing.LineItem{ID: "p1", Price: 100, Quantity: 1})
	svc := newTestService(carts, newProductRepo(published("p1", 100)), &mockCouponValidator{}, &mockOrderRepo{})

	o, err := svc.Checkout(context.Background(), "")
	require.NoError(t, err)

	history, err := svc.History(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, o.ID, history[0].ID)
}
