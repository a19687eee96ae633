package handler

import (
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/novexa-store/internal/domain/access"
	"github.com/xenking/novexa-store/internal/domain/admin"
	"github.com/xenking/novexa-store/internal/domain/audit"
	"github.com/xenking/novexa-store/internal/domain/auth"
	"github.com/xenking/novexa-store/internal/domain/campaign"
	"github.com/xenking/novexa-store/internal/domain/cart"
	"github.com/xenking/novexa-store/internal/domain/contact"
	"github.com/xenking/novexa-store/internal/domain/coupon"
	"github.com/xenking/novexa-store/internal/domain/order"
	"github.com/xenking/novexa-store/internal/domain/pricing"
	"github.com/xenking/novexa-store/internal/domain/product"
	"github.com/xenking/novexa-store/internal/domain/user"
)

// --- Mock implementations ---

type memProducts struct {
	products []product.Product
}

func (m *memProducts) ListPublished(_ context.Context, limit int) ([]product.Product, error) {
	var out []product.Product
	for _, p := range m.products {
		if p.Status != product.StatusPublished {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memProducts) ListAll(context.Context) ([]product.Product, error) {
	return m.products, nil
}

func (m *memProducts) GetByID(_ context.Context, id string) (*product.Product, error) {
	for _, p := range m.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, product.ErrNotFound
}

func (m *memProducts) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	var out []product.Product
	for _, p := range m.products {
		if slices.Contains(ids, p.ID) {
			out = append(out, p)
		}
	}
	return out, nil
}

type memCarts struct {
	mu    sync.Mutex
	carts map[string]*cart.Cart
}

func (m *memCarts) Get(_ context.Context, userID string) (*cart.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[userID]
	if !ok {
		return nil, nil
	}
	cp := *c
	cp.Items = append([]pricing.LineItem(nil), c.Items...)
	return &cp, nil
}

func (m *memCarts) Save(_ context.Context, c *cart.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[c.UserID] = c
	return nil
}

func (m *memCarts) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
	return nil
}

type memCoupons struct {
	rules map[string]*coupon.Rule
}

func (m *memCoupons) FindByCode(_ context.Context, code string) (*coupon.Rule, error) {
	r, ok := m.rules[strings.ToUpper(code)]
	if !ok {
		return nil, coupon.ErrInvalidCoupon
	}
	return r, nil
}

func (m *memCoupons) IncrementUses(_ context.Context, code string) error {
	m.rules[code].Uses++
	return nil
}

type memOrders struct {
	orders []order.Order
}

func (m *memOrders) Create(_ context.Context, o *order.Order) error {
	m.orders = append(m.orders, *o)
	return nil
}

func (m *memOrders) Delete(_ context.Context, id string) error {
	m.orders = slices.DeleteFunc(m.orders, func(o order.Order) bool { return o.ID == id })
	return nil
}

func (m *memOrders) ListByUser(_ context.Context, userID string) ([]order.Order, error) {
	var out []order.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

type memUsers struct {
	users map[string]*user.User
}

func (m *memUsers) FindByID(_ context.Context, id string) (*user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) FindIdentity(_ context.Context, id string) (*access.PersistedIdentity, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &access.PersistedIdentity{ID: u.ID, Email: u.Email, Role: u.Role}, nil
}

func (m *memUsers) List(context.Context) ([]user.User, error) {
	var out []user.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memUsers) Create(_ context.Context, u user.User) (*user.User, error) {
	if existing, ok := m.users[u.ID]; ok {
		cp := *existing
		return &cp, nil
	}
	m.users[u.ID] = &u
	cp := u
	return &cp, nil
}

func (m *memUsers) UpdateRole(_ context.Context, id string, role access.Role) (*user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	u.Role = role
	cp := *u
	return &cp, nil
}

type memContacts struct {
	msgs []contact.Message
}

func (m *memContacts) Create(_ context.Context, msg contact.Message) error {
	m.msgs = append(m.msgs, msg)
	return nil
}

func (m *memContacts) List(context.Context) ([]contact.Message, error) { return m.msgs, nil }

func (m *memContacts) UpdateStatus(_ context.Context, id string, status contact.Status) error {
	for i := range m.msgs {
		if m.msgs[i].ID == id {
			m.msgs[i].Status = status
			m.msgs[i].Read = true
			return nil
		}
	}
	return contact.ErrNotFound
}

func (m *memContacts) Delete(_ context.Context, id string) error {
	for i := range m.msgs {
		if m.msgs[i].ID == id {
			m.msgs = append(m.msgs[:i], m.msgs[i+1:]...)
			return nil
		}
	}
	return contact.ErrNotFound
}

func (m *memContacts) MarkAllRead(context.Context) (int64, error) {
	var n int64
	for i := range m.msgs {
		if !m.msgs[i].Read {
			m.msgs[i].Read = true
			n++
		}
	}
	return n, nil
}

type stubDrafter struct {
	draft *campaign.Draft
	err   error
}

func (s stubDrafter) Draft(context.Context, string, []campaign.Highlight) (*campaign.Draft, error) {
	return s.draft, s.err
}

type stubTokens map[string]access.SessionIdentity

func (s stubTokens) Authenticate(_ context.Context, raw string) (access.SessionIdentity, error) {
	if raw == "broken" {
		return access.SessionIdentity{}, errors.New("db down")
	}
	id, ok := s[raw]
	if !ok {
		return access.SessionIdentity{}, auth.ErrInvalidToken
	}
	return id, nil
}

// --- Helpers ---

const (
	userToken  = "user-token"
	adminToken = "admin-token"
)

type fixture struct {
	server   *httptest.Server
	carts    *memCarts
	orders   *memOrders
	users    *memUsers
	contacts *memContacts
	coupons  *memCoupons
}

func newFixture(t *testing.T, drafter campaign.Drafter) *fixture {
	t.Helper()

	created := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	products := &memProducts{products: []product.Product{
		{ID: "p1", Name: "Runner", Price: 12999, Status: product.StatusPublished, Category: "Shoes", MainCategory: "men", Images: []string{"runner.jpg"}, CreatedAt: created},
		{ID: "p2", Name: "Sock", Price: 500, Status: product.StatusPublished, MainCategory: "men", CreatedAt: created},
		{ID: "p3", Name: "Prototype", Price: 5000, Status: product.StatusDraft, CreatedAt: created},
	}}
	f := &fixture{
		carts:  &memCarts{carts: map[string]*cart.Cart{}},
		orders: &memOrders{},
		users: &memUsers{users: map[string]*user.User{
			"u1": {ID: "u1", Email: "shopper@example.com", Role: access.RoleUser},
			"a1": {ID: "a1", Email: "boss@example.com", Role: access.RoleAdmin},
		}},
		contacts: &memContacts{},
		coupons: &memCoupons{rules: map[string]*coupon.Rule{
			"SAVE10": {Code: "SAVE10", Percent: decimal.NewFromInt(10)},
		}},
	}

	gate := access.NewGate(access.Config{Production: true, Source: access.SourceRole}, access.ContextProvider{}, f.users)
	guard, err := admin.NewGuard(gate, audit.NewRecorder(nil), nil)
	require.NoError(t, err)

	validator := coupon.NewRepoValidator(f.coupons)
	h := New(Config{ImageBaseURL: "https://cdn.example.com/"}, Services{
		Gate:      gate,
		Catalog:   product.NewCatalog(products, guard),
		Carts:     cart.NewService(gate, f.carts, products, validator),
		Orders:    order.NewService(gate, f.carts, products, validator, f.orders),
		Users:     user.NewService(f.users, guard, user.Policy{}),
		Contacts:  contact.NewService(f.contacts, guard),
		Campaigns: campaign.NewService(products, drafter, guard),
	})

	tokens := stubTokens{
		userToken:  {ID: "u1", Email: "shopper@example.com"},
		adminToken: {ID: "a1", Email: "boss@example.com"},
	}
	f.server = httptest.NewServer(h.Routes(Authenticate(tokens)))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fixture) do(t *testing.T, method, path, token, body string) (*http.Response, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

// --- Tests ---

func TestListProducts(t *testing.T) {
	f := newFixture(t, nil)

	resp, body := f.do(t, http.MethodGet, "/api/products", "", "")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Contains(t, body, `"price":129.99`)
	assert.Contains(t, body, `"https://cdn.example.com/runner.jpg"`)
	assert.NotContains(t, body, "Prototype")
}

func TestGetProduct(t *testing.T) {
	f := newFixture(t, nil)

	resp, body := f.do(t, http.MethodGet, "/api/products/p2", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"price":5.00`)

	resp, body = f.do(t, http.MethodGet, "/api/products/p3", "", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"code":404,"message":"product not found"}`, body)
}

func TestAuthentication(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{name: "anonymous", want: http.StatusUnauthorized},
		{name: "bearer", header: "Authorization", value: "Bearer " + userToken, want: http.StatusOK},
		{name: "api_key header", header: APIKeyHeader, value: userToken, want: http.StatusOK},
		{name: "unknown token", header: APIKeyHeader, value: "nope", want: http.StatusUnauthorized},
		{name: "lookup failure", header: APIKeyHeader, value: "broken", want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, f.server.URL+"/api/cart", nil)
			require.NoError(t, err)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			resp, err := f.server.Client().Do(req)
			require.NoError(t, err)
			_ = resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestMe(t *testing.T) {
	f := newFixture(t, nil)

	_, body := f.do(t, http.MethodGet, "/api/me", userToken, "")
	assert.JSONEq(t, `{"id":"u1","email":"shopper@example.com","isAdmin":false}`, body)

	_, body = f.do(t, http.MethodGet, "/api/me", adminToken, "")
	assert.JSONEq(t, `{"id":"a1","email":"boss@example.com","isAdmin":true}`, body)
}

func TestCartCheckoutFlow(t *testing.T) {
	f := newFixture(t, nil)

	resp, body := f.do(t, http.MethodPost, "/api/cart/items", userToken, `{"productId":"p1","quantity":2}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, `"subtotal":259.98`)

	resp, _ = f.do(t, http.MethodPost, "/api/cart/items", userToken, `{"productId":"p2"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = f.do(t, http.MethodGet, "/api/cart/quote?coupon=save10", userToken, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, `"subtotal":264.98`)
	assert.Contains(t, body, `"total":238.48`)
	assert.Zero(t, f.coupons.rules["SAVE10"].Uses, "quote must not consume a use")

	resp, body = f.do(t, http.MethodPost, "/api/checkout", userToken, `{"couponCode":"SAVE10"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Contains(t, body, `"total":238.48`)
	assert.Contains(t, body, `"couponCode":"SAVE10"`)
	assert.Equal(t, 1, f.coupons.rules["SAVE10"].Uses)

	require.Len(t, f.orders.orders, 1)
	assert.Equal(t, int64(23848), f.orders.orders[0].Total)
	assert.Empty(t, f.carts.carts)

	resp, body = f.do(t, http.MethodGet, "/api/orders", userToken, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, f.orders.orders[0].ID)
}

func TestCartErrors(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{name: "zero quantity", method: http.MethodPost, path: "/api/cart/items", body: `{"productId":"p1","quantity":0}`, status: http.StatusBadRequest},
		{name: "quantity above limit", method: http.MethodPost, path: "/api/cart/items", body: `{"productId":"p1","quantity":4611686018427387904}`, status: http.StatusBadRequest},
		{name: "fractional quantity", method: http.MethodPost, path: "/api/cart/items", body: `{"productId":"p1","quantity":1.5}`, status: http.StatusBadRequest},
		{name: "missing product id", method: http.MethodPost, path: "/api/cart/items", body: `{"quantity":1}`, status: http.StatusBadRequest},
		{name: "not a json object", method: http.MethodPost, path: "/api/cart/items", body: `[1]`, status: http.StatusBadRequest},
		{name: "draft product", method: http.MethodPost, path: "/api/cart/items", body: `{"productId":"p3"}`, status: http.StatusNotFound},
		{name: "remove missing line", method: http.MethodDelete, path: "/api/cart/items/p1", status: http.StatusNotFound},
		{name: "checkout empty cart", method: http.MethodPost, path: "/api/checkout", status: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := f.do(t, tt.method, tt.path, userToken, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, body)
		})
	}
}

func TestCheckout_InvalidCoupon(t *testing.T) {
	f := newFixture(t, nil)

	resp, _ := f.do(t, http.MethodPost, "/api/cart/items", userToken, `{"productId":"p2","quantity":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := f.do(t, http.MethodPost, "/api/checkout", userToken, `{"couponCode":"BOGUS"}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.JSONEq(t, `{"code":422,"message":"invalid coupon code"}`, body)
	assert.Empty(t, f.orders.orders)
	assert.NotEmpty(t, f.carts.carts)
}

func TestAdminRoutes_RequireAdmin(t *testing.T) {
	f := newFixture(t, nil)

	paths := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/admin/users", ""},
		{http.MethodPost, "/api/admin/users/u1/role/toggle", ""},
		{http.MethodGet, "/api/admin/contacts", ""},
		{http.MethodPost, "/api/admin/contacts/read", ""},
		{http.MethodGet, "/api/admin/products/export", ""},
		{http.MethodPost, "/api/admin/email-drafts", `{"brief":"summer"}`},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			resp, _ := f.do(t, p.method, p.path, "", p.body)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			resp, body := f.do(t, p.method, p.path, userToken, p.body)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
			assert.JSONEq(t, `{"code":403,"message":"forbidden"}`, body)
		})
	}
	assert.Equal(t, access.RoleUser, f.users.users["u1"].Role)
}

func TestSetUserRole(t *testing.T) {
	f := newFixture(t, nil)

	resp, body := f.do(t, http.MethodPut, "/api/admin/users/u1/role", adminToken, `{"role":"admin"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, `"role":"ADMIN"`)
	assert.Equal(t, access.RoleAdmin, f.users.users["u1"].Role)

	resp, _ = f.do(t, http.MethodPut, "/api/admin/users/u1/role", adminToken, `{"role":"owner"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPut, "/api/admin/users/ghost/role", adminToken, `{"role":"USER"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestContactInbox(t *testing.T) {
	f := newFixture(t, nil)

	resp, body := f.do(t, http.MethodPost, "/api/contact", "", `{"name":"Ann","email":"not-an-address","message":"hi"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"code":400,"message":"email: invalid address"}`, body)

	resp, _ = f.do(t, http.MethodPost, "/api/contact", "", `{"name":"Ann","email":"ann@example.com","message":"hi"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, f.contacts.msgs, 1)
	id := f.contacts.msgs[0].ID

	resp, _ = f.do(t, http.MethodPatch, "/api/admin/contacts/"+id, adminToken, `{"status":"DONE"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPatch, "/api/admin/contacts/"+id, adminToken, `{"status":"COMPLETED"}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, contact.StatusCompleted, f.contacts.msgs[0].Status)

	resp, body = f.do(t, http.MethodPost, "/api/admin/contacts/read", adminToken, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"updated":0}`, body)

	resp, _ = f.do(t, http.MethodDelete, "/api/admin/contacts/"+id, adminToken, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = f.do(t, http.MethodDelete, "/api/admin/contacts/"+id, adminToken, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExportProducts(t *testing.T) {
	f := newFixture(t, nil)

	resp, body := f.do(t, http.MethodGet, "/api/admin/products/export", adminToken, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))

	records, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, exportHeader, records[0])
	assert.Equal(t, []string{"p1", "Runner", "129.99", "published", "Shoes", "men", "0", "2025-03-01 09:30:00"}, records[1])
	assert.Equal(t, "Uncategorized", records[2][4])
}

func TestExportProducts_Gzip(t *testing.T) {
	f := newFixture(t, nil)

	req, err := http.NewRequest(http.MethodGet, f.server.URL+"/api/admin/products/export?gzip=1", nil)
	require.NoError(t, err)
	req.Header.Set(APIKeyHeader, adminToken)
	// Keep the transport from decoding the payload on its own.
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".csv.gz")

	gz, err := pgzip.NewReader(resp.Body)
	require.NoError(t, err)
	records, err := csv.NewReader(gz).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 4)
}

func TestGenerateDraft(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		f := newFixture(t, stubDrafter{draft: &campaign.Draft{Subject: "Hello", Body: "<p>Hi</p>"}})

		resp, body := f.do(t, http.MethodPost, "/api/admin/email-drafts", adminToken, `{"brief":"summer sale"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode, body)
		assert.JSONEq(t, `{"subject":"Hello","preheader":"","body":"<p>Hi</p>","explanation":""}`, body)
	})
	t.Run("empty brief", func(t *testing.T) {
		f := newFixture(t, stubDrafter{})

		resp, _ := f.do(t, http.MethodPost, "/api/admin/email-drafts", adminToken, `{"brief":"  "}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
	t.Run("drafter failure", func(t *testing.T) {
		f := newFixture(t, stubDrafter{err: errors.New("quota exceeded")})

		resp, body := f.do(t, http.MethodPost, "/api/admin/email-drafts", adminToken, `{"brief":"summer"}`)
		require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.NotContains(t, body, "quota")
	})
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{
			name:   "lookup failure is forbidden",
			err:    &access.UnauthorizedError{Reason: access.ReasonLookupFailed, Err: errors.New("db down")},
			status: http.StatusForbidden,
			msg:    "forbidden",
		},
		{
			name:   "invalid pricing input",
			err:    errors.Wrap(&pricing.InvalidInputError{ItemID: "p1", Field: "quantity", Reason: "must be at least 1"}, "price cart"),
			status: http.StatusBadRequest,
			msg:    "invalid cart contents",
		},
		{
			name:   "vanished product",
			err:    &order.ProductNotFoundError{ProductID: "p9"},
			status: http.StatusUnprocessableEntity,
			msg:    "product p9 not found",
		},
		{
			name:   "self demotion",
			err:    admin.Reject(user.ErrSelfDemotion),
			status: http.StatusUnprocessableEntity,
			msg:    user.ErrSelfDemotion.Error(),
		},
		{
			name:   "guarded failure",
			err:    admin.ErrFailed,
			status: http.StatusInternalServerError,
			msg:    "operation failed",
		},
		{
			name:   "unexpected error is hidden",
			err:    errors.New("pq: connection reset"),
			status: http.StatusInternalServerError,
			msg:    "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := mapError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.msg, msg)
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t, nil)

	resp, body := f.do(t, http.MethodGet, "/api/nope", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"code":404,"message":"not found"}`, body)
}
