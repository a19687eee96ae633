package campaign

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/novexa-store/internal/domain/access"
	"github.com/xenking/novexa-store/internal/domain/admin"
	"github.com/xenking/novexa-store/internal/domain/audit"
	"github.com/xenking/novexa-store/internal/domain/product"
)

type stubGate struct{ err error }

func (s stubGate) RequireAdmin(context.Context) (access.Principal, error) {
	return access.Principal{ID: "admin-1"}, s.err
}

type mockProducts struct {
	products  []product.Product
	err       error
	lastLimit int
}

func (m *mockProducts) ListPublished(_ context.Context, limit int) ([]product.Product, error) {
	m.lastLimit = limit
	return m.products, m.err
}

func (m *mockProducts) ListAll(context.Context) ([]product.Product, error) { return nil, nil }

func (m *mockProducts) GetByID(context.Context, string) (*product.Product, error) {
	return nil, product.ErrNotFound
}

func (m *mockProducts) GetByIDs(context.Context, []string) ([]product.Product, error) {
	return nil, nil
}

type mockDrafter struct {
	draft      *Draft
	err        error
	calls      int
	highlights []Highlight
}

func (m *mockDrafter) Draft(_ context.Context, _ string, highlights []Highlight) (*Draft, error) {
	m.calls++
	m.highlights = highlights
	return m.draft, m.err
}

func newGuard(t *testing.T, gateErr error) *admin.Guard {
	t.Helper()
	g, err := admin.NewGuard(stubGate{err: gateErr}, audit.NewRecorder(nil), nil)
	require.NoError(t, err)
	return g
}

func catalog() *mockProducts {
	return &mockProducts{products: []product.Product{
		{ID: "p1", Name: "Runner", Price: 12999, MainCategory: "men", Status: product.StatusPublished},
		{ID: "p2", Name: "Tote", Price: 4500, MainCategory: "women", Status: product.StatusPublished},
	}}
}

func TestGenerateDraft(t *testing.T) {
	products := catalog()
	drafter := &mockDrafter{draft: &Draft{Subject: "Spring drop", Body: "<p>Hi</p>"}}
	s := NewService(products, drafter, newGuard(t, nil))

	d, err := s.GenerateDraft(context.Background(), "spring sale")

	require.NoError(t, err)
	assert.Equal(t, "Spring drop", d.Subject)
	assert.Equal(t, highlightCount, products.lastLimit)
	require.Len(t, drafter.highlights, 2)
	assert.Equal(t, "129.99", drafter.highlights[0].Price.StringFixed(2))
	assert.Equal(t, "men", drafter.highlights[0].MainCategory)
}

func TestGenerateDraft_Unavailable(t *testing.T) {
	tests := []struct {
		name    string
		drafter Drafter
	}{
		{name: "not configured", drafter: nil},
		{name: "drafter error", drafter: &mockDrafter{err: errors.New("quota exceeded")}},
		{name: "missing subject", drafter: &mockDrafter{draft: &Draft{Body: "<p>x</p>"}}},
		{name: "missing body", drafter: &mockDrafter{draft: &Draft{Subject: "x"}}},
		{name: "nil draft", drafter: &mockDrafter{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewService(catalog(), tt.drafter, newGuard(t, nil))

			_, err := s.GenerateDraft(context.Background(), "brief")
			require.ErrorIs(t, err, ErrDraftUnavailable)
		})
	}
}

func TestGenerateDraft_RequiresAdmin(t *testing.T) {
	drafter := &mockDrafter{draft: &Draft{Subject: "s", Body: "b"}}
	s := NewService(catalog(), drafter, newGuard(t, &access.UnauthorizedError{Reason: access.ReasonNotAdmin}))

	_, err := s.GenerateDraft(context.Background(), "brief")
	require.ErrorIs(t, err, access.ErrUnauthorized)
	assert.Zero(t, drafter.calls)
}

func TestGenerateDraft_EmptyBrief(t *testing.T) {
	drafter := &mockDrafter{}
	s := NewService(catalog(), drafter, newGuard(t, nil))

	_, err := s.GenerateDraft(context.Background(), "  ")
	require.ErrorIs(t, err, ErrEmptyBrief)
	assert.Zero(t, drafter.calls)
}

func TestGenerateDraft_CatalogFailure(t *testing.T) {
	s := NewService(&mockProducts{err: errors.New("timeout")}, &mockDrafter{}, newGuard(t, nil))

	_, err := s.GenerateDraft(context.Background(), "brief")
	require.ErrorIs(t, err, admin.ErrFailed)
}
