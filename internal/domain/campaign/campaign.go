// Package campaign drafts marketing e-mails for the admin dashboard.
package campaign

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/novexa-store/internal/domain/access"
	"github.com/xenking/novexa-store/internal/domain/admin"
	"github.com/xenking/novexa-store/internal/domain/product"
)

// highlightCount is the number of published products offered to the drafter.
const highlightCount = 3

var (
	// ErrDraftUnavailable is returned when no draft could be produced: the
	// drafter is not configured, failed, or returned an incomplete answer.
	ErrDraftUnavailable = errors.New("failed to generate draft")
	// ErrEmptyBrief is returned for a blank brief.
	ErrEmptyBrief = errors.New("brief is required")
)

// Draft is a generated marketing e-mail. Body is HTML.
type Draft struct {
	Subject     string
	Preheader   string
	Body        string
	Explanation string
}

// Complete reports whether the draft carries the fields required to send it.
func (d *Draft) Complete() bool {
	return d != nil && strings.TrimSpace(d.Subject) != "" && strings.TrimSpace(d.Body) != ""
}

// Highlight is a product the draft should feature. Price is in major
// currency units.
type Highlight struct {
	Name         string
	Price        decimal.Decimal
	MainCategory string
}

// Drafter produces a draft for a brief. Implementations call an external
// language model.
type Drafter interface {
	Draft(ctx context.Context, brief string, highlights []Highlight) (*Draft, error)
}

// Service generates campaign drafts. Admin only.
type Service struct {
	products product.Repository
	drafter  Drafter
	guard    *admin.Guard
}

// NewService creates a Service. drafter may be nil, in which case every
// request yields ErrDraftUnavailable.
func NewService(products product.Repository, drafter Drafter, guard *admin.Guard) *Service {
	return &Service{products: products, drafter: drafter, guard: guard}
}

// GenerateDraft drafts an e-mail for brief featuring a few published
// products.
func (s *Service) GenerateDraft(ctx context.Context, brief string) (*Draft, error) {
	var draft *Draft
	err := s.guard.Run(ctx, "campaign.draft", admin.Target{Type: "campaign"},
		func(ctx context.Context, _ access.Principal) (map[string]any, error) {
			brief = strings.TrimSpace(brief)
			if brief == "" {
				return nil, admin.Reject(ErrEmptyBrief)
			}
			if s.drafter == nil {
				return nil, admin.Reject(ErrDraftUnavailable)
			}

			products, err := s.products.ListPublished(ctx, highlightCount)
			if err != nil {
				return nil, errors.Wrap(err, "list highlights")
			}
			highlights := make([]Highlight, len(products))
			for i, p := range products {
				highlights[i] = Highlight{
					Name:         p.Name,
					Price:        decimal.New(p.Price, -2),
					MainCategory: p.MainCategory,
				}
			}

			d, err := s.drafter.Draft(ctx, brief, highlights)
			if err != nil {
				zctx.From(ctx).Warn("Draft generation failed", zap.Error(err))
				return nil, admin.Reject(ErrDraftUnavailable)
			}
			if !d.Complete() {
				return nil, admin.Reject(ErrDraftUnavailable)
			}
			draft = d
			return map[string]any{"highlights": len(highlights)}, nil
		})
	if err != nil {
		return nil, err
	}
	return draft, nil
}
