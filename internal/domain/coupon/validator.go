package coupon

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/novexa-store/internal/domain/pricing"
)

var hundred = decimal.NewFromInt(100)

// Validator resolves discount codes against cart contents.
type Validator interface {
	// Resolve checks a code without consuming a use.
	Resolve(ctx context.Context, code string, items []pricing.LineItem) (*Discount, error)
	// Redeem checks a code and consumes one use.
	Redeem(ctx context.Context, code string, items []pricing.LineItem) (*Discount, error)
}

// RepoValidator implements Validator on top of a Repository.
type RepoValidator struct {
	repo Repository
	now  func() time.Time
}

// NewRepoValidator creates a RepoValidator backed by the given Repository.
func NewRepoValidator(repo Repository) *RepoValidator {
	return &RepoValidator{repo: repo, now: time.Now}
}

// Resolve looks up the rule for code and checks its validity window, usage
// limit and minimum item count.
func (v *RepoValidator) Resolve(ctx context.Context, code string, items []pricing.LineItem) (*Discount, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrInvalidCoupon
	}

	rule, err := v.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrInvalidCoupon) {
			return nil, ErrInvalidCoupon
		}
		return nil, errors.Wrap(err, "lookup coupon")
	}

	now := v.now()
	if rule.ValidFrom != nil && now.Before(*rule.ValidFrom) {
		return nil, ErrCouponExpired
	}
	if rule.ValidUntil != nil && now.After(*rule.ValidUntil) {
		return nil, ErrCouponExpired
	}
	if rule.MaxUses > 0 && rule.Uses >= rule.MaxUses {
		return nil, ErrCouponUsageLimitReached
	}
	if rule.MinItems > 0 && totalQuantity(items) < rule.MinItems {
		return nil, ErrInvalidCoupon
	}
	if rule.Percent.IsNegative() || rule.Percent.GreaterThan(hundred) {
		return nil, errors.Errorf("coupon %q has out-of-range percent %s", rule.Code, rule.Percent)
	}

	return &Discount{
		Code:        rule.Code,
		Percent:     rule.Percent,
		Description: rule.Description,
	}, nil
}

// Redeem resolves code and increments its usage counter on success.
func (v *RepoValidator) Redeem(ctx context.Context, code string, items []pricing.LineItem) (*Discount, error) {
	d, err := v.Resolve(ctx, code, items)
	if err != nil {
		return nil, err
	}
	if err := v.repo.IncrementUses(ctx, d.Code); err != nil {
		return nil, errors.Wrap(err, "increment coupon uses")
	}
	return d, nil
}

func totalQuantity(items []pricing.LineItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Quantity
	}
	return total
}
