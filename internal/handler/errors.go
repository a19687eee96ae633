package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/novexa-store/internal/domain/access"
	"github.com/xenking/novexa-store/internal/domain/admin"
	"github.com/xenking/novexa-store/internal/domain/campaign"
	"github.com/xenking/novexa-store/internal/domain/cart"
	"github.com/xenking/novexa-store/internal/domain/contact"
	"github.com/xenking/novexa-store/internal/domain/coupon"
	"github.com/xenking/novexa-store/internal/domain/order"
	"github.com/xenking/novexa-store/internal/domain/pricing"
	"github.com/xenking/novexa-store/internal/domain/product"
	"github.com/xenking/novexa-store/internal/domain/user"
	"github.com/xenking/novexa-store/pkg/httpmiddleware"
)

// requestError reports a malformed request body or parameter.
type requestError string

func (e requestError) Error() string { return string(e) }

func badRequest(msg string) error { return requestError(msg) }

// writeError maps a domain error onto an HTTP status and writes it.
// Messages of unexpected errors are never sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := mapError(err)
	lg := zctx.From(r.Context())
	switch {
	case status >= http.StatusInternalServerError:
		lg.Error("Request failed", zap.Error(err))
	case status == http.StatusForbidden:
		lg.Warn("Access denied", zap.Error(err))
	}
	httpmiddleware.WriteError(w, status, msg)
}

func mapError(err error) (int, string) {
	var (
		unauthorized *access.UnauthorizedError
		validation   *contact.ValidationError
		missing      *order.ProductNotFoundError
		malformed    requestError
	)
	switch {
	case errors.As(err, &unauthorized):
		if unauthorized.Reason == access.ReasonNoIdentity {
			return http.StatusUnauthorized, "authentication required"
		}
		return http.StatusForbidden, "forbidden"

	case errors.As(err, &malformed):
		return http.StatusBadRequest, malformed.Error()
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Error()
	case errors.Is(err, pricing.ErrInvalidInput):
		return http.StatusBadRequest, "invalid cart contents"
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, contact.ErrInvalidStatus),
		errors.Is(err, user.ErrInvalidRole),
		errors.Is(err, user.ErrInvalidProfile),
		errors.Is(err, campaign.ErrEmptyBrief):
		return http.StatusBadRequest, rootMessage(err)

	case errors.As(err, &missing):
		return http.StatusUnprocessableEntity, missing.Error()
	case errors.Is(err, cart.ErrEmpty),
		errors.Is(err, coupon.ErrInvalidCoupon),
		errors.Is(err, coupon.ErrCouponExpired),
		errors.Is(err, coupon.ErrCouponUsageLimitReached),
		errors.Is(err, user.ErrSelfDemotion):
		return http.StatusUnprocessableEntity, rootMessage(err)

	case errors.Is(err, product.ErrNotFound),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, contact.ErrNotFound):
		return http.StatusNotFound, rootMessage(err)

	case errors.Is(err, campaign.ErrDraftUnavailable):
		return http.StatusServiceUnavailable, campaign.ErrDraftUnavailable.Error()
	case errors.Is(err, admin.ErrFailed):
		return http.StatusInternalServerError, admin.ErrFailed.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// rootMessage returns the message of the innermost error.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
