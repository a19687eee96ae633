package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/novexa-store/internal/domain/access"
	"github.com/xenking/novexa-store/internal/domain/auth"
	"github.com/xenking/novexa-store/pkg/httpmiddleware"
)

// APIKeyHeader carries the API token. Authorization: Bearer is accepted too.
const APIKeyHeader = "api_key"

// TokenAuthenticator resolves a raw API token to its owner.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, raw string) (access.SessionIdentity, error)
}

var _ TokenAuthenticator = (*auth.Service)(nil)

// Authenticate places the identity bound to the request's API token in the
// request context. Requests without a token pass through anonymously and
// are refused by the access gate where an identity is required.
func Authenticate(tokens TokenAuthenticator) httpmiddleware.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := tokenFromRequest(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := tokens.Authenticate(r.Context(), raw)
			if err != nil {
				if errors.Is(err, auth.ErrInvalidToken) {
					httpmiddleware.WriteError(w, http.StatusUnauthorized, "invalid api key")
					return
				}
				zctx.From(r.Context()).Error("Authenticate request", zap.Error(err))
				httpmiddleware.WriteError(w, http.StatusInternalServerError, "internal error")
				return
			}

			ctx := access.WithIdentity(r.Context(), id)
			ctx = zctx.Base(ctx, zctx.From(ctx).With(zap.String("user_id", id.ID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(APIKeyHeader)); v != "" {
		return v
	}
	const prefix = "bearer "
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) > len(prefix) && strings.EqualFold(v[:len(prefix)], prefix) {
		return strings.TrimSpace(v[len(prefix):])
	}
	return ""
}
