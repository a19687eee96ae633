package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/novexa-store/internal/domain/auth"
)

const (
	getTokenByHashSQL = `SELECT id, user_id, email, name, key_hash, created_at
		FROM api_tokens WHERE key_hash = $1 AND active = TRUE`

	createTokenSQL = `INSERT INTO api_tokens (id, user_id, email, name, key_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
)

var _ auth.Repository = (*TokenRepository)(nil)

// TokenRepository provides API token storage backed by PostgreSQL.
type TokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository returns a TokenRepository that uses the given pool.
func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

// FindByHash looks up an active token by its HMAC-SHA256 digest.
// Returns auth.ErrTokenNotFound when no matching token exists.
func (r *TokenRepository) FindByHash(ctx context.Context, hash string) (*auth.Token, error) {
	var t auth.Token
	err := r.pool.QueryRow(ctx, getTokenByHashSQL, hash).Scan(
		&t.ID, &t.UserID, &t.Email, &t.Name, &t.KeyHash, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrTokenNotFound
		}
		return nil, errors.Wrap(err, "find api token by hash")
	}
	return &t, nil
}

// Create stores a new token.
func (r *TokenRepository) Create(ctx context.Context, t auth.Token) error {
	_, err := r.pool.Exec(ctx, createTokenSQL,
		t.ID, t.UserID, t.Email, t.Name, t.KeyHash, t.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "create api token")
	}
	return nil
}
