package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/novexa-store/internal/domain/audit"
)

const createAuditLogSQL = `INSERT INTO audit_logs (user_id, action, target_type, target_id, metadata)
	VALUES ($1, $2, $3, $4, $5)`

var _ audit.Repository = (*AuditRepository)(nil)

// AuditRepository implements audit.Repository backed by PostgreSQL.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository returns an AuditRepository that uses the given pool.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Create appends e to the audit log. Metadata is stored as JSONB; a nil map
// is stored as NULL.
func (r *AuditRepository) Create(ctx context.Context, e audit.Entry) error {
	_, err := r.pool.Exec(ctx, createAuditLogSQL,
		e.UserID, e.Action, e.TargetType, e.TargetID, e.Metadata,
	)
	if err != nil {
		return errors.Wrapf(err, "create audit log %q", e.Action)
	}
	return nil
}
