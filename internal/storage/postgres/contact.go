package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/novexa-store/internal/domain/contact"
)

const (
	createContactSQL = `INSERT INTO contact_messages (id, name, email, body, status, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	listContactsSQL = `SELECT id, name, email, body, status, is_read, created_at
		FROM contact_messages ORDER BY created_at DESC`

	updateContactStatusSQL = `UPDATE contact_messages SET status = $2, is_read = TRUE WHERE id = $1`

	deleteContactSQL = `DELETE FROM contact_messages WHERE id = $1`

	markAllContactsReadSQL = `UPDATE contact_messages SET is_read = TRUE WHERE is_read = FALSE`
)

var _ contact.Repository = (*ContactRepository)(nil)

// ContactRepository implements contact.Repository backed by PostgreSQL.
type ContactRepository struct {
	pool *pgxpool.Pool
}

// NewContactRepository returns a ContactRepository that uses the given pool.
func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

func (r *ContactRepository) Create(ctx context.Context, m contact.Message) error {
	_, err := r.pool.Exec(ctx, createContactSQL,
		m.ID, m.Name, m.Email, m.Body, string(m.Status), m.Read, m.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "create contact message")
	}
	return nil
}

func (r *ContactRepository) List(ctx context.Context) ([]contact.Message, error) {
	rows, err := r.pool.Query(ctx, listContactsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list contact messages")
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (contact.Message, error) {
		var (
			m      contact.Message
			status string
		)
		err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Body, &status, &m.Read, &m.CreatedAt)
		m.Status = contact.Status(status)
		return m, err
	})
}

func (r *ContactRepository) UpdateStatus(ctx context.Context, id string, status contact.Status) error {
	tag, err := r.pool.Exec(ctx, updateContactStatusSQL, id, string(status))
	if err != nil {
		return errors.Wrapf(err, "update contact message %q", id)
	}
	if tag.RowsAffected() == 0 {
		return contact.ErrNotFound
	}
	return nil
}

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteContactSQL, id)
	if err != nil {
		return errors.Wrapf(err, "delete contact message %q", id)
	}
	if tag.RowsAffected() == 0 {
		return contact.ErrNotFound
	}
	return nil
}

func (r *ContactRepository) MarkAllRead(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, markAllContactsReadSQL)
	if err != nil {
		return 0, errors.Wrap(err, "mark contact messages read")
	}
	return tag.RowsAffected(), nil
}
