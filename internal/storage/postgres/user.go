package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/novexa-store/internal/domain/access"
	"github.com/xenking/novexa-store/internal/domain/user"
)

const (
	userColumns = `id, email, first_name, last_name, profile_image, role, created_at`

	getUserByIDSQL = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	listUsersSQL = `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	// The no-op update makes RETURNING yield the existing row on conflict.
	createUserSQL = `INSERT INTO users (id, email, first_name, last_name, profile_image, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET id = EXCLUDED.id
		RETURNING ` + userColumns

	updateUserRoleSQL = `UPDATE users SET role = $2 WHERE id = $1 RETURNING ` + userColumns
)

var (
	_ user.Repository  = (*UserRepository)(nil)
	_ access.UserStore = (*UserRepository)(nil)
)

// UserRepository implements user.Repository and access.UserStore backed by
// PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// FindByID returns the user with the given id or user.ErrNotFound.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	rows, err := r.pool.Query(ctx, getUserByIDSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get user %q", id)
	}
	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get user %q", id)
	}
	return &u, nil
}

// FindIdentity implements access.UserStore.
func (r *UserRepository) FindIdentity(ctx context.Context, id string) (*access.PersistedIdentity, error) {
	u, err := r.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &access.PersistedIdentity{ID: u.ID, Email: u.Email, Role: u.Role}, nil
}

// List returns all users, newest first.
func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	rows, err := r.pool.Query(ctx, listUsersSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	return pgx.CollectRows(rows, scanUser)
}

// Create inserts u unless a user with the same id exists, and returns the
// stored row.
func (r *UserRepository) Create(ctx context.Context, u user.User) (*user.User, error) {
	role := u.Role
	if role == "" {
		role = access.RoleUser
	}
	rows, err := r.pool.Query(ctx, createUserSQL,
		u.ID, u.Email, u.FirstName, u.LastName, u.ProfileImage, string(role),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "create user %q", u.ID)
	}
	stored, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		return nil, errors.Wrapf(err, "create user %q", u.ID)
	}
	return &stored, nil
}

// UpdateRole sets the role of a user and returns the updated row.
func (r *UserRepository) UpdateRole(ctx context.Context, id string, role access.Role) (*user.User, error) {
	rows, err := r.pool.Query(ctx, updateUserRoleSQL, id, string(role))
	if err != nil {
		return nil, errors.Wrapf(err, "update role of %q", id)
	}
	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, errors.Wrapf(err, "update role of %q", id)
	}
	return &u, nil
}

func scanUser(row pgx.CollectableRow) (user.User, error) {
	var (
		u    user.User
		role string
	)
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.ProfileImage, &role, &u.CreatedAt)
	u.Role = access.Role(role)
	return u, err
}
