package user

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/xenking/novexa-store/internal/domain/access"
)

var (
	// ErrNotFound is returned when a user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrInvalidRole is returned for a role other than ADMIN or USER.
	ErrInvalidRole = errors.New("invalid role")
	// ErrSelfDemotion is returned when an admin removes their own admin
	// role while self-demotion is prevented.
	ErrSelfDemotion = errors.New("admins cannot remove their own admin role")
	// ErrInvalidProfile is returned by Sync for a profile without id.
	ErrInvalidProfile = errors.New("invalid user data for sync")
)

// User is a registered storefront account.
type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	ProfileImage string
	Role         access.Role
	CreatedAt    time.Time
}

// Profile is the data the identity provider reports for a user.
type Profile struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Picture   string
}

// Repository persists users.
type Repository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]User, error)
	// Create inserts u unless a user with the same id exists and returns the
	// stored record either way.
	Create(ctx context.Context, u User) (*User, error)
	UpdateRole(ctx context.Context, id string, role access.Role) (*User, error)
}
