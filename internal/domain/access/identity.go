package access

import (
	"context"
	"strings"
)

// Role is the persisted authorization role of a user.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// ParseRole parses a role name case-insensitively.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Identity is the calling actor as reported by either the session provider
// or the user store. It is a closed set: SessionIdentity and
// PersistedIdentity are the only implementations.
type Identity interface {
	principal() Principal
}

// SessionIdentity is a user as the session provider knows it. It carries no
// role; the role has to be looked up in the user store.
type SessionIdentity struct {
	ID    string
	Email string
}

func (s SessionIdentity) principal() Principal {
	return Principal{ID: s.ID, Email: s.Email}
}

// PersistedIdentity is a user record loaded from the user store.
type PersistedIdentity struct {
	ID    string
	Email string
	Role  Role
}

func (p PersistedIdentity) principal() Principal {
	return Principal{ID: p.ID, Email: p.Email, Role: p.Role}
}

// Principal is the canonical form every Identity resolves to before an
// authorization check. Role is empty when it is not known.
type Principal struct {
	ID    string
	Email string
	Role  Role
}

// IsZero reports whether the principal carries neither id nor email.
func (p Principal) IsZero() bool {
	return p.ID == "" && p.Email == ""
}

// Resolve converts an identity into its canonical principal.
func Resolve(id Identity) Principal {
	if id == nil {
		return Principal{}
	}
	return id.principal()
}

// IdentityProvider returns the identity of the current caller. A nil
// identity means the caller is anonymous.
type IdentityProvider interface {
	CurrentUser(ctx context.Context) (Identity, error)
}

// UserStore resolves persisted identities. FindIdentity returns
// (nil, nil) when no user with the given id exists.
type UserStore interface {
	FindIdentity(ctx context.Context, id string) (*PersistedIdentity, error)
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && id != nil
}

// ContextProvider is an IdentityProvider backed by the request context.
type ContextProvider struct{}

// CurrentUser implements IdentityProvider.
func (ContextProvider) CurrentUser(ctx context.Context) (Identity, error) {
	id, _ := IdentityFromContext(ctx)
	return id, nil
}
