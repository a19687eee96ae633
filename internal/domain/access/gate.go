// Package access decides whether the current caller may perform privileged
// operations.
//
// Two sources grant admin standing: the role column of the user store and a
// configured allow-list of e-mail addresses. Gate holds no mutable state and
// may be shared by all requests.
package access

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
)

// AdminSource selects which sources grant admin standing.
type AdminSource string

const (
	// SourceEither admits callers with the ADMIN role or an allow-listed e-mail.
	SourceEither AdminSource = "either"
	// SourceRole admits callers with the ADMIN role only.
	SourceRole AdminSource = "role"
	// SourceAllowList admits callers with an allow-listed e-mail only.
	SourceAllowList AdminSource = "allowlist"
)

// ParseAdminSource parses a source name. An empty string selects SourceEither.
func ParseAdminSource(s string) (AdminSource, error) {
	switch src := AdminSource(strings.ToLower(strings.TrimSpace(s))); src {
	case "":
		return SourceEither, nil
	case SourceEither, SourceRole, SourceAllowList:
		return src, nil
	default:
		return "", errors.Errorf("unknown admin source %q", s)
	}
}

// Config is the gate configuration, fixed at construction.
type Config struct {
	// AdminEmails is the admin allow-list.
	AdminEmails []string
	// Production disables the empty allow-list fallback that admits any
	// e-mail during local development.
	Production bool
	// Source selects which sources grant admin standing.
	Source AdminSource
}

// Gate authorizes callers against the admin allow-list and the user store.
type Gate struct {
	registry   *Registry
	production bool
	source     AdminSource
	identities IdentityProvider
	users      UserStore
}

// NewGate creates a Gate. users may be nil, in which case roles are only
// known when the identity provider returns a PersistedIdentity.
func NewGate(cfg Config, identities IdentityProvider, users UserStore) *Gate {
	source := cfg.Source
	if source == "" {
		source = SourceEither
	}
	return &Gate{
		registry:   NewRegistry(cfg.AdminEmails),
		production: cfg.Production,
		source:     source,
		identities: identities,
		users:      users,
	}
}

// Registry returns the admin allow-list.
func (g *Gate) Registry() *Registry {
	return g.registry
}

// Production reports whether the gate runs in production mode.
func (g *Gate) Production() bool {
	return g.production
}

// IsAdminEmail reports whether email is on the admin allow-list.
//
// An empty email is never an admin. With an empty allow-list every non-empty
// email is an admin outside production mode and none is in production mode.
func (g *Gate) IsAdminEmail(email string) bool {
	if strings.TrimSpace(email) == "" {
		return false
	}
	if g.registry.Len() == 0 {
		return !g.production
	}
	return g.registry.Contains(email)
}

// RequireUser returns the current caller or an UnauthorizedError when the
// caller is anonymous.
func (g *Gate) RequireUser(ctx context.Context) (Principal, error) {
	id, err := g.identities.CurrentUser(ctx)
	if err != nil {
		return Principal{}, &UnauthorizedError{Reason: ReasonNoIdentity, Err: err}
	}
	p := Resolve(id)
	if p.IsZero() {
		return Principal{}, &UnauthorizedError{Reason: ReasonNoIdentity}
	}
	return p, nil
}

// RequireAdmin returns the current caller if it has admin standing, and an
// UnauthorizedError otherwise. Privileged operations must call it before
// any side effect.
func (g *Gate) RequireAdmin(ctx context.Context) (Principal, error) {
	p, err := g.RequireUser(ctx)
	if err != nil {
		return Principal{}, err
	}

	if p.Role == "" && p.ID != "" && g.users != nil && g.source != SourceAllowList {
		stored, err := g.users.FindIdentity(ctx, p.ID)
		if err != nil {
			return Principal{}, &UnauthorizedError{
				Reason: ReasonLookupFailed,
				Err:    errors.Wrap(err, "find identity"),
			}
		}
		if stored != nil {
			p.Role = stored.Role
			if p.Email == "" {
				p.Email = stored.Email
			}
		}
	}

	if g.admits(p) {
		return p, nil
	}
	return Principal{}, &UnauthorizedError{Reason: ReasonNotAdmin}
}

// IsAdmin reports whether the current caller has admin standing. Failures
// of any kind yield false.
func (g *Gate) IsAdmin(ctx context.Context) bool {
	_, err := g.RequireAdmin(ctx)
	return err == nil
}

func (g *Gate) admits(p Principal) bool {
	switch g.source {
	case SourceRole:
		return p.Role == RoleAdmin
	case SourceAllowList:
		return g.IsAdminEmail(p.Email)
	default:
		return p.Role == RoleAdmin || g.IsAdminEmail(p.Email)
	}
}
