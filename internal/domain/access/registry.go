package access

import (
	"slices"
	"strings"
)

// Registry is the set of admin e-mail addresses. Lookups are
// case-insensitive and ignore surrounding whitespace.
type Registry struct {
	emails map[string]struct{}
}

// ParseAdminEmails splits a comma-separated list of addresses.
func ParseAdminEmails(raw string) []string {
	return strings.Split(raw, ",")
}

// NewRegistry builds a registry from addresses. Blank entries are dropped.
func NewRegistry(emails []string) *Registry {
	r := &Registry{emails: make(map[string]struct{}, len(emails))}
	for _, e := range emails {
		if e = normalizeEmail(e); e != "" {
			r.emails[e] = struct{}{}
		}
	}
	return r
}

// Len returns the number of distinct addresses.
func (r *Registry) Len() int {
	return len(r.emails)
}

// Contains reports whether email is registered.
func (r *Registry) Contains(email string) bool {
	_, ok := r.emails[normalizeEmail(email)]
	return ok
}

// Emails returns the normalized addresses in sorted order.
func (r *Registry) Emails() []string {
	out := make([]string, 0, len(r.emails))
	for e := range r.emails {
		out = append(out, e)
	}
	slices.Sort(out)
	return out
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
