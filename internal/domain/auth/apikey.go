// Package auth authenticates API requests by bearer token.
//
// Tokens are random strings handed to the client once. Only their
// HMAC-SHA256 digest, keyed with a server-side pepper, is stored.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/xenking/novexa-store/internal/domain/access"
)

// tokenPrefix marks tokens issued by this service.
const tokenPrefix = "nvx_"

var (
	// ErrTokenNotFound is returned by Repository.FindByHash for an unknown
	// or revoked token.
	ErrTokenNotFound = errors.New("api token not found")
	// ErrInvalidToken is returned by Authenticate for any rejected token.
	ErrInvalidToken = errors.New("invalid api token")
)

// Token is a stored API token bound to a user.
type Token struct {
	ID        string
	UserID    string
	Email     string
	Name      string
	KeyHash   string
	CreatedAt time.Time
}

// Repository stores API tokens by their digest.
type Repository interface {
	FindByHash(ctx context.Context, hash string) (*Token, error)
	Create(ctx context.Context, t Token) error
}

// Hasher computes token digests with a fixed pepper.
type Hasher struct {
	pepper []byte
}

// NewHasher creates a Hasher.
func NewHasher(pepper []byte) Hasher {
	return Hasher{pepper: pepper}
}

func (h Hasher) sum(raw string) []byte {
	mac := hmac.New(sha256.New, h.pepper)
	mac.Write([]byte(raw))
	return mac.Sum(nil)
}

// Hash returns the hex digest of raw.
func (h Hasher) Hash(raw string) string {
	return hex.EncodeToString(h.sum(raw))
}

// Service issues and verifies API tokens.
type Service struct {
	repo   Repository
	hasher Hasher
	now    func() time.Time
}

// NewService creates a token Service.
func NewService(repo Repository, pepper []byte) *Service {
	return &Service{repo: repo, hasher: NewHasher(pepper), now: time.Now}
}

// Issue mints a token for the given user and stores its digest. The raw
// token is returned once and cannot be recovered later.
func (s *Service) Issue(ctx context.Context, userID, email, name string) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "read random")
	}
	raw := tokenPrefix + hex.EncodeToString(buf)

	if err := s.repo.Create(ctx, Token{
		ID:        uuid.New().String(),
		UserID:    userID,
		Email:     email,
		Name:      name,
		KeyHash:   s.hasher.Hash(raw),
		CreatedAt: s.now(),
	}); err != nil {
		return "", errors.Wrap(err, "store token")
	}
	return raw, nil
}

// Authenticate resolves raw to the identity of its owner.
func (s *Service) Authenticate(ctx context.Context, raw string) (access.SessionIdentity, error) {
	if raw == "" {
		return access.SessionIdentity{}, ErrInvalidToken
	}
	sum := s.hasher.sum(raw)

	t, err := s.repo.FindByHash(ctx, hex.EncodeToString(sum))
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return access.SessionIdentity{}, ErrInvalidToken
		}
		return access.SessionIdentity{}, errors.Wrap(err, "find token")
	}

	// The stored row must match the digest we computed, not only the index.
	stored, err := hex.DecodeString(t.KeyHash)
	if err != nil || subtle.ConstantTimeCompare(sum, stored) != 1 {
		return access.SessionIdentity{}, ErrInvalidToken
	}
	return access.SessionIdentity{ID: t.UserID, Email: t.Email}, nil
}
