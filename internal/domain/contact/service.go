package contact

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/xenking/novexa-store/internal/domain/access"
	"github.com/xenking/novexa-store/internal/domain/admin"
)

const (
	maxNameLen = 200
	maxBodyLen = 5000
)

// Service handles the contact inbox.
type Service struct {
	repo  Repository
	guard *admin.Guard
	now   func() time.Time
}

// NewService creates a contact Service.
func NewService(repo Repository, guard *admin.Guard) *Service {
	return &Service{repo: repo, guard: guard, now: time.Now}
}

// Submit validates and stores a contact form submission. It is public.
func (s *Service) Submit(ctx context.Context, name, email, body string) (*Message, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	body = strings.TrimSpace(body)

	switch {
	case name == "":
		return nil, &ValidationError{Field: "name", Reason: "required"}
	case len(name) > maxNameLen:
		return nil, &ValidationError{Field: "name", Reason: "too long"}
	case body == "":
		return nil, &ValidationError{Field: "message", Reason: "required"}
	case len(body) > maxBodyLen:
		return nil, &ValidationError{Field: "message", Reason: "too long"}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, &ValidationError{Field: "email", Reason: "invalid address"}
	}

	m := Message{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Body:      body,
		Status:    StatusPending,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, errors.Wrap(err, "create contact message")
	}
	return &m, nil
}

// List returns all messages, newest first. Admin only.
func (s *Service) List(ctx context.Context) ([]Message, error) {
	var msgs []Message
	err := s.guard.Run(ctx, "contact.list", admin.Target{Type: "contact"},
		func(ctx context.Context, _ access.Principal) (map[string]any, error) {
			var err error
			msgs, err = s.repo.List(ctx)
			return nil, err
		})
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// UpdateStatus sets the status of a message and marks it read. Admin only.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) error {
	return s.guard.Run(ctx, "contact.status.update", admin.Target{Type: "contact", ID: id},
		func(ctx context.Context, _ access.Principal) (map[string]any, error) {
			if !status.Valid() {
				return nil, admin.Reject(ErrInvalidStatus)
			}
			if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
				return nil, rejectNotFound(err)
			}
			return map[string]any{"status": string(status)}, nil
		})
}

// Delete removes a message. Admin only.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.guard.Run(ctx, "contact.delete", admin.Target{Type: "contact", ID: id},
		func(ctx context.Context, _ access.Principal) (map[string]any, error) {
			return nil, rejectNotFound(s.repo.Delete(ctx, id))
		})
}

// MarkAllRead marks every unread message read. Admin only.
func (s *Service) MarkAllRead(ctx context.Context) (int64, error) {
	var n int64
	err := s.guard.Run(ctx, "contact.read_all", admin.Target{Type: "contact"},
		func(ctx context.Context, _ access.Principal) (map[string]any, error) {
			var err error
			n, err = s.repo.MarkAllRead(ctx)
			return map[string]any{"count": n}, err
		})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func rejectNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return admin.Reject(err)
	}
	return err
}
