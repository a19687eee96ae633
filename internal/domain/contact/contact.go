package contact

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Status is the handling state of a contact message.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusIgnored   Status = "IGNORED"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusIgnored:
		return true
	}
	return false
}

var (
	// ErrNotFound is returned when a contact message does not exist.
	ErrNotFound = errors.New("contact message not found")
	// ErrInvalidStatus is returned for an unknown status.
	ErrInvalidStatus = errors.New("invalid contact status")
)

// ValidationError reports a rejected contact form field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// Message is a message submitted through the storefront contact form.
type Message struct {
	ID        string
	Name      string
	Email     string
	Body      string
	Status    Status
	Read      bool
	CreatedAt time.Time
}

// Repository persists contact messages.
type Repository interface {
	Create(ctx context.Context, m Message) error
	List(ctx context.Context) ([]Message, error)
	// UpdateStatus sets the status and marks the message read.
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
	// MarkAllRead marks every unread message read and returns how many
	// were changed.
	MarkAllRead(ctx context.Context) (int64, error)
}
