package audit

import (
	"context"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// Entry is one record of the admin audit trail.
type Entry struct {
	UserID     string
	Action     string
	TargetType string
	TargetID   string
	Metadata   map[string]any
}

// Repository persists audit entries.
type Repository interface {
	Create(ctx context.Context, e Entry) error
}

// Recorder writes audit entries on a best-effort basis: a failed write is
// logged and never fails the audited operation.
type Recorder struct {
	repo Repository
}

// NewRecorder creates a Recorder. A nil repo makes Record a no-op.
func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo}
}

// Record stores e.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	if r == nil || r.repo == nil {
		return
	}
	if err := r.repo.Create(ctx, e); err != nil {
		zctx.From(ctx).Warn("Failed to write audit log",
			zap.String("action", e.Action),
			zap.String("target_type", e.TargetType),
			zap.String("target_id", e.TargetID),
			zap.Error(err),
		)
	}
}
