// Package admin runs privileged mutations behind the access gate.
//
// Every admin operation goes through Guard.Run, which authorizes the caller
// before the mutation is allowed to touch any state, hides store failures
// behind ErrFailed and records the audit trail.
package admin

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xenking/novexa-store/internal/domain/access"
	"github.com/xenking/novexa-store/internal/domain/audit"
)

// ErrFailed is the generic failure returned in place of store errors.
var ErrFailed = errors.New("operation failed")

// RejectedError carries an expected refusal (bad input, missing target,
// policy) that Guard passes to the caller instead of ErrFailed.
type RejectedError struct {
	Err error
}

func (e *RejectedError) Error() string { return e.Err.Error() }

func (e *RejectedError) Unwrap() error { return e.Err }

// Reject marks err as an expected refusal.
func Reject(err error) error {
	if err == nil {
		return nil
	}
	return &RejectedError{Err: err}
}

// Authorizer is the part of the access gate Guard depends on.
type Authorizer interface {
	RequireAdmin(ctx context.Context) (access.Principal, error)
}

// Target names what an operation acts on, for the audit trail.
type Target struct {
	Type string
	ID   string
}

// Op is a privileged mutation. It may set audit metadata through the
// returned map; a nil map records no metadata.
type Op func(ctx context.Context, p access.Principal) (map[string]any, error)

// Guard authorizes, runs and audits admin operations.
type Guard struct {
	gate     Authorizer
	recorder *audit.Recorder
	denied   metric.Int64Counter
	failed   metric.Int64Counter
}

// NewGuard creates a Guard. meter may be nil.
func NewGuard(gate Authorizer, recorder *audit.Recorder, meter metric.Meter) (*Guard, error) {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("")
	}
	denied, err := meter.Int64Counter("admin.denied",
		metric.WithDescription("Admin operations refused by the access gate"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create denied counter")
	}
	failed, err := meter.Int64Counter("admin.failed",
		metric.WithDescription("Admin operations that failed after authorization"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create failed counter")
	}
	return &Guard{
		gate:     gate,
		recorder: recorder,
		denied:   denied,
		failed:   failed,
	}, nil
}

// Run authorizes the caller and then runs op.
//
// Authorization errors are returned unmodified and op is not called.
// Errors wrapped with Reject are returned unwrapped. Any other error from op
// is logged and replaced with ErrFailed.
func (g *Guard) Run(ctx context.Context, action string, target Target, op Op) error {
	actionAttr := attribute.String("admin.action", action)
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(actionAttr)

	p, err := g.gate.RequireAdmin(ctx)
	if err != nil {
		g.denied.Add(ctx, 1, metric.WithAttributes(actionAttr))
		return err
	}
	span.SetAttributes(attribute.String("admin.user_id", p.ID))

	lg := zctx.From(ctx).With(
		zap.String("action", action),
		zap.String("user_id", p.ID),
	)

	meta, err := op(ctx, p)
	if err != nil {
		var rejected *RejectedError
		if errors.As(err, &rejected) {
			return rejected.Err
		}
		g.failed.Add(ctx, 1, metric.WithAttributes(actionAttr))
		lg.Error("Admin operation failed",
			zap.String("target_type", target.Type),
			zap.String("target_id", target.ID),
			zap.Error(err),
		)
		return ErrFailed
	}

	g.recorder.Record(ctx, audit.Entry{
		UserID:     p.ID,
		Action:     action,
		TargetType: target.Type,
		TargetID:   target.ID,
		Metadata:   meta,
	})
	lg.Debug("Admin operation completed", zap.String("target_id", target.ID))
	return nil
}
