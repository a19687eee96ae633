package access

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ErrUnauthorized is matched by every authorization failure.
var ErrUnauthorized = errors.New("unauthorized")

// Reason tells why a caller was refused.
type Reason string

const (
	ReasonNoIdentity   Reason = "no_identity"
	ReasonLookupFailed Reason = "lookup_failed"
	ReasonNotAdmin     Reason = "not_admin"
)

// UnauthorizedError is returned by the gate when a caller is refused.
type UnauthorizedError struct {
	Reason Reason
	Err    error
}

func (e *UnauthorizedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unauthorized (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("unauthorized (%s)", e.Reason)
}

func (e *UnauthorizedError) Unwrap() error { return e.Err }

// Is reports whether target is ErrUnauthorized.
func (e *UnauthorizedError) Is(target error) bool {
	return target == ErrUnauthorized
}

// IsUnauthenticated reports whether err refused a caller without identity.
func IsUnauthenticated(err error) bool {
	var ue *UnauthorizedError
	return errors.As(err, &ue) && ue.Reason == ReasonNoIdentity
}
