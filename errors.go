package timer

import "github.com/ghettovoice/timer/internal/errorutil"

// ErrInvalidArgument is returned when a timer is created or reconfigured with invalid arguments.
const ErrInvalidArgument = errorutil.ErrInvalidArgument

// Error represents a timer error.
// See [errorutil.Error].
type Error = errorutil.Error

// NewInvalidArgumentError creates a new error with [ErrInvalidArgument] or
// wraps provided error with [ErrInvalidArgument].
func NewInvalidArgumentError(args ...any) error {
	return errorutil.NewInvalidArgumentError(args...) //errtrace:skip
}
