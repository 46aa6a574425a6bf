package error

import (
	"context"
	"errors"
	"log/slog"
)

// IsContextError reports whether err was caused by the context ending.
func IsContextError(err error) bool {
	if errors.Is(err, context.Canceled) {
		slog.Warn("command has been cancelled")
		return true
	}

	if errors.Is(err, context.DeadlineExceeded) {
		slog.Warn("command timed out")
		return true
	}

	return false
}
