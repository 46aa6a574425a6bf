package error_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	errx "github.com/ferdiebergado/hbnb/internal/pkg/error"
)

func TestIsContextError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"canceled", context.Canceled, true},
		{"deadline", context.DeadlineExceeded, true},
		{"wrapped", fmt.Errorf("flush: %w", context.Canceled), true},
		{"other", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := errx.IsContextError(tc.err); got != tc.want {
				t.Errorf("IsContextError(%v) = %v, want: %v", tc.err, got, tc.want)
			}
		})
	}
}
