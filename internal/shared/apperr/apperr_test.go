package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	notFound := New(KindNotFound, "thing not found")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "sentinel", err: notFound, want: KindNotFound},
		{name: "wrapped", err: fmt.Errorf("service: load: %w", notFound), want: KindNotFound},
		{name: "store", err: fmt.Errorf("%w: %w", ErrStoreUnavailable, errors.New("conn reset")), want: KindTransient},
		{name: "plain", err: errors.New("boom"), want: KindInternal},
		{name: "validation", err: Validation(map[string]string{"title": "is required"}), want: KindValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, KindOf(tc.err))
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := Validation(map[string]string{"title": "is required", "end_time": "must be after start_time"})
	require.Equal(t, "validation failed: end_time must be after start_time, title is required", err.Error())
	require.Equal(t, "is required", FieldsOf(fmt.Errorf("wrap: %w", err))["title"])
}
