package validation

import (
	"testing"
	"time"

	"github.com/cristianortiz/auctionportal/internal/shared/apperr"
	"github.com/stretchr/testify/require"
)

type window struct {
	Title     string    `json:"title" validate:"required,max=5"`
	Price     float64   `json:"starting_price" validate:"gt=0"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
}

func TestStruct(t *testing.T) {
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, Struct(window{Title: "lamp", Price: 1, StartTime: start, EndTime: start.Add(time.Hour)}))
	})

	t.Run("field details use json names", func(t *testing.T) {
		err := Struct(window{Title: "a long title", Price: 0, StartTime: start, EndTime: start})
		require.Error(t, err)
		require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

		fields := apperr.FieldsOf(err)
		require.Equal(t, "must be at most 5 characters long", fields["title"])
		require.Equal(t, "must be greater than 0", fields["starting_price"])
		require.Equal(t, "must be after start_time", fields["end_time"])
	})
}
