package errors

import (
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogAttrs(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.Nil(t, LogAttrs(nil))
	})

	t.Run("plain error", func(t *testing.T) {
		attrs := LogAttrs(fmt.Errorf("boom"))
		assert.Equal(t, []slog.Attr{slog.String("error", "boom")}, attrs)
	})

	t.Run("wrapped app error", func(t *testing.T) {
		appErr := NewJoinMismatchError("orders without items", 3).WithContext("derivation", "product_count")
		err := fmt.Errorf("training_data: %w", appErr)

		attrs := LogAttrs(err)
		keys := make([]string, len(attrs))
		for i, a := range attrs {
			keys[i] = a.Key
		}
		assert.Equal(t, []string{"error", "error_type", "derivation", "dropped_rows"}, keys)
		assert.Equal(t, "JOIN_MISMATCH", attrs[1].Value.String())
		assert.Equal(t, int64(3), attrs[3].Value.Int64())
	})
}
