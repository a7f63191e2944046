package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/healthnav/healthnav/pkg/utils/logging"
	"github.com/m-mizutani/gt"
)

func TestFrom(t *testing.T) {
	t.Run("returns default logger without context value", func(t *testing.T) {
		gt.Value(t, logging.From(context.Background())).Equal(logging.Default())
	})

	t.Run("returns logger bound to context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		ctx := logging.With(context.Background(), logger)

		logging.From(ctx).Info("hello", "identity", "u1")
		gt.String(t, buf.String()).Contains(`"identity":"u1"`)
	})
}
