package safe

import (
	"context"
	"io"
	"log/slog"

	"github.com/healthnav/healthnav/pkg/utils/logging"
)

// Close closes closer and logs a failure instead of returning it. Nil is allowed.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Warn("failed to close", slog.Any("error", err))
	}
}

// Write writes data to w and reports whether the write succeeded.
// Failures are logged at debug level because they usually mean the peer went away.
func Write(ctx context.Context, w io.Writer, data []byte) bool {
	if w == nil {
		return false
	}
	if _, err := w.Write(data); err != nil {
		logging.From(ctx).Debug("failed to write", slog.Any("error", err))
		return false
	}
	return true
}
