package safe

import (
	"context"
	"io"

	"github.com/secmon-lab/owasprisk/pkg/utils/logging"
)

// Close closes c and logs a failure instead of returning it. A nil closer is
// ignored.
func Close(ctx context.Context, c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logging.From(ctx).Error("failed to close", "error", err.Error())
	}
}

// Write sends a rendered response body. Once headers are out the client
// can no longer be told about an error, so it is only logged.
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	if _, err := w.Write(data); err != nil {
		logging.From(ctx).Warn("failed to write response", "error", err.Error(), "bytes", len(data))
	}
}
