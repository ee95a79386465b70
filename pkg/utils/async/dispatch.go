package async

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/owasprisk/pkg/utils/errutil"
	"github.com/secmon-lab/owasprisk/pkg/utils/logging"
)

// Timeout bounds every dispatched handler
const Timeout = 30 * time.Second

// Dispatch runs handler in a new goroutine detached from the cancellation
// of ctx, so work outlives the request that started it. The logger of ctx
// is carried over. Errors and panics are logged and reported.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := logging.With(context.Background(), logging.From(ctx))

	go func() {
		ctx, cancel := context.WithTimeout(bgCtx, Timeout)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				_ = errutil.Handle(ctx, goerr.New("panic in async handler", goerr.V("panic", r)), "async handler panicked")
			}
		}()

		if err := handler(ctx); err != nil {
			_ = errutil.Handle(ctx, err, "async handler failed")
		}
	}()
}
