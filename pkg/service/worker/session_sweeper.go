package worker

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/owasprisk/pkg/utils/logging"
)

// Sweeper removes sessions that have been idle for longer than ttl and
// reports how many were removed
type Sweeper interface {
	Sweep(ctx context.Context, ttl time.Duration) (int, error)
}

// SessionSweepWorker periodically drops idle sessions together with their
// assessment history.
//
// Assumes a single server instance per repository; there is no locking
// between instances sweeping the same Firestore database.
type SessionSweepWorker struct {
	sweeper  Sweeper
	ttl      time.Duration
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewSessionSweepWorker creates a worker sweeping every interval
func NewSessionSweepWorker(sweeper Sweeper, ttl, interval time.Duration) *SessionSweepWorker {
	return &SessionSweepWorker{
		sweeper:  sweeper,
		ttl:      ttl,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the sweep loop in a background goroutine
func (w *SessionSweepWorker) Start(ctx context.Context) error {
	if w.ttl <= 0 {
		return goerr.New("session TTL must be positive", goerr.V("ttl", w.ttl))
	}
	if w.interval <= 0 {
		return goerr.New("sweep interval must be positive", goerr.V("interval", w.interval))
	}

	logging.Default().Info("Session sweep worker starting",
		"ttl", w.ttl.String(),
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *SessionSweepWorker) Stop() {
	logging.Default().Info("Session sweep worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Session sweep worker stopped")
}

func (w *SessionSweepWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.sweep(ctx); err != nil {
				logging.Default().Error("Session sweep failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("Session sweep worker context cancelled")
			return
		}
	}
}

func (w *SessionSweepWorker) sweep(ctx context.Context) error {
	startTime := time.Now()

	removed, err := w.sweeper.Sweep(ctx, w.ttl)
	if err != nil {
		return goerr.Wrap(err, "failed to sweep idle sessions", goerr.V("ttl", w.ttl))
	}

	if removed > 0 {
		logging.Default().Info("Idle sessions removed",
			"count", removed,
			"duration", time.Since(startTime).String())
	}
	return nil
}
