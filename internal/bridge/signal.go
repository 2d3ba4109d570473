package bridge

import (
	"context"
	"log/slog"
	"sync"
)

// signal is a single-use wake-up for one request. The UI side records the
// answer and raises it exactly once; the asking side waits on it and then
// drops it.
type signal struct {
	once sync.Once
	ch   chan struct{}
}

func newSignal() *signal {
	return &signal{ch: make(chan struct{})}
}

// raise runs record and wakes the waiter. Only the first call has any effect.
func (s *signal) raise(record func()) bool {
	raised := false
	s.once.Do(func() {
		record()
		close(s.ch)
		raised = true
	})
	return raised
}

// wait blocks until the signal is raised. Cancelling ctx does not end the
// wait: the engine always expects an answer, so an interrupted wait is logged
// and resumed.
func (s *signal) wait(ctx context.Context, logger *slog.Logger, req *Request) {
	interrupted := ctx.Done()
	for {
		select {
		case <-s.ch:
			return
		case <-interrupted:
			logger.Warn("wait for answer interrupted, still waiting",
				slog.String("request", req.ID),
				slog.String("kind", req.Kind.String()),
				slog.String("cause", context.Cause(ctx).Error()),
			)
			interrupted = nil
		}
	}
}
