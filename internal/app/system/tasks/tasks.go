// Package tasks runs background work decoupled from request handling:
// periodic jobs and one-off fire-and-forget tasks whose failures are logged
// but never propagated to the request that scheduled them.
package tasks

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is a named periodic task.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Runner owns the background goroutines. Stop waits for in-flight work.
type Runner struct {
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner creates a Runner rooted in ctx; canceling ctx stops all work.
func NewRunner(ctx context.Context, log *zap.Logger) *Runner {
	rctx, cancel := context.WithCancel(ctx)
	return &Runner{log: log, ctx: rctx, cancel: cancel}
}

// Start launches a periodic job. The first run happens after one interval.
func (r *Runner) Start(job Job) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(job.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-ticker.C:
				if err := job.Run(r.ctx); err != nil {
					r.log.Warn("background job failed",
						zap.String("job", job.Name),
						zap.Error(err))
				}
			}
		}
	}()
}

// Go schedules a one-off task with its own timeout. Errors and panics are
// logged on the runner's logger; nothing reaches the caller.
func (r *Runner) Go(name string, timeout time.Duration, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				r.log.Error("background task panicked",
					zap.String("task", name),
					zap.Any("panic", p))
			}
		}()
		ctx, cancel := context.WithTimeout(r.ctx, timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			r.log.Warn("background task failed",
				zap.String("task", name),
				zap.Error(err))
		}
	}()
}

// Stop cancels all background work and waits for it to finish.
func (r *Runner) Stop() {
	r.cancel()
	r.wg.Wait()
}
