// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/tallyhub/tallyhub/internal/app/system/tasks"
	"github.com/tallyhub/tallyhub/internal/app/system/timeouts"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// background holds the runner for fire-and-forget work scheduled from
// request handlers (profile refresh on login, for now). Created in Startup,
// drained in Shutdown.
var background *tasks.Runner

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeout overrides applied", zap.Int("count", n))
	}

	// Rooted in context.Background, not the startup ctx: the runner must
	// outlive startup and keep accepting work until Shutdown drains it.
	background = tasks.NewRunner(context.Background(), logger)

	return nil
}
