package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/fithub/fithub-onboarding/internal/di"
)

// The worker process consumes activation jobs, runs the leader-elected
// activation sweep and serves /health, /ready, /status and /metrics.
func main() {
	app := fx.New(
		di.WorkerAppModule,

		fx.Invoke(di.PrintBanner),

		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
	)

	app.Run()
}
