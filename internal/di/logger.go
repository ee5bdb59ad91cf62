package di

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fithub/fithub-onboarding/internal/config"
	"github.com/fithub/fithub-onboarding/pkg/logger"
)

// LoggerModule provides logging dependencies. The level follows log.level
// in the config file while the process runs.
var LoggerModule = fx.Module("logger",
	fx.Provide(
		provideLeveledLogger,
		provideLogger,
	),
	fx.Invoke(watchLogLevel),
)

func provideLeveledLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.NewWithLevel(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		Encoding:    cfg.Log.Encoding,
	})
}

func provideLogger(l *logger.Logger) *zap.Logger {
	return l.Logger
}

func watchLogLevel(loader *config.Loader, l *logger.Logger) {
	loader.Watch(
		func(cfg *config.Config) {
			level := l.SetLevel(cfg.Log.Level)
			l.Info("Config reloaded", zap.Stringer("log_level", level))
		},
		func(err error) {
			l.Warn("Ignoring invalid config change", zap.Error(err))
		},
	)
}
