package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration
type Config struct {
	Level       string
	Development bool
	Encoding    string // "json" or "console"
}

// Logger bundles a zap logger with the level it was built with, so the
// level can be changed at runtime.
type Logger struct {
	*zap.Logger
	Level zap.AtomicLevel
}

// New creates a new zap logger
func New(cfg Config) (*zap.Logger, error) {
	l, err := NewWithLevel(cfg)
	if err != nil {
		return nil, err
	}
	return l.Logger, nil
}

// NewWithLevel creates a logger whose level can be adjusted after construction
func NewWithLevel(cfg Config) (*Logger, error) {
	level := ParseLevel(cfg.Level)

	var zapConfig zap.Config
	if cfg.Development {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if cfg.Encoding != "" {
		zapConfig.Encoding = cfg.Encoding
	}

	atom := zap.NewAtomicLevelAt(level)
	zapConfig.Level = atom
	zapConfig.OutputPaths = []string{"stdout"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}

	built, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{Logger: built, Level: atom}, nil
}

// ParseLevel parses a level name, defaulting to info
func ParseLevel(s string) zapcore.Level {
	level, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// SetLevel changes the level of a running logger
func (l *Logger) SetLevel(s string) zapcore.Level {
	level := ParseLevel(s)
	l.Level.SetLevel(level)
	return level
}

// Default creates a default logger
func Default() *zap.Logger {
	logger, err := New(Config{
		Level:       os.Getenv("LOG_LEVEL"),
		Development: os.Getenv("APP_ENV") != "production",
		Encoding:    "console",
	})
	if err != nil {
		return zap.NewExample()
	}
	return logger
}

// WithContext returns a logger with additional context fields
func WithContext(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	return logger.With(fields...)
}
