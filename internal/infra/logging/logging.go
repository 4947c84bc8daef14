// Package logging builds the process logger and adapts it to framework loggers.
package logging

import (
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production JSON logger, or a development console logger
// when production is false.
func New(level string, production bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewDevelopmentConfig()
	if production {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

// KratosLogger adapts a zap logger to the kratos log.Logger interface.
type KratosLogger struct {
	logger *zap.Logger
}

var _ log.Logger = (*KratosLogger)(nil)

// NewKratosLogger creates a new KratosLogger
func NewKratosLogger(logger *zap.Logger) log.Logger {
	return &KratosLogger{logger: logger.Named("kratos").WithOptions(zap.AddCallerSkip(2))}
}

func (l *KratosLogger) Log(level log.Level, keyvals ...interface{}) error {
	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, "")
	}

	msg := ""
	fields := make([]zap.Field, 0, len(keyvals)/2)
	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprint(keyvals[i])
		if key == log.DefaultMessageKey {
			msg = fmt.Sprint(keyvals[i+1])
			continue
		}
		fields = append(fields, zap.Any(key, keyvals[i+1]))
	}

	switch level {
	case log.LevelDebug:
		l.logger.Debug(msg, fields...)
	case log.LevelWarn:
		l.logger.Warn(msg, fields...)
	case log.LevelError, log.LevelFatal:
		l.logger.Error(msg, fields...)
	default:
		l.logger.Info(msg, fields...)
	}
	return nil
}
