package log

import (
	"context"
	"log/slog"
)

// slogLogger adapts *slog.Logger to the Logger interface.
type slogLogger struct {
	logger *slog.Logger
}

// GetLogger returns a Logger backed by the process-wide slog default.
// Configure the default with SetupLogger.
func GetLogger() Logger {
	return &slogLogger{logger: slog.Default()}
}

// GetLoggerWithName returns a Logger with a component identifier attached.
func GetLoggerWithName(name string) Logger {
	return &slogLogger{logger: slog.Default().With(ComponentKey, name)}
}

func (s *slogLogger) Debug(msg string, fields ...any) {
	s.logger.Debug(msg, fields...)
}

func (s *slogLogger) Info(msg string, fields ...any) {
	s.logger.Info(msg, fields...)
}

func (s *slogLogger) Warn(msg string, fields ...any) {
	s.logger.Warn(msg, fields...)
}

func (s *slogLogger) Error(msg string, fields ...any) {
	s.logger.Error(msg, fields...)
}

func (s *slogLogger) With(fields ...any) Logger {
	return &slogLogger{logger: s.logger.With(fields...)}
}

func (s *slogLogger) Enabled(ctx context.Context, level Level) bool {
	return s.logger.Enabled(ctx, slog.Level(level))
}
