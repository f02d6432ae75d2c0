// Package logger provides a small factory for configured log/slog loggers.
//
// Defaults are production-safe (JSON handler, INFO level, stdout). Options
// adjust level, format, output and static attributes:
//
//	log := logger.New(
//		logger.WithService("billing"),
//		logger.WithFormat(logger.FormatText),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
// Noop returns a discard logger for components that were not given one.
package logger
