// Package logger provides structured logging for dbkit packages.
//
// It wraps Uber's Zap logger behind a small API that takes an optional error
// and free-form field maps, so call sites stay compact:
//
//	log := logger.NewLoggerClient(logger.Config{Level: logger.Info})
//
//	log.Info("configuration applied", nil, map[string]interface{}{
//		"entities": 12,
//		"cycles":   1,
//	})
//
// The package integrates with fx via FXModule, which also flushes buffered
// log entries on shutdown.
package logger
