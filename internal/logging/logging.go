// Package logging builds the process-wide zap logger. It is the one place
// that knows about log-level strings and zap.Config — every other package
// just takes a *zap.Logger and calls .Named(...) on it, the way the
// teacher's scheduler.New and notification.NewService do.
package logging

import "go.uber.org/zap"

// Build constructs a *zap.Logger for the given level ("debug", "info",
// "warn", "error"). debug selects zap's development config (human-readable,
// caller-annotated); any other level uses the production (JSON) config with
// the atomic level set explicitly, matching cmd/server/main.go's
// buildLogger in the teacher repo.
func Build(level string, debug bool) (*zap.Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	switch level {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	return cfg.Build()
}
