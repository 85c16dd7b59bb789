package upack

import "log/slog"

// ReadOption configures a Decode call.
type ReadOption func(*readConfig)

type readConfig struct {
	logger *slog.Logger
}

// WithReadLogger sets the logger for skipped entries during decode.
func WithReadLogger(logger *slog.Logger) ReadOption {
	return func(cfg *readConfig) {
		cfg.logger = logger
	}
}
