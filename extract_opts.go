package upack

import "log/slog"

// ExtractOption configures an Extract call.
type ExtractOption func(*extractConfig)

type extractConfig struct {
	workers int
	logger  *slog.Logger
}

// ExtractWithWorkers bounds how many files are written concurrently.
// Values below one leave the fan-out unbounded.
func ExtractWithWorkers(n int) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.workers = n
	}
}

// ExtractWithLogger sets the logger for the extraction run.
func ExtractWithLogger(logger *slog.Logger) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.logger = logger
	}
}
