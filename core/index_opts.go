package upack

import "log/slog"

// IndexOption configures an Index.
type IndexOption func(*Index)

// WithIndexLogger sets the logger for per-file indexing problems.
//
// Without a logger, isolated failures are discarded silently.
func WithIndexLogger(logger *slog.Logger) IndexOption {
	return func(ix *Index) {
		ix.logger = logger
	}
}
