package upack

import "log/slog"

// WriterOption configures a Writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	folder string
	level  int
	logger *slog.Logger
}

// WithRootFolder overrides the top-level folder name recorded in
// pathname entries. The default is "Assets".
func WithRootFolder(name string) WriterOption {
	return func(cfg *writerConfig) {
		if name != "" {
			cfg.folder = name
		}
	}
}

// WithCompressionLevel sets the gzip compression level, from
// gzip.BestSpeed through gzip.BestCompression.
func WithCompressionLevel(level int) WriterOption {
	return func(cfg *writerConfig) {
		cfg.level = level
	}
}

// WithWriterLogger sets the logger for skipped paths and synthesized
// metadata warnings.
func WithWriterLogger(logger *slog.Logger) WriterOption {
	return func(cfg *writerConfig) {
		cfg.logger = logger
	}
}
