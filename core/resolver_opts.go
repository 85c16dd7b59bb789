package upack

import (
	"log/slog"
	"strings"
)

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithScriptSource sets the source consulted for script files after the
// asset closure settles. exts override the default script extensions
// (.cs, .js, .boo); matching is case-insensitive.
func WithScriptSource(s Source, exts ...string) ResolverOption {
	return func(r *Resolver) {
		r.scripts = s
		if len(exts) == 0 {
			exts = defaultScriptExts
		}
		r.scriptExts = make(map[string]struct{}, len(exts))
		for _, ext := range exts {
			r.scriptExts[strings.ToLower(ext)] = struct{}{}
		}
	}
}

// WithBatchSize sets how many pending files one resolution round
// processes in parallel. Values below one keep the default.
func WithBatchSize(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// WithResolverLogger sets the logger for isolated per-file failures.
func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}
