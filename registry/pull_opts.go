package registry

// PullOption configures a Pull operation.
type PullOption func(*pullConfig)

type pullConfig struct {
	skipCache bool
}

// WithPullSkipCache bypasses the ref and manifest caches.
//
// This forces a fresh fetch from the registry even if cached data exists.
func WithPullSkipCache() PullOption {
	return func(cfg *pullConfig) {
		cfg.skipCache = true
	}
}
