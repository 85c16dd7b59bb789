package registry

// InspectOption configures an Inspect operation.
type InspectOption func(*inspectConfig)

type inspectConfig struct {
	skipCache bool
}

// WithInspectSkipCache bypasses the ref and manifest caches.
//
// This forces a fresh fetch from the registry even if cached data exists.
func WithInspectSkipCache() InspectOption {
	return func(cfg *inspectConfig) {
		cfg.skipCache = true
	}
}
