package upack

import (
	"log/slog"

	"github.com/meigma/upack/registry"
)

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	regOpts []registry.ClientOption
	logger  *slog.Logger
}

// WithDockerConfig enables reading credentials from ~/.docker/config.json.
// This is the recommended way to authenticate with registries.
func WithDockerConfig() ClientOption {
	return func(cfg *clientConfig) {
		cfg.regOpts = append(cfg.regOpts, registry.WithDockerConfig())
	}
}

// WithPlainHTTP enables plain HTTP (no TLS) for registries.
// This is useful for local development registries.
func WithPlainHTTP(enabled bool) ClientOption {
	return func(cfg *clientConfig) {
		cfg.regOpts = append(cfg.regOpts, registry.WithPlainHTTP(enabled))
	}
}

// WithUserAgent sets the User-Agent header for registry requests.
func WithUserAgent(ua string) ClientOption {
	return func(cfg *clientConfig) {
		cfg.regOpts = append(cfg.regOpts, registry.WithUserAgent(ua))
	}
}

// WithPolicies adds policies evaluated before pulled manifests are used.
func WithPolicies(policies ...Policy) ClientOption {
	return func(cfg *clientConfig) {
		cfg.regOpts = append(cfg.regOpts, registry.WithPolicies(policies...))
	}
}

// WithRegistryOptions passes options through to the underlying registry
// client, for concerns without a dedicated option here (custom caches,
// credential functions, a mock OCI client in tests).
func WithRegistryOptions(opts ...registry.ClientOption) ClientOption {
	return func(cfg *clientConfig) {
		cfg.regOpts = append(cfg.regOpts, opts...)
	}
}

// WithClientLogger sets the logger for client operations, including the
// exports and decodes the client performs.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(cfg *clientConfig) {
		cfg.logger = logger
	}
}
