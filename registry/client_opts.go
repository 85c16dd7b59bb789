package registry

import (
	"log/slog"

	"github.com/meigma/upack/registry/cache"
	"github.com/meigma/upack/registry/oci"
)

// ClientOption configures a Client.
type ClientOption func(*Client) error

// WithOCIClient sets a custom OCI client implementation.
//
// This is primarily useful for testing. When set, transport options such
// as WithPlainHTTP have no effect.
func WithOCIClient(client OCIClient) ClientOption {
	return func(c *Client) error {
		c.oci = client
		return nil
	}
}

// WithPlainHTTP enables plain HTTP (no TLS) for registries.
// This is useful for local development registries.
func WithPlainHTTP(enabled bool) ClientOption {
	return func(c *Client) error {
		c.ociOpts = append(c.ociOpts, oci.WithPlainHTTP(enabled))
		return nil
	}
}

// WithDockerConfig enables reading credentials from ~/.docker/config.json.
func WithDockerConfig() ClientOption {
	return func(c *Client) error {
		c.ociOpts = append(c.ociOpts, oci.WithDockerConfig())
		return nil
	}
}

// WithCredentialFunc sets a function resolving credentials per registry host.
func WithCredentialFunc(fn oci.CredentialFunc) ClientOption {
	return func(c *Client) error {
		c.ociOpts = append(c.ociOpts, oci.WithCredentialFunc(fn))
		return nil
	}
}

// WithUserAgent sets the User-Agent header for registry requests.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) error {
		c.ociOpts = append(c.ociOpts, oci.WithUserAgent(ua))
		return nil
	}
}

// WithRefCache sets the tag-to-digest cache. Pass nil to rely on the
// in-memory default.
func WithRefCache(rc cache.RefCache) ClientOption {
	return func(c *Client) error {
		c.refCache = rc
		return nil
	}
}

// WithManifestCache sets the digest-to-manifest cache. Pass nil to rely
// on the in-memory default.
func WithManifestCache(mc cache.ManifestCache) ClientOption {
	return func(c *Client) error {
		c.manifestCache = mc
		return nil
	}
}

// WithPolicies adds policies evaluated before pulled manifests are used.
func WithPolicies(policies ...Policy) ClientOption {
	return func(c *Client) error {
		c.policies = append(c.policies, policies...)
		return nil
	}
}

// WithLogger sets the logger for client operations.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}
