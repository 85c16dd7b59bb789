package registry

import (
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/meigma/upack/registry/cache"
	"github.com/meigma/upack/registry/oci"
)

// Client provides high-level operations for asset packages in OCI registries.
type Client struct {
	oci           OCIClient
	refCache      cache.RefCache
	manifestCache cache.ManifestCache
	policies      []Policy
	logger        *slog.Logger

	// resolves deduplicates concurrent tag resolutions for the same ref.
	resolves singleflight.Group

	// ociOpts are options passed through to the default OCI client when
	// no custom OCIClient is provided.
	ociOpts []oci.Option
}

// NewClient creates a new package client with the given options.
//
// If no OCIClient is provided via WithOCIClient, a default ORAS-based
// client is created using any pass-through options (WithPlainHTTP, etc.).
// Ref and manifest caches default to in-memory implementations.
func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.oci == nil {
		c.oci = oci.New(c.ociOpts...)
	}
	if c.refCache == nil {
		c.refCache = cache.NewMemoryRefCache()
	}
	if c.manifestCache == nil {
		c.manifestCache = cache.NewMemoryManifestCache()
	}

	return c, nil
}

// log returns the logger, falling back to a discard logger if nil.
func (c *Client) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}
