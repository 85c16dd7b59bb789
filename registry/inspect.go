package registry

import (
	"context"
)

// Inspect retrieves package metadata without downloading the package layer.
//
// This fetches and validates the manifest, providing access to the digest,
// created time, annotations, and asset count. Use [Client.Pull] to fetch
// package content.
func (c *Client) Inspect(ctx context.Context, ref string, opts ...InspectOption) (*PackageManifest, error) {
	cfg := inspectConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	return c.fetchManifest(ctx, ref, cfg.skipCache)
}
