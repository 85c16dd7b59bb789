package registry

import (
	"context"
	"fmt"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// fetchManifest resolves ref and returns its validated package manifest,
// consulting the ref and manifest caches unless skipCache is set.
func (c *Client) fetchManifest(ctx context.Context, ref string, skipCache bool) (*PackageManifest, error) {
	parsedRef, err := parseClientRef(ref)
	if err != nil {
		return nil, err
	}
	if parsedRef.reference == "" {
		return nil, fmt.Errorf("%w: reference must include a tag or digest", ErrInvalidReference)
	}

	digestStr, err := c.resolveDigest(ctx, ref, parsedRef.reference, skipCache)
	if err != nil {
		return nil, err
	}

	manifest, raw, fromCache, err := c.fetchManifestByDigest(ctx, ref, digestStr, skipCache)
	if err != nil {
		return nil, err
	}

	if err := c.evaluatePolicies(ctx, ref, digestStr, manifest); err != nil {
		if fromCache && c.manifestCache != nil {
			_ = c.manifestCache.Delete(digestStr) //nolint:errcheck // best-effort cleanup
		}
		return nil, err
	}

	if !fromCache && c.manifestCache != nil && !skipCache {
		if err := c.manifestCache.PutManifest(digestStr, raw); err != nil {
			return nil, fmt.Errorf("cache manifest: %w", err)
		}
	}

	return manifest, nil
}

// resolveDigest resolves a reference to a digest string.
// Uses the ref cache for tags if available, otherwise calls Resolve().
// Concurrent resolutions of the same ref are collapsed into one request.
func (c *Client) resolveDigest(ctx context.Context, ref, reference string, skipCache bool) (string, error) {
	// If already a digest, return it directly
	if isDigest(reference) {
		c.log().Debug("resolving reference", "ref", ref, "type", "digest")
		return reference, nil
	}

	c.log().Debug("resolving reference", "ref", ref, "type", "tag")

	if !skipCache && c.refCache != nil {
		if digest, ok := c.refCache.GetDigest(ref); ok {
			c.log().Debug("ref cache hit", "ref", ref, "digest", digest[:min(16, len(digest))])
			return digest, nil
		}
		c.log().Debug("ref cache miss", "ref", ref)
	}

	v, err, _ := c.resolves.Do(ref, func() (any, error) {
		desc, err := c.oci.Resolve(ctx, ref, reference)
		if err != nil {
			return "", mapOCIError(err)
		}
		return desc.Digest.String(), nil
	})
	if err != nil {
		return "", err
	}
	digest := v.(string)

	if c.refCache != nil {
		if err := c.refCache.PutDigest(ref, digest); err != nil {
			return "", fmt.Errorf("cache ref digest: %w", err)
		}
	}

	return digest, nil
}

// fetchManifestByDigest fetches a manifest by digest.
// Uses the manifest cache if available, otherwise calls FetchManifest().
func (c *Client) fetchManifestByDigest(ctx context.Context, ref, dgst string, skipCache bool) (manifest *PackageManifest, raw []byte, fromCache bool, err error) {
	if !skipCache && c.manifestCache != nil {
		if cached, cachedRaw, ok := c.manifestCache.GetManifest(dgst); ok {
			c.log().Debug("manifest cache hit", "digest", dgst[:min(16, len(dgst))])
			manifest, err = parsePackageManifest(cached, dgst)
			return manifest, cachedRaw, true, err
		}
		c.log().Debug("manifest cache miss", "digest", dgst[:min(16, len(dgst))])
	}

	var desc ocispec.Descriptor
	desc, err = descriptorFromDigest(dgst)
	if err != nil {
		return nil, nil, false, err
	}

	var rawManifest ocispec.Manifest
	rawManifest, raw, err = c.oci.FetchManifest(ctx, ref, &desc)
	if err != nil {
		return nil, nil, false, mapOCIError(err)
	}

	manifest, err = parsePackageManifest(&rawManifest, dgst)
	if err != nil {
		return nil, nil, false, err
	}
	return manifest, raw, false, nil
}
