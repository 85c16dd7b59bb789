// Package cache defines the caching interfaces used by the registry
// client, with mutex-guarded in-memory implementations suitable for
// single-process use.
package cache

import (
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// RefCache caches reference to digest mappings.
//
// This avoids redundant HEAD requests for tag resolution.
type RefCache interface {
	// GetDigest returns the digest for a reference if cached.
	GetDigest(ref string) (digest string, ok bool)

	// PutDigest caches a reference to digest mapping.
	PutDigest(ref string, digest string) error

	// Delete removes a cached reference.
	Delete(ref string) error
}

// ManifestCache caches digest to manifest mappings.
//
// This avoids redundant manifest fetches.
type ManifestCache interface {
	// GetManifest returns the cached manifest and its raw bytes for a digest.
	GetManifest(digest string) (manifest *ocispec.Manifest, raw []byte, ok bool)

	// PutManifest caches raw manifest bytes by digest.
	PutManifest(digest string, raw []byte) error

	// Delete removes a cached manifest.
	Delete(digest string) error
}
