package cache

import (
	"encoding/json"
	"sync"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// MemoryRefCache is an in-memory RefCache safe for concurrent use.
type MemoryRefCache struct {
	mu      sync.RWMutex
	digests map[string]string
}

// NewMemoryRefCache returns an empty in-memory ref cache.
func NewMemoryRefCache() *MemoryRefCache {
	return &MemoryRefCache{
		digests: make(map[string]string),
	}
}

// GetDigest returns the cached digest for ref.
func (c *MemoryRefCache) GetDigest(ref string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	digest, ok := c.digests[ref]
	return digest, ok
}

// PutDigest caches the digest for ref.
func (c *MemoryRefCache) PutDigest(ref, digest string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.digests[ref] = digest
	return nil
}

// Delete removes the cached digest for ref.
func (c *MemoryRefCache) Delete(ref string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.digests, ref)
	return nil
}

// MemoryManifestCache is an in-memory ManifestCache safe for concurrent use.
//
// Manifests are stored as raw bytes and parsed on retrieval, so callers
// always receive an independent manifest value.
type MemoryManifestCache struct {
	mu        sync.RWMutex
	manifests map[string][]byte
}

// NewMemoryManifestCache returns an empty in-memory manifest cache.
func NewMemoryManifestCache() *MemoryManifestCache {
	return &MemoryManifestCache{
		manifests: make(map[string][]byte),
	}
}

// GetManifest returns the cached manifest and raw bytes for digest.
func (c *MemoryManifestCache) GetManifest(digest string) (*ocispec.Manifest, []byte, bool) {
	c.mu.RLock()
	raw, ok := c.manifests[digest]
	c.mu.RUnlock()
	if !ok {
		return nil, nil, false
	}

	var manifest ocispec.Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		// Unparseable entries are dropped rather than served.
		_ = c.Delete(digest)
		return nil, nil, false
	}
	return &manifest, raw, true
}

// PutManifest caches raw manifest bytes by digest.
func (c *MemoryManifestCache) PutManifest(digest string, raw []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.manifests[digest] = append([]byte(nil), raw...)
	return nil
}

// Delete removes the cached manifest for digest.
func (c *MemoryManifestCache) Delete(digest string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.manifests, digest)
	return nil
}
