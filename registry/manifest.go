package registry

import (
	"fmt"
	"strconv"
	"time"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// PackageManifest wraps an OCI manifest for an asset package.
//
// It provides convenient access to the package layer descriptor,
// annotations, and other metadata.
type PackageManifest struct {
	raw         ocispec.Manifest
	digest      string
	packageDesc ocispec.Descriptor
	created     time.Time
}

// PackageDescriptor returns the descriptor for the package layer.
func (m *PackageManifest) PackageDescriptor() ocispec.Descriptor {
	return m.packageDesc
}

// Digest returns the manifest digest.
func (m *PackageManifest) Digest() string {
	return m.digest
}

// Annotations returns the manifest annotations.
func (m *PackageManifest) Annotations() map[string]string {
	return m.raw.Annotations
}

// Created returns the creation timestamp from annotations.
//
// Returns zero time if the annotation is not present or cannot be parsed.
func (m *PackageManifest) Created() time.Time {
	return m.created
}

// AssetCount returns the packed asset count annotation, if present.
func (m *PackageManifest) AssetCount() (int, bool) {
	s, ok := m.raw.Annotations[AnnotationAssetCount]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Raw returns the underlying OCI manifest.
func (m *PackageManifest) Raw() ocispec.Manifest {
	return m.raw
}

// parsePackageManifest parses an OCI manifest into a PackageManifest.
func parsePackageManifest(manifest *ocispec.Manifest, digest string) (*PackageManifest, error) {
	if manifest.MediaType != ocispec.MediaTypeImageManifest {
		return nil, fmt.Errorf("%w: unexpected manifest media type %q", ErrManifestInvalid, manifest.MediaType)
	}
	if manifest.ArtifactType != ArtifactType {
		return nil, fmt.Errorf("%w: unexpected artifact type %q", ErrManifestInvalid, manifest.ArtifactType)
	}

	var packageDesc ocispec.Descriptor
	var foundPackage bool

	for _, layer := range manifest.Layers {
		if layer.MediaType == MediaTypePackage {
			if foundPackage {
				return nil, fmt.Errorf("%w: multiple package layers", ErrManifestInvalid)
			}
			packageDesc = layer
			foundPackage = true
		}
	}

	if !foundPackage {
		return nil, ErrMissingPackage
	}
	if len(manifest.Layers) != 1 {
		return nil, fmt.Errorf("%w: expected 1 layer, got %d", ErrManifestInvalid, len(manifest.Layers))
	}

	var created time.Time
	if ts, ok := manifest.Annotations[ocispec.AnnotationCreated]; ok {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			created = t
		}
	}

	return &PackageManifest{
		raw:         *manifest,
		digest:      digest,
		packageDesc: packageDesc,
		created:     created,
	}, nil
}
