package registry

import (
	"time"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// NewTestManifest creates a PackageManifest for testing purposes.
// This is not intended for production use.
func NewTestManifest(digestStr string, created time.Time, packageSize int64) *PackageManifest {
	packageDigest := digest.FromString("test-package-content")

	desc := ocispec.Descriptor{
		MediaType: MediaTypePackage,
		Size:      packageSize,
		Digest:    packageDigest,
	}

	return &PackageManifest{
		digest: digestStr,
		raw: ocispec.Manifest{
			MediaType:    ocispec.MediaTypeImageManifest,
			ArtifactType: ArtifactType,
			Annotations: map[string]string{
				ocispec.AnnotationCreated: created.Format(time.RFC3339),
			},
			Layers: []ocispec.Descriptor{desc},
		},
		packageDesc: desc,
		created:     created,
	}
}
