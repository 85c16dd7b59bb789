package registry

// Media types for asset packages in OCI registries.
const (
	// ArtifactType identifies asset packages as an OCI 1.1 artifact type.
	ArtifactType = "application/vnd.meigma.upack.v1"

	// MediaTypePackage is the media type for the gzip tar package layer.
	MediaTypePackage = "application/vnd.meigma.upack.package.v1.tar+gzip"

	// AnnotationAssetCount is the manifest annotation recording how many
	// assets the package contains.
	AnnotationAssetCount = "vnd.meigma.upack.assets"
)
