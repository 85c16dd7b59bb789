package registry

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/opencontainers/go-digest"
	"github.com/opencontainers/image-spec/specs-go"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// Push pushes a package to an OCI registry.
//
// The package is pushed as a single layer with a manifest linking it.
// The ref must include a tag (e.g., "registry.com/repo:v1.0.0").
//
// Use WithTags to apply additional tags to the same manifest.
func (c *Client) Push(ctx context.Context, ref string, data []byte, opts ...PushOption) (ocispec.Descriptor, error) {
	cfg := pushConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	// Parse reference to extract tag
	parsedRef, err := parseClientRef(ref)
	if err != nil {
		return ocispec.Descriptor{}, err
	}
	tag := parsedRef.reference
	if tag == "" || isDigest(tag) {
		return ocispec.Descriptor{}, fmt.Errorf("%w: reference must include a tag", ErrInvalidReference)
	}

	c.log().Info("pushing package", "ref", ref, "size", len(data))

	// Step 1: Push empty config blob (required by OCI spec)
	configDesc, err := c.pushEmptyConfig(ctx, ref)
	if err != nil {
		return ocispec.Descriptor{}, fmt.Errorf("push config: %w", err)
	}

	// Step 2: Push package layer
	packageDesc := ocispec.Descriptor{
		MediaType: MediaTypePackage,
		Digest:    digest.FromBytes(data),
		Size:      int64(len(data)),
	}
	if pushErr := c.oci.PushBlob(ctx, ref, &packageDesc, bytes.NewReader(data)); pushErr != nil {
		return ocispec.Descriptor{}, fmt.Errorf("push package layer: %w", mapOCIError(pushErr))
	}

	// Step 3: Build and push manifest
	manifest := buildManifest(&configDesc, &packageDesc, cfg.annotations)
	manifestDesc, err := c.oci.PushManifest(ctx, ref, tag, &manifest)
	if err != nil {
		return ocispec.Descriptor{}, fmt.Errorf("push manifest: %w", mapOCIError(err))
	}

	// Step 4: Apply additional tags
	for _, additionalTag := range cfg.tags {
		if tagErr := c.oci.Tag(ctx, ref, &manifestDesc, additionalTag); tagErr != nil {
			return ocispec.Descriptor{}, fmt.Errorf("tag %q: %w", additionalTag, mapOCIError(tagErr))
		}
	}

	return manifestDesc, nil
}

// pushEmptyConfig pushes the empty JSON config blob required by OCI manifests.
func (c *Client) pushEmptyConfig(ctx context.Context, ref string) (ocispec.Descriptor, error) {
	config := []byte("{}")
	desc := ocispec.Descriptor{
		MediaType: ocispec.MediaTypeEmptyJSON,
		Digest:    digest.FromBytes(config),
		Size:      int64(len(config)),
	}
	if err := c.oci.PushBlob(ctx, ref, &desc, bytes.NewReader(config)); err != nil {
		return ocispec.Descriptor{}, mapOCIError(err)
	}
	return desc, nil
}

// buildManifest creates an OCI manifest for a package layer.
func buildManifest(configDesc, packageDesc *ocispec.Descriptor, customAnnotations map[string]string) ocispec.Manifest {
	annotations := make(map[string]string)
	for k, v := range customAnnotations {
		annotations[k] = v
	}
	if _, ok := annotations[ocispec.AnnotationCreated]; !ok {
		annotations[ocispec.AnnotationCreated] = time.Now().UTC().Format(time.RFC3339)
	}

	return ocispec.Manifest{
		Versioned:    specs.Versioned{SchemaVersion: 2},
		MediaType:    ocispec.MediaTypeImageManifest,
		ArtifactType: ArtifactType,
		Config:       *configDesc,
		Layers:       []ocispec.Descriptor{*packageDesc},
		Annotations:  annotations,
	}
}
