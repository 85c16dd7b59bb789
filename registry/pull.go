package registry

import (
	"context"
	"fmt"
	"io"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// Pulled is the result of a Pull: the validated manifest plus a streaming
// reader over the package layer.
type Pulled struct {
	// Manifest is the validated package manifest.
	Manifest *PackageManifest

	rc io.ReadCloser
}

// Package returns the package layer stream. The stream verifies size and
// digest as it is consumed; a short or corrupted layer surfaces as
// ErrSizeMismatch or ErrDigestMismatch at end of stream. The caller is
// responsible for closing it.
func (p *Pulled) Package() io.ReadCloser {
	return p.rc
}

// Close closes the package stream.
func (p *Pulled) Close() error {
	return p.rc.Close()
}

// Pull retrieves a package from an OCI registry.
//
// The manifest is fetched and validated (consulting the ref and manifest
// caches), pull policies are evaluated, and the package layer is opened
// for streaming.
func (c *Client) Pull(ctx context.Context, ref string, opts ...PullOption) (*Pulled, error) {
	cfg := pullConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	c.log().Info("pulling package", "ref", ref)

	manifest, err := c.fetchManifest(ctx, ref, cfg.skipCache)
	if err != nil {
		return nil, err
	}

	desc := manifest.PackageDescriptor()
	rc, err := c.oci.FetchBlob(ctx, ref, &desc)
	if err != nil {
		return nil, fmt.Errorf("fetch package layer: %w", mapOCIError(err))
	}

	verifier := desc.Digest.Verifier()
	return &Pulled{
		Manifest: manifest,
		rc: &verifyReader{
			r:        io.TeeReader(rc, verifier),
			closer:   rc,
			verifier: verifier,
			want:     desc,
		},
	}, nil
}

// verifyReader checks the byte count and digest of a layer stream once it
// has been fully consumed.
type verifyReader struct {
	r        io.Reader
	closer   io.Closer
	verifier digest.Verifier
	want     ocispec.Descriptor
	read     int64
	checked  bool
}

func (v *verifyReader) Read(p []byte) (int, error) {
	n, err := v.r.Read(p)
	v.read += int64(n)
	if v.read > v.want.Size {
		return n, fmt.Errorf("%w: layer exceeds %d bytes", ErrSizeMismatch, v.want.Size)
	}
	if err == io.EOF && !v.checked {
		v.checked = true
		if v.read != v.want.Size {
			return n, fmt.Errorf("%w: got %d bytes, want %d", ErrSizeMismatch, v.read, v.want.Size)
		}
		if !v.verifier.Verified() {
			return n, fmt.Errorf("%w: layer digest does not match %s", ErrDigestMismatch, v.want.Digest)
		}
	}
	return n, err
}

func (v *verifyReader) Close() error {
	return v.closer.Close()
}
