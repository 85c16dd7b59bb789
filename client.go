package upack

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/meigma/upack/registry"
)

// PackageManifest wraps an OCI manifest for an asset package.
type PackageManifest = registry.PackageManifest

// Policy evaluates whether a pulled manifest is trusted.
//
// Policies are evaluated during Pull and Inspect operations. If any
// policy returns an error, the operation fails with [ErrPolicyViolation].
type Policy = registry.Policy

// PolicyRequest provides context for policy evaluation.
type PolicyRequest = registry.PolicyRequest

// Client layers project orchestration over the registry client: exports
// are pushed as packages, pulls are decoded back into entries.
type Client struct {
	reg    *registry.Client
	logger *slog.Logger
}

// NewClient creates a new package client with the given options.
//
// If no authentication is configured, anonymous access is used.
// Use [WithDockerConfig] to read credentials from ~/.docker/config.json.
func NewClient(opts ...ClientOption) (*Client, error) {
	cfg := clientConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	regOpts := cfg.regOpts
	if cfg.logger != nil {
		regOpts = append(regOpts, registry.WithLogger(cfg.logger))
	}
	reg, err := registry.NewClient(regOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{
		reg:    reg,
		logger: cfg.logger,
	}, nil
}

// log returns the logger, falling back to a discard logger if nil.
func (c *Client) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// Push exports projectRoot and pushes the resulting package to ref.
//
// The ref must include a tag. The manifest records the packed asset
// count under the vnd.meigma.upack.assets annotation.
func (c *Client) Push(ctx context.Context, ref, projectRoot string, opts ...ExportOption) (ocispec.Descriptor, error) {
	var buf bytes.Buffer
	exportOpts := opts
	if c.logger != nil {
		exportOpts = append([]ExportOption{ExportWithLogger(c.logger)}, opts...)
	}
	res, err := Export(ctx, projectRoot, &buf, exportOpts...)
	if err != nil {
		return ocispec.Descriptor{}, fmt.Errorf("export %s: %w", projectRoot, err)
	}

	return c.reg.Push(ctx, ref, buf.Bytes(), registry.WithAnnotations(map[string]string{
		registry.AnnotationAssetCount: strconv.Itoa(res.Assets),
	}))
}

// PushFile pushes an existing package file to ref. The file is decoded
// to count its assets, so the manifest carries the same annotation a
// direct Push would.
func (c *Client) PushFile(ctx context.Context, ref, path string) (ocispec.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ocispec.Descriptor{}, fmt.Errorf("read package %s: %w", path, err)
	}
	entries, err := Decode(bytes.NewReader(data))
	if err != nil {
		return ocispec.Descriptor{}, fmt.Errorf("decode package %s: %w", path, err)
	}
	return c.reg.Push(ctx, ref, data, registry.WithAnnotations(map[string]string{
		registry.AnnotationAssetCount: strconv.Itoa(len(entries)),
	}))
}

// Pull fetches the package at ref and decodes it into entries keyed by
// GUID.
func (c *Client) Pull(ctx context.Context, ref string) (map[string]*Entry, error) {
	pulled, err := c.reg.Pull(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer pulled.Close()

	entries, err := Decode(pulled.Package())
	if err != nil {
		return nil, fmt.Errorf("decode package %s: %w", ref, err)
	}
	return entries, nil
}

// PullFile fetches the package at ref and writes the raw package bytes
// to path.
func (c *Client) PullFile(ctx context.Context, ref, path string) error {
	pulled, err := c.reg.Pull(ctx, ref)
	if err != nil {
		return err
	}
	defer pulled.Close()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := f.ReadFrom(pulled.Package()); err != nil {
		f.Close()
		return fmt.Errorf("write package %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	c.log().Info("pulled package", "ref", ref, "path", path)
	return nil
}

// Inspect retrieves package metadata from ref without downloading the
// package layer.
func (c *Client) Inspect(ctx context.Context, ref string) (*PackageManifest, error) {
	return c.reg.Inspect(ctx, ref)
}

// Tag applies additional tags to the manifest ref already points at.
func (c *Client) Tag(ctx context.Context, ref string, tags ...string) error {
	return c.reg.Tag(ctx, ref, tags...)
}
