package upack_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/upack"
	"github.com/meigma/upack/registry"
)

// fakeOCI is an in-memory OCI registry good enough for push/pull round
// trips.
type fakeOCI struct {
	mu        sync.Mutex
	blobs     map[digest.Digest][]byte
	manifests map[digest.Digest][]byte
	tags      map[string]ocispec.Descriptor
}

func newFakeOCI() *fakeOCI {
	return &fakeOCI{
		blobs:     make(map[digest.Digest][]byte),
		manifests: make(map[digest.Digest][]byte),
		tags:      make(map[string]ocispec.Descriptor),
	}
}

func (f *fakeOCI) PushBlob(_ context.Context, _ string, desc *ocispec.Descriptor, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[desc.Digest] = data
	return nil
}

func (f *fakeOCI) FetchBlob(_ context.Context, _ string, desc *ocispec.Descriptor) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.blobs[desc.Digest]
	if !ok {
		return nil, fmt.Errorf("blob %s: %w", desc.Digest, registry.ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeOCI) PushManifest(_ context.Context, _, tag string, manifest *ocispec.Manifest) (ocispec.Descriptor, error) {
	raw, err := json.Marshal(manifest)
	if err != nil {
		return ocispec.Descriptor{}, err
	}
	desc := ocispec.Descriptor{
		MediaType: ocispec.MediaTypeImageManifest,
		Digest:    digest.FromBytes(raw),
		Size:      int64(len(raw)),
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.manifests[desc.Digest] = raw
	f.tags[tag] = desc
	return desc, nil
}

func (f *fakeOCI) FetchManifest(_ context.Context, _ string, expected *ocispec.Descriptor) (ocispec.Manifest, []byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.manifests[expected.Digest]
	if !ok {
		return ocispec.Manifest{}, nil, fmt.Errorf("manifest %s: %w", expected.Digest, registry.ErrNotFound)
	}
	var m ocispec.Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return ocispec.Manifest{}, nil, err
	}
	return m, raw, nil
}

func (f *fakeOCI) Resolve(_ context.Context, _, ref string) (ocispec.Descriptor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	desc, ok := f.tags[ref]
	if !ok {
		return ocispec.Descriptor{}, fmt.Errorf("tag %s: %w", ref, registry.ErrNotFound)
	}
	return desc, nil
}

func (f *fakeOCI) Tag(_ context.Context, _ string, desc *ocispec.Descriptor, tag string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tags[tag] = *desc
	return nil
}

func newFakeClient(t *testing.T, fake *fakeOCI) *upack.Client {
	t.Helper()

	client, err := upack.NewClient(
		upack.WithRegistryOptions(registry.WithOCIClient(fake)),
	)
	require.NoError(t, err)
	return client
}

func TestClient_PushPullRoundTrip(t *testing.T) {
	t.Parallel()

	root := playerProject(t)
	fake := newFakeOCI()
	client := newFakeClient(t, fake)
	ctx := context.Background()

	desc, err := client.Push(ctx, "registry.example.com/pkgs/player:v1", root,
		upack.ExportWithPatterns("Assets/Prefabs/**"),
	)
	require.NoError(t, err)
	assert.Equal(t, ocispec.MediaTypeImageManifest, desc.MediaType)

	entries, err := client.Pull(ctx, "registry.example.com/pkgs/player:v1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Assets/Prefabs/Player.prefab", entries[guidPrefab].Path)
	assert.Equal(t, "Assets/Materials/Player.mat", entries[guidMaterial].Path)
}

func TestClient_PushRecordsAssetCount(t *testing.T) {
	t.Parallel()

	root := playerProject(t)
	client := newFakeClient(t, newFakeOCI())
	ctx := context.Background()

	_, err := client.Push(ctx, "registry.example.com/pkgs/player:v1", root,
		upack.ExportWithPatterns("Assets/Prefabs/**"),
	)
	require.NoError(t, err)

	manifest, err := client.Inspect(ctx, "registry.example.com/pkgs/player:v1")
	require.NoError(t, err)

	count, ok := manifest.AssetCount()
	require.True(t, ok)
	assert.Equal(t, 2, count)
	assert.Equal(t, "2", manifest.Annotations()[registry.AnnotationAssetCount])
}

func TestClient_PullUnknownRef(t *testing.T) {
	t.Parallel()

	client := newFakeClient(t, newFakeOCI())

	_, err := client.Pull(context.Background(), "registry.example.com/pkgs/missing:v1")
	assert.ErrorIs(t, err, upack.ErrNotFound)
}

func TestClient_Tag(t *testing.T) {
	t.Parallel()

	root := playerProject(t)
	fake := newFakeOCI()
	client := newFakeClient(t, fake)
	ctx := context.Background()

	desc, err := client.Push(ctx, "registry.example.com/pkgs/player:v1", root,
		upack.ExportWithPatterns("Assets/Prefabs/**"),
	)
	require.NoError(t, err)

	require.NoError(t, client.Tag(ctx, "registry.example.com/pkgs/player:v1", "latest", "stable"))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, desc.Digest, fake.tags["latest"].Digest)
	assert.Equal(t, desc.Digest, fake.tags["stable"].Digest)
}

// rejectTag fails any manifest whose evaluated digest is the given one.
type rejectTag struct{}

func (rejectTag) Name() string { return "reject-all" }

func (rejectTag) Evaluate(context.Context, *upack.PolicyRequest) error {
	return fmt.Errorf("not trusted")
}

func TestClient_PolicyBlocksPull(t *testing.T) {
	t.Parallel()

	root := playerProject(t)
	fake := newFakeOCI()

	pusher := newFakeClient(t, fake)
	_, err := pusher.Push(context.Background(), "registry.example.com/pkgs/player:v1", root,
		upack.ExportWithPatterns("Assets/**"),
	)
	require.NoError(t, err)

	guarded, err := upack.NewClient(
		upack.WithRegistryOptions(registry.WithOCIClient(fake)),
		upack.WithPolicies(rejectTag{}),
	)
	require.NoError(t, err)

	_, pullErr := guarded.Pull(context.Background(), "registry.example.com/pkgs/player:v1")
	assert.ErrorIs(t, pullErr, upack.ErrPolicyViolation)
}

func TestClient_PushPullFile(t *testing.T) {
	t.Parallel()

	root := playerProject(t)
	fake := newFakeOCI()
	client := newFakeClient(t, fake)
	ctx := context.Background()

	var buf bytes.Buffer
	_, err := upack.Export(ctx, root, &buf, upack.ExportWithPatterns("Assets/**"))
	require.NoError(t, err)

	pkg := filepath.Join(t.TempDir(), "player.upack")
	require.NoError(t, os.WriteFile(pkg, buf.Bytes(), 0o644))

	_, err = client.PushFile(ctx, "registry.example.com/pkgs/player:v2", pkg)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "pulled.upack")
	require.NoError(t, client.PullFile(ctx, "registry.example.com/pkgs/player:v2", out))

	pulled, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, buf.Bytes(), pulled)
}
