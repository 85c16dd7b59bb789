package upack

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/upack/internal/testutil"
)

// fakeSource resolves references out of a static graph and records every
// query so tests can assert how often a path was expanded.
type fakeSource struct {
	mu      sync.Mutex
	graph   map[string][]string
	errs    map[string]error
	queried []string
}

func newFakeSource(graph map[string][]string) *fakeSource {
	return &fakeSource{graph: graph}
}

func (s *fakeSource) IndexFiles(context.Context, []string) error { return nil }

func (s *fakeSource) DirectRefs(_ context.Context, path string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queried = append(s.queried, path)
	if err := s.errs[path]; err != nil {
		return nil, err
	}
	return s.graph[path], nil
}

func (s *fakeSource) queries(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, q := range s.queried {
		if q == path {
			n++
		}
	}
	return n
}

func TestResolveClosureCompleteness(t *testing.T) {
	t.Parallel()

	assets := newFakeSource(map[string][]string{
		"a.prefab": {"b.mat", "c.png"},
		"b.mat":    {"d.shader"},
		"x.prefab": {"y.mat"}, // unreachable from the seed
	})
	r := NewResolver(assets)

	got, err := r.Resolve(context.Background(), []string{"a.prefab"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.prefab", "b.mat", "c.png", "d.shader"}, got)
	assert.NotContains(t, got, "y.mat")
}

func TestResolveCycleTermination(t *testing.T) {
	t.Parallel()

	assets := newFakeSource(map[string][]string{
		"a.prefab": {"b.prefab"},
		"b.prefab": {"a.prefab"},
	})
	r := NewResolver(assets)

	got, err := r.Resolve(context.Background(), []string{"a.prefab"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.prefab", "b.prefab"}, got)
	assert.Equal(t, 1, assets.queries("a.prefab"))
	assert.Equal(t, 1, assets.queries("b.prefab"))
}

func TestResolveSeedsDeduplicated(t *testing.T) {
	t.Parallel()

	assets := newFakeSource(map[string][]string{"a.prefab": nil})
	r := NewResolver(assets)

	got, err := r.Resolve(context.Background(), []string{"a.prefab", "a.prefab"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.prefab"}, got)
	assert.Equal(t, 1, assets.queries("a.prefab"))
}

func TestResolveWiderThanBatch(t *testing.T) {
	t.Parallel()

	graph := map[string][]string{}
	want := []string{"seed.prefab"}
	for i := range 100 {
		child := fmt.Sprintf("child%03d.mat", i)
		graph["seed.prefab"] = append(graph["seed.prefab"], child)
		want = append(want, child)
	}
	r := NewResolver(newFakeSource(graph), WithBatchSize(2))

	got, err := r.Resolve(context.Background(), []string{"seed.prefab"})
	require.NoError(t, err)
	assert.ElementsMatch(t, want, got)
}

func TestResolveScriptPassRunsOnce(t *testing.T) {
	t.Parallel()

	assets := newFakeSource(map[string][]string{
		"a.prefab": {"Main.cs"},
	})
	scripts := newFakeSource(map[string][]string{
		"Main.cs": {"Lib.cs"},
		"Lib.cs":  {"never.png"}, // must not be expanded
	})
	r := NewResolver(assets, WithScriptSource(scripts))

	got, err := r.Resolve(context.Background(), []string{"a.prefab"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.prefab", "Main.cs", "Lib.cs"}, got)

	// One flat pass: only the script files already in the asset closure
	// are consulted, and additions are never re-expanded.
	assert.Equal(t, 1, scripts.queries("Main.cs"))
	assert.Equal(t, 0, scripts.queries("Lib.cs"))
	assert.Equal(t, 0, scripts.queries("never.png"))
	assert.NotContains(t, got, "never.png")
}

func TestResolveScriptExtensionFilter(t *testing.T) {
	t.Parallel()

	assets := newFakeSource(map[string][]string{})
	scripts := newFakeSource(map[string][]string{})
	r := NewResolver(assets, WithScriptSource(scripts, ".lua"))

	got, err := r.Resolve(context.Background(), []string{"a.prefab", "init.LUA", "Main.cs"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.prefab", "init.LUA", "Main.cs"}, got)

	assert.Equal(t, 1, scripts.queries("init.LUA"))
	assert.Equal(t, 0, scripts.queries("Main.cs"))
	assert.Equal(t, 0, scripts.queries("a.prefab"))
}

func TestResolveEmptySeeds(t *testing.T) {
	t.Parallel()

	assets := newFakeSource(nil)
	r := NewResolver(assets)

	got, err := r.Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, assets.queried)
}

func TestResolveIsolatesSourceFailures(t *testing.T) {
	t.Parallel()

	assets := newFakeSource(map[string][]string{
		"a.prefab": {"b.mat"},
	})
	assets.errs = map[string]error{"broken.prefab": errors.New("unreadable")}

	rec := testutil.NewLogRecorder()
	r := NewResolver(assets, WithResolverLogger(rec.Logger()))

	got, err := r.Resolve(context.Background(), []string{"a.prefab", "broken.prefab"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.prefab", "b.mat", "broken.prefab"}, got)
	assert.True(t, rec.Has("resolve references failed"))
}

func TestResolveCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewResolver(newFakeSource(map[string][]string{"a.prefab": nil}))
	_, err := r.Resolve(ctx, []string{"a.prefab"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolveAgainstRealIndex(t *testing.T) {
	t.Parallel()

	root := testutil.WriteProject(t, map[string]string{
		"Assets/Prefabs/Player.prefab": "m_Material: {fileID: 2100000, guid: " + guidB + ", type: 2}\n",
		"Assets/Prefabs/Player.prefab.meta": testutil.Meta(guidA),
		"Assets/Materials/Player.mat":       "no further references\n",
		"Assets/Materials/Player.mat.meta":  testutil.Meta(guidB),
	})
	prefab := root + "/Assets/Prefabs/Player.prefab"
	mat := root + "/Assets/Materials/Player.mat"

	ix := NewIndex()
	require.NoError(t, ix.IndexFiles(context.Background(), []string{prefab, mat}))

	r := NewResolver(ix)
	got, err := r.Resolve(context.Background(), []string{prefab})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{prefab, mat}, got)
}
