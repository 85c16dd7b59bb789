package upack_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/upack"
	"github.com/meigma/upack/internal/testutil"
)

var (
	guidPrefab   = strings.Repeat("b", 30) + "02"
	guidMaterial = strings.Repeat("a", 30) + "01"
	guidOther    = strings.Repeat("c", 30) + "03"
)

// playerProject is a minimal project: a prefab referencing a material,
// plus an unrelated asset that must never ride along.
func playerProject(t *testing.T) string {
	t.Helper()

	return testutil.WriteProject(t, map[string]string{
		"Assets/Prefabs/Player.prefab":      "Prefab:\n" + testutil.RefLine(2100000, guidMaterial),
		"Assets/Prefabs/Player.prefab.meta": testutil.Meta(guidPrefab),
		"Assets/Materials/Player.mat":       "Material:\n  m_Name: Player\n",
		"Assets/Materials/Player.mat.meta":  testutil.Meta(guidMaterial),
		"Assets/Other/Unrelated.txt":        "nothing references this\n",
		"Assets/Other/Unrelated.txt.meta":   testutil.Meta(guidOther),
	})
}

// crlf rewrites bare line feeds the way package decoding does.
func crlf(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\n", "\r\n")
}

func TestExport_ResolvesDependencies(t *testing.T) {
	t.Parallel()

	root := playerProject(t)
	var buf bytes.Buffer

	res, err := upack.Export(context.Background(), root, &buf,
		upack.ExportWithPatterns("Assets/Prefabs/**"),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Assets)
	assert.Equal(t, 0, res.Skipped)

	entries, err := upack.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	prefab, ok := entries[guidPrefab]
	require.True(t, ok, "prefab entry missing")
	assert.Equal(t, "Assets/Prefabs/Player.prefab", prefab.Path)
	assert.Contains(t, string(prefab.Meta), "guid: "+guidPrefab)

	material, ok := entries[guidMaterial]
	require.True(t, ok, "referenced material must be included")
	assert.Equal(t, "Assets/Materials/Player.mat", material.Path)
	assert.Equal(t, crlf("Material:\n  m_Name: Player\n"), string(material.Content))

	_, ok = entries[guidOther]
	assert.False(t, ok, "unreferenced asset must not be included")
}

func TestExport_WithoutDependencies(t *testing.T) {
	t.Parallel()

	root := playerProject(t)
	var buf bytes.Buffer

	res, err := upack.Export(context.Background(), root, &buf,
		upack.ExportWithPatterns("Assets/Prefabs/**"),
		upack.ExportWithoutDependencies(),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Assets)

	entries, err := upack.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	_, ok := entries[guidPrefab]
	assert.True(t, ok)
}

func TestExport_ExcludePatterns(t *testing.T) {
	t.Parallel()

	root := playerProject(t)
	var buf bytes.Buffer

	res, err := upack.Export(context.Background(), root, &buf,
		upack.ExportWithPatterns("Assets/**"),
		upack.ExportWithExclude("Assets/Other/**"),
		upack.ExportWithoutDependencies(),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Assets)

	entries, err := upack.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	_, ok := entries[guidOther]
	assert.False(t, ok)
}

func TestExport_MissingMetadataSynthesized(t *testing.T) {
	t.Parallel()

	root := testutil.WriteProject(t, map[string]string{
		"Assets/loose.txt": "no sidecar here\n",
	})
	rec := testutil.NewLogRecorder()

	var buf bytes.Buffer
	res, err := upack.Export(context.Background(), root, &buf,
		upack.ExportWithLogger(rec.Logger()),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Assets)
	assert.True(t, rec.Has("metadata missing"), "expected a synthesized-metadata warning")

	entries, err := upack.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	for guid, entry := range entries {
		assert.Len(t, guid, 32)
		assert.Contains(t, string(entry.Meta), "guid: "+guid)
		assert.Equal(t, "Assets/loose.txt", entry.Path)
	}
}

func TestExport_IndexSnapshotReused(t *testing.T) {
	t.Parallel()

	root := playerProject(t)
	snapshot := filepath.Join(t.TempDir(), "index.snapshot")

	var first bytes.Buffer
	_, err := upack.Export(context.Background(), root, &first,
		upack.ExportWithPatterns("Assets/Prefabs/**"),
		upack.ExportWithIndexSnapshot(snapshot),
	)
	require.NoError(t, err)
	require.FileExists(t, snapshot)

	// Second export loads the snapshot instead of rescanning and must
	// produce the same closure.
	var second bytes.Buffer
	res, err := upack.Export(context.Background(), root, &second,
		upack.ExportWithPatterns("Assets/Prefabs/**"),
		upack.ExportWithIndexSnapshot(snapshot),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Assets)

	entries, err := upack.Decode(bytes.NewReader(second.Bytes()))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

// mapSource resolves script references from a fixed table.
type mapSource struct {
	refs map[string][]string
}

func (s *mapSource) IndexFiles(context.Context, []string) error { return nil }

func (s *mapSource) DirectRefs(_ context.Context, path string) ([]string, error) {
	return s.refs[path], nil
}

func TestExport_ScriptSource(t *testing.T) {
	t.Parallel()

	root := testutil.WriteProject(t, map[string]string{
		"Assets/Scripts/Player.cs":      "class Player {}\n",
		"Assets/Scripts/Player.cs.meta": testutil.Meta(guidPrefab),
		"Assets/Data/config.json":       "{}\n",
		"Assets/Data/config.json.meta":  testutil.Meta(guidOther),
	})

	script := &mapSource{refs: map[string][]string{
		filepath.Join(root, "Assets/Scripts/Player.cs"): {
			filepath.Join(root, "Assets/Data/config.json"),
		},
	}}

	var buf bytes.Buffer
	res, err := upack.Export(context.Background(), root, &buf,
		upack.ExportWithPatterns("Assets/Scripts/**"),
		upack.ExportWithScriptSource(script),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Assets)

	entries, err := upack.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	_, ok := entries[guidOther]
	assert.True(t, ok, "script-referenced file must be included")
}
