package upack

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meigma/upack/internal/testutil"
)

func writeBenchFile(b *testing.B, root, rel, content string) {
	b.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(b, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(b, os.WriteFile(path, []byte(content), 0o644))
}

// benchGUID derives a stable 32-hex identifier from n.
func benchGUID(n int) string {
	return fmt.Sprintf("%032x", n+1)
}

// benchProject writes count assets where each references the next,
// forming one long dependency chain.
func benchProject(b *testing.B, count int) (string, []string) {
	b.Helper()

	files := make(map[string]string, count*2)
	for i := 0; i < count; i++ {
		rel := fmt.Sprintf("Assets/asset_%04d.prefab", i)
		var body strings.Builder
		body.WriteString("Prefab:\n")
		if i+1 < count {
			body.WriteString(testutil.RefLine(int64(100+i), benchGUID(i+1)))
		}
		files[rel] = body.String()
		files[rel+MetaSuffix] = testutil.Meta(benchGUID(i))
	}
	root := b.TempDir()
	for rel, content := range files {
		writeBenchFile(b, root, rel, content)
	}

	paths := make([]string, count)
	for i := 0; i < count; i++ {
		paths[i] = filepath.Join(root, fmt.Sprintf("Assets/asset_%04d.prefab", i))
	}
	return root, paths
}

func BenchmarkScanRefs(b *testing.B) {
	var body strings.Builder
	for i := 0; i < 200; i++ {
		body.WriteString("  m_SomeField: plain line without references\n")
		if i%10 == 0 {
			body.WriteString(testutil.RefLine(int64(i), benchGUID(i)))
		}
	}
	data := body.String()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		refs, err := ScanRefs(strings.NewReader(data))
		if err != nil {
			b.Fatal(err)
		}
		if len(refs) != 20 {
			b.Fatalf("expected 20 refs, got %d", len(refs))
		}
	}
}

func BenchmarkIndexFiles(b *testing.B) {
	_, paths := benchProject(b, 200)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ix := NewIndex()
		if err := ix.IndexFiles(ctx, paths); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkResolve(b *testing.B) {
	_, paths := benchProject(b, 200)
	ctx := context.Background()

	ix := NewIndex()
	require.NoError(b, ix.IndexFiles(ctx, paths))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		resolver := NewResolver(ix)
		closure, err := resolver.Resolve(ctx, paths[:1])
		if err != nil {
			b.Fatal(err)
		}
		if len(closure) != len(paths) {
			b.Fatalf("expected %d assets in closure, got %d", len(paths), len(closure))
		}
	}
}

func BenchmarkWriterAddAssets(b *testing.B) {
	root, paths := benchProject(b, 100)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w, err := NewWriter(io.Discard, root)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := w.AddAssets(ctx, paths); err != nil {
			b.Fatal(err)
		}
		if err := w.Close(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	root, paths := benchProject(b, 100)

	var buf bytes.Buffer
	w, err := NewWriter(&buf, root)
	require.NoError(b, err)
	_, err = w.AddAssets(context.Background(), paths)
	require.NoError(b, err)
	require.NoError(b, w.Close())
	data := buf.Bytes()
	b.SetBytes(int64(len(data)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		entries, err := Decode(bytes.NewReader(data))
		if err != nil {
			b.Fatal(err)
		}
		if len(entries) != len(paths) {
			b.Fatalf("expected %d entries, got %d", len(paths), len(entries))
		}
	}
}
