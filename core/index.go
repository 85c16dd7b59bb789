package upack

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

var _ Source = (*Index)(nil)

// Index is the project-wide bidirectional mapping between identifiers and
// files, built from metadata sidecars.
//
// An Index has two phases. During IndexFiles the tables accept concurrent
// writers under an internal lock. Afterwards the tables are read-only and
// every lookup is lock-free; this ordering is what makes concurrent
// resolution safe. Indexing again after lookups have begun is not
// supported.
type Index struct {
	mu     sync.Mutex
	files  map[Ref]string
	refs   map[GUID]Ref
	logger *slog.Logger
}

// NewIndex returns an empty Index.
func NewIndex(opts ...IndexOption) *Index {
	ix := &Index{
		files: make(map[Ref]string),
		refs:  make(map[GUID]Ref),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

func (ix *Index) log() *slog.Logger {
	if ix.logger != nil {
		return ix.logger
	}
	return slog.New(slog.DiscardHandler)
}

// IndexFile records the identifier of the asset at path, resolving the
// metadata sidecar by the fixed suffix convention. The path may name
// either the asset or its sidecar. An absent sidecar records an identity
// without a GUID rather than failing.
func (ix *Index) IndexFile(path string) error {
	asset := AssetPath(path)
	ref, err := ScanFileGUID(MetaPath(asset))
	if err != nil {
		return err
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.files[ref] = asset
	if !ref.GUID.IsZero() {
		ix.refs[ref.GUID] = ref
	}
	return nil
}

// IndexFiles runs IndexFile over every path concurrently. Order is
// unspecified and parallelism is bounded by the number of CPUs. A failure
// reading one file is logged and isolated so the rest of the batch still
// indexes; only context cancellation aborts the run.
func (ix *Index) IndexFiles(ctx context.Context, paths []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := ix.IndexFile(path); err != nil {
				ix.log().Warn("index file failed", "path", path, "error", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("index files: %w", err)
	}
	return nil
}

// DirectRefs scans the asset at path for identifier references and
// resolves each through the index. Dangling and external references are
// silently dropped, and the result is de-duplicated. Valid only after
// IndexFiles has completed.
func (ix *Index) DirectRefs(_ context.Context, path string) ([]string, error) {
	refs, err := ScanFileRefs(path)
	if err != nil {
		return nil, err
	}

	var out []string
	seen := make(map[string]struct{}, len(refs))
	for _, r := range refs {
		if r.GUID.IsZero() {
			continue
		}
		owner, ok := ix.refs[r.GUID]
		if !ok {
			continue
		}
		resolved, ok := ix.files[owner]
		if !ok {
			continue
		}
		if _, dup := seen[resolved]; dup {
			continue
		}
		seen[resolved] = struct{}{}
		out = append(out, resolved)
	}
	return out, nil
}

// Lookup returns the ref that declared g.
func (ix *Index) Lookup(g GUID) (Ref, bool) {
	ref, ok := ix.refs[g]
	return ref, ok
}

// File returns the asset path recorded for ref.
func (ix *Index) File(ref Ref) (string, bool) {
	path, ok := ix.files[ref]
	return path, ok
}

// Len returns the number of index records.
func (ix *Index) Len() int { return len(ix.files) }
