package upack

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Source maps files to the other files they directly reference. The
// asset implementation is Index; a second implementation may resolve
// references out of script files with its own matching strategy.
type Source interface {
	// IndexFiles prepares the source by examining the given files. It is
	// called once, before any DirectRefs call.
	IndexFiles(ctx context.Context, paths []string) error

	// DirectRefs returns the resolved paths of the files that path
	// directly references. Unresolvable references are dropped rather
	// than reported as errors.
	DirectRefs(ctx context.Context, path string) ([]string, error)
}

// defaultBatchSize bounds how many pending files one resolution round
// processes in parallel.
const defaultBatchSize = 32

// defaultScriptExts are the extensions routed to the script source.
var defaultScriptExts = []string{".cs", ".js", ".boo"}

// Resolver computes the transitive closure of files reachable from a
// seed set by following direct references.
//
// Assets expand breadth-first in bounded batches. Script files get one
// additional flat pass through the script source after the asset closure
// settles; paths it contributes are unioned in without further
// expansion, which bounds script analysis to a single round regardless
// of graph depth.
type Resolver struct {
	assets     Source
	scripts    Source
	scriptExts map[string]struct{}
	batchSize  int
	logger     *slog.Logger
}

// NewResolver returns a Resolver reading references from assets.
func NewResolver(assets Source, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		assets:    assets,
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.New(slog.DiscardHandler)
}

// Resolve returns the sorted closure reachable from seeds.
//
// Membership in the shared visited set is the sole deduplication gate: a
// path already present is never re-enqueued or re-processed, which also
// terminates reference cycles. One batch runs fully in parallel, but the
// next batch does not start until every insertion from the current one
// has landed. Per-file source failures are logged and isolated; only
// context cancellation aborts the run.
func (r *Resolver) Resolve(ctx context.Context, seeds []string) ([]string, error) {
	var (
		visited sync.Map
		queue   []string
		closure []string
	)
	add := func(path string) bool {
		_, loaded := visited.LoadOrStore(path, struct{}{})
		return !loaded
	}

	for _, seed := range seeds {
		if add(seed) {
			queue = append(queue, seed)
			closure = append(closure, seed)
		}
	}

	for len(queue) > 0 {
		batch := queue
		if len(batch) > r.batchSize {
			batch = batch[:r.batchSize]
		}
		queue = queue[len(batch):]

		found := make([][]string, len(batch))
		g, gctx := errgroup.WithContext(ctx)
		for i, path := range batch {
			g.Go(func() error {
				refs, err := r.assets.DirectRefs(gctx, path)
				if err != nil {
					r.log().Warn("resolve references failed", "path", path, "error", err)
					return gctx.Err()
				}
				var fresh []string
				for _, ref := range refs {
					if add(ref) {
						fresh = append(fresh, ref)
					}
				}
				found[i] = fresh
				return gctx.Err()
			})
		}
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("resolve closure: %w", err)
		}

		for _, fresh := range found {
			queue = append(queue, fresh...)
			closure = append(closure, fresh...)
		}
	}

	if r.scripts != nil {
		extra, err := r.scriptPass(ctx, closure, add)
		if err != nil {
			return nil, err
		}
		closure = append(closure, extra...)
	}

	slices.Sort(closure)
	return closure, nil
}

// scriptPass runs the script source once over the script-file subset of
// the closure, returning newly discovered paths without expanding them.
func (r *Resolver) scriptPass(ctx context.Context, closure []string, add func(string) bool) ([]string, error) {
	var scripts []string
	for _, path := range closure {
		if r.isScript(path) {
			scripts = append(scripts, path)
		}
	}
	if len(scripts) == 0 {
		return nil, nil
	}

	found := make([][]string, len(scripts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.batchSize)
	for i, path := range scripts {
		g.Go(func() error {
			refs, err := r.scripts.DirectRefs(gctx, path)
			if err != nil {
				r.log().Warn("resolve script references failed", "path", path, "error", err)
				return gctx.Err()
			}
			var fresh []string
			for _, ref := range refs {
				if add(ref) {
					fresh = append(fresh, ref)
				}
			}
			found[i] = fresh
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolve script references: %w", err)
	}

	var extra []string
	for _, fresh := range found {
		extra = append(extra, fresh...)
	}
	return extra, nil
}

func (r *Resolver) isScript(path string) bool {
	_, ok := r.scriptExts[strings.ToLower(filepath.Ext(path))]
	return ok
}
