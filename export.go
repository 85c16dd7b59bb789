package upack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	upackcore "github.com/meigma/upack/core"
	"github.com/meigma/upack/internal/fileselect"
)

// ExportResult summarizes a completed export.
type ExportResult struct {
	// Assets is the number of assets written to the package.
	Assets int

	// Skipped is the number of closure members not written (duplicates,
	// directories, and assets whose add failed).
	Skipped int
}

// Export selects files under projectRoot, resolves the transitive closure
// of their references, and writes the closure to w as a package.
//
// By default every file under the root is selected; narrow the seed set
// with ExportWithPatterns and ExportWithExclude. Per-asset failures are
// logged and skipped rather than aborting the export; only
// infrastructure failures (context cancellation, stream errors) abort.
func Export(ctx context.Context, projectRoot string, w io.Writer, opts ...ExportOption) (*ExportResult, error) {
	cfg := exportConfig{
		includes: []string{"**"},
		level:    gzip.DefaultCompression,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.log()

	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}

	selected, err := fileselect.Select(root, cfg.includes, cfg.excludes)
	if err != nil {
		return nil, fmt.Errorf("select files: %w", err)
	}
	seeds := normalizeAssets(selected)
	logger.Debug("selected seed assets", "count", len(seeds))

	closure := seeds
	if !cfg.noDeps {
		closure, err = cfg.resolveClosure(ctx, root, seeds)
		if err != nil {
			return nil, err
		}
		logger.Debug("resolved closure", "seeds", len(seeds), "closure", len(closure))
	}

	writerOpts := []upackcore.WriterOption{
		upackcore.WithWriterLogger(logger),
		upackcore.WithCompressionLevel(cfg.level),
	}
	if cfg.rootFolder != "" {
		writerOpts = append(writerOpts, upackcore.WithRootFolder(cfg.rootFolder))
	}
	writer, err := upackcore.NewWriter(w, root, writerOpts...)
	if err != nil {
		return nil, err
	}

	written, err := writer.AddAssets(ctx, closure)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		// Per-asset failures are isolated; the export carries on with
		// whatever was written.
		logger.Warn("some assets were not packed", "error", err)
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	logger.Info("export complete", "assets", written, "skipped", len(closure)-written)
	return &ExportResult{
		Assets:  written,
		Skipped: len(closure) - written,
	}, nil
}

// resolveClosure builds (or loads) the index and expands seeds to the
// full dependency closure.
func (cfg *exportConfig) resolveClosure(ctx context.Context, root string, seeds []string) ([]string, error) {
	logger := cfg.log()

	all, err := fileselect.Select(root, []string{"**"}, nil)
	if err != nil {
		return nil, fmt.Errorf("scan project files: %w", err)
	}
	assets := normalizeAssets(all)

	index, err := cfg.loadOrBuildIndex(ctx, assets)
	if err != nil {
		return nil, err
	}

	resolverOpts := []upackcore.ResolverOption{
		upackcore.WithResolverLogger(logger),
	}
	if cfg.scriptSource != nil {
		if err := cfg.scriptSource.IndexFiles(ctx, assets); err != nil {
			return nil, fmt.Errorf("index script files: %w", err)
		}
		resolverOpts = append(resolverOpts, upackcore.WithScriptSource(cfg.scriptSource, cfg.scriptExts...))
	}

	resolver := upackcore.NewResolver(index, resolverOpts...)
	return resolver.Resolve(ctx, seeds)
}

// loadOrBuildIndex returns the asset index, loading a snapshot when one
// is configured and readable, and writing one back after a fresh build.
func (cfg *exportConfig) loadOrBuildIndex(ctx context.Context, assets []string) (*upackcore.Index, error) {
	logger := cfg.log()

	if cfg.snapshotPath != "" {
		f, err := os.Open(cfg.snapshotPath)
		if err == nil {
			index, readErr := upackcore.ReadIndexSnapshot(f, upackcore.WithIndexLogger(logger))
			f.Close()
			if readErr == nil {
				logger.Debug("loaded index snapshot", "path", cfg.snapshotPath, "entries", index.Len())
				return index, nil
			}
			logger.Warn("index snapshot unreadable, rebuilding", "path", cfg.snapshotPath, "error", readErr)
		} else if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("index snapshot unreadable, rebuilding", "path", cfg.snapshotPath, "error", err)
		}
	}

	index := upackcore.NewIndex(upackcore.WithIndexLogger(logger))
	if err := index.IndexFiles(ctx, assets); err != nil {
		return nil, err
	}

	if cfg.snapshotPath != "" {
		if err := writeSnapshotFile(index, cfg.snapshotPath); err != nil {
			// Snapshots only save time on the next run; failing to write
			// one never fails the export.
			logger.Warn("write index snapshot failed", "path", cfg.snapshotPath, "error", err)
		}
	}
	return index, nil
}

func writeSnapshotFile(index *upackcore.Index, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := index.WriteSnapshot(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// normalizeAssets strips metadata suffixes and de-duplicates, preserving
// first-seen order.
func normalizeAssets(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		asset := upackcore.AssetPath(p)
		if _, dup := seen[asset]; dup {
			continue
		}
		seen[asset] = struct{}{}
		out = append(out, asset)
	}
	return out
}

// log returns the configured logger or a discard fallback.
func (cfg *exportConfig) log() *slog.Logger {
	if cfg.logger != nil {
		return cfg.logger
	}
	return slog.New(slog.DiscardHandler)
}
