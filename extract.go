package upack

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	upackcore "github.com/meigma/upack/core"
)

// Decode reads a package stream and returns one Entry per asset folder,
// keyed by the folder name (the asset's GUID in a well-formed package).
func Decode(r io.Reader, opts ...ReadOption) (map[string]*Entry, error) {
	return upackcore.Decode(r, opts...)
}

// ExtractResult summarizes a completed extraction.
type ExtractResult struct {
	// Files is the number of assets written to disk.
	Files int

	// Skipped is the number of package entries without a usable path.
	Skipped int
}

// Extract decodes the package stream r and writes each asset and its
// metadata sidecar under dir at the entry's recorded relative path.
//
// All writes are confined to dir: hostile pathname entries cannot escape
// it. Entries without a pathname are counted skipped and warned about.
func Extract(ctx context.Context, r io.Reader, dir string, opts ...ExtractOption) (*ExtractResult, error) {
	cfg := extractConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	entries, err := upackcore.Decode(r, upackcore.WithReadLogger(logger))
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create extract dir: %w", err)
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("open extract dir: %w", err)
	}
	defer root.Close()

	var (
		written atomic.Int64
		skipped atomic.Int64
	)
	g, gctx := errgroup.WithContext(ctx)
	if cfg.workers > 0 {
		g.SetLimit(cfg.workers)
	}
	for guid, entry := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if entry.Path == "" || !validEntryPath(entry.Path) {
				logger.Warn("entry has no usable path, skipping", "guid", guid, "path", entry.Path)
				skipped.Add(1)
				return nil
			}
			if err := writeEntry(root, entry); err != nil {
				return fmt.Errorf("extract %s: %w", entry.Path, err)
			}
			written.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("extract complete", "files", written.Load(), "skipped", skipped.Load())
	return &ExtractResult{
		Files:   int(written.Load()),
		Skipped: int(skipped.Load()),
	}, nil
}

// validEntryPath rejects absolute and escaping pathname values before
// they reach the filesystem root.
func validEntryPath(p string) bool {
	if path.IsAbs(p) {
		return false
	}
	clean := path.Clean(p)
	return clean != ".." && !hasDotDotPrefix(clean)
}

func hasDotDotPrefix(p string) bool {
	return len(p) >= 3 && p[:3] == "../"
}

// writeEntry writes one asset and, when present, its metadata sidecar.
// os.Root confines every operation to the extraction directory.
func writeEntry(root *os.Root, entry *Entry) error {
	if parent := path.Dir(entry.Path); parent != "." {
		if err := root.MkdirAll(parent, 0o755); err != nil {
			return err
		}
	}
	if err := writeRootFile(root, entry.Path, entry.Content); err != nil {
		return err
	}
	if entry.Meta != nil {
		if err := writeRootFile(root, entry.Path+upackcore.MetaSuffix, entry.Meta); err != nil {
			return err
		}
	}
	return nil
}

func writeRootFile(root *os.Root, rel string, data []byte) error {
	f, err := root.Create(rel)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
