package upack

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/sync/errgroup"
)

// Writer serializes assets into the identifier-keyed package format: a
// gzip-compressed tar stream where each asset occupies three contiguous
// entries under a folder named by its GUID.
//
// AddAsset may be called from many goroutines. Metadata reads, identifier
// resolution, and content reads run without any lock; only the
// three-entry write sequence is serialized, because the tar stream is an
// ordered, non-reentrant medium where interleaved writers would corrupt
// the archive.
type Writer struct {
	mu     sync.Mutex
	gz     *gzip.Writer
	tw     *tar.Writer
	root   string
	folder string
	seen   sync.Map
	logger *slog.Logger
}

// assetEntry carries everything writeAsset needs, assembled outside the
// writer lock.
type assetEntry struct {
	guid     GUID
	content  []byte
	meta     []byte
	relPath  string
	modTime  time.Time
	metaTime time.Time
}

// NewWriter returns a Writer emitting the package to w. projectRoot
// anchors the relative paths recorded in pathname entries.
func NewWriter(w io.Writer, projectRoot string, opts ...WriterOption) (*Writer, error) {
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}

	cfg := writerConfig{
		folder: DefaultRootFolder,
		level:  gzip.DefaultCompression,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	gz, err := gzip.NewWriterLevel(w, cfg.level)
	if err != nil {
		return nil, fmt.Errorf("create gzip writer: %w", err)
	}
	return &Writer{
		gz:     gz,
		tw:     tar.NewWriter(gz),
		root:   root,
		folder: cfg.folder,
		logger: cfg.logger,
	}, nil
}

func (w *Writer) log() *slog.Logger {
	if w.logger != nil {
		return w.logger
	}
	return slog.New(slog.DiscardHandler)
}

// AddAsset packs the asset at path, which may name the asset or its
// metadata sidecar. It reports whether the asset was written: duplicate
// adds and directories return (false, nil). A missing asset file fails
// with ErrAssetNotFound. A missing sidecar is synthesized with a fresh
// identifier, so an export never fails on absent metadata alone.
func (w *Writer) AddAsset(path string) (bool, error) {
	abs, err := filepath.Abs(AssetPath(path))
	if err != nil {
		return false, fmt.Errorf("resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("%w: %s", ErrAssetNotFound, abs)
		}
		return false, fmt.Errorf("stat %s: %w", abs, err)
	}
	if info.IsDir() {
		w.log().Warn("skipping directory", "path", abs)
		return false, nil
	}

	if _, loaded := w.seen.LoadOrStore(abs, struct{}{}); loaded {
		return false, nil
	}

	entry, err := w.processAsset(abs, info)
	if err != nil {
		return false, err
	}
	if err := w.writeAsset(entry); err != nil {
		return false, err
	}
	return true, nil
}

// AddAssets fans AddAsset out over paths concurrently. Inter-asset order
// in the stream is unspecified; each asset's three entries stay
// contiguous. Per-asset failures are collected and joined rather than
// aborting the remaining adds. Returns the number of assets written.
func (w *Writer) AddAssets(ctx context.Context, paths []string) (int, error) {
	var (
		written atomic.Int64
		mu      sync.Mutex
		errs    []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ok, err := w.AddAsset(path)
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return nil
			}
			if ok {
				written.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(written.Load()), fmt.Errorf("add assets: %w", err)
	}
	return int(written.Load()), errors.Join(errs...)
}

// Close flushes and closes the tar and gzip layers. It does not close
// the underlying writer.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.tw.Close(); err != nil {
		return fmt.Errorf("close tar stream: %w", err)
	}
	if err := w.gz.Close(); err != nil {
		return fmt.Errorf("close gzip stream: %w", err)
	}
	return nil
}

// processAsset assembles an asset's entry triple without touching the
// write stream.
func (w *Writer) processAsset(abs string, info fs.FileInfo) (*assetEntry, error) {
	entry := &assetEntry{modTime: info.ModTime()}

	if err := w.resolveMeta(abs, entry); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", abs, err)
	}
	entry.content = content

	relPath, err := ArchivePath(w.root, abs, w.folder)
	if err != nil {
		return nil, err
	}
	entry.relPath = relPath
	return entry, nil
}

// resolveMeta loads the sidecar for the asset at abs, synthesizing a
// minimal one with a fresh identifier when the sidecar is missing. A
// sidecar present without a guid line keeps its raw bytes and likewise
// gets a fresh identifier.
func (w *Writer) resolveMeta(abs string, entry *assetEntry) error {
	metaPath := MetaPath(abs)
	body, err := os.ReadFile(metaPath)
	if errors.Is(err, fs.ErrNotExist) {
		entry.guid = NewGUID()
		entry.meta = []byte("guid: " + entry.guid.String() + "\n")
		entry.metaTime = entry.modTime
		w.log().Warn("metadata missing, synthesized identifier", "asset", abs, "guid", entry.guid)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read metadata %s: %w", metaPath, err)
	}

	entry.meta = body
	entry.metaTime = entry.modTime
	if info, err := os.Stat(metaPath); err == nil {
		entry.metaTime = info.ModTime()
	}

	ref, err := ScanGUID(bytes.NewReader(body))
	if err != nil {
		return err
	}
	entry.guid = ref.GUID
	if entry.guid.IsZero() {
		entry.guid = NewGUID()
		w.log().Warn("metadata has no identifier, synthesized one", "asset", abs, "guid", entry.guid)
	}
	return nil
}

// writeAsset emits the three-entry sequence for one asset. This is the
// only section that touches the stream, and it runs under the writer
// mutex in full.
func (w *Writer) writeAsset(entry *assetEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	folder := entry.guid.String()
	if err := w.writeEntry(folder+"/asset", entry.content, entry.modTime); err != nil {
		return err
	}
	if err := w.writeEntry(folder+"/asset.meta", entry.meta, entry.metaTime); err != nil {
		return err
	}
	return w.writeEntry(folder+"/pathname", []byte(entry.relPath), entry.modTime)
}

func (w *Writer) writeEntry(name string, body []byte, modTime time.Time) error {
	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Size:     int64(len(body)),
		Mode:     0o644,
		ModTime:  modTime,
	}
	if err := w.tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write header %s: %w", name, err)
	}
	if _, err := w.tw.Write(body); err != nil {
		return fmt.Errorf("write entry %s: %w", name, err)
	}
	return nil
}
