package upack

import (
	"log/slog"

	upackcore "github.com/meigma/upack/core"
)

// ExportOption configures an Export call.
type ExportOption func(*exportConfig)

type exportConfig struct {
	includes     []string
	excludes     []string
	noDeps       bool
	scriptSource upackcore.Source
	scriptExts   []string
	rootFolder   string
	level        int
	snapshotPath string
	logger       *slog.Logger
}

// ExportWithPatterns sets the include glob patterns selecting the seed
// files. The default selects every file under the project root.
func ExportWithPatterns(patterns ...string) ExportOption {
	return func(cfg *exportConfig) {
		if len(patterns) > 0 {
			cfg.includes = patterns
		}
	}
}

// ExportWithExclude adds exclude glob patterns. A file matching any
// exclude is never used as a seed.
func ExportWithExclude(patterns ...string) ExportOption {
	return func(cfg *exportConfig) {
		cfg.excludes = append(cfg.excludes, patterns...)
	}
}

// ExportWithoutDependencies packs only the selected files, skipping
// reference resolution entirely.
func ExportWithoutDependencies() ExportOption {
	return func(cfg *exportConfig) {
		cfg.noDeps = true
	}
}

// ExportWithScriptSource routes files with the given extensions through a
// second reference source after the asset closure settles. With no
// extensions the default script set applies.
func ExportWithScriptSource(s upackcore.Source, exts ...string) ExportOption {
	return func(cfg *exportConfig) {
		cfg.scriptSource = s
		cfg.scriptExts = exts
	}
}

// ExportWithRootFolder overrides the top-level folder name recorded in
// pathname entries. The default is "Assets".
func ExportWithRootFolder(name string) ExportOption {
	return func(cfg *exportConfig) {
		cfg.rootFolder = name
	}
}

// ExportWithCompressionLevel sets the gzip compression level.
func ExportWithCompressionLevel(level int) ExportOption {
	return func(cfg *exportConfig) {
		cfg.level = level
	}
}

// ExportWithIndexSnapshot caches the asset index at path: an existing
// readable snapshot skips the scan phase, and a fresh build writes one
// back. Staleness relative to the tree is the caller's concern.
func ExportWithIndexSnapshot(path string) ExportOption {
	return func(cfg *exportConfig) {
		cfg.snapshotPath = path
	}
}

// ExportWithLogger sets the logger for the export run.
func ExportWithLogger(logger *slog.Logger) ExportOption {
	return func(cfg *exportConfig) {
		cfg.logger = logger
	}
}
