package upack

import (
	upackcore "github.com/meigma/upack/core"
)

// --- Re-exports from core ---

// GUID is the stable global identifier of an asset.
type GUID = upackcore.GUID

// Ref is one identifier reference as it appears in asset text.
type Ref = upackcore.Ref

// Entry is one decoded asset: path, metadata bytes, and content bytes.
type Entry = upackcore.Entry

// Index is the project-wide bidirectional identifier-to-file mapping.
type Index = upackcore.Index

// Resolver computes transitive reference closures over a seed file set.
type Resolver = upackcore.Resolver

// Source maps files to the other files they directly reference.
type Source = upackcore.Source

// Writer serializes assets into the identifier-keyed package format.
type Writer = upackcore.Writer

// Option types re-exported from core.
type (
	IndexOption    = upackcore.IndexOption
	ResolverOption = upackcore.ResolverOption
	WriterOption   = upackcore.WriterOption
	ReadOption     = upackcore.ReadOption
)

// NewGUID returns a freshly generated, non-zero GUID.
var NewGUID = upackcore.NewGUID

// Constructors re-exported from core.
var (
	NewIndex    = upackcore.NewIndex
	NewResolver = upackcore.NewResolver
	NewWriter   = upackcore.NewWriter
)

// Core options re-exported for use with the constructors above.
var (
	WithIndexLogger      = upackcore.WithIndexLogger
	WithScriptSource     = upackcore.WithScriptSource
	WithBatchSize        = upackcore.WithBatchSize
	WithResolverLogger   = upackcore.WithResolverLogger
	WithRootFolder       = upackcore.WithRootFolder
	WithCompressionLevel = upackcore.WithCompressionLevel
	WithWriterLogger     = upackcore.WithWriterLogger
	WithReadLogger       = upackcore.WithReadLogger
)

// ReadIndexSnapshot rebuilds an Index from a serialized snapshot.
var ReadIndexSnapshot = upackcore.ReadIndexSnapshot

// DefaultRootFolder is the top-level folder name package paths are rooted at.
const DefaultRootFolder = upackcore.DefaultRootFolder

// MetaSuffix is the extension of an asset's metadata sidecar file.
const MetaSuffix = upackcore.MetaSuffix
