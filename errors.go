package upack

import (
	upackcore "github.com/meigma/upack/core"
	"github.com/meigma/upack/registry"
)

// Errors re-exported from core.
var (
	// ErrAssetNotFound is returned when an asset selected for packing
	// does not exist on disk.
	ErrAssetNotFound = upackcore.ErrAssetNotFound

	// ErrSnapshotVersion is returned when an index snapshot carries an
	// unsupported format version.
	ErrSnapshotVersion = upackcore.ErrSnapshotVersion
)

// Errors re-exported from registry.
var (
	// ErrNotFound is returned when a package does not exist at the reference.
	ErrNotFound = registry.ErrNotFound

	// ErrInvalidReference is returned when a reference string is malformed.
	ErrInvalidReference = registry.ErrInvalidReference

	// ErrManifestInvalid is returned when a manifest is not a valid package manifest.
	ErrManifestInvalid = registry.ErrManifestInvalid

	// ErrMissingPackage is returned when the manifest does not contain a package layer.
	ErrMissingPackage = registry.ErrMissingPackage

	// ErrDigestMismatch is returned when content does not match its expected digest.
	ErrDigestMismatch = registry.ErrDigestMismatch

	// ErrSizeMismatch is returned when content does not match its expected size.
	ErrSizeMismatch = registry.ErrSizeMismatch

	// ErrPolicyViolation is returned when a policy rejects a manifest.
	ErrPolicyViolation = registry.ErrPolicyViolation
)
