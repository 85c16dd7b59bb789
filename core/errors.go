package upack

import "errors"

var (
	// ErrAssetNotFound is returned when an asset selected for packing
	// does not exist on disk.
	ErrAssetNotFound = errors.New("upack: asset not found")

	// ErrSnapshotVersion is returned when an index snapshot carries an
	// unsupported format version.
	ErrSnapshotVersion = errors.New("upack: unsupported snapshot version")
)
