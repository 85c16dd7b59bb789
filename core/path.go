package upack

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MetaSuffix is the extension of an asset's metadata sidecar file.
const MetaSuffix = ".meta"

// DefaultRootFolder is the top-level folder name archive paths are rooted at.
const DefaultRootFolder = "Assets"

// IsMetaPath reports whether path names a metadata sidecar.
func IsMetaPath(path string) bool {
	return strings.HasSuffix(path, MetaSuffix)
}

// MetaPath returns the metadata sidecar path for an asset. A path that
// already names a sidecar is returned unchanged.
func MetaPath(path string) string {
	if IsMetaPath(path) {
		return path
	}
	return path + MetaSuffix
}

// AssetPath returns the asset path for a metadata sidecar. A path that
// already names an asset is returned unchanged.
func AssetPath(path string) string {
	return strings.TrimSuffix(path, MetaSuffix)
}

// ArchivePath converts an absolute asset path into the forward-slash,
// project-relative form stored in a package's pathname entries, rooted at
// folder regardless of the host separator convention.
func ArchivePath(root, path, folder string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", fmt.Errorf("relativize %s: %w", path, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return "", fmt.Errorf("asset %s is the project root", path)
	}
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("asset %s escapes project root %s", path, root)
	}
	if rel != folder && !strings.HasPrefix(rel, folder+"/") {
		rel = folder + "/" + rel
	}
	return rel, nil
}
