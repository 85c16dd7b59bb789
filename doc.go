// Package upack packages project file assets into portable, identifier-keyed
// archives and distributes them through OCI registries.
//
// Each asset is stored under its stable global identifier (GUID) together
// with its metadata sidecar and its project-relative path, and every file an
// exported asset transitively references is resolved and included. The
// resulting package is a gzip-compressed tar stream.
//
// This package provides a unified high-level API: [Export] and [Extract] for
// local packaging, [Decode] for reading existing packages, and [Client] for
// pushing and pulling packages to/from OCI registries. For the codec, index,
// and resolver layer without orchestration, use the [core] subpackage.
//
// # Quick Start
//
// Export a project to a package file:
//
//	f, err := os.Create("game.unitypackage")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//	res, err := upack.Export(ctx, "./MyProject", f,
//	    upack.ExportWithPatterns("Assets/Prefabs/**"),
//	)
//
// Extract a package back into a directory tree:
//
//	f, err := os.Open("game.unitypackage")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//	res, err := upack.Extract(ctx, f, "./restored")
//
// # Registry Distribution
//
// Push a project straight to a registry and pull it back:
//
//	c, err := upack.NewClient(upack.WithDockerConfig())
//	if err != nil {
//	    return err
//	}
//	_, err = c.Push(ctx, "ghcr.io/myorg/game:v1", "./MyProject")
//	entries, err := c.Pull(ctx, "ghcr.io/myorg/game:v1")
//
// # Dependency Resolution
//
// Exports resolve the transitive closure of asset references by scanning
// metadata GUIDs. Script files can be routed through a second reference
// source via [ExportWithScriptSource]. Use [ExportWithoutDependencies] to
// pack only the selected files.
package upack
