// Package upack implements the identifier-keyed asset package format:
// scanning metadata sidecars for GUIDs, resolving transitive reference
// closures, and encoding or decoding gzip tar packages where each asset
// occupies an asset/asset.meta/pathname entry triple under its GUID.
//
// This package is the codec and resolver layer. The root package layers
// project orchestration and registry distribution on top of it.
package upack
