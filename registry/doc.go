// Package registry provides a high-level client for pushing and pulling
// asset packages to/from OCI registries.
//
// The client uses the oci subpackage for low-level OCI operations and
// adds package-specific functionality like manifest validation, ref and
// manifest caching, and pull-policy enforcement.
package registry
