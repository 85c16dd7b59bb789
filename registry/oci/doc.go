// Package oci provides a generic OCI client layer wrapping ORAS.
//
// Client provides package-agnostic operations for interacting with OCI
// registries, handling authentication and OCI 1.0/1.1 compatibility
// transparently.
package oci
