package oci

import "errors"

// Sentinel errors for low-level OCI operations.
var (
	// ErrNotFound is returned when a blob, manifest, or reference does not exist.
	ErrNotFound = errors.New("oci: not found")

	// ErrInvalidReference is returned when a reference string is malformed.
	ErrInvalidReference = errors.New("oci: invalid reference")

	// ErrInvalidDescriptor is returned when a descriptor is missing required fields.
	ErrInvalidDescriptor = errors.New("oci: invalid descriptor")

	// ErrManifestInvalid is returned when a manifest cannot be serialized or parsed.
	ErrManifestInvalid = errors.New("oci: invalid manifest")

	// ErrUnauthorized is returned when the registry rejects the credentials.
	ErrUnauthorized = errors.New("oci: unauthorized")

	// ErrForbidden is returned when the registry denies access.
	ErrForbidden = errors.New("oci: forbidden")
)
