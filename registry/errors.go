package registry

import "errors"

// Sentinel errors for client operations.
var (
	// ErrNotFound is returned when a package does not exist at the reference.
	ErrNotFound = errors.New("registry: not found")

	// ErrInvalidReference is returned when a reference string is malformed.
	ErrInvalidReference = errors.New("registry: invalid reference")

	// ErrManifestInvalid is returned when a manifest is not a valid package manifest.
	ErrManifestInvalid = errors.New("registry: invalid package manifest")

	// ErrMissingPackage is returned when the manifest does not contain a package layer.
	ErrMissingPackage = errors.New("registry: missing package layer")

	// ErrDigestMismatch is returned when content does not match its expected digest.
	ErrDigestMismatch = errors.New("registry: digest mismatch")

	// ErrSizeMismatch is returned when content does not match its expected size.
	ErrSizeMismatch = errors.New("registry: size mismatch")

	// ErrPolicyViolation is returned when a policy rejects a manifest.
	ErrPolicyViolation = errors.New("registry: policy violation")
)
