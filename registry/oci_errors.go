package registry

import (
	"errors"
	"fmt"

	"github.com/meigma/upack/registry/oci"
)

// mapOCIError translates low-level OCI errors to client-level sentinel errors.
func mapOCIError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if errors.Is(err, oci.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if errors.Is(err, oci.ErrInvalidReference) {
		return fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}
	return err
}
