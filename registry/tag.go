package registry

import (
	"context"
	"fmt"
)

// Tag applies additional tags to the manifest ref already points at.
//
// The ref must resolve to an existing manifest (e.g., "registry.com/repo:v1"
// or a digest reference). Each tag is applied in order; the first failure
// aborts the remainder.
func (c *Client) Tag(ctx context.Context, ref string, tags ...string) error {
	parsedRef, err := parseClientRef(ref)
	if err != nil {
		return err
	}
	if parsedRef.reference == "" {
		return fmt.Errorf("%w: reference must include a tag or digest", ErrInvalidReference)
	}
	if len(tags) == 0 {
		return nil
	}

	desc, err := c.oci.Resolve(ctx, ref, parsedRef.reference)
	if err != nil {
		return mapOCIError(err)
	}

	for _, tag := range tags {
		if err := c.oci.Tag(ctx, ref, &desc, tag); err != nil {
			return fmt.Errorf("tag %q: %w", tag, mapOCIError(err))
		}
	}
	return nil
}
