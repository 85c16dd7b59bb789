package registry

import (
	"context"
	"fmt"
)

// Policy evaluates whether a pulled manifest is trusted.
//
// Policies run after a manifest is fetched and validated but before it is
// returned to the caller. A policy failure surfaces as ErrPolicyViolation.
type Policy interface {
	// Name identifies the policy in logs and error messages.
	Name() string

	// Evaluate returns an error to reject the manifest.
	Evaluate(ctx context.Context, req *PolicyRequest) error
}

// PolicyRequest provides context for policy evaluation.
type PolicyRequest struct {
	Ref      string
	Digest   string
	Manifest *PackageManifest
}

func (c *Client) evaluatePolicies(ctx context.Context, ref, digest string, manifest *PackageManifest) error {
	if len(c.policies) == 0 {
		return nil
	}

	c.log().Debug("evaluating policies", "ref", ref, "policy_count", len(c.policies))

	req := &PolicyRequest{
		Ref:      ref,
		Digest:   digest,
		Manifest: manifest,
	}

	for _, policy := range c.policies {
		if err := policy.Evaluate(ctx, req); err != nil {
			c.log().Warn("policy evaluation failed",
				"policy", policy.Name(),
				"error", err.Error(),
			)
			return fmt.Errorf("%w: %s: %v", ErrPolicyViolation, policy.Name(), err)
		}
	}

	return nil
}
