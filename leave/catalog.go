package leave

import (
	"context"
	"fmt"
)

// =============================================================================
// POLICY CATALOG
// =============================================================================

// Catalog is the read-mostly registry of leave policies. Creation flows only
// see active policies; historical lookups resolve inactive ones too.
type Catalog struct {
	store PolicyStore
}

func NewCatalog(store PolicyStore) *Catalog {
	return &Catalog{store: store}
}

// ActivePolicy resolves a policy for a creation flow. Absent or inactive
// policies both yield ErrPolicyNotFound.
func (c *Catalog) ActivePolicy(ctx context.Context, id PolicyID) (*Policy, error) {
	p, err := c.store.PolicyByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, fmt.Errorf("policy %s is inactive: %w", id, ErrPolicyNotFound)
	}
	return p, nil
}

// Policy resolves a policy by identifier regardless of its active flag,
// for display of historical requests.
func (c *Catalog) Policy(ctx context.Context, id PolicyID) (*Policy, error) {
	return c.store.PolicyByID(ctx, id)
}

// ListActive returns active policies in insertion order.
func (c *Catalog) ListActive(ctx context.Context) ([]Policy, error) {
	all, err := c.store.ListPolicies(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]Policy, 0, len(all))
	for _, p := range all {
		if p.Active {
			active = append(active, p)
		}
	}
	return active, nil
}

// Save registers a new or updated policy.
func (c *Catalog) Save(ctx context.Context, p *Policy) error {
	return c.store.SavePolicy(ctx, p)
}

// SetActive toggles a policy's active flag. Day-count semantics of requests
// already created against the policy are unaffected.
func (c *Catalog) SetActive(ctx context.Context, id PolicyID, active bool) error {
	p, err := c.store.PolicyByID(ctx, id)
	if err != nil {
		return err
	}
	if p.Active == active {
		return nil
	}
	p.Active = active
	return c.store.SavePolicy(ctx, p)
}
