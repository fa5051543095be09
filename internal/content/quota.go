package content

import (
	"context"
	"fmt"
)

// QuotaGuard caps the number of items a single owner may hold.
//
// The count and the following creation are not atomic, so concurrent
// creations at the boundary can briefly exceed the limit.
type QuotaGuard struct {
	repo  Repository
	limit int
}

// NewQuotaGuard creates a new QuotaGuard allowing limit contents per owner.
func NewQuotaGuard(repo Repository, limit int) *QuotaGuard {
	return &QuotaGuard{repo: repo, limit: limit}
}

// Limit returns the configured ceiling.
func (g *QuotaGuard) Limit() int { return g.limit }

// EnsureUnderLimit fails with ErrLimitReached when ownerID already holds
// limit or more items.
func (g *QuotaGuard) EnsureUnderLimit(ctx context.Context, ownerID string) error {
	n, err := g.repo.CountByOwner(ctx, ownerID, g.limit)
	if err != nil {
		return fmt.Errorf("counting contents: %w", err)
	}
	if n >= g.limit {
		return ErrLimitReached
	}
	return nil
}
