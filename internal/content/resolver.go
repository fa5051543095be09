package content

import (
	"context"
	"errors"
)

// Resolver loads content items on behalf of a claimed owner.
type Resolver struct {
	repo Repository
}

// NewResolver creates a new Resolver over repo.
func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve returns the item with id if ownerID owns it. It returns nil, nil
// when the item does not exist and ErrNotOwner when it belongs to someone else.
func (r *Resolver) Resolve(ctx context.Context, id, ownerID string) (*Content, error) {
	c, err := r.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if c.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return c, nil
}

// MustResolve is Resolve with absence reported as ErrNotFound.
func (r *Resolver) MustResolve(ctx context.Context, id, ownerID string) (*Content, error) {
	c, err := r.Resolve(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}
