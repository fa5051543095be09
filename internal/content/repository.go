package content

import (
	"context"

	"github.com/shinonomekazan/akashic-game-drive/internal/apperror"
)

var (
	// ErrNotFound is returned when no content exists for an id.
	ErrNotFound = apperror.NotFound("Content not found")
	// ErrNotOwner is returned when a content item exists but belongs to another user.
	ErrNotOwner = apperror.Forbidden("You do not own this content")
	// ErrLimitReached is returned by the quota guard once an owner holds the maximum number of items.
	ErrLimitReached = apperror.Forbidden("post limit reached")
)

// Repository persists content items.
type Repository interface {
	// Create stores a new item under a fresh id with createdAt = updatedAt = now.
	// It does not check the owner's quota.
	Create(ctx context.Context, c NewContent) (*Content, error)
	// Update reads the item and writes the supplied fields in one transaction.
	// It fails with ErrNotFound when absent and ErrNotOwner when ownerID differs.
	Update(ctx context.Context, id, ownerID string, fields UpdateFields) error
	Get(ctx context.Context, id string) (*Content, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Content, error)
	// CountByOwner counts ownerID's items, stopping at limit.
	CountByOwner(ctx context.Context, ownerID string, limit int) (int, error)
}
