package user

import (
	"context"

	"github.com/shinonomekazan/akashic-game-drive/internal/apperror"
)

// ErrNotFound is returned when no profile exists for a uid.
var ErrNotFound = apperror.NotFound("User not found")

// Repository persists user profiles.
type Repository interface {
	// Store creates the profile for uid if absent, otherwise updates only the
	// supplied fields. createdAt is set once; updatedAt is refreshed on every
	// call. The read and the write happen in one transaction.
	Store(ctx context.Context, uid string, in StoreInput) (*Profile, error)
	Get(ctx context.Context, uid string) (*Profile, error)
}
