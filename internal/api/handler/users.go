package handler

import (
	"context"

	"github.com/shinonomekazan/akashic-game-drive/internal/api/validation"
	"github.com/shinonomekazan/akashic-game-drive/internal/apperror"
	"github.com/shinonomekazan/akashic-game-drive/internal/identity"
	"github.com/shinonomekazan/akashic-game-drive/internal/user"
)

// SelfID is the only path id accepted by PUT /users/{id}.
const SelfID = "me"

var errNotSelf = apperror.BadRequest("Only \"me\" can be updated")

// UserHandler handles profile endpoints.
type UserHandler struct {
	authenticator
	repo user.Repository
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(verifier identity.Verifier, repo user.Repository) *UserHandler {
	return &UserHandler{authenticator: authenticator{verifier: verifier}, repo: repo}
}

// Register handles POST /users.
func (h *UserHandler) Register(ctx context.Context, p validation.RegisterUserParams) (any, error) {
	id, err := h.authenticate(ctx, p.AuthParams)
	if err != nil {
		return nil, err
	}

	profile, err := h.repo.Store(ctx, id.UID, user.StoreInput{Name: p.Name, PhotoURL: p.PhotoURL})
	if err != nil {
		return nil, err
	}
	return map[string]any{"user": profile}, nil
}

// Me handles GET /users/me.
func (h *UserHandler) Me(ctx context.Context, p validation.AuthParams) (any, error) {
	id, err := h.authenticate(ctx, p)
	if err != nil {
		return nil, err
	}

	profile, err := h.repo.Get(ctx, id.UID)
	if err != nil {
		return nil, err
	}
	return map[string]any{"user": profile}, nil
}

// Update handles PUT /users/{id}.
func (h *UserHandler) Update(ctx context.Context, p validation.UpdateUserParams) (any, error) {
	id, err := h.authenticate(ctx, p.AuthParams)
	if err != nil {
		return nil, err
	}
	if p.ID != SelfID {
		return nil, errNotSelf
	}

	if _, err := h.repo.Store(ctx, id.UID, user.StoreInput{Name: p.Name}); err != nil {
		return nil, err
	}
	return resultOK, nil
}
