package handler

import (
	"context"
	"strings"

	"github.com/shinonomekazan/akashic-game-drive/internal/api/validation"
	"github.com/shinonomekazan/akashic-game-drive/internal/content"
	"github.com/shinonomekazan/akashic-game-drive/internal/identity"
)

var resultOK = map[string]any{"result": "ok"}

// PublicURLer turns a stored object path into a URL clients can download from.
type PublicURLer interface {
	PublicURL(objectPath string) string
}

// contentView is a content record as returned to clients: the stored object
// paths plus their public URLs.
type contentView struct {
	*content.Content
	ZipPublicURL       string `json:"zipPublicUrl,omitempty"`
	ThumbnailPublicURL string `json:"thumbnailPublicUrl,omitempty"`
}

// ContentHandler handles content endpoints.
type ContentHandler struct {
	authenticator
	repo     content.Repository
	quota    *content.QuotaGuard
	resolver *content.Resolver
	urls     PublicURLer
}

// NewContentHandler creates a new ContentHandler. A nil urls leaves the
// public URL fields out of responses.
func NewContentHandler(verifier identity.Verifier, repo content.Repository, quota *content.QuotaGuard, urls PublicURLer) *ContentHandler {
	return &ContentHandler{
		authenticator: authenticator{verifier: verifier},
		repo:          repo,
		quota:         quota,
		resolver:      content.NewResolver(repo),
		urls:          urls,
	}
}

func (h *ContentHandler) view(c *content.Content) contentView {
	return contentView{
		Content:            c,
		ZipPublicURL:       h.publicURL(c.ZipURL),
		ThumbnailPublicURL: h.publicURL(c.ThumbnailURL),
	}
}

// publicURL passes values that are already absolute URLs through unchanged.
func (h *ContentHandler) publicURL(objectPath *string) string {
	if h.urls == nil || objectPath == nil || *objectPath == "" {
		return ""
	}
	if strings.HasPrefix(*objectPath, "https://") || strings.HasPrefix(*objectPath, "http://") {
		return *objectPath
	}
	return h.urls.PublicURL(*objectPath)
}

// Create handles POST /contents.
func (h *ContentHandler) Create(ctx context.Context, p validation.CreateContentParams) (any, error) {
	id, err := h.authenticate(ctx, p.AuthParams)
	if err != nil {
		return nil, err
	}
	if err := h.quota.EnsureUnderLimit(ctx, id.UID); err != nil {
		return nil, err
	}

	c, err := h.repo.Create(ctx, content.NewContent{
		OwnerID:      id.UID,
		Title:        p.Title,
		Description:  p.Description,
		ZipURL:       p.ZipURL,
		ThumbnailURL: p.ThumbnailURL,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"result": "ok", "content": h.view(c)}, nil
}

// ListMine handles GET /contents/me.
func (h *ContentHandler) ListMine(ctx context.Context, p validation.AuthParams) (any, error) {
	id, err := h.authenticate(ctx, p)
	if err != nil {
		return nil, err
	}

	contents, err := h.repo.ListByOwner(ctx, id.UID)
	if err != nil {
		return nil, err
	}
	views := make([]contentView, 0, len(contents))
	for i := range contents {
		views = append(views, h.view(&contents[i]))
	}
	return map[string]any{"contents": views}, nil
}

// Get handles GET /contents/{id}.
func (h *ContentHandler) Get(ctx context.Context, p validation.ContentIDParams) (any, error) {
	id, err := h.authenticate(ctx, p.AuthParams)
	if err != nil {
		return nil, err
	}

	c, err := h.resolver.MustResolve(ctx, p.ID, id.UID)
	if err != nil {
		return nil, err
	}
	return map[string]any{"content": h.view(c)}, nil
}

// Update handles PUT /contents/{id}.
func (h *ContentHandler) Update(ctx context.Context, p validation.UpdateContentParams) (any, error) {
	id, err := h.authenticate(ctx, p.AuthParams)
	if err != nil {
		return nil, err
	}

	err = h.repo.Update(ctx, p.ID, id.UID, content.UpdateFields{
		Title:        p.Title,
		Description:  p.Description,
		ZipURL:       p.ZipURL,
		ThumbnailURL: p.ThumbnailURL,
	})
	if err != nil {
		return nil, err
	}
	return resultOK, nil
}
