package handler

import (
	"context"

	"github.com/shinonomekazan/akashic-game-drive/internal/api/validation"
	"github.com/shinonomekazan/akashic-game-drive/internal/identity"
	"github.com/shinonomekazan/akashic-game-drive/internal/upload"
)

type uploadURLResponse struct {
	FilePath  string `json:"filePath"`
	URL       string `json:"url"`
	PublicURL string `json:"publicUrl"`
}

// UploadHandler handles POST /contents/upload-url.
type UploadHandler struct {
	authenticator
	issuer *upload.Issuer
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(verifier identity.Verifier, issuer *upload.Issuer) *UploadHandler {
	return &UploadHandler{authenticator: authenticator{verifier: verifier}, issuer: issuer}
}

// IssueURL returns a signed write URL and the object path the client later
// submits as zipUrl or thumbnailUrl.
func (h *UploadHandler) IssueURL(ctx context.Context, p validation.UploadURLParams) (any, error) {
	id, err := h.authenticate(ctx, p.AuthParams)
	if err != nil {
		return nil, err
	}

	grant, err := h.issuer.Issue(ctx, upload.Request{
		OwnerID:   id.UID,
		Kind:      p.Kind,
		MimeType:  p.MimeType,
		FileName:  p.FileName,
		ContentID: p.ContentID,
	})
	if err != nil {
		return nil, err
	}

	return uploadURLResponse{
		FilePath:  grant.ObjectPath,
		URL:       grant.URL,
		PublicURL: grant.PublicURL,
	}, nil
}
