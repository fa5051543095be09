// Package storage issues pre-signed upload URLs against an object store.
package storage

import (
	"context"
	"time"
)

// SignedUploadRequest scopes a pre-signed write URL.
type SignedUploadRequest struct {
	ObjectPath   string
	ContentType  string
	CacheControl string
	MaxSizeBytes int64
	ExpiresAt    time.Time
}

// Signer is the object storage collaborator.
type Signer interface {
	// SignedUploadURL returns a URL that authorizes a single PUT of
	// req.ObjectPath until req.ExpiresAt.
	SignedUploadURL(ctx context.Context, req SignedUploadRequest) (string, error)
	// PublicURL translates an object path into a publicly retrievable URL.
	PublicURL(objectPath string) string
}
