package upload

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shinonomekazan/akashic-game-drive/internal/content"
	"github.com/shinonomekazan/akashic-game-drive/internal/storage"
)

// QuotaChecker rejects new items above an owner's ceiling.
type QuotaChecker interface {
	EnsureUnderLimit(ctx context.Context, ownerID string) error
}

// OwnerResolver loads an item only if the caller owns it.
type OwnerResolver interface {
	MustResolve(ctx context.Context, id, ownerID string) (*content.Content, error)
}

// Request is one upload intent.
type Request struct {
	OwnerID   string
	Kind      string
	MimeType  string
	FileName  *string
	ContentID *string // set when uploading for an existing item
}

// Grant is the issued, unpersisted permission to upload one object.
type Grant struct {
	ObjectPath   string
	URL          string
	PublicURL    string
	ExpiresAt    time.Time
	MaxSizeBytes int64
}

// Options configures an Issuer.
type Options struct {
	Limits       Limits
	TTL          time.Duration
	CacheControl string
}

// Issuer hands out pre-signed upload URLs.
type Issuer struct {
	signer   storage.Signer
	quota    QuotaChecker
	resolver OwnerResolver
	opts     Options
	now      func() time.Time
}

// NewIssuer creates a new Issuer signing through signer.
func NewIssuer(signer storage.Signer, quota QuotaChecker, resolver OwnerResolver, opts Options) *Issuer {
	return &Issuer{
		signer:   signer,
		quota:    quota,
		resolver: resolver,
		opts:     opts,
		now:      time.Now,
	}
}

// Issue authorizes req and returns a signed URL for its object path.
// Requests scoped to an existing item are checked for ownership instead of quota.
func (i *Issuer) Issue(ctx context.Context, req Request) (*Grant, error) {
	if req.ContentID != nil {
		if _, err := i.resolver.MustResolve(ctx, *req.ContentID, req.OwnerID); err != nil {
			return nil, err
		}
	} else if err := i.quota.EnsureUnderLimit(ctx, req.OwnerID); err != nil {
		return nil, err
	}

	kind, err := ParseKind(req.Kind)
	if err != nil {
		return nil, err
	}
	if !kind.Allows(req.MimeType) {
		return nil, ErrUnsupportedMimeType
	}

	ext := kind.Extension(req.MimeType)
	maxSize := i.opts.Limits.For(kind)

	now := i.now()
	objectName := fmt.Sprintf("%d-%s.%s", now.UnixMilli(), randomSuffix(), ext)
	if kind == KindZip {
		var fileName string
		if req.FileName != nil {
			fileName = *req.FileName
		}
		if objectName, err = ValidateZipFileName(fileName); err != nil {
			return nil, err
		}
	}

	objectPath := ObjectPath(req.OwnerID, kind, objectName)
	expiresAt := now.Add(i.opts.TTL)

	url, err := i.signer.SignedUploadURL(ctx, storage.SignedUploadRequest{
		ObjectPath:   objectPath,
		ContentType:  req.MimeType,
		CacheControl: i.opts.CacheControl,
		MaxSizeBytes: maxSize,
		ExpiresAt:    expiresAt,
	})
	if err != nil {
		return nil, err
	}

	return &Grant{
		ObjectPath:   objectPath,
		URL:          url,
		PublicURL:    i.signer.PublicURL(objectPath),
		ExpiresAt:    expiresAt,
		MaxSizeBytes: maxSize,
	}, nil
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
