package storage

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSConfig configures GCSSigner. When AccessID and PrivateKey are empty the
// client's default credentials sign the URLs.
type GCSConfig struct {
	Bucket     string
	AccessID   string
	PrivateKey string
}

// GCSSigner issues V4 signed URLs for a Cloud Storage bucket.
type GCSSigner struct {
	bucket     string
	accessID   string
	privateKey []byte
	client     *storage.Client
}

// NewGCSSigner creates a GCSSigner. A storage client is only created when no
// explicit signing key is configured.
func NewGCSSigner(ctx context.Context, cfg GCSConfig, opts ...option.ClientOption) (*GCSSigner, error) {
	s := &GCSSigner{bucket: cfg.Bucket}

	if cfg.AccessID != "" && cfg.PrivateKey != "" {
		s.accessID = cfg.AccessID
		// Keys passed through env vars carry literal \n sequences.
		s.privateKey = []byte(strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n"))
		return s, nil
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	s.client = client
	return s, nil
}

// SignedUploadURL returns a V4 signed PUT URL bound to the content type,
// cache-control and content-length range of req.
func (s *GCSSigner) SignedUploadURL(_ context.Context, req SignedUploadRequest) (string, error) {
	opts := &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      "PUT",
		Expires:     req.ExpiresAt,
		ContentType: req.ContentType,
		Headers: []string{
			"Cache-Control:" + req.CacheControl,
			"x-goog-content-length-range:0," + strconv.FormatInt(req.MaxSizeBytes, 10),
		},
	}

	var (
		signed string
		err    error
	)
	if s.client == nil {
		opts.GoogleAccessID = s.accessID
		opts.PrivateKey = s.privateKey
		signed, err = storage.SignedURL(s.bucket, req.ObjectPath, opts)
	} else {
		signed, err = s.client.Bucket(s.bucket).SignedURL(req.ObjectPath, opts)
	}
	if err != nil {
		return "", fmt.Errorf("signing upload url: %w", err)
	}
	return signed, nil
}

// PublicURL returns the Firebase Storage media URL of objectPath.
func (s *GCSSigner) PublicURL(objectPath string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media",
		s.bucket, url.PathEscape(objectPath))
}

// Close releases the storage client, if any.
func (s *GCSSigner) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
