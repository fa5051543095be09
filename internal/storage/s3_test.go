package storage

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestS3Signer(t *testing.T, cfg S3Config) *S3Signer {
	t.Helper()
	cfg.AccessKeyID = "AKIDEXAMPLE"
	cfg.SecretAccessKey = "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY"
	s, err := NewS3Signer(context.Background(), cfg)
	require.NoError(t, err)
	return s
}

func TestS3Signer_SignedUploadURL(t *testing.T) {
	s := newTestS3Signer(t, S3Config{
		Region:       "us-east-1",
		Bucket:       "game-drive",
		Endpoint:     "http://localhost:9000",
		UsePathStyle: true,
	})
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	raw, err := s.SignedUploadURL(context.Background(), SignedUploadRequest{
		ObjectPath:   "uploads/uid-1/contents/thumbnail/1-abc.png",
		ContentType:  "image/png",
		CacheControl: "public,max-age=604800,immutable",
		MaxSizeBytes: 1024,
		ExpiresAt:    now.Add(time.Hour),
	})
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/game-drive/uploads/uid-1/contents/thumbnail/1-abc.png", u.Path)

	q := u.Query()
	assert.Equal(t, "3600", q.Get("X-Amz-Expires"))
	assert.NotEmpty(t, q.Get("X-Amz-Signature"))
	assert.Contains(t, q.Get("X-Amz-SignedHeaders"), "content-type")
	assert.Contains(t, q.Get("X-Amz-SignedHeaders"), "cache-control")
}

func TestS3Signer_ExpiredRequest(t *testing.T) {
	s := newTestS3Signer(t, S3Config{Bucket: "game-drive"})

	_, err := s.SignedUploadURL(context.Background(), SignedUploadRequest{
		ObjectPath: "uploads/uid-1/contents/zip/game.zip",
		ExpiresAt:  time.Now().Add(-time.Minute),
	})

	assert.Error(t, err)
}

func TestS3Signer_RequiresBucket(t *testing.T) {
	_, err := NewS3Signer(context.Background(), S3Config{})

	assert.Error(t, err)
}

func TestS3Signer_PublicURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  S3Config
		want string
	}{
		{
			name: "virtual hosted",
			cfg:  S3Config{Bucket: "game-drive", Region: "ap-northeast-1"},
			want: "https://game-drive.s3.ap-northeast-1.amazonaws.com/uploads/a.zip",
		},
		{
			name: "path style endpoint",
			cfg:  S3Config{Bucket: "game-drive", Endpoint: "http://localhost:9000/", UsePathStyle: true},
			want: "http://localhost:9000/game-drive/uploads/a.zip",
		},
		{
			name: "public base override",
			cfg:  S3Config{Bucket: "game-drive", PublicBaseURL: "https://cdn.example.com/"},
			want: "https://cdn.example.com/uploads/a.zip",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestS3Signer(t, tt.cfg)
			assert.Equal(t, tt.want, s.PublicURL("uploads/a.zip"))
		})
	}
}
