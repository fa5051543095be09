package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config configures S3Signer.
type S3Config struct {
	Region          string
	Bucket          string
	Endpoint        string // custom endpoint for S3-compatible services
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	PublicBaseURL   string // overrides the derived public URL prefix
}

// S3Signer issues presigned PUT URLs for an S3 bucket.
//
// S3 presigned PUTs cannot carry a content-length range, so MaxSizeBytes is
// not enforced by the URL. Bucket policy or a post-upload check must cap size.
type S3Signer struct {
	presign *s3.PresignClient
	cfg     S3Config
	now     func() time.Time
}

// NewS3Signer creates an S3Signer from static credentials or the default chain.
func NewS3Signer(ctx context.Context, cfg S3Config) (*S3Signer, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.UsePathStyle
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)
	return &S3Signer{presign: s3.NewPresignClient(client), cfg: cfg, now: time.Now}, nil
}

// SignedUploadURL returns a presigned PUT URL bound to the content type and
// cache-control of req.
func (s *S3Signer) SignedUploadURL(ctx context.Context, req SignedUploadRequest) (string, error) {
	ttl := req.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return "", errors.New("signing upload url: expiry is in the past")
	}

	out, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.cfg.Bucket),
		Key:          aws.String(req.ObjectPath),
		ContentType:  aws.String(req.ContentType),
		CacheControl: aws.String(req.CacheControl),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("signing upload url: %w", err)
	}
	return out.URL, nil
}

// PublicURL returns the object URL of objectPath.
func (s *S3Signer) PublicURL(objectPath string) string {
	switch {
	case s.cfg.PublicBaseURL != "":
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + objectPath
	case s.cfg.Endpoint != "" && s.cfg.UsePathStyle:
		return strings.TrimRight(s.cfg.Endpoint, "/") + "/" + s.cfg.Bucket + "/" + objectPath
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, objectPath)
	}
}
