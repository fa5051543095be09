package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Version  string `envconfig:"VERSION" default:"dev"`

	APIKey             string   `envconfig:"API_KEY" default:""`
	APIKeyHash         string   `envconfig:"API_KEY_HASH" default:""`
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	StoreBackend       string `envconfig:"STORE_BACKEND" default:"postgres"`
	DatabaseURL        string `envconfig:"DATABASE_URL" default:""`
	FirestoreProjectID string `envconfig:"FIRESTORE_PROJECT_ID" default:""`

	StorageBackend  string `envconfig:"STORAGE_BACKEND" default:"gcs"`
	StorageBucket   string `envconfig:"STORAGE_BUCKET" default:"akashic-game-drive.firebasestorage.app"`
	GCSAccessID     string `envconfig:"GCS_ACCESS_ID" default:""`
	GCSPrivateKey   string `envconfig:"GCS_PRIVATE_KEY" default:""`
	S3Region        string `envconfig:"S3_REGION" default:"us-east-1"`
	S3Endpoint      string `envconfig:"S3_ENDPOINT" default:""`
	S3AccessKeyID   string `envconfig:"S3_ACCESS_KEY_ID" default:""`
	S3SecretKey     string `envconfig:"S3_SECRET_ACCESS_KEY" default:""`
	S3UsePathStyle  bool   `envconfig:"S3_USE_PATH_STYLE" default:"false"`
	S3PublicBaseURL string `envconfig:"S3_PUBLIC_BASE_URL" default:""`

	AuthMode          string `envconfig:"AUTH_MODE" default:"firebase"`
	FirebaseProjectID string `envconfig:"FIREBASE_PROJECT_ID" default:""`
	JWTSecret         string `envconfig:"AUTH_JWT_SECRET" default:""`
	JWTIssuer         string `envconfig:"AUTH_JWT_ISSUER" default:""`
	JWTAudience       string `envconfig:"AUTH_JWT_AUDIENCE" default:""`

	MaxContentsPerUser int           `envconfig:"MAX_CONTENTS_PER_USER" default:"10"`
	MaxZipBytes        int64         `envconfig:"MAX_ZIP_BYTES" default:"20971520"`
	MaxThumbnailBytes  int64         `envconfig:"MAX_THUMBNAIL_BYTES" default:"20971520"`
	UploadURLTTL       time.Duration `envconfig:"UPLOAD_URL_TTL" default:"1h"`
	UploadCacheControl string        `envconfig:"UPLOAD_CACHE_CONTROL" default:"public,max-age=604800,immutable"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND=postgres")
		}
	case "firestore":
		if c.FirestoreProjectID == "" {
			return fmt.Errorf("FIRESTORE_PROJECT_ID is required when STORE_BACKEND=firestore")
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.StorageBackend {
	case "gcs", "s3":
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.StorageBucket == "" {
		return fmt.Errorf("STORAGE_BUCKET is required")
	}

	switch c.AuthMode {
	case "firebase":
		if c.FirebaseProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required when AUTH_MODE=firebase")
		}
	case "hmac":
		if c.JWTSecret == "" {
			return fmt.Errorf("AUTH_JWT_SECRET is required when AUTH_MODE=hmac")
		}
	default:
		return fmt.Errorf("unsupported AUTH_MODE %q", c.AuthMode)
	}

	if c.MaxContentsPerUser < 1 {
		return fmt.Errorf("MAX_CONTENTS_PER_USER must be positive")
	}
	if c.MaxZipBytes < 1 || c.MaxThumbnailBytes < 1 {
		return fmt.Errorf("upload size ceilings must be positive")
	}
	if c.UploadURLTTL <= 0 {
		return fmt.Errorf("UPLOAD_URL_TTL must be positive")
	}
	return nil
}
