package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"github.com/shinonomekazan/akashic-game-drive/internal/api"
	"github.com/shinonomekazan/akashic-game-drive/internal/api/handler"
	"github.com/shinonomekazan/akashic-game-drive/internal/config"
	"github.com/shinonomekazan/akashic-game-drive/internal/content"
	"github.com/shinonomekazan/akashic-game-drive/internal/database"
	"github.com/shinonomekazan/akashic-game-drive/internal/identity"
	"github.com/shinonomekazan/akashic-game-drive/internal/storage"
	"github.com/shinonomekazan/akashic-game-drive/internal/upload"
	"github.com/shinonomekazan/akashic-game-drive/internal/user"
)

// app is constructed once at startup and owns every long-lived collaborator.
type app struct {
	cfg      *config.Config
	verifier identity.Verifier
	users    user.Repository
	contents content.Repository
	pinger   handler.Pinger
	signer   storage.Signer

	closers   []func() error
	closeOnce sync.Once
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}
	clientOpts := []option.ClientOption{option.WithUserAgent("akashic-game-drive/" + cfg.Version)}

	if err := a.initStore(ctx, clientOpts); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.initStorage(ctx, clientOpts); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.initVerifier(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) initStore(ctx context.Context, clientOpts []option.ClientOption) error {
	switch a.cfg.StoreBackend {
	case "postgres":
		db, err := database.New(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		a.closers = append(a.closers, func() error { db.Close(); return nil })
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		a.users = user.NewPostgresRepository(db.Pool())
		a.contents = content.NewPostgresRepository(db.Pool())
		a.pinger = db

	case "firestore":
		client, err := firestore.NewClient(ctx, a.cfg.FirestoreProjectID, clientOpts...)
		if err != nil {
			return fmt.Errorf("creating firestore client: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		a.users = user.NewFirestoreRepository(client)
		a.contents = content.NewFirestoreRepository(client)
		a.pinger = handler.PingFunc(func(ctx context.Context) error {
			_, err := client.Collection(user.Collection).Limit(1).Documents(ctx).GetAll()
			return err
		})

	case "memory":
		slog.Warn("using in-memory store; data is lost on restart")
		a.users = user.NewMemoryRepository(nil)
		a.contents = content.NewMemoryRepository(nil)
	}
	return nil
}

func (a *app) initStorage(ctx context.Context, clientOpts []option.ClientOption) error {
	switch a.cfg.StorageBackend {
	case "s3":
		signer, err := storage.NewS3Signer(ctx, storage.S3Config{
			Region:          a.cfg.S3Region,
			Bucket:          a.cfg.StorageBucket,
			Endpoint:        a.cfg.S3Endpoint,
			AccessKeyID:     a.cfg.S3AccessKeyID,
			SecretAccessKey: a.cfg.S3SecretKey,
			UsePathStyle:    a.cfg.S3UsePathStyle,
			PublicBaseURL:   a.cfg.S3PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("creating s3 signer: %w", err)
		}
		a.signer = signer

	default:
		signer, err := storage.NewGCSSigner(ctx, storage.GCSConfig{
			Bucket:     a.cfg.StorageBucket,
			AccessID:   a.cfg.GCSAccessID,
			PrivateKey: a.cfg.GCSPrivateKey,
		}, clientOpts...)
		if err != nil {
			return fmt.Errorf("creating gcs signer: %w", err)
		}
		a.closers = append(a.closers, signer.Close)
		a.signer = signer
	}
	return nil
}

func (a *app) initVerifier() error {
	switch a.cfg.AuthMode {
	case "hmac":
		a.verifier = identity.NewHMACVerifier([]byte(a.cfg.JWTSecret), a.cfg.JWTIssuer, a.cfg.JWTAudience)
	default:
		keys := identity.NewJWKSource(identity.GoogleSecureTokenJWKSURL, &http.Client{Timeout: 10 * time.Second})
		a.verifier = identity.NewFirebaseVerifier(a.cfg.FirebaseProjectID, keys)
	}
	return nil
}

func (a *app) routerDeps() api.RouterDeps {
	quota := content.NewQuotaGuard(a.contents, a.cfg.MaxContentsPerUser)
	issuer := upload.NewIssuer(a.signer, quota, content.NewResolver(a.contents), upload.Options{
		Limits: upload.Limits{
			MaxZipBytes:       a.cfg.MaxZipBytes,
			MaxThumbnailBytes: a.cfg.MaxThumbnailBytes,
		},
		TTL:          a.cfg.UploadURLTTL,
		CacheControl: a.cfg.UploadCacheControl,
	})

	return api.RouterDeps{
		Version:        a.cfg.Version,
		Verifier:       a.verifier,
		Users:          a.users,
		Contents:       a.contents,
		Quota:          quota,
		Uploads:        issuer,
		PublicURLs:     a.signer,
		StorePinger:    a.pinger,
		APIKey:         a.cfg.APIKey,
		APIKeyHash:     a.cfg.APIKeyHash,
		AllowedOrigins: a.cfg.CORSAllowedOrigins,
	}
}

// Close releases clients in reverse order of creation.
func (a *app) Close() {
	a.closeOnce.Do(func() {
		for i := len(a.closers) - 1; i >= 0; i-- {
			if err := a.closers[i](); err != nil {
				slog.Warn("failed to close client", "error", err)
			}
		}
	})
}
