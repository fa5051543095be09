package content_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinonomekazan/akashic-game-drive/internal/apperror"
	"github.com/shinonomekazan/akashic-game-drive/internal/content"
)

func strPtr(s string) *string { return &s }

func seed(t *testing.T, repo content.Repository, owner string, n int) []*content.Content {
	t.Helper()
	var out []*content.Content
	for i := 0; i < n; i++ {
		c, err := repo.Create(context.Background(), content.NewContent{
			OwnerID:      owner,
			Title:        fmt.Sprintf("game %d", i),
			ZipURL:       fmt.Sprintf("uploads/%s/contents/zip/g%d.zip", owner, i),
			ThumbnailURL: fmt.Sprintf("uploads/%s/contents/thumbnail/t%d.png", owner, i),
		})
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

// --- Mock Repository ---

type failingRepo struct {
	content.Repository
	err error
}

func (f *failingRepo) Get(context.Context, string) (*content.Content, error) { return nil, f.err }
func (f *failingRepo) CountByOwner(context.Context, string, int) (int, error) {
	return 0, f.err
}

// ===== Resolver =====

func TestResolver_Resolve(t *testing.T) {
	repo := content.NewMemoryRepository(nil)
	owned := seed(t, repo, "alice", 1)[0]
	resolver := content.NewResolver(repo)
	ctx := context.Background()

	t.Run("owned", func(t *testing.T) {
		c, err := resolver.Resolve(ctx, owned.ID, "alice")
		require.NoError(t, err)
		assert.Equal(t, owned.ID, c.ID)
	})

	t.Run("absent returns nil", func(t *testing.T) {
		c, err := resolver.Resolve(ctx, "missing", "alice")
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("foreign fails forbidden", func(t *testing.T) {
		c, err := resolver.Resolve(ctx, owned.ID, "mallory")
		assert.Nil(t, c)
		assert.ErrorIs(t, err, content.ErrNotOwner)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("must resolve maps absence to not found", func(t *testing.T) {
		_, err := resolver.MustResolve(ctx, "missing", "alice")
		assert.ErrorIs(t, err, content.ErrNotFound)
	})
}

func TestResolver_PropagatesStoreErrors(t *testing.T) {
	boom := errors.New("store down")
	resolver := content.NewResolver(&failingRepo{err: boom})

	_, err := resolver.Resolve(context.Background(), "id", "alice")

	assert.ErrorIs(t, err, boom)
}

// ===== QuotaGuard =====

func TestQuotaGuard_EnsureUnderLimit(t *testing.T) {
	tests := []struct {
		name    string
		owned   int
		wantErr error
	}{
		{"empty", 0, nil},
		{"one below limit", 9, nil},
		{"at limit", 10, content.ErrLimitReached},
		{"above limit", 12, content.ErrLimitReached},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := content.NewMemoryRepository(nil)
			seed(t, repo, "alice", tt.owned)
			seed(t, repo, "bob", 3)
			guard := content.NewQuotaGuard(repo, 10)

			err := guard.EnsureUnderLimit(context.Background(), "alice")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuotaGuard_StoreErrorIsInternal(t *testing.T) {
	guard := content.NewQuotaGuard(&failingRepo{err: errors.New("store down")}, 10)

	err := guard.EnsureUnderLimit(context.Background(), "alice")

	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}

// ===== MemoryRepository =====

func TestMemoryRepository_UpdateKeepsOmittedFields(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := base
	repo := content.NewMemoryRepository(func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	})
	ctx := context.Background()

	created, err := repo.Create(ctx, content.NewContent{
		OwnerID:      "alice",
		Title:        "Game",
		Description:  strPtr("first"),
		ZipURL:       "uploads/alice/contents/zip/game.zip",
		ThumbnailURL: "uploads/alice/contents/thumbnail/1-a.png",
	})
	require.NoError(t, err)

	err = repo.Update(ctx, created.ID, "alice", content.UpdateFields{
		Title:        "Game 2",
		ThumbnailURL: strPtr("uploads/alice/contents/thumbnail/2-b.png"),
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Game 2", got.Title)
	assert.Equal(t, "first", *got.Description)
	assert.Equal(t, "uploads/alice/contents/zip/game.zip", *got.ZipURL)
	assert.Equal(t, "uploads/alice/contents/thumbnail/2-b.png", *got.ThumbnailURL)
	assert.Equal(t, "alice", got.OwnerID)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
	assert.True(t, got.UpdatedAt.After(created.UpdatedAt))
}

func TestMemoryRepository_UpdateFailures(t *testing.T) {
	repo := content.NewMemoryRepository(nil)
	owned := seed(t, repo, "alice", 1)[0]
	ctx := context.Background()

	err := repo.Update(ctx, "missing", "alice", content.UpdateFields{Title: "x"})
	assert.ErrorIs(t, err, content.ErrNotFound)

	err = repo.Update(ctx, owned.ID, "mallory", content.UpdateFields{Title: "stolen"})
	assert.ErrorIs(t, err, content.ErrNotOwner)

	got, err := repo.Get(ctx, owned.ID)
	require.NoError(t, err)
	assert.Equal(t, owned.Title, got.Title)
	assert.Equal(t, owned.UpdatedAt, got.UpdatedAt)
}

func TestMemoryRepository_ListAndCountByOwner(t *testing.T) {
	repo := content.NewMemoryRepository(nil)
	seed(t, repo, "alice", 4)
	seed(t, repo, "bob", 2)
	ctx := context.Background()

	list, err := repo.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, list, 4)
	for _, c := range list {
		assert.Equal(t, "alice", c.OwnerID)
	}

	empty, err := repo.ListByOwner(ctx, "carol")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	n, err := repo.CountByOwner(ctx, "alice", 10)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = repo.CountByOwner(ctx, "alice", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
