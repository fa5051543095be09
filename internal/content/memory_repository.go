package content

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-process Repository used for local runs and tests.
type MemoryRepository struct {
	mu       sync.Mutex
	contents map[string]Content
	now      func() time.Time
}

// NewMemoryRepository creates an empty MemoryRepository. A nil clock uses time.Now.
func NewMemoryRepository(now func() time.Time) *MemoryRepository {
	if now == nil {
		now = time.Now
	}
	return &MemoryRepository{contents: make(map[string]Content), now: now}
}

func (r *MemoryRepository) Create(_ context.Context, nc NewContent) (*Content, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	c := Content{
		ID:           uuid.NewString(),
		OwnerID:      nc.OwnerID,
		Title:        nc.Title,
		Description:  clone(nc.Description),
		ZipURL:       clone(&nc.ZipURL),
		ThumbnailURL: clone(&nc.ThumbnailURL),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.contents[c.ID] = c

	return &c, nil
}

func (r *MemoryRepository) Update(_ context.Context, id, ownerID string, fields UpdateFields) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.contents[id]
	if !ok {
		return ErrNotFound
	}
	if c.OwnerID != ownerID {
		return ErrNotOwner
	}

	c.Title = fields.Title
	if fields.Description != nil {
		c.Description = clone(fields.Description)
	}
	if fields.ZipURL != nil {
		c.ZipURL = clone(fields.ZipURL)
	}
	if fields.ThumbnailURL != nil {
		c.ThumbnailURL = clone(fields.ThumbnailURL)
	}
	c.UpdatedAt = r.now().UTC()
	r.contents[id] = c

	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*Content, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.contents[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *MemoryRepository) ListByOwner(_ context.Context, ownerID string) ([]Content, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents := []Content{}
	for _, c := range r.contents {
		if c.OwnerID == ownerID {
			contents = append(contents, c)
		}
	}
	sort.Slice(contents, func(i, j int) bool {
		return contents[i].CreatedAt.After(contents[j].CreatedAt)
	})
	return contents, nil
}

func (r *MemoryRepository) CountByOwner(_ context.Context, ownerID string, limit int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, c := range r.contents {
		if n >= limit {
			break
		}
		if c.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func clone(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
