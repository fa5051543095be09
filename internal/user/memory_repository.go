package user

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository is an in-process Repository used for local runs and tests.
type MemoryRepository struct {
	mu       sync.Mutex
	profiles map[string]Profile
	now      func() time.Time
}

// NewMemoryRepository creates an empty MemoryRepository. A nil clock uses time.Now.
func NewMemoryRepository(now func() time.Time) *MemoryRepository {
	if now == nil {
		now = time.Now
	}
	return &MemoryRepository{profiles: make(map[string]Profile), now: now}
}

func (r *MemoryRepository) Store(_ context.Context, uid string, in StoreInput) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	p, ok := r.profiles[uid]
	if !ok {
		p = Profile{UID: uid, CreatedAt: now}
	}
	p.Name = in.Name
	if in.PhotoURL != nil {
		photo := *in.PhotoURL
		p.PhotoURL = &photo
	}
	p.UpdatedAt = now
	r.profiles[uid] = p

	return &p, nil
}

func (r *MemoryRepository) Get(_ context.Context, uid string) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[uid]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}
