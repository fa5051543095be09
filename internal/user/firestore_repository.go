package user

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Collection is the Firestore collection holding user documents.
const Collection = "users"

// FirestoreRepository implements Repository on a Firestore collection keyed by uid.
type FirestoreRepository struct {
	client *firestore.Client
	now    func() time.Time
}

// NewFirestoreRepository creates a new Repository backed by the given client.
func NewFirestoreRepository(client *firestore.Client) *FirestoreRepository {
	return &FirestoreRepository{client: client, now: time.Now}
}

// Store creates or updates the user document for uid inside a transaction.
func (r *FirestoreRepository) Store(ctx context.Context, uid string, in StoreInput) (*Profile, error) {
	ref := r.client.Collection(Collection).Doc(uid)

	var p Profile
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		now := r.now().UTC().Truncate(time.Microsecond)

		snap, err := tx.Get(ref)
		if err != nil && status.Code(err) != codes.NotFound {
			return fmt.Errorf("reading user: %w", err)
		}

		if snap == nil || !snap.Exists() {
			p = Profile{Name: in.Name, PhotoURL: in.PhotoURL, CreatedAt: now, UpdatedAt: now}
			return tx.Create(ref, p)
		}

		if err := snap.DataTo(&p); err != nil {
			return fmt.Errorf("decoding user: %w", err)
		}
		updates := []firestore.Update{
			{Path: "name", Value: in.Name},
			{Path: "updatedAt", Value: now},
		}
		p.Name = in.Name
		p.UpdatedAt = now
		if in.PhotoURL != nil {
			updates = append(updates, firestore.Update{Path: "photoURL", Value: *in.PhotoURL})
			p.PhotoURL = in.PhotoURL
		}
		return tx.Update(ref, updates)
	})
	if err != nil {
		return nil, fmt.Errorf("storing user: %w", err)
	}

	p.UID = uid
	return &p, nil
}

// Get retrieves the user document for uid.
func (r *FirestoreRepository) Get(ctx context.Context, uid string) (*Profile, error) {
	snap, err := r.client.Collection(Collection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}

	var p Profile
	if err := snap.DataTo(&p); err != nil {
		return nil, fmt.Errorf("decoding user: %w", err)
	}
	p.UID = snap.Ref.ID
	return &p, nil
}
