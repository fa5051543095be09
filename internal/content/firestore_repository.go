package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Collection is the Firestore collection holding content documents.
const Collection = "contents"

// FirestoreRepository implements Repository on a Firestore collection.
type FirestoreRepository struct {
	client *firestore.Client
	now    func() time.Time
}

// NewFirestoreRepository creates a new Repository backed by the given client.
func NewFirestoreRepository(client *firestore.Client) *FirestoreRepository {
	return &FirestoreRepository{client: client, now: time.Now}
}

func (r *FirestoreRepository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

// Create adds a document under a Firestore-assigned id.
func (r *FirestoreRepository) Create(ctx context.Context, nc NewContent) (*Content, error) {
	now := r.timestamp()
	c := Content{
		OwnerID:      nc.OwnerID,
		Title:        nc.Title,
		Description:  nc.Description,
		ZipURL:       &nc.ZipURL,
		ThumbnailURL: &nc.ThumbnailURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ref := r.client.Collection(Collection).NewDoc()
	if _, err := ref.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("creating content: %w", err)
	}

	c.ID = ref.ID
	return &c, nil
}

// Update reads the document and writes the supplied fields in one transaction.
func (r *FirestoreRepository) Update(ctx context.Context, id, ownerID string, fields UpdateFields) error {
	ref := r.client.Collection(Collection).Doc(id)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return fmt.Errorf("reading content: %w", err)
		}

		var stored Content
		if err := snap.DataTo(&stored); err != nil {
			return fmt.Errorf("decoding content: %w", err)
		}
		if stored.OwnerID != ownerID {
			return ErrNotOwner
		}

		updates := []firestore.Update{
			{Path: "title", Value: fields.Title},
			{Path: "updatedAt", Value: r.timestamp()},
		}
		if fields.Description != nil {
			updates = append(updates, firestore.Update{Path: "description", Value: *fields.Description})
		}
		if fields.ZipURL != nil {
			updates = append(updates, firestore.Update{Path: "zipUrl", Value: *fields.ZipURL})
		}
		if fields.ThumbnailURL != nil {
			updates = append(updates, firestore.Update{Path: "thumbnailUrl", Value: *fields.ThumbnailURL})
		}
		return tx.Update(ref, updates)
	})
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNotOwner) {
		return err
	}
	if err != nil {
		return fmt.Errorf("updating content: %w", err)
	}
	return nil
}

// Get retrieves a single document by id.
func (r *FirestoreRepository) Get(ctx context.Context, id string) (*Content, error) {
	snap, err := r.client.Collection(Collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying content: %w", err)
	}
	return decode(snap)
}

// ListByOwner retrieves every document whose ownerId equals ownerID.
func (r *FirestoreRepository) ListByOwner(ctx context.Context, ownerID string) ([]Content, error) {
	iter := r.client.Collection(Collection).Where("ownerId", "==", ownerID).Documents(ctx)
	defer iter.Stop()

	contents := []Content{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing contents: %w", err)
		}
		c, err := decode(snap)
		if err != nil {
			return nil, err
		}
		contents = append(contents, *c)
	}
	return contents, nil
}

// CountByOwner fetches at most limit documents for ownerID and counts them.
func (r *FirestoreRepository) CountByOwner(ctx context.Context, ownerID string, limit int) (int, error) {
	snaps, err := r.client.Collection(Collection).
		Where("ownerId", "==", ownerID).
		Limit(limit).
		Documents(ctx).
		GetAll()
	if err != nil {
		return 0, fmt.Errorf("counting contents: %w", err)
	}
	return len(snaps), nil
}

func decode(snap *firestore.DocumentSnapshot) (*Content, error) {
	var c Content
	if err := snap.DataTo(&c); err != nil {
		return nil, fmt.Errorf("decoding content: %w", err)
	}
	c.ID = snap.Ref.ID
	return &c, nil
}
