package content

import "time"

// Content is one uploaded item: a zip package paired with a thumbnail.
// ZipURL and ThumbnailURL hold storage object paths.
type Content struct {
	ID           string    `json:"id" firestore:"-"`
	OwnerID      string    `json:"ownerId" firestore:"ownerId"`
	Title        string    `json:"title" firestore:"title"`
	Description  *string   `json:"description,omitempty" firestore:"description,omitempty"`
	ZipURL       *string   `json:"zipUrl,omitempty" firestore:"zipUrl,omitempty"`
	ThumbnailURL *string   `json:"thumbnailUrl,omitempty" firestore:"thumbnailUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// NewContent holds the fields of a content item being created.
type NewContent struct {
	OwnerID      string
	Title        string
	Description  *string
	ZipURL       string
	ThumbnailURL string
}

// UpdateFields holds the fields that can be changed by the owner. Nil
// pointers leave the stored value untouched.
type UpdateFields struct {
	Title        string
	Description  *string
	ZipURL       *string
	ThumbnailURL *string
}
