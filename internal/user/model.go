package user

import "time"

// Profile is a registered user keyed by the identity provider's subject id.
type Profile struct {
	UID       string    `json:"uid" firestore:"-"`
	Name      string    `json:"name" firestore:"name"`
	PhotoURL  *string   `json:"photoURL,omitempty" firestore:"photoURL,omitempty"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// StoreInput holds the fields written by Store. A nil PhotoURL leaves the
// stored value untouched.
type StoreInput struct {
	Name     string
	PhotoURL *string
}
