package domain

import "context"

// MaxProfileReferenceLen is the column limit for users.profile_reference.
const MaxProfileReferenceLen = 300

// User represents one row in the users table. ProfileReference is nil
// when the request carried no image.
type User struct {
	ID               int64   `json:"id"`
	ProfileReference *string `json:"profile_reference,omitempty"`
}

// UserRepository defines operations for persisting users
type UserRepository interface {
	// Insert persists a new row and returns its auto-assigned id.
	// profileReference may be nil, which persists NULL.
	Insert(ctx context.Context, profileReference *string) (int64, error)
}

// ProfileService defines the upload workflow the handler depends on
type ProfileService interface {
	// AddUser stores the payload (when non-empty) and inserts a user row
	// referencing it.
	AddUser(ctx context.Context, payload []byte, declaredName string) (*User, error)
}
