// Package repository implements data access on top of the Mongo document
// store. This file defines sentinel errors shared by all repositories and the
// single ownership rule applied before any mutation of an owned resource.
// Handlers translate the sentinels into HTTP responses: ErrNotFound -> 404,
// ErrForbidden -> 403, ErrEmailExists -> 409.
package repository

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when a document does not exist. It is always
// checked before ownership so a missing resource is never reported as 403.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts a mutation on a resource
// owned by someone else.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned when registration hits the unique email index.
var ErrEmailExists = errors.New("email already exists")

// ErrSelfFollow is returned when a user tries to follow or unfollow itself.
var ErrSelfFollow = errors.New("cannot follow yourself")

// CheckOwner decides whether requesterID may mutate a resource owned by
// owner. Both sides are compared in one canonical representation, the
// lower-case hex form of the object id, so no mix of raw-reference and
// string comparisons can creep back in.
func CheckOwner(owner primitive.ObjectID, requesterID string) error {
	if owner.Hex() != requesterID {
		return ErrForbidden
	}
	return nil
}
