package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FollowRef is one entry in a user's followers or following list. Both
// directions store the related user's id plus the time the relation was
// created. The lists mirror each other: if A's following contains B then
// B's followers must contain A.
type FollowRef struct {
	UserID    primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// User is the account document stored in the `users` collection. The email
// carries a unique index. PasswordHash is a bcrypt digest and must never be
// serialized into a response; handlers build their own response types.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password"`
	Photo        string             `bson:"photo,omitempty"`
	Sex          string             `bson:"sex,omitempty"` // "male" or "female"
	Followers    []FollowRef        `bson:"followers,omitempty"`
	Following    []FollowRef        `bson:"following,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}
