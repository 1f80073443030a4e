package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Image records an uploaded picture's public URL. The bytes themselves live
// in object storage, not in the database.
type Image struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	URL       string             `bson:"url" json:"url"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
