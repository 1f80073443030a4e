package handler

// Store interfaces consumed by the handlers. The Mongo repositories satisfy
// them; tests substitute fakes. Handlers assume each call is atomic at the
// single-document level and returns repository sentinels on misses.

import (
	"context"
	"io"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/metawall/metawall/internal/model"
	"github.com/metawall/metawall/internal/queue"
	"github.com/metawall/metawall/internal/repository"
)

// UserStore is the account access the auth and profile handlers need.
type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (primitive.ObjectID, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateProfile(ctx context.Context, id, name, sex, photo string) (*model.User, error)
	AddFollow(ctx context.Context, followerID, followeeID string) error
	RemoveFollow(ctx context.Context, followerID, followeeID string) error
}

// PostStore is the post access the post and profile handlers need.
type PostStore interface {
	Feed(ctx context.Context, f repository.FeedFilter) ([]model.Post, error)
	FindByID(ctx context.Context, id string) (*model.Post, error)
	Create(ctx context.Context, userID, content, image string) (primitive.ObjectID, error)
	UpdateByIDAndOwner(ctx context.Context, id, requesterID, content, image string) error
	DeleteByIDAndOwner(ctx context.Context, id, requesterID string) error
	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) error
	LikedBy(ctx context.Context, userID string) ([]model.Post, error)
}

// CommentStore is the comment access shared by post and comment handlers.
type CommentStore interface {
	Create(ctx context.Context, userID, postID, text string) (primitive.ObjectID, error)
	FindByUser(ctx context.Context, userID string) ([]model.Comment, error)
	UpdateByIDAndOwner(ctx context.Context, id, requesterID, text string) error
	DeleteByIDAndOwner(ctx context.Context, id, requesterID string) error
}

// ImageStore records uploaded image URLs.
type ImageStore interface {
	Create(ctx context.Context, url string) (primitive.ObjectID, error)
	List(ctx context.Context) ([]model.Image, error)
}

// BlobUploader pushes image bytes to object storage and returns a public URL.
type BlobUploader interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// FollowPublisher emits follow.sync events for the reconciliation consumer.
// Publishing is best effort; a broker outage must not fail the request.
type FollowPublisher interface {
	PublishFollowChanged(ctx context.Context, ev queue.FollowChangedEvent) error
}
