package repository

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/metawall/metawall/internal/model"
)

// FeedFilter narrows the post feed: an optional content keyword, an optional
// author id and the sort direction (newest first unless Asc is set).
type FeedFilter struct {
	Keyword string
	UserID  string
	Asc     bool
}

// PostRepo persists wall posts in the `posts` collection.
type PostRepo struct{ col *mongo.Collection }

func NewPostRepo(db *mongo.Database) *PostRepo {
	return &PostRepo{col: db.Collection("posts")}
}

// Feed returns posts matching the filter. The keyword is quoted before being
// compiled into a case-insensitive regex so user input cannot inject
// operators.
func (r *PostRepo) Feed(ctx context.Context, f FeedFilter) ([]model.Post, error) {
	q := bson.M{}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		q["content"] = primitive.Regex{Pattern: regexp.QuoteMeta(kw), Options: "i"}
	}
	if f.UserID != "" {
		oid, err := primitive.ObjectIDFromHex(f.UserID)
		if err != nil {
			return nil, ErrNotFound
		}
		q["user"] = oid
	}
	dir := -1
	if f.Asc {
		dir = 1
	}
	cur, err := r.col.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "created_at", Value: dir}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	posts := []model.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// FindByID fetches one post; ErrNotFound covers both a malformed id and an
// absent document.
func (r *PostRepo) FindByID(ctx context.Context, id string) (*model.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var p model.Post
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Create inserts a post owned by userID and returns the new id.
func (r *PostRepo) Create(ctx context.Context, userID, content, image string) (primitive.ObjectID, error) {
	owner, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	now := time.Now().UTC()
	res, err := r.col.InsertOne(ctx, model.Post{
		UserID:    owner,
		Content:   content,
		Image:     image,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// UpdateByIDAndOwner replaces content and image if the post exists and is
// owned by requesterID. Existence is resolved first so an absent post is
// ErrNotFound, never ErrForbidden.
func (r *PostRepo) UpdateByIDAndOwner(ctx context.Context, id, requesterID, content, image string) error {
	p, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := CheckOwner(p.UserID, requesterID); err != nil {
		return err
	}
	_, err = r.col.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{
		"$set": bson.M{"content": content, "image": image, "updated_at": time.Now().UTC()},
	})
	return err
}

// DeleteByIDAndOwner removes a post owned by requesterID, same 404-before-403
// discipline as UpdateByIDAndOwner.
func (r *PostRepo) DeleteByIDAndOwner(ctx context.Context, id, requesterID string) error {
	p, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := CheckOwner(p.UserID, requesterID); err != nil {
		return err
	}
	_, err = r.col.DeleteOne(ctx, bson.M{"_id": p.ID})
	return err
}

// AddLike records userID in the post's like set. Liking twice is a no-op.
func (r *PostRepo) AddLike(ctx context.Context, postID, userID string) error {
	return r.updateLike(ctx, postID, userID, "$addToSet")
}

// RemoveLike drops userID from the post's like set.
func (r *PostRepo) RemoveLike(ctx context.Context, postID, userID string) error {
	return r.updateLike(ctx, postID, userID, "$pull")
}

func (r *PostRepo) updateLike(ctx context.Context, postID, userID, op string) error {
	pid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return ErrNotFound
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": pid}, bson.M{op: bson.M{"likes": uid}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// LikedBy lists the posts whose like set contains userID, newest first.
func (r *PostRepo) LikedBy(ctx context.Context, userID string) ([]model.Post, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	cur, err := r.col.Find(ctx,
		bson.M{"likes": uid},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	posts := []model.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
