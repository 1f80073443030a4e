package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/metawall/metawall/internal/model"
)

// CommentRepo persists post comments in the `comments` collection.
type CommentRepo struct{ col *mongo.Collection }

func NewCommentRepo(db *mongo.Database) *CommentRepo {
	return &CommentRepo{col: db.Collection("comments")}
}

// Create inserts a comment owned by userID under postID. Callers confirm the
// post exists first.
func (r *CommentRepo) Create(ctx context.Context, userID, postID, text string) (primitive.ObjectID, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	pid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	res, err := r.col.InsertOne(ctx, model.Comment{
		UserID:    uid,
		PostID:    pid,
		Comment:   text,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// FindByID fetches one comment.
func (r *CommentRepo) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var cm model.Comment
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&cm)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cm, nil
}

// FindByUser lists the comments written by userID, newest first.
func (r *CommentRepo) FindByUser(ctx context.Context, userID string) ([]model.Comment, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	cur, err := r.col.Find(ctx,
		bson.M{"user": uid},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	comments := []model.Comment{}
	if err := cur.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// UpdateByIDAndOwner rewrites the comment text for its owner. Existence is
// checked before ownership.
func (r *CommentRepo) UpdateByIDAndOwner(ctx context.Context, id, requesterID, text string) error {
	cm, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := CheckOwner(cm.UserID, requesterID); err != nil {
		return err
	}
	_, err = r.col.UpdateOne(ctx, bson.M{"_id": cm.ID}, bson.M{"$set": bson.M{"comment": text}})
	return err
}

// DeleteByIDAndOwner removes the comment for its owner.
func (r *CommentRepo) DeleteByIDAndOwner(ctx context.Context, id, requesterID string) error {
	cm, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := CheckOwner(cm.UserID, requesterID); err != nil {
		return err
	}
	_, err = r.col.DeleteOne(ctx, bson.M{"_id": cm.ID})
	return err
}
