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

// ImageRepo records uploaded image URLs in the `images` collection.
type ImageRepo struct{ col *mongo.Collection }

func NewImageRepo(db *mongo.Database) *ImageRepo {
	return &ImageRepo{col: db.Collection("images")}
}

// Create stores the public URL of an uploaded image.
func (r *ImageRepo) Create(ctx context.Context, url string) (primitive.ObjectID, error) {
	res, err := r.col.InsertOne(ctx, model.Image{URL: url, CreatedAt: time.Now().UTC()})
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// List returns all stored image records, newest first.
func (r *ImageRepo) List(ctx context.Context) ([]model.Image, error) {
	cur, err := r.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	images := []model.Image{}
	if err := cur.All(ctx, &images); err != nil {
		return nil, err
	}
	return images, nil
}
