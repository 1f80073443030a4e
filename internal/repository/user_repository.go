package repository

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/metawall/metawall/internal/model"
)

// UserRepo persists account documents in the `users` collection.
type UserRepo struct{ col *mongo.Collection }

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{col: db.Collection("users")}
}

// EnsureIndexes creates the unique email index. Safe to call on every start.
func (r *UserRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Create inserts a new user with an already-hashed password and returns the
// new id. A duplicate email surfaces as ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, name, email, passwordHash string) (primitive.ObjectID, error) {
	now := time.Now().UTC()
	u := model.User{
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, ErrEmailExists
		}
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// FindByEmail fetches a user by normalized email. Misses map to ErrNotFound.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByID fetches a user by its hex id. A malformed id behaves the same as
// an absent document.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var u model.User
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UpdatePassword overwrites the stored hash. Previously issued tokens stay
// valid until their natural expiry; the token is stateless.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"password": passwordHash, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProfile sets name, sex and photo and returns the updated document.
func (r *UserRepo) UpdateProfile(ctx context.Context, id, name, sex, photo string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	after := options.After
	var u model.User
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"name":       strings.TrimSpace(name),
			"sex":        sex,
			"photo":      photo,
			"updated_at": time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// AddFollow records that follower follows followee: an entry is added to the
// follower's following list and to the followee's followers list. The two
// single-document updates are individually idempotent ($ne guard plus
// $addToSet) but not atomic together; the follow.sync consumer re-applies
// them to repair any one-sided state.
func (r *UserRepo) AddFollow(ctx context.Context, followerID, followeeID string) error {
	follower, followee, err := followPair(followerID, followeeID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = r.col.UpdateOne(ctx,
		bson.M{"_id": follower, "following.user": bson.M{"$ne": followee}},
		bson.M{"$addToSet": bson.M{"following": model.FollowRef{UserID: followee, CreatedAt: now}}},
	)
	if err != nil {
		return err
	}
	_, err = r.col.UpdateOne(ctx,
		bson.M{"_id": followee, "followers.user": bson.M{"$ne": follower}},
		bson.M{"$addToSet": bson.M{"followers": model.FollowRef{UserID: follower, CreatedAt: now}}},
	)
	return err
}

// RemoveFollow deletes the relation from both sides. Pulling an entry that
// is not there is a no-op, so repair passes can re-run it freely.
func (r *UserRepo) RemoveFollow(ctx context.Context, followerID, followeeID string) error {
	follower, followee, err := followPair(followerID, followeeID)
	if err != nil {
		return err
	}
	_, err = r.col.UpdateOne(ctx,
		bson.M{"_id": follower},
		bson.M{"$pull": bson.M{"following": bson.M{"user": followee}}},
	)
	if err != nil {
		return err
	}
	_, err = r.col.UpdateOne(ctx,
		bson.M{"_id": followee},
		bson.M{"$pull": bson.M{"followers": bson.M{"user": follower}}},
	)
	return err
}

// followPair parses both ids and rejects self-relations before any write.
func followPair(followerID, followeeID string) (primitive.ObjectID, primitive.ObjectID, error) {
	follower, err := primitive.ObjectIDFromHex(followerID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, ErrNotFound
	}
	followee, err := primitive.ObjectIDFromHex(followeeID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, ErrNotFound
	}
	if follower == followee {
		return primitive.NilObjectID, primitive.NilObjectID, ErrSelfFollow
	}
	return follower, followee, nil
}
