package handler

// In-memory fakes for the store interfaces. They mirror the repository
// semantics the handlers rely on: sentinel errors on misses, existence
// resolved before ownership, idempotent follow/like sets.

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/metawall/metawall/internal/model"
	"github.com/metawall/metawall/internal/queue"
	"github.com/metawall/metawall/internal/repository"
)

type fakeUsers struct {
	byID map[string]*model.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[string]*model.User{}} }

func (f *fakeUsers) add(u *model.User) *model.User {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	f.byID[u.ID.Hex()] = u
	return u
}

func (f *fakeUsers) Create(_ context.Context, name, email, passwordHash string) (primitive.ObjectID, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.byID {
		if u.Email == email {
			return primitive.NilObjectID, repository.ErrEmailExists
		}
	}
	u := f.add(&model.User{Name: name, Email: email, PasswordHash: passwordHash})
	return u.ID, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id, name, sex, photo string) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.Name, u.Sex, u.Photo = name, sex, photo
	return u, nil
}

func (f *fakeUsers) AddFollow(_ context.Context, followerID, followeeID string) error {
	if followerID == followeeID {
		return repository.ErrSelfFollow
	}
	follower, ok1 := f.byID[followerID]
	followee, ok2 := f.byID[followeeID]
	if !ok1 || !ok2 {
		return repository.ErrNotFound
	}
	now := time.Now().UTC()
	if !hasRef(follower.Following, followee.ID) {
		follower.Following = append(follower.Following, model.FollowRef{UserID: followee.ID, CreatedAt: now})
	}
	if !hasRef(followee.Followers, follower.ID) {
		followee.Followers = append(followee.Followers, model.FollowRef{UserID: follower.ID, CreatedAt: now})
	}
	return nil
}

func (f *fakeUsers) RemoveFollow(_ context.Context, followerID, followeeID string) error {
	if followerID == followeeID {
		return repository.ErrSelfFollow
	}
	follower, ok1 := f.byID[followerID]
	followee, ok2 := f.byID[followeeID]
	if !ok1 || !ok2 {
		return repository.ErrNotFound
	}
	follower.Following = dropRef(follower.Following, followee.ID)
	followee.Followers = dropRef(followee.Followers, follower.ID)
	return nil
}

func hasRef(refs []model.FollowRef, id primitive.ObjectID) bool {
	for _, r := range refs {
		if r.UserID == id {
			return true
		}
	}
	return false
}

func dropRef(refs []model.FollowRef, id primitive.ObjectID) []model.FollowRef {
	out := refs[:0]
	for _, r := range refs {
		if r.UserID != id {
			out = append(out, r)
		}
	}
	return out
}

type fakePosts struct {
	byID map[string]*model.Post
}

func newFakePosts() *fakePosts { return &fakePosts{byID: map[string]*model.Post{}} }

func (f *fakePosts) add(p *model.Post) *model.Post {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	f.byID[p.ID.Hex()] = p
	return p
}

func (f *fakePosts) Feed(_ context.Context, filter repository.FeedFilter) ([]model.Post, error) {
	posts := []model.Post{}
	for _, p := range f.byID {
		if filter.UserID != "" && p.UserID.Hex() != filter.UserID {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(p.Content, filter.Keyword) {
			continue
		}
		posts = append(posts, *p)
	}
	return posts, nil
}

func (f *fakePosts) FindByID(_ context.Context, id string) (*model.Post, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakePosts) Create(_ context.Context, userID, content, image string) (primitive.ObjectID, error) {
	owner, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, repository.ErrNotFound
	}
	p := f.add(&model.Post{UserID: owner, Content: content, Image: image})
	return p.ID, nil
}

func (f *fakePosts) UpdateByIDAndOwner(_ context.Context, id, requesterID, content, image string) error {
	p, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	if err := repository.CheckOwner(p.UserID, requesterID); err != nil {
		return err
	}
	p.Content, p.Image = content, image
	return nil
}

func (f *fakePosts) DeleteByIDAndOwner(_ context.Context, id, requesterID string) error {
	p, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	if err := repository.CheckOwner(p.UserID, requesterID); err != nil {
		return err
	}
	delete(f.byID, id)
	return nil
}

func (f *fakePosts) AddLike(_ context.Context, postID, userID string) error {
	p, ok := f.byID[postID]
	if !ok {
		return repository.ErrNotFound
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return repository.ErrNotFound
	}
	for _, l := range p.Likes {
		if l == uid {
			return nil
		}
	}
	p.Likes = append(p.Likes, uid)
	return nil
}

func (f *fakePosts) RemoveLike(_ context.Context, postID, userID string) error {
	p, ok := f.byID[postID]
	if !ok {
		return repository.ErrNotFound
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return repository.ErrNotFound
	}
	out := p.Likes[:0]
	for _, l := range p.Likes {
		if l != uid {
			out = append(out, l)
		}
	}
	p.Likes = out
	return nil
}

func (f *fakePosts) LikedBy(_ context.Context, userID string) ([]model.Post, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	posts := []model.Post{}
	for _, p := range f.byID {
		for _, l := range p.Likes {
			if l == uid {
				posts = append(posts, *p)
				break
			}
		}
	}
	return posts, nil
}

type fakeComments struct {
	byID map[string]*model.Comment
}

func newFakeComments() *fakeComments { return &fakeComments{byID: map[string]*model.Comment{}} }

func (f *fakeComments) Create(_ context.Context, userID, postID, text string) (primitive.ObjectID, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, repository.ErrNotFound
	}
	pid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return primitive.NilObjectID, repository.ErrNotFound
	}
	cm := &model.Comment{ID: primitive.NewObjectID(), UserID: uid, PostID: pid, Comment: text}
	f.byID[cm.ID.Hex()] = cm
	return cm.ID, nil
}

func (f *fakeComments) FindByUser(_ context.Context, userID string) ([]model.Comment, error) {
	comments := []model.Comment{}
	for _, cm := range f.byID {
		if cm.UserID.Hex() == userID {
			comments = append(comments, *cm)
		}
	}
	return comments, nil
}

func (f *fakeComments) UpdateByIDAndOwner(_ context.Context, id, requesterID, text string) error {
	cm, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	if err := repository.CheckOwner(cm.UserID, requesterID); err != nil {
		return err
	}
	cm.Comment = text
	return nil
}

func (f *fakeComments) DeleteByIDAndOwner(_ context.Context, id, requesterID string) error {
	cm, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	if err := repository.CheckOwner(cm.UserID, requesterID); err != nil {
		return err
	}
	delete(f.byID, id)
	return nil
}

type fakePublisher struct {
	events []queue.FollowChangedEvent
}

func (f *fakePublisher) PublishFollowChanged(_ context.Context, ev queue.FollowChangedEvent) error {
	f.events = append(f.events, ev)
	return nil
}
