package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/metawall/metawall/internal/model"
)

func postCtx(e *echo.Echo, method, body, postID, userID string) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := jsonCtx(e, method, "/v1/posts/"+postID, body)
	c.SetParamNames("post_id")
	c.SetParamValues(postID)
	c.Set("user_id", userID)
	return c, rec
}

func TestUpdatePost_NotOwner(t *testing.T) {
	posts := newFakePosts()
	owner := primitive.NewObjectID()
	p := posts.add(&model.Post{UserID: owner, Content: "hello"})
	h := NewPostHandler(posts, newFakeComments())

	other := primitive.NewObjectID().Hex()
	c, rec := postCtx(echo.New(), http.MethodPatch, `{"content":"hijacked"}`, p.ID.Hex(), other)
	require.NoError(t, h.Update(c))

	// The post exists, so a non-owner gets 403, never 404.
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, CodeForbidden, decodeBody(t, rec)["code"])
	assert.Equal(t, "hello", p.Content)
}

func TestUpdatePost_Missing(t *testing.T) {
	h := NewPostHandler(newFakePosts(), newFakeComments())

	c, rec := postCtx(echo.New(), http.MethodPatch, `{"content":"x"}`,
		primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
	require.NoError(t, h.Update(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, CodeNotFound, decodeBody(t, rec)["code"])
}

func TestDeletePost_Owner(t *testing.T) {
	posts := newFakePosts()
	owner := primitive.NewObjectID()
	p := posts.add(&model.Post{UserID: owner, Content: "bye"})
	h := NewPostHandler(posts, newFakeComments())

	c, rec := postCtx(echo.New(), http.MethodDelete, "", p.ID.Hex(), owner.Hex())
	require.NoError(t, h.Delete(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, posts.byID)
}

func TestDeletePost_NotOwner(t *testing.T) {
	posts := newFakePosts()
	p := posts.add(&model.Post{UserID: primitive.NewObjectID(), Content: "keep"})
	h := NewPostHandler(posts, newFakeComments())

	c, rec := postCtx(echo.New(), http.MethodDelete, "", p.ID.Hex(), primitive.NewObjectID().Hex())
	require.NoError(t, h.Delete(c))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Len(t, posts.byID, 1)
}

func TestCreatePost_EmptyContent(t *testing.T) {
	h := NewPostHandler(newFakePosts(), newFakeComments())

	c, rec := jsonCtx(echo.New(), http.MethodPost, "/v1/posts", `{"content":"   "}`)
	c.Set("user_id", primitive.NewObjectID().Hex())
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLike_MissingPost(t *testing.T) {
	h := NewPostHandler(newFakePosts(), newFakeComments())

	c, rec := postCtx(echo.New(), http.MethodPost, "",
		primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
	require.NoError(t, h.Like(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLikeUnlike_RoundTrip(t *testing.T) {
	posts := newFakePosts()
	p := posts.add(&model.Post{UserID: primitive.NewObjectID(), Content: "likeable"})
	h := NewPostHandler(posts, newFakeComments())
	uid := primitive.NewObjectID().Hex()

	c, rec := postCtx(echo.New(), http.MethodPost, "", p.ID.Hex(), uid)
	require.NoError(t, h.Like(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, p.Likes, 1)

	// Liking twice keeps the set a set.
	c, _ = postCtx(echo.New(), http.MethodPost, "", p.ID.Hex(), uid)
	require.NoError(t, h.Like(c))
	assert.Len(t, p.Likes, 1)

	c, rec = postCtx(echo.New(), http.MethodDelete, "", p.ID.Hex(), uid)
	require.NoError(t, h.Unlike(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, p.Likes)
}

func TestCreateComment_MissingPost(t *testing.T) {
	h := NewPostHandler(newFakePosts(), newFakeComments())

	c, rec := postCtx(echo.New(), http.MethodPost, `{"comment":"hi"}`,
		primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
	require.NoError(t, h.CreateComment(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateComment_NotOwner(t *testing.T) {
	comments := newFakeComments()
	posts := newFakePosts()
	p := posts.add(&model.Post{UserID: primitive.NewObjectID(), Content: "parent"})
	owner := primitive.NewObjectID()
	id, err := comments.Create(nil, owner.Hex(), p.ID.Hex(), "mine")
	require.NoError(t, err)

	h := NewCommentHandler(comments)
	c, rec := jsonCtx(echo.New(), http.MethodPatch, "/v1/comments/"+id.Hex(), `{"comment":"stolen"}`)
	c.SetParamNames("comment_id")
	c.SetParamValues(id.Hex())
	c.Set("user_id", primitive.NewObjectID().Hex())
	require.NoError(t, h.Update(c))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
