package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/metawall/metawall/internal/repository"
)

// PostHandler serves the wall feed and post mutations.
type PostHandler struct {
	Posts    PostStore
	Comments CommentStore
}

func NewPostHandler(posts PostStore, comments CommentStore) *PostHandler {
	return &PostHandler{Posts: posts, Comments: comments}
}

type postReq struct {
	Content string `json:"content"`
	Image   string `json:"image"`
}
type commentReq struct {
	Comment string `json:"comment"`
}

// GetFeed returns posts filtered by the optional q, user_id and time_sort
// query parameters. Default order is newest first.
func (h *PostHandler) GetFeed(c echo.Context) error {
	filter := repository.FeedFilter{
		Keyword: c.QueryParam("q"),
		UserID:  c.QueryParam("user_id"),
		Asc:     c.QueryParam("time_sort") == "asc",
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	posts, err := h.Posts.Feed(ctx, filter)
	if err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, posts, "posts fetched")
}

// GetOne returns a single post.
func (h *PostHandler) GetOne(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Posts.FindByID(ctx, c.Param("post_id"))
	if err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, p, "post fetched")
}

// Create inserts a post owned by the authenticated user.
func (h *PostHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, CodeUnauthenticated, "not logged in")
	}
	var req postReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "invalid body")
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "content must not be empty")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Posts.Create(ctx, uid, req.Content, req.Image)
	if err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusCreated, echo.Map{"post_id": id.Hex()}, "post created")
}

// Update edits a post's content and image. The repository resolves existence
// before ownership, so an absent post is 404 and someone else's post is 403.
func (h *PostHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, CodeUnauthenticated, "not logged in")
	}
	var req postReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "invalid body")
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "content must not be empty")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Posts.UpdateByIDAndOwner(ctx, c.Param("post_id"), uid, req.Content, req.Image); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, nil, "post updated")
}

// Delete removes the authenticated user's own post.
func (h *PostHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, CodeUnauthenticated, "not logged in")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Posts.DeleteByIDAndOwner(ctx, c.Param("post_id"), uid); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, nil, "post deleted")
}

// Like adds the authenticated user to the post's like set.
func (h *PostHandler) Like(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, CodeUnauthenticated, "not logged in")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Posts.AddLike(ctx, c.Param("post_id"), uid); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, nil, "post liked")
}

// Unlike removes the authenticated user from the post's like set.
func (h *PostHandler) Unlike(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, CodeUnauthenticated, "not logged in")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Posts.RemoveLike(ctx, c.Param("post_id"), uid); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, nil, "post unliked")
}

// CreateComment adds a comment under an existing post.
func (h *PostHandler) CreateComment(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, CodeUnauthenticated, "not logged in")
	}
	var req commentReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "invalid body")
	}
	req.Comment = strings.TrimSpace(req.Comment)
	if req.Comment == "" {
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "comment must not be empty")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	postID := c.Param("post_id")
	if _, err := h.Posts.FindByID(ctx, postID); err != nil {
		return storeErr(c, err)
	}
	id, err := h.Comments.Create(ctx, uid, postID, req.Comment)
	if err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusCreated, echo.Map{"comment_id": id.Hex()}, "comment created")
}
