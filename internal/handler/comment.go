package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// CommentHandler serves mutations of a user's own comments.
type CommentHandler struct {
	Comments CommentStore
}

func NewCommentHandler(comments CommentStore) *CommentHandler {
	return &CommentHandler{Comments: comments}
}

// Update rewrites the text of the authenticated user's own comment.
func (h *CommentHandler) Update(c echo.Context) error {
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

	if err := h.Comments.UpdateByIDAndOwner(ctx, c.Param("comment_id"), uid, req.Comment); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, nil, "comment updated")
}

// Delete removes the authenticated user's own comment.
func (h *CommentHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, CodeUnauthenticated, "not logged in")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Comments.DeleteByIDAndOwner(ctx, c.Param("comment_id"), uid); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, nil, "comment deleted")
}
