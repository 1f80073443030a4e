package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/metawall/metawall/internal/model"
	"github.com/metawall/metawall/internal/queue"
	"github.com/metawall/metawall/internal/repository"
	"github.com/metawall/metawall/internal/utils"
)

// ProfileHandler serves the member endpoints: own profile, walls, like and
// comment lists, and the follow graph.
type ProfileHandler struct {
	Users     UserStore
	Posts     PostStore
	Comments  CommentStore
	Publisher FollowPublisher
}

func NewProfileHandler(users UserStore, posts PostStore, comments CommentStore, pub FollowPublisher) *ProfileHandler {
	return &ProfileHandler{Users: users, Posts: posts, Comments: comments, Publisher: pub}
}

type updateProfileReq struct {
	Name  string `json:"name"`
	Sex   string `json:"sex"`
	Photo string `json:"photo"`
}

// followsPart is the follow-graph view of a user.
type followsPart struct {
	Followers []model.FollowRef `json:"followers"`
	Following []model.FollowRef `json:"following"`
}

func toProfile(u *model.User) profilePart {
	return profilePart{ID: u.ID.Hex(), Name: u.Name, Email: u.Email, Photo: u.Photo, Sex: u.Sex}
}

// GetProfile returns the authenticated user's public fields.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, CodeUnauthenticated, "not logged in")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.FindByID(ctx, uid)
	if err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, echo.Map{"user": toProfile(u)}, "profile fetched")
}

// UpdateProfile edits name, sex and photo.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, CodeUnauthenticated, "not logged in")
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "invalid body")
	}
	if !utils.ValidName(req.Name, 2) {
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "name must be at least 2 characters")
	}
	if req.Sex != "male" && req.Sex != "female" {
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "sex must be male or female")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.UpdateProfile(ctx, uid, req.Name, req.Sex, req.Photo)
	if err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, echo.Map{"user": toProfile(u)}, "profile updated")
}

// GetWall returns another user's public profile together with their posts.
func (h *ProfileHandler) GetWall(c echo.Context) error {
	target := c.Param("user_id")
	if _, err := primitive.ObjectIDFromHex(target); err != nil {
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "invalid user id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.FindByID(ctx, target)
	if err != nil {
		return storeErr(c, err)
	}
	posts, err := h.Posts.Feed(ctx, repository.FeedFilter{UserID: u.ID.Hex()})
	if err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, echo.Map{"user": toProfile(u), "posts": posts}, "wall fetched")
}

// GetLikeList returns the posts the authenticated user liked.
func (h *ProfileHandler) GetLikeList(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, CodeUnauthenticated, "not logged in")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	posts, err := h.Posts.LikedBy(ctx, uid)
	if err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, posts, "liked posts fetched")
}

// GetFollowList returns the authenticated user's followers and following.
func (h *ProfileHandler) GetFollowList(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, CodeUnauthenticated, "not logged in")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.FindByID(ctx, uid)
	if err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, followsPart{Followers: u.Followers, Following: u.Following}, "follow list fetched")
}

// GetCommentList returns the authenticated user's comments.
func (h *ProfileHandler) GetCommentList(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, CodeUnauthenticated, "not logged in")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	comments, err := h.Comments.FindByUser(ctx, uid)
	if err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, comments, "comments fetched")
}

// Follow adds the target to the caller's following list and the caller to
// the target's followers list, then emits a follow.sync event so the
// reconciliation consumer can repair a half-applied pair.
func (h *ProfileHandler) Follow(c echo.Context) error {
	return h.changeFollow(c, queue.FollowActionFollow)
}

// Unfollow removes the relation from both sides; the round trip with Follow
// restores both lists to their prior state.
func (h *ProfileHandler) Unfollow(c echo.Context) error {
	return h.changeFollow(c, queue.FollowActionUnfollow)
}

func (h *ProfileHandler) changeFollow(c echo.Context, action string) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, CodeUnauthenticated, "not logged in")
	}
	target := c.Param("user_id")
	if target == uid {
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "cannot follow yourself")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// The target must exist before any relation write.
	if _, err := h.Users.FindByID(ctx, target); err != nil {
		return storeErr(c, err)
	}

	if action == queue.FollowActionFollow {
		err = h.Users.AddFollow(ctx, uid, target)
	} else {
		err = h.Users.RemoveFollow(ctx, uid, target)
	}
	if err != nil {
		return storeErr(c, err)
	}

	if h.Publisher != nil {
		ev := queue.FollowChangedEvent{
			FollowerID: uid,
			FolloweeID: target,
			Action:     action,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := h.Publisher.PublishFollowChanged(ctx, ev); err != nil {
			log.Printf("follow publish failed: %v", err) // best effort, the writes above already happened
		}
	}

	if action == queue.FollowActionFollow {
		return ok(c, http.StatusOK, nil, "followed")
	}
	return ok(c, http.StatusOK, nil, "unfollowed")
}
