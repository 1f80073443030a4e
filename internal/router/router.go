// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/metawall/metawall/internal/config"
	"github.com/metawall/metawall/internal/handler"
	"github.com/metawall/metawall/internal/middleware"
)

// Handlers collects the constructed handlers for registration.
type Handlers struct {
	Auth    *handler.AuthHandler
	Profile *handler.ProfileHandler
	Post    *handler.PostHandler
	Comment *handler.CommentHandler
	Upload  *handler.UploadHandler
}

// Register mounts all routes. Credential endpoints live under /v1/auth behind
// the rate limiter; everything else under /v1 requires a valid bearer token
// resolved against the user store.
func Register(e *echo.Echo, cfg config.Config, h Handlers, users middleware.UserFinder, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	auth := e.Group("/v1/auth")
	auth.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))
	auth.POST("/signup", h.Auth.Signup)
	auth.POST("/login", h.Auth.Login)

	v1 := e.Group("/v1")
	v1.Use(middleware.Auth(cfg.JWTSecret, users))

	// Account.
	v1.POST("/auth/password", h.Auth.UpdatePassword)
	v1.GET("/profile", h.Profile.GetProfile)
	v1.PATCH("/profile", h.Profile.UpdateProfile)
	v1.GET("/profile/likes", h.Profile.GetLikeList)
	v1.GET("/profile/follows", h.Profile.GetFollowList)
	v1.GET("/profile/comments", h.Profile.GetCommentList)

	// Other members.
	v1.GET("/users/:user_id/wall", h.Profile.GetWall)
	v1.POST("/users/:user_id/follow", h.Profile.Follow)
	v1.DELETE("/users/:user_id/follow", h.Profile.Unfollow)

	// Posts. The feed read goes through the response cache.
	v1.GET("/posts", h.Post.GetFeed, middleware.Cache(config.LoadCacheConfig(), rdb))
	v1.POST("/posts", h.Post.Create)
	v1.GET("/posts/:post_id", h.Post.GetOne)
	v1.PATCH("/posts/:post_id", h.Post.Update)
	v1.DELETE("/posts/:post_id", h.Post.Delete)
	v1.POST("/posts/:post_id/like", h.Post.Like)
	v1.DELETE("/posts/:post_id/like", h.Post.Unlike)
	v1.POST("/posts/:post_id/comments", h.Post.CreateComment)

	// Comments.
	v1.PATCH("/comments/:comment_id", h.Comment.Update)
	v1.DELETE("/comments/:comment_id", h.Comment.Delete)

	// Uploads.
	v1.POST("/upload", h.Upload.Upload)
	v1.GET("/uploads", h.Upload.List)
}
