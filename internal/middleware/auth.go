package middleware // middleware contains reusable HTTP middleware functions

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/metawall/metawall/internal/model"
	"github.com/metawall/metawall/internal/utils"
)

// UserFinder is the slice of the user store the session check needs: resolve
// an id to a live account.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// Auth returns an Echo middleware that authenticates requests carrying a
// Bearer access token. The token's signature and expiry are verified, then
// the subject is re-resolved against the user store so tokens belonging to a
// deleted account stop working immediately. That store lookup on every
// request is a deliberate consistency-over-latency tradeoff. On success the
// user's id (canonical hex form) and display name are stored in the request
// context under "user_id" and "user_name"; every failure mode is the same
// 401 response.
func Auth(secret string, users UserFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return unauthenticated(c)
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.VerifyAccessToken(secret, raw)
			if err != nil {
				return unauthenticated(c)
			}

			// The token alone is not trusted: the account must still exist.
			u, err := users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil || u == nil {
				return unauthenticated(c)
			}

			c.Set("user_id", u.ID.Hex())
			c.Set("user_name", u.Name)
			return next(c)
		}
	}
}

func unauthenticated(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"status":  false,
		"code":    "UNAUTHENTICATED",
		"message": "not logged in",
	})
}
