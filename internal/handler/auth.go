package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/metawall/metawall/internal/config"
	"github.com/metawall/metawall/internal/repository"
	"github.com/metawall/metawall/internal/utils"
)

// AuthHandler bundles dependencies for the account endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
}

func NewAuthHandler(cfg config.Config, users UserStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

// ----- DTOs -----

type signupReq struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type updatePasswordReq struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// profilePart is the public view of an account. The password hash has no
// field here on purpose.
type profilePart struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo,omitempty"`
	Sex   string `json:"sex,omitempty"`
}

type loginResp struct {
	User    profilePart `json:"user"`
	Token   string      `json:"token"`
	Expires time.Time   `json:"expires"`
}

// validPassword applies the configured policy.
func (h *AuthHandler) validPassword(pw string) bool {
	return utils.ValidPassword(pw, h.Cfg.PasswordMinLen, h.Cfg.PasswordRequireAlnum)
}

// Signup registers an account. No token is issued; the caller logs in
// separately.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Email == "" || req.Password == "" || req.ConfirmPassword == "" {
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "name, email, password and confirmPassword are required")
	}
	if !utils.ValidName(req.Name, 2) {
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "name must be at least 2 characters")
	}
	if req.Password != req.ConfirmPassword {
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "passwords do not match")
	}
	if !h.validPassword(req.Password) {
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "password does not meet the policy")
	}
	if !utils.ValidEmail(req.Email) {
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "invalid email address")
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return storeErr(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.Create(ctx, req.Name, req.Email, hash); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusCreated, nil, "registered, please log in")
}

// Login verifies credentials and returns a fresh access token plus the
// public profile. Unknown email and wrong password are indistinguishable to
// the caller.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "email and password are required")
	}
	if !utils.ValidEmail(req.Email) {
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "invalid email address")
	}
	if !h.validPassword(req.Password) {
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "password does not meet the policy")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusUnauthorized, CodeInvalidCredentials, "invalid credentials")
		}
		return storeErr(c, err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, CodeInvalidCredentials, "invalid credentials")
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID.Hex(), u.Name, h.Cfg.JWTTTLMin)
	if err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, loginResp{
		User: profilePart{
			ID:    u.ID.Hex(),
			Name:  u.Name,
			Email: u.Email,
			Photo: u.Photo,
			Sex:   u.Sex,
		},
		Token:   access.Token,
		Expires: access.Exp,
	}, "logged in")
}

// UpdatePassword re-hashes and overwrites the password of the authenticated
// user. Outstanding tokens remain valid until their natural expiry.
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, CodeUnauthenticated, "not logged in")
	}
	var req updatePasswordReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "invalid body")
	}
	if req.Password == "" || req.ConfirmPassword == "" {
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "password and confirmPassword are required")
	}
	if req.Password != req.ConfirmPassword {
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "passwords do not match")
	}
	if !h.validPassword(req.Password) {
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "password does not meet the policy")
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return storeErr(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdatePassword(ctx, uid, hash); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, nil, "password updated")
}
