package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and validating signed tokens
)

// ErrInvalidToken is returned by VerifyAccessToken for every failure mode:
// bad signature, malformed token, wrong signing algorithm or expiry. The
// caller cannot tell which check failed, so a rejected request leaks nothing
// about the token it carried.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken represents a signed JWT along with its expiry. The server keeps
// no record of issued tokens; validity is decided purely by signature and
// expiry at verification time, and logout is a client-side discard.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// TokenClaims is the identity claim carried inside an access token.
type TokenClaims struct {
	UserID string // subject: the user document id in canonical hex form
	Name   string // display name at issuance time
}

// NewAccessToken builds and signs an HS256 JWT for a user. The claims are the
// subject (user id hex), the display name, expiration and issued-at. No state
// is persisted; issuing a token has no side effects.
func NewAccessToken(secret, userID, name string, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  userID,
		"name": name,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// VerifyAccessToken validates the signature and expiry of a raw token string
// and extracts its identity claims. Only HMAC-signed tokens are accepted;
// jwt.Parse enforces the exp claim when present.
func VerifyAccessToken(secret, raw string) (TokenClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return TokenClaims{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return TokenClaims{}, ErrInvalidToken
	}
	name, _ := claims["name"].(string)
	return TokenClaims{UserID: sub, Name: name}, nil
}
