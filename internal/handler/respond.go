package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/metawall/metawall/internal/repository"
)

// Stable machine-readable error codes carried in failure envelopes.
const (
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInternal           = "INTERNAL"
)

// ok writes the success envelope. Data may be nil for message-only responses.
func ok(c echo.Context, status int, data interface{}, message string) error {
	body := echo.Map{"status": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	return c.JSON(status, body)
}

// fail writes the failure envelope with a stable code and a human message.
func fail(c echo.Context, status int, code, message string) error {
	return c.JSON(status, echo.Map{"status": false, "code": code, "message": message})
}

// storeErr translates repository sentinels into responses. Anything
// unexpected is logged in full server-side and reported as a generic
// internal failure so no store detail leaks to the client.
func storeErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fail(c, http.StatusNotFound, CodeNotFound, "resource not found")
	case errors.Is(err, repository.ErrForbidden):
		return fail(c, http.StatusForbidden, CodeForbidden, "not the owner of this resource")
	case errors.Is(err, repository.ErrEmailExists):
		return fail(c, http.StatusConflict, CodeConflict, "email already registered")
	case errors.Is(err, repository.ErrSelfFollow):
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "cannot follow yourself")
	default:
		log.Printf("%s %s: store error: %v", c.Request().Method, c.Path(), err)
		return fail(c, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}

// getUserID returns the authenticated user's id placed in context by the
// auth middleware.
func getUserID(c echo.Context) (string, error) {
	id, _ := c.Get("user_id").(string)
	if id == "" {
		return "", errors.New("no user_id in context")
	}
	return id, nil
}
