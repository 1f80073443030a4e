package handler

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// maxImageBytes caps uploads at 2 MiB.
const maxImageBytes = 2 << 20

// UploadHandler pushes image files to object storage and records their URLs.
type UploadHandler struct {
	Blobs  BlobUploader
	Images ImageStore
}

func NewUploadHandler(blobs BlobUploader, images ImageStore) *UploadHandler {
	return &UploadHandler{Blobs: blobs, Images: images}
}

// Upload accepts a multipart "image" file (jpg, jpeg or png, at most 2 MiB),
// stores the bytes and returns the public URL.
func (h *UploadHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "image file is required")
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "only jpg, jpeg and png files are accepted")
	}
	if fh.Size > maxImageBytes {
		return fail(c, http.StatusBadRequest, CodeValidationFailed, "image exceeds the 2MB size limit")
	}
	src, err := fh.Open()
	if err != nil {
		return storeErr(c, err)
	}
	defer src.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	url, err := h.Blobs.Upload(ctx, fh.Filename, contentType, src)
	if err != nil {
		return storeErr(c, err)
	}
	if _, err := h.Images.Create(ctx, url); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusCreated, echo.Map{"url": url}, "image uploaded")
}

// List returns the recorded image URLs.
func (h *UploadHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	images, err := h.Images.List(ctx)
	if err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, images, "images fetched")
}
