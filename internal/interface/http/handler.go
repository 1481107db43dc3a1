// Package handlers wires the HTTP surface: server-rendered pages, form
// posts that redirect to "/", and the JSON follow/unfollow pair.
package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"warbler/internal/apperrors"
	"warbler/internal/application"
)

// statusFor maps the error taxonomy to HTTP: NotFound to 404, external
// collaborator failures to 502, anything else to 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case apperrors.IsExternal(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return "not found"
	case apperrors.IsExternal(err):
		return "upstream service unavailable"
	default:
		return "internal error"
	}
}

// imageUpload adapts an optional multipart file into the service-layer
// upload type. Returns (nil, nil, nil) when no file was submitted.
func imageUpload(c *gin.Context, field string) (*application.ImageUpload, multipart.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	if fh.Filename == "" {
		return nil, nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &application.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Reader:      f,
	}, f, nil
}
