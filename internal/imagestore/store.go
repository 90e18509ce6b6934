// Package imagestore keeps campground photos in an object store and hands
// back {url, filename} pairs. The filename is the object key and is what
// later deletes refer to.
package imagestore

import (
	"context"
	"errors"
	"io"
	"strings"
)

var (
	ErrUnsupportedType = errors.New("only jpeg, png and webp images are accepted")
	ErrNotConfigured   = errors.New("image storage is not configured")
)

type Image struct {
	URL      string `json:"url" validate:"required"`
	Filename string `json:"filename" validate:"required"`
}

type Store interface {
	Upload(ctx context.Context, name, contentType string, body io.ReadSeeker) (Image, error)
	Delete(ctx context.Context, filename string) error
	List(ctx context.Context, prefix string, max int) ([]Image, error)
}

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ExtensionFor returns the key extension for an accepted content type.
func ExtensionFor(contentType string) (string, bool) {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	ext, ok := allowedTypes[ct]
	return ext, ok
}
