package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// ImageHost stores uploaded images and deletes them by handle.
type ImageHost interface {
	Upload(ctx context.Context, file io.Reader, filename string) (*HostedImage, error)
	Destroy(ctx context.Context, handle string) error
}

// HostedImage is the durable URL of an uploaded image and the handle that
// deletes it.
type HostedImage struct {
	URL    string
	Handle string
}

// ImageUpload is an image file received from a form.
type ImageUpload struct {
	Filename string
	Body     io.Reader
}

// ValidateImageFilename accepts jpg, jpeg, png and gif in any case.
func ValidateImageFilename(filename string) error {
	if !allowedImageExtensions[strings.ToLower(filepath.Ext(filename))] {
		return ErrInvalidImageType
	}
	return nil
}

// UniqueFilename prefixes the original name with a millisecond timestamp so
// two uploads of "tent.jpg" do not collide.
func UniqueFilename(original string, now time.Time) string {
	return fmt.Sprintf("%d%s", now.UnixMilli(), filepath.Base(original))
}
