package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type CloudinaryImageHost struct {
	cld    *cloudinary.Cloudinary
	folder string
	now    func() time.Time
}

func NewCloudinaryImageHost(cloudName, apiKey, apiSecret, folder string) (*CloudinaryImageHost, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	return &CloudinaryImageHost{
		cld:    cld,
		folder: folder,
		now:    time.Now,
	}, nil
}

// Upload stores the image under the configured folder. The public id is the
// timestamped original filename without its extension.
func (s *CloudinaryImageHost) Upload(ctx context.Context, file io.Reader, filename string) (*HostedImage, error) {
	unique := UniqueFilename(filename, s.now())
	publicID := strings.TrimSuffix(unique, path.Ext(unique))

	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         s.folder,
		PublicID:       publicID,
		UniqueFilename: api.Bool(false),
		ResourceType:   "image",
	})
	if err != nil {
		return nil, &ImageHostError{Op: "upload", Err: err}
	}
	if result.Error.Message != "" {
		return nil, &ImageHostError{Op: "upload", Err: errors.New(result.Error.Message)}
	}

	return &HostedImage{URL: result.SecureURL, Handle: result.PublicID}, nil
}

func (s *CloudinaryImageHost) Destroy(ctx context.Context, handle string) error {
	result, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     handle,
		ResourceType: "image",
	})
	if err != nil {
		return &ImageHostError{Op: "destroy", Err: err}
	}
	if result.Error.Message != "" {
		return &ImageHostError{Op: "destroy", Err: errors.New(result.Error.Message)}
	}
	// "not found" means the image is already gone, which is what we wanted
	if result.Result != "ok" && result.Result != "not found" {
		return &ImageHostError{Op: "destroy", Err: fmt.Errorf("cloudinary destroy returned %q", result.Result)}
	}
	return nil
}
