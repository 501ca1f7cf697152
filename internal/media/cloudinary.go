// Package media proxies image uploads to the external media host.
package media

import (
	"context"
	"fmt"
	"io"

	"inkwell/internal/config"
	"inkwell/internal/models"
	"inkwell/internal/observability"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Uploader stores an image with the media host and returns its hosted URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

// CloudinaryUploader uploads images to Cloudinary.
type CloudinaryUploader struct {
	client *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryUploader builds an uploader from Cloudinary credentials.
func NewCloudinaryUploader(cfg *config.Config) (*CloudinaryUploader, error) {
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials are not configured")
	}

	client, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}

	return &CloudinaryUploader{client: client, folder: cfg.CloudinaryFolder}, nil
}

// Upload forwards the file to Cloudinary and returns the secure delivery URL.
// Cloudinary upserts by content, so the single retry is idempotent.
func (u *CloudinaryUploader) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	params := uploader.UploadParams{
		Folder:           u.folder,
		FilenameOverride: filename,
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		resp, err := u.client.Upload.Upload(ctx, r, params)
		if err == nil && resp != nil && resp.SecureURL != "" {
			observability.UpstreamRequests.WithLabelValues("media", "success").Inc()
			return resp.SecureURL, nil
		}
		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("media host returned no URL")
		}
		if ctx.Err() != nil {
			break
		}
		// The reader may be consumed; only retry when it can be rewound.
		seeker, ok := r.(io.Seeker)
		if !ok {
			break
		}
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			break
		}
	}

	observability.UpstreamRequests.WithLabelValues("media", "failure").Inc()
	return "", models.NewUpstreamError("media host", lastErr)
}
