package outfit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
)

// ImageUploader stores a new preview image for an outfit
type ImageUploader interface {
	UploadOutfitImage(ctx context.Context, outfitID int64, filename string, img io.Reader) (string, error)
}

// Signals is the part of the session store the service reports through
type Signals interface {
	ShowLoading(message string)
	HideLoading()
	ToggleImageCacheBuster()
	ImageVersion() uint64
}

// Service handles outfit preview images
type Service struct {
	uploader ImageUploader
	signals  Signals
	logger   *slog.Logger
}

func NewService(uploader ImageUploader, signals Signals, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		uploader: uploader,
		signals:  signals,
		logger:   logger,
	}
}

// UploadImage replaces the preview of an outfit. The backend keeps the
// image URL, so a successful upload flips the cache buster to make
// consumers refetch it.
func (s *Service) UploadImage(ctx context.Context, outfitID int64, filename string, img io.Reader) (string, error) {
	s.signals.ShowLoading("Uploading outfit image...")
	defer s.signals.HideLoading()

	imageURL, err := s.uploader.UploadOutfitImage(ctx, outfitID, filename, img)
	if err != nil {
		s.logger.Error("outfit image upload failed", "outfit", outfitID, "error", err)
		return "", fmt.Errorf("upload image for outfit %d: %w", outfitID, err)
	}

	s.signals.ToggleImageCacheBuster()
	s.logger.Info("outfit image uploaded", "outfit", outfitID)
	return imageURL, nil
}

// ImageURL is the package-level ImageURL with the store's current version
func (s *Service) ImageURL(raw string) string {
	return ImageURL(raw, s.signals.ImageVersion())
}

// ImageURL tags raw with a "v" query parameter set to version. Every
// cache-buster toggle bumps the version, so each upload yields a URL that
// was never handed out before.
func ImageURL(raw string, version uint64) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	q := u.Query()
	q.Set("v", strconv.FormatUint(version, 10))
	u.RawQuery = q.Encode()
	return u.String()
}
