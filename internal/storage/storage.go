// Package storage persists tenant branding assets (logos). Video content
// never passes through here; that belongs to the CDN.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Driver is a branding-asset backend.
type Driver interface {
	// Upload stores the asset under key and returns its public URL.
	Upload(ctx context.Context, file io.Reader, key string) (string, error)

	// Delete removes the asset.
	Delete(ctx context.Context, key string) error

	// PublicURL returns the serving URL for a stored key.
	PublicURL(key string) string
}

// Config holds the storage configuration
type Config struct {
	Driver string // local, s3, r2

	UploadsPath string

	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	AWSBucket          string

	R2AccessKeyID     string
	R2SecretAccessKey string
	R2AccountID       string
	R2Bucket          string
	R2PublicURL       string
}

// NewDriver creates a storage driver based on configuration
func NewDriver(cfg *Config) (Driver, error) {
	switch cfg.Driver {
	case "local", "":
		uploadsPath := cfg.UploadsPath
		if uploadsPath == "" {
			uploadsPath = "./uploads"
		}
		return NewLocalStorage(uploadsPath), nil

	case "s3":
		return NewS3Storage(cfg)

	case "r2":
		return NewR2Storage(cfg)

	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

// contentType returns the MIME type for the asset extensions we accept.
func contentType(key string) string {
	switch {
	case strings.HasSuffix(key, ".jpg"), strings.HasSuffix(key, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(key, ".png"):
		return "image/png"
	case strings.HasSuffix(key, ".webp"):
		return "image/webp"
	case strings.HasSuffix(key, ".svg"):
		return "image/svg+xml"
	}
	return "application/octet-stream"
}
