package storage

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// Key prefixes inside the media bucket.
const (
	ExerciseMediaPrefix = "exercises"
	ProfileImagePrefix  = "profile-images"
)

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows PUT requests
	// for uploading an object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading/viewing an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

// NewObjectKey builds a collision-free key "<prefix>/<owner>/<uuid><ext>".
// ext is taken from the file name, e.g. "avatar.PNG" -> ".png".
func NewObjectKey(prefix, owner, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return path.Join(prefix, owner, uuid.NewString()+ext)
}

// ContentTypeForExt maps the image extensions clients upload to a MIME type.
func ContentTypeForExt(fileName string) (string, bool) {
	switch strings.ToLower(path.Ext(fileName)) {
	case ".jpg", ".jpeg":
		return "image/jpeg", true
	case ".png":
		return "image/png", true
	case ".webp":
		return "image/webp", true
	case ".gif":
		return "image/gif", true
	default:
		return "", false
	}
}
