package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simplefit/internal/config"
)

func TestNewObjectKey(t *testing.T) {
	a := NewObjectKey(ProfileImagePrefix, "u1", "Avatar.PNG")
	b := NewObjectKey(ProfileImagePrefix, "u1", "Avatar.PNG")

	assert.True(t, strings.HasPrefix(a, "profile-images/u1/"))
	assert.True(t, strings.HasSuffix(a, ".png"))
	assert.NotEqual(t, a, b)
}

func TestContentTypeForExt(t *testing.T) {
	ct, ok := ContentTypeForExt("me.JPEG")
	assert.True(t, ok)
	assert.Equal(t, "image/jpeg", ct)

	_, ok = ContentTypeForExt("notes.txt")
	assert.False(t, ok)
}

// Presigning is computed locally, so no S3 server is needed.
func TestS3Storage_Presign(t *testing.T) {
	s, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        "localhost:9000",
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "secret",
		BucketName:      "media",
		UseSSL:          true,
	})
	require.NoError(t, err)

	raw, err := s.GeneratePresignedDownloadURL(context.Background(), "exercises/bench.jpg", time.Minute)
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/media/exercises/bench.jpg", u.Path)
	assert.Equal(t, "60", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))

	raw, err = s.GeneratePresignedUploadURL(context.Background(), "profile-images/u1/x.png", "image/png", 0)
	require.NoError(t, err)
	u, err = url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
}

func TestNewS3Storage_RequiresBucket(t *testing.T) {
	_, err := NewS3Storage(context.Background(), config.S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}
