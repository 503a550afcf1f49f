package service

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/centralake/site-server-go/internal/errors"
)

func TestInlineUploader(t *testing.T) {
	ctx := context.Background()
	uploader := NewInlineUploader(64)

	t.Run("encodes as a data URL with the right mime", func(t *testing.T) {
		url, err := uploader.Upload(ctx, []byte{0x89, 0x50, 0x4e, 0x47}, "logo.png")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

		decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/png;base64,"))
		require.NoError(t, err)
		assert.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, decoded)
	})

	t.Run("rejects oversized uploads", func(t *testing.T) {
		_, err := uploader.Upload(ctx, make([]byte, 65), "hero.jpg")
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUpload))
	})

	t.Run("rejects empty uploads", func(t *testing.T) {
		_, err := uploader.Upload(ctx, nil, "hero.jpg")
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUpload))
	})

	t.Run("unknown extensions fall back to octet-stream", func(t *testing.T) {
		url, err := uploader.Upload(ctx, []byte("x"), "report.bin")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "data:application/octet-stream;base64,"))
	})
}

func TestMimeForFilename(t *testing.T) {
	assert.Equal(t, "image/jpeg", mimeForFilename("photo.JPEG"))
	assert.Equal(t, "image/x-icon", mimeForFilename("favicon.ico"))
	assert.Equal(t, "image/svg+xml", mimeForFilename("mark.svg"))
	assert.Equal(t, "application/octet-stream", mimeForFilename("noext"))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "team_photo-1.png", sanitizeFilename("team photo-1.png"))
	assert.Equal(t, "passwd", sanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "upload", sanitizeFilename(""))
}
