package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/centralake/site-server-go/internal/config"
	apperrors "github.com/centralake/site-server-go/internal/errors"
)

// Uploader turns raw image bytes into a URL the content document can carry.
type Uploader interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
}

// NewUploader picks the strategy configured for this deployment.
func NewUploader(cfg *config.Config) (Uploader, error) {
	switch cfg.UploadStrategy {
	case "s3":
		return NewS3Uploader(cfg)
	default:
		return NewInlineUploader(config.MaxUploadBytes), nil
	}
}

// InlineUploader encodes the image as a data URL so it travels inside the
// content document itself. The size cap keeps the single-row store from
// ballooning.
type InlineUploader struct {
	maxBytes int
}

func NewInlineUploader(maxBytes int) *InlineUploader {
	return &InlineUploader{maxBytes: maxBytes}
}

func (u *InlineUploader) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", apperrors.Upload("empty upload", nil)
	}
	if len(data) > u.maxBytes {
		return "", apperrors.Upload(fmt.Sprintf("upload exceeds %d bytes", u.maxBytes), nil)
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeForFilename(filename), base64.StdEncoding.EncodeToString(data)), nil
}

// S3Uploader writes media to a bucket and returns a public URL.
type S3Uploader struct {
	svc           *s3.S3
	bucket        string
	publicBaseURL string
}

func NewS3Uploader(cfg *config.Config) (*S3Uploader, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.S3Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AwsAccessKeyID,
			cfg.AwsSecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}

	base := cfg.S3PublicBaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	}
	return &S3Uploader{
		svc:           s3.New(sess),
		bucket:        cfg.S3Bucket,
		publicBaseURL: strings.TrimSuffix(base, "/"),
	}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", apperrors.Upload("empty upload", nil)
	}

	key := fmt.Sprintf("media/%s-%s", uuid.NewString(), sanitizeFilename(filename))
	_, err := u.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        aws.ReadSeekCloser(bytes.NewReader(data)),
		ContentType: aws.String(mimeForFilename(filename)),
	})
	if err != nil {
		return "", apperrors.Upload("failed to store media object", err)
	}
	return fmt.Sprintf("%s/%s", u.publicBaseURL, key), nil
}

func mimeForFilename(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".ico":
		return "image/x-icon"
	default:
		return "application/octet-stream"
	}
}

func sanitizeFilename(filename string) string {
	filename = path.Base(filename)
	if filename == "." || filename == "/" {
		return "upload"
	}
	var b strings.Builder
	for _, r := range filename {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "upload"
	}
	return b.String()
}
