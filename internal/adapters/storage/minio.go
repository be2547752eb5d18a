// Package storage provides MinIO-backed object storage for call-recording
// evidence.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"qc_portal_backend/platform/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// PresignedURLTTL is the expiration time for presigned download URLs.
const PresignedURLTTL = 15 * time.Minute

// allowedContentTypes lists the audio formats accepted as call-recording
// evidence. Anything else is rejected before the upload starts.
var allowedContentTypes = map[string]bool{
	"audio/mpeg":  true,
	"audio/mp4":   true,
	"audio/wav":   true,
	"audio/x-wav": true,
	"audio/ogg":   true,
	"audio/webm":  true,
}

// RecordingStore uploads and serves call recordings from MinIO.
type RecordingStore struct {
	client      *minio.Client
	bucket      string
	maxFileSize int64
}

// NewRecordingStore creates the store. Returns an error when MinIO is not
// configured; callers treat a nil store as evidence uploads disabled.
func NewRecordingStore(cfg config.MinIOConfig) (*RecordingStore, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &RecordingStore{
		client:      client,
		bucket:      cfg.GetMinioBucketCallRecordings(),
		maxFileSize: cfg.GetMinIOMaxFileSize(),
	}, nil
}

// EnsureBucketExists creates the recordings bucket if it doesn't exist.
func (s *RecordingStore) EnsureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// UploadRecording stores one call recording and returns its object URL.
// Object keys are namespaced by lead and salted with a UUID fragment so a
// re-upload never overwrites earlier evidence.
func (s *RecordingStore) UploadRecording(ctx context.Context, leadID uuid.UUID, fileName, contentType string, r io.Reader, size int64) (string, error) {
	if !allowedContentTypes[contentType] {
		return "", fmt.Errorf("unsupported recording content type %q", contentType)
	}
	if s.maxFileSize > 0 && size > s.maxFileSize {
		return "", fmt.Errorf("recording size %d exceeds limit %d", size, s.maxFileSize)
	}

	ext := path.Ext(fileName)
	base := strings.TrimSuffix(path.Base(fileName), ext)
	key := fmt.Sprintf("%s/%s_%s%s", leadID, base, uuid.New().String()[:8], ext)

	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload recording: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL(), s.bucket, key), nil
}

// DownloadURL creates a presigned GET URL for a stored recording.
func (s *RecordingStore) DownloadURL(ctx context.Context, fileKey string) (string, error) {
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, fileKey, PresignedURLTTL, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned download URL: %w", err)
	}
	return presigned.String(), nil
}
