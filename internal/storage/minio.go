package storage

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"smart-recruit/internal/config"
	"smart-recruit/internal/logger"
)

// ObjectStorage is the object-store surface of the CV pipeline.
type ObjectStorage interface {
	UploadResumeFile(ctx context.Context, resumeID, fileExt string, reader io.Reader, fileSize int64) (objectKey string, md5Hex string, err error)
	UploadParsedText(ctx context.Context, resumeID string, text string) (string, error)
	GetResumeFile(ctx context.Context, objectKey string) ([]byte, error)
	GetParsedText(ctx context.Context, objectKey string) (string, error)
	GetPresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
	DeleteResumeFile(ctx context.Context, objectKey string) error
}

var _ ObjectStorage = (*MinIO)(nil)

// MinIO stores original CV files and their extracted text in a bucket pair.
type MinIO struct {
	client         *minio.Client
	cfg            *config.MinIOConfig
	originalBucket string
	parsedBucket   string
	log            zerolog.Logger
}

// NewMinIO creates the client and ensures both buckets exist.
func NewMinIO(cfg *config.MinIOConfig) (*MinIO, error) {
	if cfg == nil {
		return nil, fmt.Errorf("minio config cannot be nil")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	originalBucket := cfg.OriginalsBucket
	if originalBucket == "" {
		originalBucket = "cv-originals"
	}
	parsedBucket := cfg.ParsedTextBucket
	if parsedBucket == "" {
		parsedBucket = "cv-parsed-text"
	}

	m := &MinIO{
		client:         client,
		cfg:            cfg,
		originalBucket: originalBucket,
		parsedBucket:   parsedBucket,
		log:            logger.Logger.With().Str("component", "minio").Logger(),
	}

	if err := m.ensureBucketExists(originalBucket, cfg.Location); err != nil {
		return nil, fmt.Errorf("failed to ensure originals bucket %s: %w", originalBucket, err)
	}
	if err := m.ensureBucketExists(parsedBucket, cfg.Location); err != nil {
		return nil, fmt.Errorf("failed to ensure parsed-text bucket %s: %w", parsedBucket, err)
	}

	m.log.Info().
		Str("endpoint", cfg.Endpoint).
		Str("originals_bucket", originalBucket).
		Str("parsed_bucket", parsedBucket).
		Msg("MinIO client initialized")
	return m, nil
}

func (m *MinIO) ensureBucketExists(bucketName, location string) error {
	exists, err := m.client.BucketExists(context.Background(), bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", bucketName, err)
	}
	if !exists {
		if err := m.client.MakeBucket(context.Background(), bucketName, minio.MakeBucketOptions{Region: location}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketName, err)
		}
		m.log.Info().Str("bucket", bucketName).Msg("bucket created")
	}
	return nil
}

// UploadResumeFile streams an original CV into the originals bucket, hashing
// it on the way in. Returns the object key and the hex MD5 of the content.
func (m *MinIO) UploadResumeFile(ctx context.Context, resumeID, fileExt string, reader io.Reader, fileSize int64) (string, string, error) {
	objectKey := fmt.Sprintf("resume/%s/original%s", resumeID, fileExt)
	contentType := contentTypeFor(fileExt)

	hasher := md5.New()
	tee := io.TeeReader(reader, hasher)

	info, err := m.client.PutObject(ctx, m.originalBucket, objectKey, tee, fileSize, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload %s/%s: %w", m.originalBucket, objectKey, err)
	}

	md5Hex := hex.EncodeToString(hasher.Sum(nil))
	m.log.Debug().
		Str("object", objectKey).
		Int64("size", info.Size).
		Str("md5", md5Hex).
		Msg("resume file uploaded")
	return objectKey, md5Hex, nil
}

// UploadParsedText stores the extracted plain text in the parsed bucket.
func (m *MinIO) UploadParsedText(ctx context.Context, resumeID string, text string) (string, error) {
	objectKey := fmt.Sprintf("resume/%s/parsed_text.txt", resumeID)
	_, err := m.client.PutObject(ctx, m.parsedBucket, objectKey, strings.NewReader(text), int64(len(text)), minio.PutObjectOptions{ContentType: "text/plain"})
	if err != nil {
		return "", fmt.Errorf("failed to upload parsed text %s to %s: %w", objectKey, m.parsedBucket, err)
	}
	return objectKey, nil
}

// GetResumeFile downloads an original CV by its object key.
func (m *MinIO) GetResumeFile(ctx context.Context, objectKey string) ([]byte, error) {
	return m.downloadObject(ctx, m.originalBucket, objectKey)
}

// GetParsedText downloads extracted resume text by its object key.
func (m *MinIO) GetParsedText(ctx context.Context, objectKey string) (string, error) {
	data, err := m.downloadObject(ctx, m.parsedBucket, objectKey)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (m *MinIO) downloadObject(ctx context.Context, bucketName, objectKey string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, bucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s/%s: %w", bucketName, objectKey, err)
	}
	defer obj.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, obj); err != nil {
		return nil, fmt.Errorf("failed to read object %s/%s: %w", bucketName, objectKey, err)
	}
	return buf.Bytes(), nil
}

// GetPresignedURL returns a temporary download URL for an original CV.
func (m *MinIO) GetPresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.originalBucket, objectKey, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s/%s: %w", m.originalBucket, objectKey, err)
	}
	return u.String(), nil
}

// DeleteResumeFile removes an original CV, used to roll back a failed upload.
func (m *MinIO) DeleteResumeFile(ctx context.Context, objectKey string) error {
	if err := m.client.RemoveObject(ctx, m.originalBucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %s/%s: %w", m.originalBucket, objectKey, err)
	}
	return nil
}

func contentTypeFor(ext string) string {
	switch strings.ToLower(ext) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
