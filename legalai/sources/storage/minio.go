package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"legalai/legalai/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOClient keeps a copy of every document an admin uploads for
// ingestion.
type MinIOClient struct {
	client *minio.Client
	bucket string
}

func NewMinIOClient(ctx context.Context, cfg config.Config) (*MinIOClient, error) {
	bucket := cfg.MinIOBucket
	client, err := minio.New(
		cfg.MinIOEndpoint,
		&minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: cfg.MinIOSecure,
		},
	)
	if err != nil {
		return nil, err
	}
	// Create bucket if not exists
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}
	return &MinIOClient{client: client, bucket: bucket}, nil
}

// ArchiveKey builds the object key for an upload: ingest/<day>/<admin>/<id>-<name>.
func ArchiveKey(adminID, fileName string, now time.Time) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "upload"
	}
	return path.Join("ingest", now.UTC().Format("2006-01-02"), adminID, uuid.NewString()+"-"+name)
}

func (m *MinIOClient) ArchiveDocument(ctx context.Context, adminID, fileName string, data []byte) (string, error) {
	key := ArchiveKey(adminID, fileName, time.Now())
	contentType := http.DetectContentType(data)
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"admin-id": adminID, "file-name": fileName},
	})
	if err != nil {
		return "", fmt.Errorf("archive %s: %w", fileName, err)
	}
	return key, nil
}
