package artifactstore

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/slidegen/internal/domain/generation"
	"github.com/yanqian/slidegen/pkg/util"
)

// Config locates the bucket produced decks are copied to.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Prefix    string
}

// MinioMirror uploads artifacts to an S3 compatible bucket (R2, MinIO, S3).
type MinioMirror struct {
	client *minio.Client
	bucket string
	prefix string
	logger *slog.Logger

	mu    sync.Mutex
	ready bool
}

// NewMinioMirror constructs the mirror.
func NewMinioMirror(cfg Config, logger *slog.Logger) (*MinioMirror, error) {
	cleanEndpoint := sanitizeEndpoint(cfg.Endpoint)
	useSSL := !strings.HasPrefix(strings.ToLower(strings.TrimSpace(cfg.Endpoint)), "http://")
	client, err := minio.New(cleanEndpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       useSSL,
		Region:       cfg.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init artifact mirror client: %w", err)
	}
	return &MinioMirror{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		logger: logger.With("component", "artifactstore.minio"),
	}, nil
}

func (m *MinioMirror) ensureBucket(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ready {
		return nil
	}
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil || !exists {
		err = m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
		if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
			return err
		}
	}
	m.ready = true
	return nil
}

// Mirror uploads the artifact under <prefix>/<filename>.
func (m *MinioMirror) Mirror(ctx context.Context, artifact generation.Artifact) error {
	if err := m.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket %s: %w", m.bucket, err)
	}
	key := ObjectKey(m.prefix, artifact.Filename)
	info, err := m.client.FPutObject(ctx, m.bucket, key, artifact.Path, minio.PutObjectOptions{
		ContentType: util.ContentTypeFor(artifact.Filename, "application/octet-stream"),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	m.logger.Info("artifact mirrored", "key", key, "size", info.Size, "format", string(artifact.Format))
	return nil
}

// ObjectKey joins prefix and the base name of filename.
func ObjectKey(prefix, filename string) string {
	name := path.Base(filename)
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

var _ generation.ArtifactMirror = (*MinioMirror)(nil)

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if idx := strings.Index(raw, "/"); idx >= 0 {
		raw = raw[:idx]
	}
	return raw
}
