package uploads

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/readloom/readloom/pkg/config"
)

// ErrObjectNotFound is returned by Store.Open when the key doesn't exist.
var ErrObjectNotFound = errors.New("object not found")

// Store keeps uploaded files under opaque keys.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// NewStore returns the backend selected by cfg.StorageBackend.
func NewStore(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendMinio:
		return NewMinioStore(ctx, MinioOptions{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
	case config.StorageBackendDisk, "":
		return NewDiskStore(cfg.UploadDir)
	default:
		return nil, errors.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
