package blobstore

import (
	"context"

	"github.com/hrsync/tcsync/internal/config"
)

// New selects and constructs the Store backend described by cfg: S3 when
// USE_S3_STORAGE is set, otherwise the local filesystem rooted at dir
// (typically the working directory passed on the command line).
func New(ctx context.Context, cfg *config.Config, localDir string) (Store, error) {
	if cfg.UseS3Storage {
		return NewS3Store(ctx, S3Config{
			Endpoint:       cfg.S3Endpoint,
			Region:         cfg.S3Region,
			Bucket:         cfg.S3Bucket,
			AccessKeyID:    cfg.S3AccessKeyID,
			SecretKey:      cfg.S3SecretKey,
			PathPrefix:     cfg.S3PathPrefix,
			ForcePathStyle: cfg.S3ForcePathStyle,
		})
	}
	return NewLocalStore(localDir)
}
