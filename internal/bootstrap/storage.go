package bootstrap

import (
	"context"

	"github.com/portfolio-dev/portfolio/config"
	"github.com/portfolio-dev/portfolio/internal/storage/files"
)

// OpenStore builds the configured file store.
func OpenStore(ctx context.Context, cfg config.StorageConfig) (files.Store, error) {
	if cfg.Driver == "s3" {
		s, err := files.NewS3(ctx, cfg.S3Bucket, cfg.S3Region, cfg.PublicBaseURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	l, err := files.NewLocal(cfg.Dir, cfg.PublicBaseURL)
	if err != nil {
		return nil, err
	}
	return l, nil
}
