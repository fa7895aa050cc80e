package app

import (
	"context"
	"fmt"

	"github.com/worklab/newsdigest/internal/config"
	"github.com/worklab/newsdigest/internal/logger"
	"github.com/worklab/newsdigest/internal/storage"
)

// OpenBackend returns the history backend selected by HISTORY_BACKEND and
// a function releasing its connections.
func OpenBackend(ctx context.Context, cfg *config.Config) (storage.Backend, func() error, error) {
	noop := func() error { return nil }

	switch cfg.HistoryBackend {
	case "file", "":
		logger.Info("Using file history", "path", cfg.HistoryFilePath)
		return storage.NewFileBackend(cfg.HistoryFilePath), noop, nil

	case "postgres":
		b, err := storage.NewPostgresBackend(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using PostgreSQL history")
		return b, b.Close, nil

	case "sqlite":
		b, err := storage.NewSQLiteBackend(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using SQLite history", "path", cfg.SQLitePath)
		return b, b.Close, nil

	case "redis":
		b, err := storage.NewRedisBackend(ctx, storage.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Key:      cfg.RedisKey,
		})
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using Redis history", "addr", cfg.RedisAddr, "key", cfg.RedisKey)
		return b, b.Close, nil

	case "s3":
		b, err := storage.NewS3Backend(ctx, storage.S3Options{
			Region:       cfg.AWSRegion,
			Bucket:       cfg.S3Bucket,
			Key:          cfg.S3Key,
			UsePathStyle: cfg.S3UsePathStyle,
		})
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using S3 history", "bucket", cfg.S3Bucket, "key", cfg.S3Key)
		return b, noop, nil
	}

	return nil, nil, fmt.Errorf("unknown history backend %q", cfg.HistoryBackend)
}
