package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cityfix/platform/internal/api"
	"github.com/cityfix/platform/internal/api/handler"
	"github.com/cityfix/platform/internal/core/ports"
	"github.com/cityfix/platform/internal/core/service"
	"github.com/cityfix/platform/internal/infrastructure/config"
	"github.com/cityfix/platform/internal/infrastructure/db/mongo"
	infrahttp "github.com/cityfix/platform/internal/infrastructure/http"
	"github.com/cityfix/platform/internal/infrastructure/http/handlers"
	"github.com/cityfix/platform/internal/infrastructure/storage"
	"github.com/cityfix/platform/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "media-service: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load[config.MediaConfig](ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Service:     cfg.Name,
		Environment: cfg.Runtime.Environment,
		Level:       cfg.Runtime.LogLevel,
		Pretty:      cfg.Runtime.Development(),
	})

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  cfg.Name,
	})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongo.EnsureIndexes(ctx, db, mongo.MediaIndexes); err != nil {
		return err
	}

	deps := map[string]handlers.Pinger{"mongodb": mongo.Pinger{Client: client}}

	var files ports.FileStorage
	switch cfg.Storage {
	case "s3":
		s3, err := storage.NewS3Storage(ctx, storage.S3Config{
			Endpoint:        cfg.S3.Endpoint,
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UsePathStyle:    cfg.S3.UsePathStyle,
		}, logger.Component("s3_storage"))
		if err != nil {
			return err
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			return err
		}
		deps["s3"] = s3
		files = s3
	case "local":
		local, err := storage.NewLocalStorage(cfg.UploadDir)
		if err != nil {
			return err
		}
		files = local
	default:
		return fmt.Errorf("unknown MEDIA_STORAGE %q", cfg.Storage)
	}
	log.Info().Str("storage", files.Name()).Msg("media storage ready")

	media := service.NewMediaService(mongo.NewDocumentStore(db), files, cfg.MaxUploadBytes, logger.Component("media_service"))

	e := api.NewRouter(cfg.Name, log, deps)
	api.RegisterMediaRoutes(e, handler.NewMediaHandler(media, cfg.MaxUploadBytes))

	return infrahttp.Run(ctx, e, ":"+cfg.Port, log)
}
