package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cityfix/platform/internal/api"
	"github.com/cityfix/platform/internal/api/handler"
	"github.com/cityfix/platform/internal/core/service"
	"github.com/cityfix/platform/internal/infrastructure/config"
	"github.com/cityfix/platform/internal/infrastructure/db/mongo"
	infrahttp "github.com/cityfix/platform/internal/infrastructure/http"
	"github.com/cityfix/platform/internal/infrastructure/http/handlers"
	"github.com/cityfix/platform/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "admin-service: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load[config.AdminConfig](ctx)
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

	tokens, err := service.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Algorithm, cfg.JWT.TTL())
	if err != nil {
		return err
	}

	store := mongo.NewDocumentStore(db)

	e := api.NewRouter(cfg.Name, log, map[string]handlers.Pinger{
		"mongodb": mongo.Pinger{Client: client},
	})
	api.RegisterAdminRoutes(e, api.AdminHandlers{
		Municipalities: handler.NewResourceHandler(service.NewMunicipalityService(store)),
		Categories:     handler.NewResourceHandler(service.NewCategoryService(store)),
		Statistics:     handler.NewStatisticsHandler(service.NewStatisticsService(store)),
	}, tokens)

	return infrahttp.Run(ctx, e, ":"+cfg.Port, log)
}
