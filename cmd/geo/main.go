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
	"github.com/cityfix/platform/internal/infrastructure/geocoding"
	infrahttp "github.com/cityfix/platform/internal/infrastructure/http"
	"github.com/cityfix/platform/internal/infrastructure/http/handlers"
	"github.com/cityfix/platform/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "geo-service: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load[config.GeoConfig](ctx)
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

	if err := mongo.EnsureIndexes(ctx, db, mongo.GeoIndexes); err != nil {
		return err
	}

	geocoder := geocoding.NewNominatim(cfg.NominatimURL, cfg.GeocoderTimeout, logger.Component("nominatim"))

	e := api.NewRouter(cfg.Name, log, map[string]handlers.Pinger{
		"mongodb": mongo.Pinger{Client: client},
	})
	api.RegisterGeoRoutes(e, handler.NewGeoHandler(service.NewGeoService(geocoder, mongo.NewDocumentStore(db))))

	return infrahttp.Run(ctx, e, ":"+cfg.Port, log)
}
