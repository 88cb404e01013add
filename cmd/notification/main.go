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
	"github.com/cityfix/platform/internal/infrastructure/messaging"
	"github.com/cityfix/platform/internal/infrastructure/queue"
	"github.com/cityfix/platform/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "notification-service: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load[config.NotificationConfig](ctx)
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

	if err := mongo.EnsureIndexes(ctx, db, mongo.NotificationIndexes); err != nil {
		return err
	}

	var publisher ports.NotificationPublisher = messaging.NoopPublisher{Log: logger.Component("publisher")}
	if cfg.AMQPURL != "" {
		p, err := messaging.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger.Component("publisher"))
		if err != nil {
			return err
		}
		defer p.Close()
		publisher = p
	} else {
		log.Warn().Msg("AMQP_URL not set, notification events will not be published")
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.DispatchWorkers, publisher, logger.Component("dispatcher"))
	dispatcher.Start(workerCtx)
	defer func() {
		cancelWorkers()
		dispatcher.Wait()
	}()

	notifications := service.NewNotificationService(mongo.NewDocumentStore(db), dispatcher, logger.Component("notification_service"))

	e := api.NewRouter(cfg.Name, log, map[string]handlers.Pinger{
		"mongodb": mongo.Pinger{Client: client},
	})
	api.RegisterNotificationRoutes(e, handler.NewNotificationHandler(notifications))

	return infrahttp.Run(ctx, e, ":"+cfg.Port, log)
}
