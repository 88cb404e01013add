package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cityfix/platform/internal/gateway"
	"github.com/cityfix/platform/internal/infrastructure/config"
	infrahttp "github.com/cityfix/platform/internal/infrastructure/http"
	"github.com/cityfix/platform/pkg/logger"
)

// @title						CityFix API
// @version					1.0
// @description				Civic issue reporting platform: citizens report problems, municipalities triage and resolve them.
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "orchestrator: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load[config.GatewayConfig](ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Service:     cfg.Name,
		Environment: cfg.Runtime.Environment,
		Level:       cfg.Runtime.LogLevel,
		Pretty:      cfg.Runtime.Development(),
	})

	e := gateway.NewRouter(gateway.Options{
		Service: cfg.Name,
		Registry: gateway.Registry{
			"auth":         cfg.AuthURL,
			"admin":        cfg.AdminURL,
			"ticket":       cfg.TicketURL,
			"media":        cfg.MediaURL,
			"geo":          cfg.GeoURL,
			"notification": cfg.NotificationURL,
		},
		UpstreamTimeout: cfg.UpstreamTimeout,
		HealthTimeout:   cfg.HealthTimeout,
		Log:             logger.Component("gateway"),
	})

	return infrahttp.Run(ctx, e, ":"+cfg.Port, log)
}
