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
	"github.com/cityfix/platform/internal/infrastructure/db/redis"
	infrahttp "github.com/cityfix/platform/internal/infrastructure/http"
	"github.com/cityfix/platform/internal/infrastructure/http/handlers"
	"github.com/cityfix/platform/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "auth-service: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load[config.AuthConfig](ctx)
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

	if err := mongo.EnsureIndexes(ctx, db, mongo.UserIndexes); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	tokens, err := service.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Algorithm, cfg.JWT.TTL())
	if err != nil {
		return err
	}

	authService := service.NewAuthService(
		mongo.NewUserRepository(db),
		service.NewPasswordHasher(cfg.BcryptRounds),
		tokens,
		redis.NewLoginLimiter(rdb, cfg.LoginMaxAttempts, cfg.LoginWindow),
		logger.Component("auth_service"),
	)

	if cfg.Runtime.Development() {
		if err := authService.SeedDevelopmentUsers(ctx); err != nil {
			log.Warn().Err(err).Msg("seeding development users failed")
		}
	}

	e := api.NewRouter(cfg.Name, log, map[string]handlers.Pinger{
		"mongodb": mongo.Pinger{Client: client},
		"redis":   redis.Pinger{Client: rdb},
	})
	api.RegisterAuthRoutes(e, handler.NewAuthHandler(authService), tokens)

	return infrahttp.Run(ctx, e, ":"+cfg.Port, log)
}
