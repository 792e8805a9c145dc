package main

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/identity-api/internal/api"
	"github.com/99minutos/identity-api/internal/api/metrics"
	"github.com/99minutos/identity-api/internal/api/session"
	"github.com/99minutos/identity-api/internal/core/ports"
	"github.com/99minutos/identity-api/internal/core/service"
	"github.com/99minutos/identity-api/internal/infrastructure/config"
	mongodb "github.com/99minutos/identity-api/internal/infrastructure/db/mongo"
	redisdb "github.com/99minutos/identity-api/internal/infrastructure/db/redis"
	httpserver "github.com/99minutos/identity-api/internal/infrastructure/http"
	"github.com/99minutos/identity-api/internal/infrastructure/http/handlers"
	"github.com/99minutos/identity-api/internal/infrastructure/security"
	"github.com/99minutos/identity-api/pkg/logger"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API",
		Action: func(cliCtx *cli.Context) error {
			return serve(cliCtx.Context)
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := initLogger(cfg)
	ctx = logger.WithContext(ctx, log)

	codec, err := security.NewTokenCodec(cfg.Session.Secret, cfg.TokenTTL())
	if err != nil {
		return fmt.Errorf("session codec: %w", err)
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer disconnect(client, log)

	users := mongodb.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		return err
	}

	health := map[string]handlers.Pinger{"mongodb": handlers.MongoPinger(db)}

	var throttle ports.LoginThrottle
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		throttle = redisdb.NewLoginThrottle(rdb, cfg.Login.MaxAttempts, cfg.Login.Window)
		health["redis"] = handlers.RedisPinger(rdb)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, login throttling disabled")
	}

	auth := service.NewAuthService(users, security.NewHasher(cfg.Session.BcryptCost), throttle, metrics.AuthRecorder{}, log)

	e := api.NewRouter(api.Deps{
		Config:  cfg,
		Users:   users,
		Auth:    auth,
		Cookies: session.NewCookieManager(codec, cfg.IsProduction()),
		Health:  health,
		Logger:  log,
	})

	log.Info().
		Str("env", cfg.Env).
		Dur("session_ttl", cfg.TokenTTL()).
		Msg("identity api configured")

	return httpserver.Serve(ctx, net.JoinHostPort("", cfg.Port), e)
}

func initLogger(cfg *config.Config) zerolog.Logger {
	return logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "identity-api",
	})
}

func disconnect(client *mongo.Client, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Warn().Err(err).Msg("mongo disconnect")
	}
}
