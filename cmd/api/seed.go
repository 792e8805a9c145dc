package main

import (
	"github.com/urfave/cli/v2"

	"github.com/99minutos/identity-api/internal/core/domain"
	"github.com/99minutos/identity-api/internal/core/service"
	"github.com/99minutos/identity-api/internal/infrastructure/config"
	mongodb "github.com/99minutos/identity-api/internal/infrastructure/db/mongo"
	"github.com/99minutos/identity-api/internal/infrastructure/security"
)

func seedCmd() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Create the demo user when it does not exist",
		Action: func(cliCtx *cli.Context) error {
			ctx := cliCtx.Context
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			log := initLogger(cfg)

			client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
			if err != nil {
				return err
			}
			defer disconnect(client, log)

			users := mongodb.NewUserRepository(db)
			if err := users.EnsureIndexes(ctx); err != nil {
				return err
			}

			auth := service.NewAuthService(users, security.NewHasher(cfg.Session.BcryptCost), nil, nil, log)
			created, err := auth.SeedDemo(ctx)
			if err != nil {
				return err
			}
			if !created {
				log.Info().Str("username", domain.DemoUsername).Msg("demo user already present")
			}
			return nil
		},
	}
}
