// @title        Identity API
// @version      1.0
// @description  Signup, login and cookie-based session restoration.
// @BasePath     /api
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "identity-api",
		Usage: "User accounts and cookie sessions over HTTP",
		Commands: []*cli.Command{
			serveCmd(),
			seedCmd(),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("application failed")
		os.Exit(1)
	}
}
