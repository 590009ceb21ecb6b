package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/anonto42/foodhelper/backend/pkg/config"
	"github.com/anonto42/foodhelper/backend/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(os.Stderr, cfg.LogLevel)

	runner := NewRunner(cfg, log)
	app := &cli.Command{
		Name:     "foodhelper",
		Usage:    "Recipe sharing API with favorites, subscriptions and shopping lists",
		Commands: runner.register(),
		Action:   runner.Serve,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal("application error", "err", err)
	}
}
