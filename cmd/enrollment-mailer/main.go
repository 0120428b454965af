package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/course-hub/internal/app/mailer"
	"github.com/magabrotheeeer/course-hub/internal/config"
	"github.com/magabrotheeeer/course-hub/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := sl.NewLogger(cfg.Env, os.Stdout)

	logger.Info("starting enrollment mailer", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := mailer.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize mailer app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("mailer app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("mailer app stopped gracefully")
}
