// Package main Course Hub API
//
// Регистрация и вход пользователей, каталог курсов и подписки с промокодом.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/course-hub/internal/app/coursehub"
	"github.com/magabrotheeeer/course-hub/internal/config"
	"github.com/magabrotheeeer/course-hub/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := sl.NewLogger(cfg.Env, os.Stdout)

	logger.Info("starting course-hub", slog.String("env", cfg.Env))
	for _, warning := range cfg.Warnings() {
		logger.Warn("config warning", slog.String("warning", warning))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := coursehub.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("course-hub stopped gracefully")
}
