// Package mailer воркер, который читает события о зачислении из RabbitMQ
// и отправляет пользователю письмо с подтверждением.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/course-hub/internal/config"
	"github.com/magabrotheeeer/course-hub/internal/lib/sl"
	"github.com/magabrotheeeer/course-hub/internal/lib/smtp"
	"github.com/magabrotheeeer/course-hub/internal/rabbitmq"
	senderservice "github.com/magabrotheeeer/course-hub/internal/services/sender"
)

// App воркер рассылки.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	queue         string
	workers       int
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New подключается к RabbitMQ и объявляет очередь событий о зачислении.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "mailer.New"

	if cfg.RabbitMQ.URL == "" {
		return nil, fmt.Errorf("%s: %w", op, errors.New("rabbitmq url is empty"))
	}
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("%s: %w", op, errors.New("smtp host is empty"))
	}

	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQ.URL, cfg.RabbitMaxRetries, cfg.RabbitRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.EnrollmentTopology(cfg.RabbitMQ), cfg.Prefetch)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	return &App{
		conn:          conn,
		ch:            ch,
		queue:         cfg.Queue,
		workers:       cfg.Workers,
		senderService: senderservice.NewSenderService(logger, transport),
		logger:        logger,
	}, nil
}

// Run обрабатывает очередь до отмены ctx и дожидается завершения начатых отправок.
func (a *App) Run(ctx context.Context) error {
	done, err := rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, a.queue, a.workers, a.senderService.HandleEnrollment)
	if err != nil {
		a.logger.Error("failed to start consumer", slog.String("queue", a.queue), sl.Err(err))
		a.close()
		return err
	}

	<-done
	a.logger.Info("mailer shutting down gracefully")
	a.close()
	return nil
}

func (a *App) close() {
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
}
