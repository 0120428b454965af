package coursehub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/course-hub/internal/cache"
	"github.com/magabrotheeeer/course-hub/internal/config"
	"github.com/magabrotheeeer/course-hub/internal/http/handlers/health"
	"github.com/magabrotheeeer/course-hub/internal/lib/jwt"
	"github.com/magabrotheeeer/course-hub/internal/lib/promo"
	"github.com/magabrotheeeer/course-hub/internal/lib/sl"
	"github.com/magabrotheeeer/course-hub/internal/metrics"
	"github.com/magabrotheeeer/course-hub/internal/migrations"
	"github.com/magabrotheeeer/course-hub/internal/rabbitmq"
	"github.com/magabrotheeeer/course-hub/internal/services/auth"
	"github.com/magabrotheeeer/course-hub/internal/services/course"
	"github.com/magabrotheeeer/course-hub/internal/services/enrollment"
	"github.com/magabrotheeeer/course-hub/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// App HTTP сервер API и ресурсы, которыми он владеет.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *repository.Storage
	cache     *cache.Cache
	amqpConn  *amqp.Connection
	publisher *rabbitmq.Publisher
}

// New подключается к зависимостям, применяет миграции и собирает маршруты.
// Redis и RabbitMQ необязательны: пустой адрес отключает кэш курсов и публикацию событий.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "coursehub.New"

	evaluator, err := promo.NewEvaluator(cfg.Code, cfg.DiscountPercent)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = repository.CheckDatabaseReady(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	app := &App{logger: logger, db: db}

	var courseCache course.Cache
	var cachePinger health.Pinger
	if cfg.AddressRedis != "" {
		app.cache, err = cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		courseCache = app.cache
		cachePinger = app.cache
	} else {
		logger.Warn("redis address is empty, course cache disabled")
	}

	var publisher enrollment.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		app.amqpConn, err = rabbitmq.Connect(ctx, cfg.RabbitMQ.URL, cfg.RabbitMaxRetries, cfg.RabbitRetryDelay)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ch, err := rabbitmq.SetupChannel(app.amqpConn, rabbitmq.EnrollmentTopology(cfg.RabbitMQ), 0)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.publisher = rabbitmq.NewPublisher(ch, cfg.Exchange, cfg.RoutingKey)
		publisher = app.publisher
	} else {
		logger.Warn("rabbitmq url is empty, enrollment events disabled")
	}

	m := metrics.New()
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := auth.NewAuthService(db, jwtMaker, m)
	courseService := course.NewService(logger, db, courseCache, cfg.CourseTTL)
	enrollmentService := enrollment.NewService(logger, courseService, db, evaluator, publisher, m)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, Services{
		Auth:       authService,
		Courses:    courseService,
		Enrollment: enrollmentService,
		Health:     health.New(logger, cfg.Env, db, cachePinger),
		Metrics:    m,
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// Run обслуживает HTTP до отмены ctx, затем корректно останавливает сервер.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("failed to close rabbitmq channel", sl.Err(err))
		}
	}
	if a.amqpConn != nil {
		if err := a.amqpConn.Close(); err != nil {
			a.logger.Error("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
