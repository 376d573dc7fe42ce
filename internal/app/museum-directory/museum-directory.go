// Package museumdirectory собирает приложение: хранилище, кеш, очередь,
// сервисы и HTTP-сервер с graceful shutdown.
package museumdirectory

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/museum-directory/internal/cache"
	"github.com/magabrotheeeer/museum-directory/internal/config"
	"github.com/magabrotheeeer/museum-directory/internal/lib/jwt"
	"github.com/magabrotheeeer/museum-directory/internal/migrations"
	"github.com/magabrotheeeer/museum-directory/internal/rabbitmq"
	articleservice "github.com/magabrotheeeer/museum-directory/internal/services/article"
	authservice "github.com/magabrotheeeer/museum-directory/internal/services/auth"
	museumservice "github.com/magabrotheeeer/museum-directory/internal/services/museum"
	"github.com/magabrotheeeer/museum-directory/internal/storage/repository"
)

type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	amqpConn *amqp.Connection
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	amqpConn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(amqpConn, rabbitmq.GetNotificationQueues())
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.SessionTokenTTL, cfg.ResetTokenTTL)

	authSvc := authservice.NewAuthService(db, jwtMaker, publisher, logger)
	museumSvc := museumservice.NewMuseumService(db, cacheRedis, logger)
	articleSvc := articleservice.NewArticleService(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, authSvc, museumSvc, articleSvc, cfg.Env != "prod")

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		amqpConn: amqpConn,
	}, nil
}

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
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		if closeErr := a.amqpConn.Close(); closeErr != nil {
			a.logger.Error("failed to close amqp connection", slog.Any("err", closeErr))
		}
		return err
	}
}
