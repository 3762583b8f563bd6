// Package wsabackend собирает приложение витрины курсов: хранилище,
// кэш, брокер событий, бизнес-сервисы и HTTP-сервер.
package wsabackend

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/naluwan/wsa-backend/internal/cache"
	"github.com/naluwan/wsa-backend/internal/config"
	"github.com/naluwan/wsa-backend/internal/lib/jwt"
	"github.com/naluwan/wsa-backend/internal/migrations"
	"github.com/naluwan/wsa-backend/internal/rabbitmq"
	entryservice "github.com/naluwan/wsa-backend/internal/services/entry"
	orderservice "github.com/naluwan/wsa-backend/internal/services/order"
	progressionservice "github.com/naluwan/wsa-backend/internal/services/progression"
	"github.com/naluwan/wsa-backend/internal/storage/repository"
	"github.com/streadway/amqp"
)

// App содержит все зависимости запущенного приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	amqp   *amqp.Connection
}

// New инициализирует приложение: подключается к PostgreSQL, Redis и
// RabbitMQ, накатывает миграции, собирает сервисы и маршруты.
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

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, 5, 2*time.Second)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetEventQueues())
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch, rabbitmq.Exchange)

	tokenMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	orderService := orderservice.New(db, publisher, logger, cfg.PayWindow)
	progressionService := progressionservice.New(db, cacheRedis, publisher, logger)
	entryService := entryservice.New(db, db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, tokenMaker, orderService, progressionService, entryService)

	router.Get("/docs/*", httpSwagger.WrapHandler)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
		amqp:   conn,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены контекста или
// фатальной ошибки сервера. При отмене контекста сервер завершается
// корректно, соединения с базой и брокером закрываются.
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
		a.db.DB.Close()
		if cerr := a.amqp.Close(); cerr != nil {
			a.logger.Error("failed to close rabbitmq connection", slog.Any("err", cerr))
		}
		return err
	}
}
