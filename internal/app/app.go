package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"watch/internal/adapter/fetcher"
	"watch/internal/adapter/parser"
	"watch/internal/adapter/push"
	"watch/internal/config"
	"watch/internal/feeds"
	"watch/internal/logger"
	"watch/internal/migrations"
	"watch/internal/notifier"
	"watch/internal/topics"
	server "watch/internal/transport/http"
	"watch/internal/usecase"
	"watch/internal/worker"
	"watch/storage"
)

// App представляет основное приложение Prophecy Watch.
// Координирует работу HTTP-сервера, кэша новостей, нотификатора
// и хранилища подписок. Обеспечивает graceful startup и shutdown.
type App struct {
	config   *config.Config
	logger   *slog.Logger
	server   *http.Server
	worker   *worker.Worker
	store    storage.SubscriptionStore
	stopChan chan os.Signal
	wg       sync.WaitGroup
}

// NewAggregator собирает конвейер загрузки, разбора и классификации лент
// по встроенным спискам источников и тем.
func NewAggregator(cfg *config.Config, log *slog.Logger) *usecase.Aggregator {
	httpFetcher := fetcher.NewHTTPFetcher(log, cfg.Fetch)
	feedParser := parser.NewFeedParser(log)
	reader := usecase.NewFeedReaderUseCase(httpFetcher, feedParser, log)
	return usecase.NewAggregator(reader, topics.Default(), feeds.Default(), log)
}

// New создает и инициализирует приложение: логгер, хранилище подписок,
// конвейер новостей, нотификатор и HTTP-сервер.
func New(cfg *config.Config) (*App, error) {
	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	slog.SetDefault(appLogger)

	store, err := openStore(context.Background(), cfg.Database, appLogger)
	if err != nil {
		return nil, err
	}

	newsGetter := usecase.NewNewsGetterUseCase(NewAggregator(cfg, appLogger), cfg.Cache.TTL, appLogger)

	var sender notifier.Sender
	if cfg.Push.Enabled() {
		sender = push.NewWebPushSender(cfg.Push, appLogger)
	} else {
		appLogger.Warn("VAPID keys not set, push notifications disabled", slog.String("component", "app"))
	}
	notify := notifier.New(newsGetter, store, sender, cfg.Notify.Title, appLogger)
	notifyWorker := worker.New("notifier", notify, cfg.Notify.Interval, appLogger,
		worker.WithTimeout(cfg.Notify.Interval))

	handler := server.NewHandler(appLogger, newsGetter, topics.Default(), store, notify, cfg.Push.PublicKey)
	router := server.NewServer(appLogger, handler, cfg.StaticDir)

	return &App{
		config: cfg,
		logger: appLogger,
		server: &http.Server{
			Addr:    cfg.Address(),
			Handler: router,
		},
		worker:   notifyWorker,
		store:    store,
		stopChan: make(chan os.Signal, 1),
	}, nil
}

// openStore возвращает хранилище подписок в PostgreSQL, если задан DSN,
// иначе хранилище в памяти процесса.
func openStore(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (storage.SubscriptionStore, error) {
	if cfg.DSN == "" {
		return storage.NewMemorySubscriptionStore(log), nil
	}
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if err := migrations.Apply(ctx, log, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrations failed: %w", err)
	}
	return storage.NewPostgresSubscriptionStore(pool, log), nil
}

// Run запускает нотификатор и HTTP-сервер и блокируется до получения
// сигнала завершения.
func (a *App) Run() error {
	a.logger.Info("Starting Prophecy Watch",
		slog.String("component", "app"),
		slog.Int("feed_count", len(feeds.Default())),
		slog.String("notify_interval", a.worker.Interval().String()),
		slog.Bool("push_enabled", a.config.Push.Enabled()),
	)
	listener, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		a.store.Close()
		return fmt.Errorf("failed to create listener: %w", err)
	}
	a.worker.Start()
	a.logger.Info("HTTP server ready",
		slog.String("component", "server"),
		slog.String("address", listener.Addr().String()),
	)
	serveErr := make(chan error, 1)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			a.logger.Error("HTTP server failed", slog.Any("error", err))
			serveErr <- err
		}
	}()
	signal.Notify(a.stopChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(a.stopChan)

	var runErr error
	select {
	case sig := <-a.stopChan:
		a.logger.Info("Shutdown signal received",
			slog.String("component", "app"),
			slog.String("signal", sig.String()),
		)
	case runErr = <-serveErr:
	}
	a.Shutdown()
	return runErr
}

// Shutdown останавливает нотификатор, завершает HTTP-сервер с таймаутом
// server.shutdown_timeout и закрывает хранилище подписок.
func (a *App) Shutdown() {
	a.logger.Info("Starting graceful shutdown")
	a.worker.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown failed", slog.Any("error", err))
	}
	a.wg.Wait()
	a.store.Close()
	a.logger.Info("Application stopped gracefully")
}
