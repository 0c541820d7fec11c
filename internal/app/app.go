package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hoangnm/baithook/internal/config"
	httpcontroller "github.com/hoangnm/baithook/internal/controller/http"
	campaigndao "github.com/hoangnm/baithook/internal/domain/campaign/dao"
	campaignservice "github.com/hoangnm/baithook/internal/domain/campaign/service"
	linkdao "github.com/hoangnm/baithook/internal/domain/link/dao"
	linkservice "github.com/hoangnm/baithook/internal/domain/link/service"
	publisherdao "github.com/hoangnm/baithook/internal/domain/publisher/dao"
	"github.com/hoangnm/baithook/internal/domain/publisher/policy"
	"github.com/hoangnm/baithook/internal/domain/publisher/scheduler"
	publisherservice "github.com/hoangnm/baithook/internal/domain/publisher/service"
	threaddao "github.com/hoangnm/baithook/internal/domain/thread/dao"
	threadservice "github.com/hoangnm/baithook/internal/domain/thread/service"
	"github.com/hoangnm/baithook/internal/httpx/upstream/crawler"
	"github.com/hoangnm/baithook/internal/httpx/upstream/generator"
	"github.com/hoangnm/baithook/internal/httpx/upstream/poster"
	"github.com/hoangnm/baithook/internal/httpx/upstream/shortener"
	"github.com/hoangnm/baithook/internal/realtime"
	"github.com/hoangnm/baithook/internal/storage"
	"github.com/hoangnm/baithook/internal/store"
)

// App is the main application container
type App struct {
	cfg        config.Config
	httpServer *http.Server
	router     *chi.Mux
	logger     *slog.Logger

	pool   *pgxpool.Pool
	broker *realtime.Broker

	campaigns *campaignservice.Service
	links     *linkservice.Service
	threads   *threadservice.Service
	publisher *publisherservice.Service

	crawlerClient   *crawler.Client
	generatorClient *generator.Client
	posterClient    *poster.Client
	shortenerClient *shortener.Client
	media           *storage.MediaStore

	scheduler  *scheduler.Scheduler
	dailyReset *scheduler.DailyReset
}

// NewApp creates and initializes the application
func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	app := &App{
		cfg:    cfg,
		router: r,
		logger: logger,
	}

	if err := app.initInfrastructure(ctx); err != nil {
		return nil, fmt.Errorf("initializing infrastructure: %w", err)
	}

	if err := app.initDomains(ctx); err != nil {
		return nil, fmt.Errorf("initializing domains: %w", err)
	}

	app.registerRoutes()

	app.httpServer = &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      app.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	if cfg.Publisher.Enabled {
		autoPoster := policy.NewAutoPoster(
			app.publisher,
			app.campaigns,
			app.posterClient,
			logger,
			cfg.Publisher.MinDelay,
			cfg.Publisher.MaxDelay,
		)
		app.scheduler = scheduler.New(autoPoster, cfg.Publisher.PollInterval, logger)

		reset, err := scheduler.NewDailyReset(app.publisher, logger)
		if err != nil {
			return nil, fmt.Errorf("initializing daily reset: %w", err)
		}
		app.dailyReset = reset
	}

	return app, nil
}

// initInfrastructure initializes the database pool, object storage and broker
func (a *App) initInfrastructure(ctx context.Context) error {
	pool, err := store.NewPostgresPool(ctx, a.cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	a.pool = pool

	media, err := storage.NewMediaStore(storage.MediaConfig{
		Endpoint:        a.cfg.S3.Endpoint,
		AccessKeyID:     a.cfg.S3.AccessKeyID,
		SecretAccessKey: a.cfg.S3.SecretAccessKey,
		Bucket:          a.cfg.S3.Bucket,
		Region:          a.cfg.S3.Region,
		PublicURL:       a.cfg.S3.PublicURL,
	})
	if err != nil {
		return fmt.Errorf("initializing media storage: %w", err)
	}
	a.media = media

	a.broker = realtime.NewBroker()

	return nil
}

// initDomains initializes DAOs, services and upstream clients
func (a *App) initDomains(ctx context.Context) error {
	a.crawlerClient = crawler.New(
		crawler.WithBaseURL(a.cfg.Crawler.BaseURL),
		crawler.WithHTTPClient(&http.Client{Timeout: a.cfg.Crawler.Timeout}),
	)
	a.generatorClient = generator.New(
		generator.WithBaseURL(a.cfg.Generator.BaseURL),
		generator.WithAPIKey(a.cfg.Generator.APIKey),
		generator.WithHTTPClient(&http.Client{Timeout: a.cfg.Generator.Timeout}),
	)
	a.posterClient = poster.New(
		poster.WithBaseURL(a.cfg.Poster.BaseURL),
		poster.WithHTTPClient(&http.Client{Timeout: a.cfg.Poster.Timeout}),
	)
	a.shortenerClient = shortener.New(
		shortener.WithTimeout(a.cfg.Shortener.Timeout),
	)

	a.campaigns = campaignservice.New(campaigndao.NewCampaignPostgres(a.pool), a.broker)
	a.links = linkservice.New(linkdao.NewLinkPostgres(a.pool), a.shortenerClient)
	a.threads = threadservice.New(threaddao.NewThreadPostgres(a.pool), a.logger)
	a.publisher = publisherservice.New(
		publisherdao.NewStatusPostgres(a.pool),
		publisherdao.NewPostLogPostgres(a.pool),
		publisherdao.NewCountersPostgres(a.pool),
		a.broker,
	)

	return nil
}

// registerRoutes registers all HTTP routes
func (a *App) registerRoutes() {
	a.router.Get("/healthz", a.healthHandler)
	a.router.Get("/readyz", a.readyHandler)

	a.router.Route("/api", func(r chi.Router) {
		httpcontroller.NewCampaignHandler(a.campaigns).RegisterRoutes(r)
		httpcontroller.NewAIHandler(a.generatorClient, a.campaigns, a.threads, a.shortenerClient, a.logger).RegisterRoutes(r)
		httpcontroller.NewLinkHandler(a.links, a.shortenerClient).RegisterRoutes(r)
		httpcontroller.NewThreadHandler(a.threads, a.crawlerClient, a.logger).RegisterRoutes(r)
		httpcontroller.NewCrawlHandler(a.crawlerClient, a.threads, a.logger).RegisterRoutes(r)
		httpcontroller.NewStatsHandler(a.threads, a.campaigns, a.links, a.logger).RegisterRoutes(r)
		httpcontroller.NewPublisherHandler(a.publisher).RegisterRoutes(r)
		httpcontroller.NewEventsHandler(a.broker, a.publisher, a.campaigns).RegisterRoutes(r)
		httpcontroller.NewMediaHandler(a.media).RegisterRoutes(r)
	})
}

// healthHandler handles health check requests
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// readyHandler handles readiness check requests
func (a *App) readyHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.pool.Ping(r.Context()); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

// Run starts the application and blocks until shutdown signal
func (a *App) Run(ctx context.Context) error {
	if a.scheduler != nil {
		a.scheduler.Start(ctx)
	}
	if a.dailyReset != nil {
		a.dailyReset.Start()
	}

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", "addr", a.cfg.Server.Address())
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.logger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		a.logger.Info("context cancelled")
	}

	return a.Shutdown(context.Background())
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down...")

	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.dailyReset != nil {
		a.dailyReset.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}

	if a.pool != nil {
		a.pool.Close()
	}

	a.logger.Info("shutdown complete")
	return nil
}
