package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/giftcard-service/internal/api/http"
	"github.com/spec-kit/giftcard-service/internal/api/http/handlers"
	"github.com/spec-kit/giftcard-service/internal/auth"
	"github.com/spec-kit/giftcard-service/internal/config"
	"github.com/spec-kit/giftcard-service/internal/events"
	"github.com/spec-kit/giftcard-service/internal/issuer"
	"github.com/spec-kit/giftcard-service/internal/observability"
	"github.com/spec-kit/giftcard-service/internal/persistence"
	"github.com/spec-kit/giftcard-service/internal/repository"
	"github.com/spec-kit/giftcard-service/internal/service"
	"github.com/spec-kit/giftcard-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	pool := pg.PoolHandle()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	userRepo := repository.NewUserRepository(pool)
	cardRepo := repository.NewGiftCardRepository(pool)
	sessions := auth.NewRedisSessionStore(redis, cfg.Redis.KeyPrefix)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(dispatcher, logger)

	if cfg.Issuer.APIKey == "" {
		logger.Warn("ISSUER_API_KEY not set; gift card creation will fail")
	}

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo: userRepo,
		Sessions: sessions,
	})
	giftCardService := service.NewGiftCardService(service.GiftCardDependencies{
		CardRepo:     cardRepo,
		Issuer:       issuer.NewStub(cfg.Issuer),
		Dispatcher:   dispatcher,
		Metrics:      metrics,
		Logger:       logger,
		IssueTimeout: cfg.Issuer.Timeout(),
	})
	authMiddleware := auth.NewAuthMiddleware(authService)

	app := httptransport.NewApp(cfg.App.Name)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	routes := httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Users:          handlers.NewUsersHandler(authService),
		GiftCards:      handlers.NewGiftCardsHandler(giftCardService),
		AuthMiddleware: authMiddleware,
	}
	if cfg.Metrics.Enabled {
		routes.Gatherer = registry
		routes.MetricsPath = cfg.Metrics.Path
	}
	httptransport.RegisterRoutes(app, routes)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
