package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-bot/internal/api/http"
	"github.com/spec-kit/ticket-bot/internal/api/http/handlers"
	"github.com/spec-kit/ticket-bot/internal/catalog"
	"github.com/spec-kit/ticket-bot/internal/chat"
	"github.com/spec-kit/ticket-bot/internal/clock"
	"github.com/spec-kit/ticket-bot/internal/config"
	"github.com/spec-kit/ticket-bot/internal/events"
	"github.com/spec-kit/ticket-bot/internal/observability"
	"github.com/spec-kit/ticket-bot/internal/registry"
	"github.com/spec-kit/ticket-bot/internal/service"
	"github.com/spec-kit/ticket-bot/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	promRegistry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(promRegistry)

	var redisClient *redis.Client
	var cooldowns registry.CooldownRegistry
	switch cfg.Ticket.CooldownBackend {
	case config.CooldownBackendRedis:
		redisClient = registry.NewRedisClient(cfg.Redis, logger)
		defer redisClient.Close()
		cooldowns = registry.NewRedisCooldowns(redisClient, logger)
	default:
		cooldowns = registry.NewMemoryCooldowns()
	}
	activity := registry.NewActivityRegistry()

	if _, err := catalog.Load(cfg.Catalog.Path); err != nil {
		logger.Warn("catalog unavailable", zap.Error(err))
	}

	// The platform SDK adapter is wired out of tree; local runs use the
	// dry-run client so the full lifecycle stays exercisable.
	chatClient := chat.NewLogClient(logger)

	coordinator := service.NewCoordinator(cfg.Ticket, service.CoordinatorDependencies{
		Chat:      chatClient,
		Clock:     clock.System{},
		Logger:    logger,
		Metrics:   metrics,
		Cooldowns: cooldowns,
		Activity:  activity,
	})

	dispatcher := events.NewInMemoryDispatcher(logger)
	coordinator.RegisterTriggerHandlers(dispatcher)

	sweeper := worker.NewSweeper(cfg.Ticket, coordinator, activity, clock.System{}, logger, metrics)
	if err := sweeper.Start(ctx); err != nil {
		logger.Fatal("failed to start sweeper", zap.Error(err))
	}
	defer sweeper.Stop()

	pinger := worker.NewPinger(cfg.Keepalive, logger)
	if err := pinger.Start(); err != nil {
		logger.Fatal("failed to start keepalive pinger", zap.Error(err))
	}
	defer pinger.Stop()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics)

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, redisClient)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:       healthHandler,
		PromRegistry: promRegistry,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
