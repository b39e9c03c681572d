package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/lessonkit/season-bot/internal/api/http"
	"github.com/lessonkit/season-bot/internal/api/http/handlers"
	"github.com/lessonkit/season-bot/internal/auth"
	"github.com/lessonkit/season-bot/internal/bot"
	"github.com/lessonkit/season-bot/internal/config"
	"github.com/lessonkit/season-bot/internal/events"
	"github.com/lessonkit/season-bot/internal/observability"
	"github.com/lessonkit/season-bot/internal/persistence"
	"github.com/lessonkit/season-bot/internal/repository"
	"github.com/lessonkit/season-bot/internal/service"
	"github.com/lessonkit/season-bot/internal/worker"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	ticketService := service.NewTicketService(service.TicketDependencies{
		UserRepo:         userRepo,
		TicketRepo:       ticketRepo,
		Dispatcher:       dispatcher,
		LessonsPerTicket: cfg.Ticket.LessonsPerTicket,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	metrics := observability.NewMetrics()
	registry := bot.NewRegistry(logger, metrics)
	purchase := bot.NewPurchaseHandlers(ticketService)
	registry.Register("start", bot.Start())
	registry.Register("whoami", bot.Whoami())
	registry.Register("ping", bot.Ping(nil))
	registry.Register("buy", bot.HandlerFunc(purchase.Buy))
	registry.Register("lessonsleft", bot.HandlerFunc(purchase.LessonsLeft))

	deduper := persistence.NewUpdateDeduper(redis, cfg.Telegram.DedupTTL())

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	webhookHandler := handlers.NewWebhookHandler(registry, deduper, logger)
	secretMiddleware := auth.NewSecretMiddleware(cfg.Telegram.WebhookSecret)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      healthHandler,
		Webhook:     webhookHandler,
		Secret:      secretMiddleware,
		WebhookPath: cfg.Telegram.WebhookPath,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
