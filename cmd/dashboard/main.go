package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-reminder/internal/api/http"
	"github.com/spec-kit/ticket-reminder/internal/api/http/handlers"
	"github.com/spec-kit/ticket-reminder/internal/auth"
	"github.com/spec-kit/ticket-reminder/internal/config"
	"github.com/spec-kit/ticket-reminder/internal/domain"
	"github.com/spec-kit/ticket-reminder/internal/events"
	"github.com/spec-kit/ticket-reminder/internal/notion"
	"github.com/spec-kit/ticket-reminder/internal/observability"
	"github.com/spec-kit/ticket-reminder/internal/persistence"
	"github.com/spec-kit/ticket-reminder/internal/repository"
	"github.com/spec-kit/ticket-reminder/internal/service"
	"github.com/spec-kit/ticket-reminder/internal/slack"
	"github.com/spec-kit/ticket-reminder/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.ValidateDashboard(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// without a roster any name is accepted and nobody can be messaged
	roster := domain.Roster{}
	if cfg.Reminder.RosterFile != "" || cfg.Reminder.RosterJSON != "" {
		roster, err = config.LoadRoster(cfg.Reminder)
		if err != nil {
			logger.Fatal("failed to load roster", zap.Error(err))
		}
	}

	store, err := notion.NewClient(notion.ClientConfig{
		BaseURL:    cfg.Notion.BaseURL,
		Token:      cfg.Notion.Token,
		DatabaseID: cfg.Notion.DatabaseID,
		Version:    cfg.Notion.Version,
		PageSize:   cfg.Notion.PageSize,
		Logger:     logger.Named("notion"),
	})
	if err != nil {
		logger.Fatal("failed to init ticket store", zap.Error(err))
	}
	chat, err := slack.NewClient(slack.ClientConfig{
		BaseURL:  cfg.Slack.BaseURL,
		BotToken: cfg.Slack.BotToken,
		Logger:   logger.Named("slack"),
	})
	if err != nil {
		logger.Fatal("failed to init chat client", zap.Error(err))
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	var runs repository.ReminderRunRepository
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		runs = repository.NewReminderRunRepository(pg.PoolHandle())
	}

	rdb := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer rdb.Close()
	var cache service.Cacher
	if rdb != nil {
		cache = rdb
	}

	metrics := observability.NewMetrics()
	tickets := repository.NewTicketRepository(store)
	identities := service.NewIdentityResolver(roster, chat, cache, cfg.Redis.IdentityTTL(), logger)
	dispatcher := events.NewInMemoryDispatcher()

	notifications := service.NewNotificationService(dispatcher, identities, chat, service.NotificationOptions{
		AdminName:                  cfg.Reminder.AdminName,
		AdminEmail:                 cfg.Reminder.AdminEmail,
		RouteDelegatedThroughAdmin: cfg.Reminder.RouteDelegatedThroughAdmin,
	}, metrics, logger)
	notifications.RegisterHandlers()

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: tickets,
		Roster:     roster,
		AdminName:  cfg.Reminder.AdminName,
		Dispatcher: dispatcher,
		Location:   cfg.App.Location(),
		Logger:     logger,
	})
	reminderService := service.NewReminderService(service.ReminderOptions{
		AdminName:                  cfg.Reminder.AdminName,
		AdminEmail:                 cfg.Reminder.AdminEmail,
		RouteDelegatedThroughAdmin: cfg.Reminder.RouteDelegatedThroughAdmin,
		IncludePersonalDigest:      cfg.Reminder.IncludePersonalDigest,
		PrintingKeywords:           cfg.Reminder.PrintingKeywords,
	}, service.ReminderDependencies{
		Tickets:    tickets,
		Messenger:  chat,
		Identities: identities,
		Runs:       runs,
		Metrics:    metrics,
		Logger:     logger,
	})
	schedulerDone := worker.StartReminderScheduler(ctx, reminderService, cfg.Reminder.Schedule(), logger)

	authService, err := service.NewAuthService(cfg.Auth)
	if err != nil {
		logger.Fatal("failed to init auth", zap.Error(err))
	}
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics).
		Require("notion", tickets)
	if pg.Enabled() {
		healthHandler.Observe("postgres", pg)
	}
	if rdb != nil {
		healthHandler.Observe("redis", rdb)
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Reminders:      handlers.NewRemindersHandler(reminderService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	<-schedulerDone
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
