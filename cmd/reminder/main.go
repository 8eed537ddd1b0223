package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-reminder/internal/config"
	"github.com/spec-kit/ticket-reminder/internal/notion"
	"github.com/spec-kit/ticket-reminder/internal/observability"
	"github.com/spec-kit/ticket-reminder/internal/persistence"
	"github.com/spec-kit/ticket-reminder/internal/repository"
	"github.com/spec-kit/ticket-reminder/internal/service"
	"github.com/spec-kit/ticket-reminder/internal/slack"
)

// One reminder run, configured from the environment. Individual send
// failures are logged and do not change the exit status.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.ValidateReminder(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	roster, err := config.LoadRoster(cfg.Reminder)
	if err != nil {
		logger.Fatal("failed to load roster", zap.Error(err))
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
		// the run log is optional; reminders still go out without it
		logger.Warn("postgres unavailable; run will not be recorded", zap.Error(err))
		pg = &persistence.Postgres{}
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

	var cache service.Cacher
	if rdb := persistence.NewRedis(ctx, cfg.Redis, logger); rdb != nil {
		defer rdb.Close()
		cache = rdb
	}

	metrics := observability.NewMetrics()
	identities := service.NewIdentityResolver(roster, chat, cache, cfg.Redis.IdentityTTL(), logger)
	reminders := service.NewReminderService(service.ReminderOptions{
		AdminName:                  cfg.Reminder.AdminName,
		AdminEmail:                 cfg.Reminder.AdminEmail,
		RouteDelegatedThroughAdmin: cfg.Reminder.RouteDelegatedThroughAdmin,
		IncludePersonalDigest:      cfg.Reminder.IncludePersonalDigest,
		PrintingKeywords:           cfg.Reminder.PrintingKeywords,
	}, service.ReminderDependencies{
		Tickets:    repository.NewTicketRepository(store),
		Messenger:  chat,
		Identities: identities,
		Runs:       runs,
		Metrics:    metrics,
		Logger:     logger,
	})

	run, err := reminders.Run(ctx)
	if err != nil {
		logger.Error("reminder run failed", zap.Error(err))
		return
	}
	logger.Info("reminder summary",
		zap.String("run_id", run.ID),
		zap.Int("tickets", run.TicketCount),
		zap.Int("people", run.PeopleCount),
		zap.Int("sent", run.Sent),
		zap.Int("skipped", run.Skipped),
		zap.Int("failed", run.Failed))
}
