package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salespulse_backend/internal/analysis/reconcile"
	"salespulse_backend/internal/analysis/repository"
	"salespulse_backend/internal/analysis/service"
	"salespulse_backend/internal/booking"
	"salespulse_backend/internal/conferencing"
	"salespulse_backend/internal/email"
	"salespulse_backend/internal/events"
	"salespulse_backend/internal/notification"
	"salespulse_backend/internal/roster"
	"salespulse_backend/internal/scheduler"
	"salespulse_backend/internal/sheets"
	"salespulse_backend/internal/slack"
	"salespulse_backend/migrations"
	"salespulse_backend/platform/config"
	"salespulse_backend/platform/db"
	"salespulse_backend/platform/logger"
	"salespulse_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	val := validator.New()
	team, err := roster.Load(cfg.GetRosterFile(), val)
	if err != nil {
		log.Error("failed to load roster", "error", err, "file", cfg.GetRosterFile())
		panic("failed to load roster: " + err.Error())
	}
	log.Info("roster loaded", "reps", len(team.Reps))

	loc, err := time.LoadLocation(cfg.GetBusinessTimezone())
	if err != nil {
		panic("invalid business timezone: " + err.Error())
	}

	bookingClient := booking.NewClient(cfg, log)
	conferencingClient := conferencing.NewClient(cfg, log)

	sheetsService, err := sheets.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize sheets service", "error", err)
		panic("failed to initialize sheets service: " + err.Error())
	}

	notificationModule := notification.NewModule(
		slack.NewClient(cfg, log),
		email.NewSender(cfg, log),
		log,
	)
	notificationModule.Subscribe(eventBus)

	window := time.Duration(cfg.GetMatchWindowMinutes()) * time.Minute
	svc := service.New(service.Deps{
		Booking:    bookingClient,
		Recordings: conferencingClient,
		Ledger:     sheetsService,
		Store:      repository.New(pool),
		Reconciler: reconcile.New(conferencingClient, window, log),
		Roster:     team,
		Bus:        eventBus,
		Location:   loc,
		CSVDir:     cfg.GetCSVExportDir(),
		Log:        log,
	})

	worker, err := scheduler.NewWorker(cfg, cfg, svc, eventBus, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	cron, err := scheduler.NewCron(cfg, cfg, log)
	if err != nil {
		log.Error("failed to initialize cron scheduler", "error", err)
		panic("failed to initialize cron scheduler: " + err.Error())
	}
	go cron.Run(ctx)

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
