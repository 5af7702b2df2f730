package main

import (
	"context"
	"flag"
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
)

// One-shot runner: analyze a single business day synchronously and exit.
// Without -date it analyzes the previous day in the business timezone, and
// skips non-working days the same way the queued worker does.
func main() {
	var dateFlag string
	var force bool
	flag.StringVar(&dateFlag, "date", "", "business day to analyze (YYYY-MM-DD, default: yesterday)")
	flag.BoolVar(&force, "force", false, "run even on a non-working day")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting one-shot daily analysis")

	ctx := context.Background()

	loc, err := time.LoadLocation(cfg.GetBusinessTimezone())
	if err != nil {
		panic("invalid business timezone: " + err.Error())
	}

	date := scheduler.PreviousDay(time.Now(), loc)
	if dateFlag != "" {
		date, err = time.ParseInLocation(scheduler.DateLayout, dateFlag, loc)
		if err != nil {
			panic("invalid -date: " + err.Error())
		}
	}

	if !scheduler.IsWorkingDay(date) && !force {
		log.Info("target date is a non-working day, nothing to do",
			"date", date.Format(scheduler.DateLayout))
		return
	}

	if err := db.RunMigrations(ctx, cfg, migrations.FS); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	val := validator.New()
	team, err := roster.Load(cfg.GetRosterFile(), val)
	if err != nil {
		log.Error("failed to load roster", "error", err, "file", cfg.GetRosterFile())
		panic("failed to load roster: " + err.Error())
	}

	eventBus := events.NewInMemoryBus(log)

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
		Booking:     bookingClient,
		Recordings:  conferencingClient,
		Ledger:      sheetsService,
		Store:       repository.New(pool),
		Reconciler:  reconcile.New(conferencingClient, window, log),
		Roster:      team,
		Bus:         eventBus,
		Location:    loc,
		CSVDir:      cfg.GetCSVExportDir(),
		Log:         log,
		SyncPublish: true,
	})

	out, err := svc.RunForDate(ctx, date)
	if err != nil {
		log.Error("daily analysis failed", "error", err)
		panic("daily analysis failed: " + err.Error())
	}

	log.Info("daily analysis complete",
		"date", out.Date.Format(scheduler.DateLayout),
		"reps", len(out.PerRep),
		"records", len(out.Records),
	)
}
