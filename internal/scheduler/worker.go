package scheduler

import (
	"context"
	"fmt"
	"time"

	"salespulse_backend/internal/analysis/domain"
	"salespulse_backend/internal/events"
	"salespulse_backend/platform/config"
	"salespulse_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// AnalysisRunner runs the full pipeline for one business day.
type AnalysisRunner interface {
	RunForDate(ctx context.Context, date time.Time) (*domain.DailyReport, error)
}

// Worker consumes analysis tasks from the queue.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	runner AnalysisRunner
	bus    events.Bus
	loc    *time.Location
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, analysisCfg config.AnalysisConfig, runner AnalysisRunner, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(analysisCfg.GetBusinessTimezone())
	if err != nil {
		return nil, fmt.Errorf("load business timezone: %w", err)
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 1
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		runner: runner,
		bus:    bus,
		loc:    loc,
		log:    log,
	}

	mux.HandleFunc(TaskRunDailyAnalysis, w.handleRunDailyAnalysis)

	return w, nil
}

func (w *Worker) handleRunDailyAnalysis(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseRunDailyAnalysisPayload(task)
	if err != nil {
		return err
	}

	date, err := w.resolveDate(payload.Date)
	if err != nil {
		return err
	}

	if !IsWorkingDay(date) {
		w.log.Info("skipping analysis run on non-working day", "date", date.Format(DateLayout))
		if w.bus != nil {
			w.bus.Publish(ctx, events.RunSkipped{
				BaseEvent: events.NewBaseEvent(),
				Date:      date.Format(DateLayout),
				Reason:    "non-working day",
			})
		}
		return nil
	}

	_, err = w.runner.RunForDate(ctx, date)
	return err
}

func (w *Worker) resolveDate(raw string) (time.Time, error) {
	if raw == "" {
		return PreviousDay(time.Now(), w.loc), nil
	}

	date, err := time.ParseInLocation(DateLayout, raw, w.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid task date %q: %w", raw, err)
	}
	return date, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
