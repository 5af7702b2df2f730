package scheduler

import (
	"context"
	"fmt"
	"time"

	"salespulse_backend/platform/config"
	"salespulse_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Cron enqueues the daily analysis task on a fixed schedule, evaluated in
// the business timezone. The enqueued task carries no date, so the worker
// resolves it to the previous business day at processing time.
type Cron struct {
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

func NewCron(cfg config.SchedulerConfig, analysisCfg config.AnalysisConfig, log *logger.Logger) (*Cron, error) {
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

	s := asynq.NewScheduler(opt, &asynq.SchedulerOpts{Location: loc})

	task, err := NewRunDailyAnalysisTask(RunDailyAnalysisPayload{})
	if err != nil {
		return nil, err
	}

	entryID, err := s.Register(cfg.GetDailyRunCronSpec(), task, asynq.Queue(queue))
	if err != nil {
		return nil, fmt.Errorf("register daily analysis schedule: %w", err)
	}
	log.Info("registered daily analysis schedule",
		"entry", entryID, "cron", cfg.GetDailyRunCronSpec(), "timezone", loc.String())

	return &Cron{scheduler: s, log: log}, nil
}

// Run blocks until the context is canceled.
func (c *Cron) Run(ctx context.Context) {
	if c == nil || c.scheduler == nil {
		return
	}

	go func() {
		<-ctx.Done()
		c.scheduler.Shutdown()
	}()

	if err := c.scheduler.Run(); err != nil {
		c.log.Error("cron scheduler stopped", "error", err)
	}
}
