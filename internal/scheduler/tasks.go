package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskRunDailyAnalysis triggers a full analysis run for one business day.
const TaskRunDailyAnalysis = "analysis.run_daily"

// RunDailyAnalysisPayload carries the target business day. An empty date
// means "the previous business day in the business timezone", which is what
// the cron entry enqueues.
type RunDailyAnalysisPayload struct {
	Date string `json:"date,omitempty"`
}

// DateLayout is the wire format for dates in task payloads.
const DateLayout = "2006-01-02"

func NewRunDailyAnalysisTask(payload RunDailyAnalysisPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRunDailyAnalysis, data), nil
}

func ParseRunDailyAnalysisPayload(task *asynq.Task) (RunDailyAnalysisPayload, error) {
	var payload RunDailyAnalysisPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return RunDailyAnalysisPayload{}, err
	}
	return payload, nil
}
