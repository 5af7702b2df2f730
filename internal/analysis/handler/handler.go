// Package handler exposes the read-only reporting API and the on-demand run
// trigger.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"salespulse_backend/internal/analysis/domain"
	"salespulse_backend/internal/analysis/repository"
	"salespulse_backend/platform/apperr"
	"salespulse_backend/platform/httpkit"
)

const dateLayout = "2006-01-02"

// MetricsReader reads persisted metric records and run bookkeeping.
type MetricsReader interface {
	GetMetricsByDate(ctx context.Context, date time.Time) ([]domain.MetricRecord, error)
	GetRepMetricHistory(ctx context.Context, rep, metricName string, from, to time.Time) ([]domain.MetricRecord, error)
	GetLatestRun(ctx context.Context, runDate time.Time) (*repository.Run, error)
}

// RunEnqueuer submits an analysis run to the task queue.
type RunEnqueuer interface {
	EnqueueDailyRun(ctx context.Context, date string) error
}

// Handler serves the reporting endpoints.
type Handler struct {
	reader   MetricsReader
	enqueuer RunEnqueuer
}

func New(reader MetricsReader, enqueuer RunEnqueuer) *Handler {
	return &Handler{reader: reader, enqueuer: enqueuer}
}

// RegisterRoutes mounts the reporting routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reports/:date", h.getReport)
	rg.GET("/reps/:rep/metrics/:metric", h.getMetricHistory)
	rg.GET("/runs/:date", h.getRun)
	rg.POST("/runs", h.triggerRun)
}

type reportResponse struct {
	Date    string                 `json:"date"`
	Reps    map[string][]metricDTO `json:"reps"`
	Records int                    `json:"recordCount"`
}

type metricDTO struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Type   string  `json:"type"`
	Source string  `json:"source"`
}

func (h *Handler) getReport(c *gin.Context) {
	date, err := parseDate(c.Param("date"))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	records, err := h.reader.GetMetricsByDate(c.Request.Context(), date)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	if len(records) == 0 {
		httpkit.HandleError(c, apperr.NotFound("no metrics for date"))
		return
	}

	resp := reportResponse{
		Date:    date.Format(dateLayout),
		Reps:    make(map[string][]metricDTO),
		Records: len(records),
	}
	for _, rec := range records {
		resp.Reps[rec.Rep] = append(resp.Reps[rec.Rep], metricDTO{
			Name:   rec.MetricName,
			Value:  rec.Value,
			Type:   rec.MetricType,
			Source: rec.Source,
		})
	}

	httpkit.OK(c, resp)
}

func (h *Handler) getMetricHistory(c *gin.Context) {
	from, err := parseDate(c.DefaultQuery("from", time.Now().AddDate(0, -1, 0).Format(dateLayout)))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	to, err := parseDate(c.DefaultQuery("to", time.Now().Format(dateLayout)))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	records, err := h.reader.GetRepMetricHistory(c.Request.Context(), c.Param("rep"), c.Param("metric"), from, to)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, gin.H{
		"rep":     c.Param("rep"),
		"metric":  c.Param("metric"),
		"records": records,
	})
}

func (h *Handler) getRun(c *gin.Context) {
	date, err := parseDate(c.Param("date"))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	run, err := h.reader.GetLatestRun(c.Request.Context(), date)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, run)
}

type triggerRunRequest struct {
	Date string `json:"date"`
}

func (h *Handler) triggerRun(c *gin.Context) {
	if h.enqueuer == nil {
		httpkit.HandleError(c, apperr.Unavailable("task queue not configured"))
		return
	}

	var req triggerRunRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		httpkit.HandleError(c, apperr.BadRequest("invalid request body"))
		return
	}

	if req.Date != "" {
		if _, err := parseDate(req.Date); err != nil {
			httpkit.HandleError(c, err)
			return
		}
	}

	if err := h.enqueuer.EnqueueDailyRun(c.Request.Context(), req.Date); err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindUnavailable, "failed to enqueue run", err))
		return
	}

	httpkit.JSON(c, http.StatusAccepted, gin.H{"status": "enqueued", "date": req.Date})
}

func parseDate(raw string) (time.Time, error) {
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, apperr.BadRequest("invalid date, expected YYYY-MM-DD")
	}
	return date, nil
}
