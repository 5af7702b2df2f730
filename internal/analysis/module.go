// Package analysis provides the appointment reconciliation and metrics
// domain module.
package analysis

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"salespulse_backend/internal/analysis/handler"
	"salespulse_backend/internal/analysis/repository"
	apphttp "salespulse_backend/internal/http"
)

// Module represents the analysis domain module for the reporting API.
type Module struct {
	handler    *handler.Handler
	Repository *repository.Repository
}

// NewModule creates the analysis module with all dependencies wired. The
// enqueuer may be nil when no task queue is configured; the trigger endpoint
// then responds with 503.
func NewModule(pool *pgxpool.Pool, enqueuer handler.RunEnqueuer) *Module {
	repo := repository.New(pool)
	h := handler.New(repo, enqueuer)

	return &Module{
		handler:    h,
		Repository: repo,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "analysis"
}

// RegisterRoutes registers the module's routes under /api/v1
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
