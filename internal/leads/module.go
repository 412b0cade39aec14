// Package leads provides the lead review dashboard module.
package leads

import (
	"fmt"

	"advisory_portal/internal/events"
	apphttp "advisory_portal/internal/http"
	"advisory_portal/internal/leads/domain"
	"advisory_portal/internal/leads/handler"
	"advisory_portal/internal/leads/live"
	"advisory_portal/internal/leads/queue"
	"advisory_portal/internal/leads/service"
	"advisory_portal/internal/leads/source"
	"advisory_portal/platform/config"
	"advisory_portal/platform/validator"
)

// Module represents the lead review domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	queues  *queue.Queues
	live    *live.Service
}

// ModuleConfig combines the config interfaces the module reads.
type ModuleConfig interface {
	config.LeadsConfig
	config.AirtableConfig
}

// NewModule creates a new leads module with all dependencies wired.
// writer is the workflow webhook client; deps carries the read collaborators.
func NewModule(cfg ModuleConfig, deps source.Deps, writer service.Writer, bus events.Bus, val *validator.Validator) (*Module, error) {
	statuses := make([]string, len(domain.AllStatuses))
	for i, status := range domain.AllStatuses {
		statuses[i] = string(status)
	}
	if err := val.RegisterOneOf("lead_status", statuses...); err != nil {
		return nil, fmt.Errorf("register lead_status: %w", err)
	}

	if deps.LeadsTable == "" {
		deps.LeadsTable = cfg.GetAirtableLeadsTable()
	}
	if deps.AdvisorsTable == "" {
		deps.AdvisorsTable = cfg.GetAirtableAdvisorsTable()
	}
	src, err := source.Build(cfg.GetLeadsSource(), deps)
	if err != nil {
		return nil, err
	}

	queues := queue.New(src, deps.Now)
	svc := service.New(queues, src, writer, bus, deps.Log, deps.Metrics, cfg.GetActionFailurePolicy(), deps.Now)

	stream := live.New(deps.Log)
	if bus != nil {
		stream.Subscribe(bus)
	}

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		queues:  queues,
		live:    stream,
	}, nil
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the operator routes under /api/v1/admin.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Admin)
	ctx.Admin.GET("/events", m.live.Handler())
}

// Close disconnects the live dashboards so the server can drain and drops
// the cached queues; a refresh still in flight is discarded.
func (m *Module) Close() {
	m.live.Close()
	m.queues.Close()
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
