// Package intake provides the public client intake module.
package intake

import (
	"advisory_portal/internal/events"
	apphttp "advisory_portal/internal/http"
	"advisory_portal/internal/intake/form"
	"advisory_portal/internal/intake/handler"
	"advisory_portal/internal/intake/service"
	"advisory_portal/internal/observer"
	"advisory_portal/platform/config"
	"advisory_portal/platform/httpkit"
	"advisory_portal/platform/logger"
	"advisory_portal/platform/validator"
)

// Module represents the intake domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	limiter *httpkit.IPRateLimiter
}

// NewModule creates a new intake module with all dependencies wired.
func NewModule(
	cfg config.IntakeConfig,
	sub form.Submitter,
	bus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
	metrics *observer.Metrics,
) (*Module, error) {
	rules, err := form.NewRules(val, nil)
	if err != nil {
		return nil, err
	}
	svc := service.New(rules, val, sub, bus, log, metrics, cfg)

	var limiter *httpkit.IPRateLimiter
	if perMinute := cfg.GetIntakeRatePerMinute(); perMinute > 0 {
		limiter = httpkit.NewPerMinuteLimiter(perMinute, log)
	}

	return &Module{
		handler: handler.New(svc),
		service: svc,
		limiter: limiter,
	}, nil
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "intake"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the public intake routes under /api/v1/intake.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/intake")
	if m.limiter != nil {
		m.handler.RegisterRoutes(group, m.limiter.RateLimit())
		return
	}
	m.handler.RegisterRoutes(group, nil)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
