package source

import (
	"context"

	"advisory_portal/internal/leads/domain"
	"advisory_portal/internal/observer"
	"advisory_portal/platform/logger"
)

// Fallback reads from primary and serves secondary data when primary fails.
// Every fallback is logged, counted and marked on the request's Report.
type Fallback struct {
	primary   LeadSource
	secondary LeadSource
	log       *logger.Logger
	metrics   *observer.Metrics
}

// NewFallback wraps primary with secondary as the fallback.
func NewFallback(primary, secondary LeadSource, log *logger.Logger, metrics *observer.Metrics) *Fallback {
	return &Fallback{primary: primary, secondary: secondary, log: log, metrics: metrics}
}

func (f *Fallback) ListLeads(ctx context.Context, tab domain.Tab) ([]domain.Lead, error) {
	leads, err := f.primary.ListLeads(ctx, tab)
	if err == nil {
		return leads, nil
	}
	f.fellBack(ctx, "list_leads", err)
	return f.secondary.ListLeads(ctx, tab)
}

func (f *Fallback) Metrics(ctx context.Context) (domain.Metrics, error) {
	metrics, err := f.primary.Metrics(ctx)
	if err == nil {
		return metrics, nil
	}
	f.fellBack(ctx, "metrics", err)
	return f.secondary.Metrics(ctx)
}

func (f *Fallback) Advisors(ctx context.Context) ([]domain.Advisor, error) {
	advisors, err := f.primary.Advisors(ctx)
	if err == nil {
		return advisors, nil
	}
	f.fellBack(ctx, "advisors", err)
	return f.secondary.Advisors(ctx)
}

func (f *Fallback) fellBack(ctx context.Context, op string, err error) {
	ReportFrom(ctx).markFallback()
	f.metrics.ObserveFallback()
	if f.log != nil {
		f.log.WithContext(ctx).Warn("serving demo data", "op", op, "error", err)
	}
}

// Invalidate forwards to the primary source.
func (f *Fallback) Invalidate(ctx context.Context) {
	if inv, ok := f.primary.(Invalidator); ok {
		inv.Invalidate(ctx)
	}
}
