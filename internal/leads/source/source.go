// Package source provides the read side of the review dashboard: lead queues,
// the metrics strip and the advisor roster, from whichever backend is configured.
package source

import (
	"context"
	"sync/atomic"

	"advisory_portal/internal/leads/domain"
)

// LeadSource is one backend the dashboard can read from.
type LeadSource interface {
	ListLeads(ctx context.Context, tab domain.Tab) ([]domain.Lead, error)
	Metrics(ctx context.Context) (domain.Metrics, error)
	Advisors(ctx context.Context) ([]domain.Advisor, error)
}

// AdvisorLister reads the advisor roster.
type AdvisorLister interface {
	Advisors(ctx context.Context) ([]domain.Advisor, error)
}

// Report collects per-request facts about where data came from.
// It is safe for concurrent use by fan-out reads.
type Report struct {
	fallback atomic.Bool
}

// UsingFallback reports whether any read in the request was served from demo data.
func (r *Report) UsingFallback() bool {
	return r != nil && r.fallback.Load()
}

func (r *Report) markFallback() {
	if r != nil {
		r.fallback.Store(true)
	}
}

type reportKey struct{}

// WithReport attaches a fresh Report to ctx.
func WithReport(ctx context.Context) (context.Context, *Report) {
	report := &Report{}
	return context.WithValue(ctx, reportKey{}, report), report
}

// ReportFrom returns the Report attached to ctx, or nil.
func ReportFrom(ctx context.Context) *Report {
	report, _ := ctx.Value(reportKey{}).(*Report)
	return report
}

// Invalidator is implemented by sources that hold snapshots to drop after a write.
type Invalidator interface {
	Invalidate(ctx context.Context)
}
