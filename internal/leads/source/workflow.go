package source

import (
	"context"

	"advisory_portal/internal/leads/domain"
	"advisory_portal/internal/leads/normalize"
	"advisory_portal/internal/workflow"
)

// WorkflowReader is the read half of the webhook client.
type WorkflowReader interface {
	ListLeads(ctx context.Context, tab string) ([]workflow.Row, error)
	Metrics(ctx context.Context) (*workflow.MetricsResponse, error)
}

// WorkflowSource reads leads and metrics through the workflow webhook. The
// webhook has no advisor endpoint, so the roster comes from advisors.
type WorkflowSource struct {
	client   WorkflowReader
	advisors AdvisorLister
}

// NewWorkflowSource creates a webhook-backed source.
func NewWorkflowSource(client WorkflowReader, advisors AdvisorLister) *WorkflowSource {
	return &WorkflowSource{client: client, advisors: advisors}
}

// ListLeads normalizes the webhook rows of one tab. Rows whose status does not
// belong to the tab are dropped, and the pending tab is sorted.
func (s *WorkflowSource) ListLeads(ctx context.Context, tab domain.Tab) ([]domain.Lead, error) {
	rows, err := s.client.ListLeads(ctx, string(tab))
	if err != nil {
		return nil, err
	}
	return domain.Partition(tab, normalize.FromRows(rows)), nil
}

// Metrics returns the webhook's own counts.
func (s *WorkflowSource) Metrics(ctx context.Context) (domain.Metrics, error) {
	resp, err := s.client.Metrics(ctx)
	if err != nil {
		return domain.Metrics{}, err
	}
	return domain.Metrics{
		LeadsThisWeek:       resp.LeadsThisWeek,
		TotalLeads:          resp.TotalLeads,
		PendingReview:       resp.PendingReview,
		BookedConsultations: resp.BookedConsultations,
		AvgHoursToBook:      resp.AvgHoursToBook,
	}, nil
}

// Advisors delegates to the configured roster.
func (s *WorkflowSource) Advisors(ctx context.Context) ([]domain.Advisor, error) {
	return s.advisors.Advisors(ctx)
}
