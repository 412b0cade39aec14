package source

import (
	"context"
	"time"

	"advisory_portal/internal/airtable"
	"advisory_portal/internal/leads/domain"
	"advisory_portal/internal/leads/normalize"
)

var metricsFields = []string{"status", "submittedAt", "bookedAt"}

// RecordLister is the record-store list call.
type RecordLister interface {
	List(ctx context.Context, table string, opts airtable.ListOptions) ([]airtable.Record, error)
}

// AirtableSource reads directly from the record store.
type AirtableSource struct {
	client        RecordLister
	leadsTable    string
	advisorsTable string
	now           func() time.Time
}

// NewAirtableSource creates a record-store source. now may be nil.
func NewAirtableSource(client RecordLister, leadsTable, advisorsTable string, now func() time.Time) *AirtableSource {
	if now == nil {
		now = time.Now
	}
	return &AirtableSource{client: client, leadsTable: leadsTable, advisorsTable: advisorsTable, now: now}
}

// ListLeads fetches every record of the tab's statuses. The pending tab is
// re-sorted locally because the store sorts priority alphabetically.
func (s *AirtableSource) ListLeads(ctx context.Context, tab domain.Tab) ([]domain.Lead, error) {
	opts := airtable.ListOptions{Formula: airtable.StatusFormula(tab.StatusStrings()...)}
	if tab == domain.TabPending {
		opts.Sort = []airtable.Sort{
			{Field: "priorityScore", Direction: "asc"},
			{Field: "submittedAt", Direction: "asc"},
		}
	}

	records, err := s.client.List(ctx, s.leadsTable, opts)
	if err != nil {
		return nil, err
	}
	return domain.Partition(tab, normalize.FromRecords(records)), nil
}

// Metrics scans status and timestamps of every lead.
func (s *AirtableSource) Metrics(ctx context.Context) (domain.Metrics, error) {
	records, err := s.client.List(ctx, s.leadsTable, airtable.ListOptions{Fields: metricsFields})
	if err != nil {
		return domain.Metrics{}, err
	}
	return domain.ComputeMetrics(normalize.MetricsRowsFromRecords(records), s.now()), nil
}

// Advisors fetches the advisor table.
func (s *AirtableSource) Advisors(ctx context.Context) ([]domain.Advisor, error) {
	records, err := s.client.List(ctx, s.advisorsTable, airtable.ListOptions{})
	if err != nil {
		return nil, err
	}
	advisors := make([]domain.Advisor, 0, len(records))
	for _, record := range records {
		advisors = append(advisors, normalize.AdvisorFromRecord(record))
	}
	return advisors, nil
}
