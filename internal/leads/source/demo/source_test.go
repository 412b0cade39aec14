package demo

import (
	"context"
	"testing"
	"time"

	"advisory_portal/internal/leads/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday.
var fixedNow = time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

func newSource(t *testing.T) *Source {
	t.Helper()
	src, err := New(func() time.Time { return fixedNow })
	require.NoError(t, err)
	return src
}

func TestPendingTabIsSortedByPriority(t *testing.T) {
	leads, err := newSource(t).ListLeads(context.Background(), domain.TabPending)
	require.NoError(t, err)
	require.NotEmpty(t, leads)

	for _, lead := range leads {
		assert.Equal(t, domain.StatusPendingReview, lead.Status)
	}
	for i := 1; i < len(leads); i++ {
		assert.LessOrEqual(t, leads[i-1].PriorityScore.Rank(), leads[i].PriorityScore.Rank())
	}
}

func TestTabsPartitionEverySample(t *testing.T) {
	src := newSource(t)
	total := 0
	for _, tab := range domain.AllTabs {
		leads, err := src.ListLeads(context.Background(), tab)
		require.NoError(t, err)
		for _, lead := range leads {
			assert.True(t, tab.Contains(lead.Status), "%s in %s", lead.Status, tab)
		}
		total += len(leads)
	}
	assert.Equal(t, len(src.Leads()), total)
}

func TestTimesAreRelativeToNow(t *testing.T) {
	for _, lead := range newSource(t).Leads() {
		require.NotNil(t, lead.SubmittedAt, lead.LeadID)
		assert.True(t, lead.SubmittedAt.Before(fixedNow), lead.LeadID)
		if lead.PreferredDate != "" {
			date, err := time.Parse("2006-01-02", lead.PreferredDate)
			require.NoError(t, err)
			assert.True(t, date.After(fixedNow))
			assert.NotEqual(t, time.Saturday, date.Weekday())
			assert.NotEqual(t, time.Sunday, date.Weekday())
		}
	}
}

func TestRelativeDateSkipsWeekends(t *testing.T) {
	friday := time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-09", relativeDate("+1d", friday))
	assert.Equal(t, "2026-03-10T14:00:00", relativeDate("+2d@14:00", friday))
	assert.Equal(t, "2026-03-01", relativeDate("2026-03-01", friday))
}

func TestDisqualifiedSamplesCarryLabels(t *testing.T) {
	leads, err := newSource(t).ListLeads(context.Background(), domain.TabAutoRejected)
	require.NoError(t, err)
	require.NotEmpty(t, leads)
	for _, lead := range leads {
		assert.NotEmpty(t, lead.Disqualification.Keys)
		assert.Len(t, lead.Disqualification.Labels, len(lead.Disqualification.Keys))
	}
}

func TestMetricsAndAdvisors(t *testing.T) {
	src := newSource(t)
	metrics, err := src.Metrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(src.Leads()), metrics.TotalLeads)
	assert.Equal(t, 3, metrics.PendingReview)
	assert.Equal(t, 2, metrics.BookedConsultations)
	assert.Greater(t, metrics.AvgHoursToBook, 0.0)

	advisors, err := src.Advisors(context.Background())
	require.NoError(t, err)
	require.Len(t, advisors, 3)
	assert.Equal(t, 72, advisors[0].CaseloadPercent)
	assert.Equal(t, 100, advisors[2].CaseloadPercent)
}
