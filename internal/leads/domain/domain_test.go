package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(value string) *time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestSortPendingByPriorityThenSubmission(t *testing.T) {
	leads := []Lead{
		{LeadID: "low-old", PriorityScore: PriorityLow, SubmittedAt: at("2026-01-01T10:00:00Z")},
		{LeadID: "unknown", PriorityScore: "URGENT", SubmittedAt: at("2025-12-01T10:00:00Z")},
		{LeadID: "high-new", PriorityScore: PriorityHigh, SubmittedAt: at("2026-01-03T10:00:00Z")},
		{LeadID: "medium", PriorityScore: PriorityMedium, SubmittedAt: at("2026-01-02T10:00:00Z")},
		{LeadID: "high-old", PriorityScore: PriorityHigh, SubmittedAt: at("2026-01-02T09:00:00Z")},
		{LeadID: "high-nil", PriorityScore: PriorityHigh},
	}

	SortPending(leads)

	ids := make([]string, len(leads))
	for i, lead := range leads {
		ids[i] = lead.LeadID
	}
	assert.Equal(t, []string{"high-nil", "high-old", "high-new", "medium", "low-old", "unknown"}, ids)
}

func TestPartitionByTab(t *testing.T) {
	leads := make([]Lead, 0, len(AllStatuses))
	for _, status := range AllStatuses {
		leads = append(leads, Lead{LeadID: string(status), Status: status})
	}

	assert.Len(t, Partition(TabPending, leads), 1)
	assert.Len(t, Partition(TabAutoRejected, leads), 1)
	active := Partition(TabActive, leads)
	assert.Len(t, active, 7)
	assert.Len(t, FilterByStatus(active, StatusBooked), 1)
	assert.Len(t, FilterByStatus(active, ""), 7)

	for _, status := range AllStatuses {
		tab, ok := TabFor(status)
		assert.True(t, ok)
		assert.True(t, tab.Contains(status))
	}
}

func TestParseTab(t *testing.T) {
	tab, ok := ParseTab("auto_rejected")
	assert.True(t, ok)
	assert.Equal(t, TabAutoRejected, tab)

	_, ok = ParseTab("archived")
	assert.False(t, ok)
}

func TestAvailableActions(t *testing.T) {
	sent := at("2026-01-01T00:00:00Z")
	cases := []struct {
		name string
		lead Lead
		want []Action
	}{
		{"pending", Lead{Status: StatusPendingReview}, []Action{ActionApprove, ActionReject, ActionRequestInfo}},
		{"disqualified", Lead{Status: StatusDisqualified}, []Action{ActionOverride, ActionConfirmReject, ActionRequestInfo}},
		{"terminal disqualified", Lead{Status: StatusDisqualified, RejectionEmailSentAt: sent}, []Action{}},
		{"booked with draft", Lead{Status: StatusBooked, Email: "a@b.co", NurtureEmailDraft: "Hi", NurtureEmailStatus: NurturePending}, []Action{ActionNurtureSend, ActionNurtureDismiss}},
		{"booked without email", Lead{Status: StatusBooked, NurtureEmailDraft: "Hi"}, []Action{ActionNurtureDismiss}},
		{"booked nurture sent", Lead{Status: StatusBooked, NurtureEmailDraft: "Hi", NurtureEmailStatus: NurtureSent}, []Action{}},
		{"completed", Lead{Status: StatusCompleted}, []Action{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AvailableActions(tc.lead))
		})
	}
}

func TestComputeMetrics(t *testing.T) {
	now := *at("2026-03-10T12:00:00Z")
	rows := []MetricsRow{
		{Status: StatusPendingReview, SubmittedAt: at("2026-03-09T12:00:00Z")},
		{Status: StatusPendingReview, SubmittedAt: at("2026-02-01T12:00:00Z")},
		{Status: StatusBooked, SubmittedAt: at("2026-03-05T00:00:00Z"), BookedAt: at("2026-03-06T00:00:00Z")},
		{Status: StatusCompleted, SubmittedAt: at("2026-02-20T00:00:00Z"), BookedAt: at("2026-02-21T01:00:00Z")},
		{Status: StatusBooked, SubmittedAt: at("2026-03-08T00:00:00Z"), BookedAt: at("2026-03-07T00:00:00Z")},
		{Status: StatusBooked},
		{Status: StatusRejected, SubmittedAt: at("2026-03-03T12:00:00Z")},
	}

	assert.Equal(t, Metrics{
		LeadsThisWeek:       4,
		TotalLeads:          7,
		PendingReview:       2,
		BookedConsultations: 4,
		AvgHoursToBook:      24.5,
	}, ComputeMetrics(rows, now))
}

func TestComputeMetricsEmpty(t *testing.T) {
	assert.Equal(t, Metrics{}, ComputeMetrics(nil, time.Now()))
}

func TestExplainDisqualification(t *testing.T) {
	lead := Lead{
		Province:         "MB",
		InvestableAssets: "under_25k",
		Disqualification: Disqualification{
			Keys:   []string{ReasonJurisdictionNotServed, ReasonBelowAssetThreshold, ReasonGoalMismatch, "custom_rule"},
			Labels: []string{"Jurisdiction not served", "Below asset threshold", "Service goals not offered", "custom_rule"},
		},
	}

	got := ExplainDisqualification(lead)
	assert.Equal(t, "Applicant province: Manitoba (MB)", got[0].Detail)
	assert.Equal(t, "NorthStar currently serves ON, BC, AB, QC.", got[0].Policy)
	assert.Equal(t, "Reported assets: Under $25K", got[1].Detail)
	assert.Equal(t, "Requested: Not specified", got[2].Detail)
	assert.Equal(t, DisqualificationContext{Key: "custom_rule", Label: "custom_rule"}, got[3])
}

func TestLabelsPassUnknownThrough(t *testing.T) {
	assert.Equal(t, "$1M+", AssetsLabel("1m_plus"))
	assert.Equal(t, "gold_bars", AssetsLabel("gold_bars"))
	assert.Equal(t, "<1 year", TimelineLabel("under_1yr"))
	assert.Equal(t, "First-time client", SituationLabel("never_had"))
	assert.Equal(t, "Moderate", RiskLabel("moderate"))
	assert.Equal(t, "", RiskLabel(""))
	assert.Equal(t, "PEI", ProvinceLabel("PE"))
}

func TestCaseloadPercent(t *testing.T) {
	assert.Equal(t, 0, CaseloadPercent(5, 0))
	assert.Equal(t, 67, CaseloadPercent(2, 3))
	assert.Equal(t, 50, CaseloadPercent(1, 2))
}

func TestTimeAgo(t *testing.T) {
	now := *at("2026-03-10T12:00:00Z")
	assert.Equal(t, "", TimeAgo(nil, now))
	assert.Equal(t, "Just now", TimeAgo(at("2026-03-10T11:59:30Z"), now))
	assert.Equal(t, "15m ago", TimeAgo(at("2026-03-10T11:45:00Z"), now))
	assert.Equal(t, "5h ago", TimeAgo(at("2026-03-10T07:00:00Z"), now))
	assert.Equal(t, "1 day ago", TimeAgo(at("2026-03-09T10:00:00Z"), now))
	assert.Equal(t, "3 days ago", TimeAgo(at("2026-03-07T10:00:00Z"), now))
	assert.Equal(t, "2w ago", TimeAgo(at("2026-02-24T10:00:00Z"), now))
	assert.Equal(t, "2026-01-01", TimeAgo(at("2026-01-01T10:00:00Z"), now))
}

func TestFormatTimeAndDate(t *testing.T) {
	assert.Equal(t, "2:30 PM", FormatTime("14:30"))
	assert.Equal(t, "9:00 AM", FormatTime("09:00"))
	assert.Equal(t, "12:00 PM", FormatTime("12:00"))
	assert.Equal(t, "Mon, Mar 2", FormatDate("2026-03-02"))
	assert.Equal(t, "soon", FormatDate("soon"))
}
