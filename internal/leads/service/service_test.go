package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"advisory_portal/internal/events"
	"advisory_portal/internal/leads/domain"
	"advisory_portal/internal/leads/queue"
	"advisory_portal/internal/leads/transport"
	"advisory_portal/internal/observer"
	"advisory_portal/internal/workflow"
	"advisory_portal/platform/apperr"
	"advisory_portal/platform/config"
	"advisory_portal/platform/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func ptrTime(t time.Time) *time.Time { return &t }

type memorySource struct {
	leads       []domain.Lead
	invalidated int
	mu          sync.Mutex
}

func (m *memorySource) ListLeads(_ context.Context, tab domain.Tab) ([]domain.Lead, error) {
	return domain.Partition(tab, m.leads), nil
}

func (m *memorySource) Metrics(context.Context) (domain.Metrics, error) {
	return domain.ComputeMetrics(domain.MetricsFromLeads(m.leads), fixedNow), nil
}

func (m *memorySource) Advisors(context.Context) ([]domain.Advisor, error) {
	return []domain.Advisor{{AdvisorID: "ADV-1", AdvisorName: "Sam Rivera"}}, nil
}

func (m *memorySource) Invalidate(context.Context) {
	m.mu.Lock()
	m.invalidated++
	m.mu.Unlock()
}

type call struct {
	op   string
	body any
}

type fakeWriter struct {
	calls []call
	ack   *workflow.Ack
	err   error
}

func (f *fakeWriter) record(op string, body any) (*workflow.Ack, error) {
	f.calls = append(f.calls, call{op: op, body: body})
	if f.err != nil {
		return nil, f.err
	}
	if f.ack != nil {
		return f.ack, nil
	}
	return &workflow.Ack{}, nil
}

func (f *fakeWriter) Approve(_ context.Context, req workflow.ApproveRequest) (*workflow.Ack, error) {
	return f.record("approve", req)
}
func (f *fakeWriter) Reject(_ context.Context, req workflow.RejectRequest) (*workflow.Ack, error) {
	return f.record("reject", req)
}
func (f *fakeWriter) ConfirmReject(_ context.Context, req workflow.RejectRequest) (*workflow.Ack, error) {
	return f.record("confirm_reject", req)
}
func (f *fakeWriter) Override(_ context.Context, req workflow.OverrideRequest) (*workflow.Ack, error) {
	return f.record("override", req)
}
func (f *fakeWriter) RequestInfo(_ context.Context, req workflow.RequestInfoRequest) (*workflow.Ack, error) {
	return f.record("request_info", req)
}
func (f *fakeWriter) SendNurture(_ context.Context, req workflow.NurtureSendRequest) (*workflow.Ack, error) {
	return f.record("nurture_send", req)
}
func (f *fakeWriter) DismissNurture(_ context.Context, req workflow.NurtureDismissRequest) (*workflow.Ack, error) {
	return f.record("nurture_dismiss", req)
}

type fixture struct {
	svc     *Service
	src     *memorySource
	writer  *fakeWriter
	queues  *queue.Queues
	bus     *events.InMemoryBus
	metrics *observer.Metrics
	mu      sync.Mutex
	seen    []events.Event
}

func (f *fixture) events() []events.Event {
	f.bus.Wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]events.Event(nil), f.seen...)
}

func sampleLeads() []domain.Lead {
	return []domain.Lead{
		{LeadID: "P-1", FullName: "Ava Singh", Email: "ava@example.com", Status: domain.StatusPendingReview, PriorityScore: domain.PriorityHigh, SubmittedAt: ptrTime(fixedNow.Add(-2 * time.Hour))},
		{LeadID: "P-2", FullName: "Ben Ortiz", Status: domain.StatusPendingReview, PriorityScore: domain.PriorityLow, SubmittedAt: ptrTime(fixedNow.Add(-3 * time.Hour))},
		{LeadID: "D-1", FullName: "Cleo Park", Status: domain.StatusDisqualified, SubmittedAt: ptrTime(fixedNow.Add(-10 * time.Hour))},
		{LeadID: "D-2", FullName: "Dev Rao", Status: domain.StatusDisqualified, RejectionEmailSentAt: ptrTime(fixedNow.Add(-time.Hour))},
		{LeadID: "B-1", FullName: "Eli Moss", Email: "eli@example.com", Status: domain.StatusBooked, NurtureEmailDraft: "Hi Eli", NurtureEmailSubject: "Before we meet", NurtureEmailStatus: domain.NurturePending},
		{LeadID: "B-2", FullName: "Fay Lin", Status: domain.StatusBooked, NurtureEmailDraft: "Hi Fay", NurtureEmailStatus: domain.NurtureSent},
		{LeadID: "A-1", FullName: "Gus Hall", Status: domain.StatusApproved},
	}
}

func newFixture(t *testing.T, policy string) *fixture {
	t.Helper()
	f := &fixture{
		src:     &memorySource{leads: sampleLeads()},
		writer:  &fakeWriter{},
		bus:     events.NewInMemoryBus(logger.Nop()),
		metrics: observer.New(prometheus.NewRegistry()),
	}
	record := events.HandlerFunc(func(_ context.Context, event events.Event) error {
		f.mu.Lock()
		f.seen = append(f.seen, event)
		f.mu.Unlock()
		return nil
	})
	f.bus.Subscribe(events.NameLeadActionSucceeded, record)
	f.bus.Subscribe(events.NameLeadActionFailed, record)

	f.queues = queue.New(f.src, clock)
	f.svc = New(f.queues, f.src, f.writer, f.bus, logger.Nop(), f.metrics, policy, clock)
	return f
}

func TestApproveRemovesLeadAndPublishes(t *testing.T) {
	f := newFixture(t, config.PolicyStrict)
	ctx := context.Background()

	out := f.svc.Approve(ctx, "maria", "P-1", transport.ApproveRequest{AssignedAdvisorID: " ADV-1 ", AssignedAdvisorName: "Sam Rivera"})
	require.NoError(t, out.Err)
	assert.True(t, out.Succeeded)
	assert.True(t, out.RemovedFromView)

	require.Len(t, f.writer.calls, 1)
	assert.Equal(t, workflow.ApproveRequest{LeadID: "P-1", AssignedAdvisorID: "ADV-1", AssignedAdvisorName: "Sam Rivera"}, f.writer.calls[0].body)

	_, _, found := f.queues.Find("P-1")
	assert.False(t, found)
	assert.Equal(t, 1, f.src.invalidated)

	seen := f.events()
	require.Len(t, seen, 1)
	succeeded, ok := seen[0].(events.LeadActionSucceeded)
	require.True(t, ok)
	assert.Equal(t, "maria", succeeded.Operator)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.LeadActionsTotal.WithLabelValues("approve", observer.OutcomeSuccess)))
}

func TestStrictFailureKeepsLead(t *testing.T) {
	f := newFixture(t, config.PolicyStrict)
	f.writer.err = &workflow.UpstreamError{Status: 409, Message: "Lead already processed"}

	out := f.svc.Reject(context.Background(), "maria", "P-2", transport.RejectRequest{RejectionReason: "not_a_fit"})
	require.Error(t, out.Err)
	assert.False(t, out.Succeeded)
	assert.False(t, out.RemovedFromView)
	assert.True(t, apperr.Is(out.Err, apperr.KindUpstream))

	var appErr *apperr.Error
	require.True(t, errors.As(out.Err, &appErr))
	assert.Equal(t, "Lead already processed", appErr.Message)

	_, _, found := f.queues.Find("P-2")
	assert.True(t, found)
	assert.Zero(t, f.src.invalidated)

	seen := f.events()
	require.Len(t, seen, 1)
	failed, ok := seen[0].(events.LeadActionFailed)
	require.True(t, ok)
	assert.False(t, failed.RemovedFromView)
}

func TestOptimisticFailureRemovesButReportsFailure(t *testing.T) {
	f := newFixture(t, config.PolicyOptimistic)
	f.writer.err = fmt.Errorf("%w: connection refused", workflow.ErrUnreachable)

	out := f.svc.RequestInfo(context.Background(), "maria", "P-1", transport.RequestInfoRequest{FollowUpQuestion: "What is your timeline?"})
	require.Error(t, out.Err)
	assert.False(t, out.Succeeded)
	assert.True(t, out.RemovedFromView)
	assert.True(t, apperr.Is(out.Err, apperr.KindUnavailable))

	_, _, found := f.queues.Find("P-1")
	assert.False(t, found)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.LeadActionsTotal.WithLabelValues("request_info", observer.OutcomeFailedButRemoved)))
}

func TestOptimisticPolicyDoesNotApplyOutsidePending(t *testing.T) {
	f := newFixture(t, config.PolicyOptimistic)
	f.writer.err = &workflow.UpstreamError{Status: 500, Message: "Request failed: 500"}

	out := f.svc.Override(context.Background(), "maria", "D-1", transport.OverrideRequest{})
	require.Error(t, out.Err)
	assert.False(t, out.RemovedFromView)
	_, _, found := f.queues.Find("D-1")
	assert.True(t, found)
}

func TestOverrideUsesDefaultReason(t *testing.T) {
	f := newFixture(t, config.PolicyStrict)

	out := f.svc.Override(context.Background(), "maria", "D-1", transport.OverrideRequest{OverrideReason: "   "})
	require.NoError(t, out.Err)
	require.Len(t, f.writer.calls, 1)
	assert.Equal(t, workflow.OverrideRequest{LeadID: "D-1", OverrideReason: domain.DefaultOverrideReason}, f.writer.calls[0].body)
}

func TestConfirmRejectMarksLeadInsteadOfRemoving(t *testing.T) {
	f := newFixture(t, config.PolicyStrict)

	out := f.svc.ConfirmReject(context.Background(), "maria", "D-1", transport.ConfirmRejectRequest{RejectionReason: "other", CustomNote: "Outside our area."})
	require.NoError(t, out.Err)
	assert.True(t, out.Succeeded)
	assert.False(t, out.RemovedFromView)
	require.NotNil(t, out.Lead)
	require.NotNil(t, out.Lead.RejectionEmailSentAt)
	assert.Equal(t, fixedNow, *out.Lead.RejectionEmailSentAt)

	lead, _, found := f.queues.Find("D-1")
	require.True(t, found)
	assert.True(t, lead.IsTerminal())
	assert.Empty(t, domain.AvailableActions(lead))

	again := f.svc.Override(context.Background(), "maria", "D-1", transport.OverrideRequest{})
	assert.True(t, apperr.Is(again.Err, apperr.KindConflict))
	assert.Len(t, f.writer.calls, 1, "terminal lead must not reach the webhook")
}

func TestTerminalLeadIsRefusedLocally(t *testing.T) {
	f := newFixture(t, config.PolicyStrict)

	out := f.svc.RequestInfo(context.Background(), "maria", "D-2", transport.RequestInfoRequest{FollowUpQuestion: "Anything else?"})
	assert.True(t, apperr.Is(out.Err, apperr.KindConflict))
	assert.Empty(t, f.writer.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.LeadActionsTotal.WithLabelValues("request_info", observer.OutcomeRefused)))
}

func TestUnknownLeadIsNotFound(t *testing.T) {
	f := newFixture(t, config.PolicyStrict)

	out := f.svc.Approve(context.Background(), "maria", "nope", transport.ApproveRequest{AssignedAdvisorID: "ADV-1", AssignedAdvisorName: "Sam"})
	assert.True(t, apperr.Is(out.Err, apperr.KindNotFound))
	assert.Empty(t, f.writer.calls)
}

func TestBackendArbitratesNonTerminalTransitions(t *testing.T) {
	f := newFixture(t, config.PolicyStrict)

	out := f.svc.Approve(context.Background(), "maria", "A-1", transport.ApproveRequest{AssignedAdvisorID: "ADV-1", AssignedAdvisorName: "Sam"})
	require.NoError(t, out.Err)
	assert.Len(t, f.writer.calls, 1)
}

func TestSendNurtureDefaultsToDraft(t *testing.T) {
	f := newFixture(t, config.PolicyStrict)

	out := f.svc.SendNurture(context.Background(), "maria", "B-1", transport.NurtureSendRequest{})
	require.NoError(t, out.Err)
	assert.Equal(t, workflow.NurtureSendRequest{
		LeadID:  "B-1",
		To:      "eli@example.com",
		Subject: "Before we meet",
		Body:    "Hi Eli",
	}, f.writer.calls[0].body)
	assert.False(t, out.RemovedFromView)

	lead, _, found := f.queues.Find("B-1")
	require.True(t, found)
	assert.Equal(t, domain.NurtureSent, lead.NurtureEmailStatus)
}

func TestNurturePreconditions(t *testing.T) {
	f := newFixture(t, config.PolicyStrict)
	ctx := context.Background()

	sent := f.svc.DismissNurture(ctx, "maria", "B-2")
	assert.True(t, apperr.Is(sent.Err, apperr.KindConflict))

	notBooked := f.svc.SendNurture(ctx, "maria", "P-1", transport.NurtureSendRequest{})
	assert.True(t, apperr.Is(notBooked.Err, apperr.KindConflict))

	assert.Empty(t, f.writer.calls)
}

func TestDismissWithExplicitFailureIsReported(t *testing.T) {
	f := newFixture(t, config.PolicyStrict)
	no := false
	f.writer.ack = &workflow.Ack{Success: &no, Message: "Draft already handled"}

	out := f.svc.DismissNurture(context.Background(), "maria", "B-1")
	require.Error(t, out.Err)
	assert.False(t, out.Succeeded)
	assert.Contains(t, out.Err.Error(), "Draft already handled")

	lead, _, _ := f.queues.Find("B-1")
	assert.Equal(t, domain.NurturePending, lead.NurtureEmailStatus)
}

func TestOverviewCountsEveryQueue(t *testing.T) {
	f := newFixture(t, config.PolicyStrict)

	overview, err := f.svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[domain.Tab]int{
		domain.TabPending:      2,
		domain.TabAutoRejected: 2,
		domain.TabActive:       3,
	}, overview.Counts)
	assert.Equal(t, 7, overview.Metrics.TotalLeads)
	assert.Len(t, overview.Advisors, 1)
	assert.False(t, overview.UsingFallback)
}

func TestListLeadsFiltersActiveByStatus(t *testing.T) {
	f := newFixture(t, config.PolicyStrict)

	snap, err := f.svc.ListLeads(context.Background(), domain.TabActive, domain.StatusBooked, false)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Count)
}

func TestBuildViewForDisqualifiedLead(t *testing.T) {
	lead := domain.Lead{
		LeadID:           "D-9",
		FullName:         "Cleo Park",
		Phone:            "4169671111",
		Province:         "NS",
		InvestableAssets: "under_25k",
		Status:           domain.StatusDisqualified,
		Disqualification: domain.Disqualification{Keys: []string{"jurisdiction_not_served"}, Labels: []string{"Jurisdiction not served"}},
		SubmittedAt:      ptrTime(fixedNow.Add(-10 * time.Hour)),
		PreferredDate:    "2026-03-06",
		PreferredTime:    "14:30",
		RiskFlags:        []byte(`[{"flag":"Out of province","detail":"NS","severity":"high"}]`),
	}

	view := BuildView(lead, fixedNow)
	assert.Equal(t, "Cleo", view.FirstName)
	assert.Equal(t, "(416) 967-1111", view.PhoneDisplay)
	assert.Equal(t, "Nova Scotia", view.ProvinceLabel)
	assert.Equal(t, "10h ago", view.SubmittedAgo)
	assert.Equal(t, "Fri, Mar 6 at 2:30 PM", view.PreferredSlot)
	require.NotNil(t, view.Grace)
	assert.Equal(t, 38, view.Grace.DisplayHours)
	assert.True(t, view.Grace.Active)
	require.Len(t, view.Disqualification, 1)
	assert.Contains(t, view.Disqualification[0].Detail, "Nova Scotia")
	require.Len(t, view.RiskFlags, 1)
	assert.Equal(t, "high", view.RiskFlags[0].Severity)
	assert.Nil(t, view.ServiceTier)
	assert.Equal(t, []domain.Action{domain.ActionOverride, domain.ActionConfirmReject, domain.ActionRequestInfo}, view.Actions)
	assert.Equal(t, []string{}, view.Goals)
}
