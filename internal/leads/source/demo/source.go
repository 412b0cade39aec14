// Package demo serves the embedded sample leads and advisors. It backs the
// dashboard when LEADS_SOURCE=demo and is the fallback in auto mode.
package demo

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"advisory_portal/internal/leads/domain"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

type fixtures struct {
	Advisors []fixtureAdvisor `yaml:"advisors"`
	Leads    []fixtureLead    `yaml:"leads"`
}

type fixtureAdvisor struct {
	AdvisorID       string   `yaml:"advisorId"`
	AdvisorName     string   `yaml:"advisorName"`
	Email           string   `yaml:"email"`
	Specializations []string `yaml:"specializations"`
	CurrentCaseload float64  `yaml:"currentCaseload"`
	MaxCapacity     float64  `yaml:"maxCapacity"`
	Bio             string   `yaml:"bio"`
}

// fixtureLead mirrors domain.Lead with times relative to now.
type fixtureLead struct {
	LeadID                  string   `yaml:"leadId"`
	FullName                string   `yaml:"fullName"`
	Email                   string   `yaml:"email"`
	Phone                   string   `yaml:"phone"`
	Province                string   `yaml:"province"`
	InvestableAssets        string   `yaml:"investableAssets"`
	AnnualIncome            string   `yaml:"annualIncome"`
	FinancialGoals          []string `yaml:"financialGoals"`
	InvestmentTimeline      string   `yaml:"investmentTimeline"`
	RiskTolerance           string   `yaml:"riskTolerance"`
	CurrentAdvisorSituation string   `yaml:"currentAdvisorSituation"`
	PreferredDate           string   `yaml:"preferredDate"`
	PreferredTime           string   `yaml:"preferredTime"`

	Status                  string   `yaml:"status"`
	PriorityScore           string   `yaml:"priorityScore"`
	PriorityReasoning       string   `yaml:"priorityReasoning"`
	ProfileSummary          string   `yaml:"profileSummary"`
	DisqualificationReasons []string `yaml:"disqualificationReasons"`
	DisqualificationReason  string   `yaml:"disqualificationReason"`

	AssignedAdvisorID   string `yaml:"assignedAdvisorId"`
	AssignedAdvisorName string `yaml:"assignedAdvisorName"`
	AppointmentDatetime string `yaml:"appointmentDatetime"`
	RejectionReason     string `yaml:"rejectionReason"`
	FollowUpCount       int    `yaml:"followUpCount"`

	AdvisorMatchRanking    any `yaml:"advisorMatchRanking"`
	RiskFlags              any `yaml:"riskFlags"`
	ConversationStarters   any `yaml:"conversationStarters"`
	RecommendedServiceTier any `yaml:"recommendedServiceTier"`
	SuggestedBooking       any `yaml:"suggestedBooking"`
	ConsultationPrepBrief  any `yaml:"consultationPrepBrief"`

	NurtureEmailDraft   string `yaml:"nurtureEmailDraft"`
	NurtureEmailSubject string `yaml:"nurtureEmailSubject"`
	NurtureEmailStatus  string `yaml:"nurtureEmailStatus"`

	SubmittedHoursAgo     *float64 `yaml:"submittedHoursAgo"`
	ApprovedHoursAgo      *float64 `yaml:"approvedHoursAgo"`
	RejectedHoursAgo      *float64 `yaml:"rejectedHoursAgo"`
	BookedHoursAgo        *float64 `yaml:"bookedHoursAgo"`
	LastEmailSentHoursAgo *float64 `yaml:"lastEmailSentHoursAgo"`
}

// Source is the in-memory sample data set.
type Source struct {
	fixtures fixtures
	now      func() time.Time
}

// New parses the embedded fixtures. now may be nil.
func New(now func() time.Time) (*Source, error) {
	var parsed fixtures
	if err := yaml.Unmarshal(fixturesYAML, &parsed); err != nil {
		return nil, fmt.Errorf("parse demo fixtures: %w", err)
	}
	if now == nil {
		now = time.Now
	}
	return &Source{fixtures: parsed, now: now}, nil
}

// ListLeads returns the sample leads of one tab, pending sorted by priority.
func (s *Source) ListLeads(_ context.Context, tab domain.Tab) ([]domain.Lead, error) {
	return domain.Partition(tab, s.Leads()), nil
}

// Metrics computes the summary strip over every sample lead.
func (s *Source) Metrics(_ context.Context) (domain.Metrics, error) {
	return domain.ComputeMetrics(domain.MetricsFromLeads(s.Leads()), s.now()), nil
}

// Advisors returns the sample advisors.
func (s *Source) Advisors(_ context.Context) ([]domain.Advisor, error) {
	out := make([]domain.Advisor, len(s.fixtures.Advisors))
	for i, a := range s.fixtures.Advisors {
		out[i] = domain.Advisor{
			RecordID:        "demo-" + strings.ToLower(a.AdvisorID),
			AdvisorID:       a.AdvisorID,
			AdvisorName:     a.AdvisorName,
			Email:           a.Email,
			Specializations: a.Specializations,
			CurrentCaseload: a.CurrentCaseload,
			MaxCapacity:     a.MaxCapacity,
			CaseloadPercent: domain.CaseloadPercent(a.CurrentCaseload, a.MaxCapacity),
			Bio:             a.Bio,
		}
	}
	return out, nil
}

// Leads materializes every sample lead against the current time.
func (s *Source) Leads() []domain.Lead {
	now := s.now().UTC()
	leads := make([]domain.Lead, 0, len(s.fixtures.Leads))
	for _, f := range s.fixtures.Leads {
		leads = append(leads, f.lead(now))
	}
	return leads
}

func (f fixtureLead) lead(now time.Time) domain.Lead {
	dq := domain.Disqualification{Keys: f.DisqualificationReasons}
	if len(dq.Keys) == 0 && f.DisqualificationReason != "" {
		dq.Keys = strings.Split(f.DisqualificationReason, ",")
	}
	dq.Labels = make([]string, len(dq.Keys))
	for i, key := range dq.Keys {
		dq.Labels[i] = domain.DisqualificationLabel(key)
	}

	return domain.Lead{
		RecordID:                "demo-" + strings.ToLower(f.LeadID),
		LeadID:                  f.LeadID,
		FullName:                f.FullName,
		Email:                   f.Email,
		Phone:                   f.Phone,
		Province:                f.Province,
		InvestableAssets:        f.InvestableAssets,
		AnnualIncome:            f.AnnualIncome,
		FinancialGoals:          f.FinancialGoals,
		InvestmentTimeline:      f.InvestmentTimeline,
		RiskTolerance:           f.RiskTolerance,
		CurrentAdvisorSituation: f.CurrentAdvisorSituation,
		PreferredDate:           relativeDate(f.PreferredDate, now),
		PreferredTime:           f.PreferredTime,
		Status:                  domain.Status(f.Status),
		PriorityScore:           domain.Priority(f.PriorityScore),
		PriorityReasoning:       f.PriorityReasoning,
		ProfileSummary:          f.ProfileSummary,
		Disqualification:        dq,
		AssignedAdvisorID:       f.AssignedAdvisorID,
		AssignedAdvisorName:     f.AssignedAdvisorName,
		AppointmentDatetime:     relativeDate(f.AppointmentDatetime, now),
		RejectionReason:         f.RejectionReason,
		FollowUpCount:           f.FollowUpCount,
		AdvisorMatchRanking:     toJSON(f.AdvisorMatchRanking, now),
		RiskFlags:               toJSON(f.RiskFlags, now),
		ConversationStarters:    toJSON(f.ConversationStarters, now),
		RecommendedServiceTier:  toJSON(f.RecommendedServiceTier, now),
		SuggestedBooking:        toJSON(f.SuggestedBooking, now),
		ConsultationPrepBrief:   toJSON(f.ConsultationPrepBrief, now),
		NurtureEmailDraft:       f.NurtureEmailDraft,
		NurtureEmailSubject:     f.NurtureEmailSubject,
		NurtureEmailStatus:      domain.NurtureStatus(f.NurtureEmailStatus),
		SubmittedAt:             hoursAgo(f.SubmittedHoursAgo, now),
		ApprovedAt:              hoursAgo(f.ApprovedHoursAgo, now),
		RejectedAt:              hoursAgo(f.RejectedHoursAgo, now),
		BookedAt:                hoursAgo(f.BookedHoursAgo, now),
		LastEmailSentAt:         hoursAgo(f.LastEmailSentHoursAgo, now),
	}
}

func hoursAgo(hours *float64, now time.Time) *time.Time {
	if hours == nil {
		return nil
	}
	t := now.Add(-time.Duration(*hours * float64(time.Hour)))
	return &t
}

// relativeDate resolves "+Nd" to the Nth weekday after today and "+Nd@HH:MM"
// to that day at the given time. Other values pass through.
func relativeDate(value string, now time.Time) string {
	if !strings.HasPrefix(value, "+") {
		return value
	}
	spec, clock, hasClock := strings.Cut(value[1:], "@")
	days, err := strconv.Atoi(strings.TrimSuffix(spec, "d"))
	if err != nil || days < 0 {
		return value
	}

	day := now
	for days > 0 {
		day = day.AddDate(0, 0, 1)
		if day.Weekday() != time.Saturday && day.Weekday() != time.Sunday {
			days--
		}
	}

	date := day.Format("2006-01-02")
	if hasClock {
		return date + "T" + clock + ":00"
	}
	return date
}

// toJSON encodes a YAML-decoded value, resolving relative dates inside it.
// Strings are taken as JSON text.
func toJSON(value any, now time.Time) json.RawMessage {
	if value == nil {
		return nil
	}
	if text, ok := value.(string); ok {
		if json.Valid([]byte(text)) {
			return json.RawMessage(text)
		}
		value = relativeDate(text, now)
	}
	encoded, err := json.Marshal(resolveDates(value, now))
	if err != nil {
		return nil
	}
	return encoded
}

func resolveDates(value any, now time.Time) any {
	switch typed := value.(type) {
	case string:
		return relativeDate(typed, now)
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = resolveDates(item, now)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = resolveDates(item, now)
		}
		return out
	default:
		return value
	}
}
