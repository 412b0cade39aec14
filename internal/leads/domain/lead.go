// Package domain provides the lead and advisor model of the review dashboard,
// together with the static rules that operate on it.
package domain

import (
	"encoding/json"
	"time"
)

// Status is the lifecycle state owned by the workflow engine.
type Status string

const (
	StatusPendingReview      Status = "PENDING_REVIEW"
	StatusDisqualified       Status = "DISQUALIFIED"
	StatusApproved           Status = "APPROVED"
	StatusOutreachInProgress Status = "OUTREACH_IN_PROGRESS"
	StatusBooked             Status = "BOOKED"
	StatusUnresponsive       Status = "UNRESPONSIVE"
	StatusCompleted          Status = "COMPLETED"
	StatusRejected           Status = "REJECTED"
	StatusCancelledByLead    Status = "CANCELLED_BY_LEAD"
)

// AllStatuses lists every status in dashboard order.
var AllStatuses = []Status{
	StatusPendingReview,
	StatusDisqualified,
	StatusApproved,
	StatusOutreachInProgress,
	StatusBooked,
	StatusUnresponsive,
	StatusCompleted,
	StatusRejected,
	StatusCancelledByLead,
}

// IsKnown reports whether s is one of the nine statuses.
func (s Status) IsKnown() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Priority is the pending-queue sort key assigned by the workflow engine.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Rank orders priorities HIGH < MEDIUM < LOW; anything else sorts last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// NurtureStatus tracks the post-booking nurture email draft.
type NurtureStatus string

const (
	NurturePending   NurtureStatus = "PENDING_REVIEW"
	NurtureSent      NurtureStatus = "SENT"
	NurtureApproved  NurtureStatus = "APPROVED"
	NurtureDismissed NurtureStatus = "DISMISSED"
	NurtureFailed    NurtureStatus = "FAILED"
)

// IsFinal reports whether the nurture email no longer accepts send or dismiss.
func (s NurtureStatus) IsFinal() bool {
	switch s {
	case NurtureSent, NurtureApproved, NurtureDismissed, NurtureFailed:
		return true
	default:
		return false
	}
}

// Disqualification is the normalized pair of reason codes and their labels.
// Keys and Labels always have the same length.
type Disqualification struct {
	Keys   []string `json:"keys"`
	Labels []string `json:"labels"`
}

// Lead is one prospective client application as seen by the dashboard.
type Lead struct {
	RecordID string `json:"recordId,omitempty"`
	LeadID   string `json:"leadId"`

	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Province string `json:"province"`

	InvestableAssets        string   `json:"investableAssets"`
	InvestableAssetsDisplay string   `json:"investableAssetsDisplay,omitempty"`
	AnnualIncome            string   `json:"annualIncome"`
	AnnualIncomeDisplay     string   `json:"annualIncomeDisplay,omitempty"`
	FinancialGoals          []string `json:"financialGoals"`
	InvestmentTimeline      string   `json:"investmentTimeline"`
	RiskTolerance           string   `json:"riskTolerance"`
	CurrentAdvisorSituation string   `json:"currentAdvisorSituation"`

	PreferredDate string `json:"preferredDate,omitempty"`
	PreferredTime string `json:"preferredTime,omitempty"`
	BackupDate    string `json:"backupDate,omitempty"`
	BackupTime    string `json:"backupTime,omitempty"`
	FreeText      string `json:"freeText,omitempty"`

	Status            Status           `json:"status"`
	PriorityScore     Priority         `json:"priorityScore,omitempty"`
	PriorityReasoning string           `json:"priorityReasoning,omitempty"`
	ProfileSummary    string           `json:"profileSummary,omitempty"`
	Disqualification  Disqualification `json:"disqualification"`

	AvailabilityStatus  string `json:"availabilityStatus,omitempty"`
	AssignedAdvisorID   string `json:"assignedAdvisorId,omitempty"`
	AssignedAdvisorName string `json:"assignedAdvisorName,omitempty"`
	AppointmentDatetime string `json:"appointmentDatetime,omitempty"`
	CalendarEventID     string `json:"calendarEventId,omitempty"`
	RejectionReason     string `json:"rejectionReason,omitempty"`
	OverrideReason      string `json:"overrideReason,omitempty"`
	FollowUpCount       int    `json:"followUpCount"`

	// Structured values produced by the workflow engine, kept as decoded JSON.
	AdvisorMatchRanking    json.RawMessage `json:"advisorMatchRanking,omitempty"`
	RiskFlags              json.RawMessage `json:"riskFlags,omitempty"`
	ConversationStarters   json.RawMessage `json:"conversationStarters,omitempty"`
	RecommendedServiceTier json.RawMessage `json:"recommendedServiceTier,omitempty"`
	SuggestedBooking       json.RawMessage `json:"suggestedBooking,omitempty"`
	ConsultationPrepBrief  json.RawMessage `json:"consultationPrepBrief,omitempty"`

	NurtureEmailDraft   string        `json:"nurtureEmailDraft,omitempty"`
	NurtureEmailSubject string        `json:"nurtureEmailSubject,omitempty"`
	NurtureEmailStatus  NurtureStatus `json:"nurtureEmailStatus,omitempty"`

	SubmittedAt          *time.Time `json:"submittedAt,omitempty"`
	ApprovedAt           *time.Time `json:"approvedAt,omitempty"`
	RejectedAt           *time.Time `json:"rejectedAt,omitempty"`
	BookedAt             *time.Time `json:"bookedAt,omitempty"`
	LastEmailSentAt      *time.Time `json:"lastEmailSentAt,omitempty"`
	RejectionEmailSentAt *time.Time `json:"rejectionEmailSentAt,omitempty"`

	GraceHoursRemaining *float64 `json:"graceHoursRemaining,omitempty"`
	GracePeriodExpired  *bool    `json:"gracePeriodExpired,omitempty"`
}

// IsTerminal reports whether no operator action applies any more.
func (l Lead) IsTerminal() bool {
	return l.RejectionEmailSentAt != nil
}

// FirstName returns the first whitespace-separated word of the full name.
func (l Lead) FirstName() string {
	return FirstName(l.FullName)
}

// Advisor is one member of the advisory team.
type Advisor struct {
	RecordID        string   `json:"recordId,omitempty"`
	AdvisorID       string   `json:"advisorId"`
	AdvisorName     string   `json:"advisorName"`
	Email           string   `json:"email"`
	Specializations []string `json:"specializations"`
	CurrentCaseload float64  `json:"currentCaseload"`
	MaxCapacity     float64  `json:"maxCapacity"`
	CaseloadPercent int      `json:"caseloadPercent"`
	Bio             string   `json:"bio"`
}

// CaseloadPercent is round(current/max*100), or 0 when max is 0.
func CaseloadPercent(current, max float64) int {
	if max == 0 {
		return 0
	}
	return jsRound(current / max * 100)
}

// AdvisorMatch is one entry of the advisor match ranking.
type AdvisorMatch struct {
	AdvisorID   string  `json:"advisorId"`
	AdvisorName string  `json:"advisorName"`
	MatchScore  float64 `json:"matchScore"`
	Reasoning   string  `json:"reasoning,omitempty"`
}

// RiskFlag is one entry of the risk flag list.
type RiskFlag struct {
	Flag     string `json:"flag"`
	Detail   string `json:"detail"`
	Severity string `json:"severity"`
}

// ServiceTier is the recommended service tier.
type ServiceTier struct {
	TierName  string `json:"tierName"`
	Reasoning string `json:"reasoning,omitempty"`
}

// SuggestedBooking is the slot the workflow engine proposes.
type SuggestedBooking struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	AdvisorID string `json:"advisorId,omitempty"`
}
