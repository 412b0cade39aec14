package transport

import (
	"time"

	"advisory_portal/internal/leads/domain"
)

// ListLeadsRequest is the query of the queue endpoint.
type ListLeadsRequest struct {
	Tab     string `form:"tab" json:"tab" validate:"omitempty,oneof=pending auto_rejected active"`
	Status  string `form:"status" json:"status" validate:"omitempty,lead_status"`
	Refresh bool   `form:"refresh" json:"refresh"`
}

// ApproveRequest assigns an advisor to a pending lead.
type ApproveRequest struct {
	AssignedAdvisorID   string `json:"assignedAdvisorId" validate:"required,max=100"`
	AssignedAdvisorName string `json:"assignedAdvisorName" validate:"required,max=200"`
}

// RejectRequest rejects a pending lead.
type RejectRequest struct {
	RejectionReason string `json:"rejectionReason" validate:"required,oneof=below_threshold not_a_fit incomplete_info other"`
	CustomNote      string `json:"customNote" validate:"max=2000"`
}

// ConfirmRejectRequest confirms the automatic rejection of a disqualified lead.
type ConfirmRejectRequest struct {
	RejectionReason string `json:"rejectionReason" validate:"required,oneof=not_a_fit below_threshold other"`
	CustomNote      string `json:"customNote" validate:"max=2000"`
}

// OverrideRequest sends a disqualified lead back to enrichment. An empty reason
// is replaced by the default override reason.
type OverrideRequest struct {
	OverrideReason string `json:"overrideReason" validate:"max=2000"`
}

// RequestInfoRequest asks the applicant a follow-up question.
type RequestInfoRequest struct {
	FollowUpQuestion string `json:"followUpQuestion" validate:"required,max=2000"`
}

// NurtureSendRequest sends the nurture draft. Empty fields default to the lead's
// email, the drafted subject and the drafted body.
type NurtureSendRequest struct {
	To      string `json:"to" validate:"omitempty,email"`
	Subject string `json:"subject" validate:"max=300"`
	Body    string `json:"body" validate:"max=20000"`
}

// ActionResponse reports the outcome of an operator action.
type ActionResponse struct {
	Action          domain.Action `json:"action"`
	LeadID          string        `json:"leadId"`
	Succeeded       bool          `json:"succeeded"`
	RemovedFromView bool          `json:"removedFromView"`
	Message         string        `json:"message,omitempty"`
	Error           string        `json:"error,omitempty"`
	Lead            *domain.Lead  `json:"lead,omitempty"`
}

// LeadsResponse is one queue.
type LeadsResponse struct {
	Tab           domain.Tab    `json:"tab"`
	Leads         []domain.Lead `json:"leads"`
	Count         int           `json:"count"`
	UsingFallback bool          `json:"usingFallback"`
	RefreshedAt   time.Time     `json:"refreshedAt"`
}

// MetricsResponse is the summary strip.
type MetricsResponse struct {
	domain.Metrics
	UsingFallback bool `json:"usingFallback"`
}

// AdvisorsResponse is the advisor roster offered by the approve dialog.
type AdvisorsResponse struct {
	Advisors      []domain.Advisor `json:"advisors"`
	UsingFallback bool             `json:"usingFallback"`
}

// OverviewResponse combines every queue count, the metrics and the roster.
type OverviewResponse struct {
	Metrics       domain.Metrics     `json:"metrics"`
	Counts        map[domain.Tab]int `json:"counts"`
	Advisors      []domain.Advisor   `json:"advisors"`
	UsingFallback bool               `json:"usingFallback"`
}

// OptionsResponse lists the static choices of the action dialogs.
type OptionsResponse struct {
	RejectReasons        []Option `json:"rejectReasons"`
	ConfirmRejectReasons []Option `json:"confirmRejectReasons"`
	Statuses             []Option `json:"statuses"`
	DefaultOverride      string   `json:"defaultOverrideReason"`
}

// Option is a code with its label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// LeadDetailResponse is one lead with everything the detail card renders.
type LeadDetailResponse struct {
	Lead domain.Lead `json:"lead"`
	Tab  domain.Tab  `json:"tab"`
	View LeadView    `json:"view"`
}

// LeadView holds the derived, display-ready values of a lead.
type LeadView struct {
	FirstName            string                           `json:"firstName"`
	PhoneDisplay         string                           `json:"phoneDisplay"`
	ProvinceLabel        string                           `json:"provinceLabel"`
	AssetsLabel          string                           `json:"assetsLabel"`
	IncomeLabel          string                           `json:"incomeLabel"`
	TimelineLabel        string                           `json:"timelineLabel"`
	RiskLabel            string                           `json:"riskLabel"`
	SituationLabel       string                           `json:"situationLabel"`
	StatusLabel          string                           `json:"statusLabel"`
	Goals                []string                         `json:"goals"`
	SubmittedAgo         string                           `json:"submittedAgo"`
	PreferredSlot        string                           `json:"preferredSlot,omitempty"`
	BackupSlot           string                           `json:"backupSlot,omitempty"`
	Disqualification     []domain.DisqualificationContext `json:"disqualification"`
	Grace                *domain.GraceState               `json:"grace,omitempty"`
	AdvisorRanking       []domain.AdvisorMatch            `json:"advisorRanking"`
	RiskFlags            []domain.RiskFlag                `json:"riskFlags"`
	ConversationStarters []string                         `json:"conversationStarters"`
	ServiceTier          *domain.ServiceTier              `json:"serviceTier,omitempty"`
	SuggestedBooking     *domain.SuggestedBooking         `json:"suggestedBooking,omitempty"`
	PrepBrief            map[string]any                   `json:"prepBrief,omitempty"`
	Actions              []domain.Action                  `json:"actions"`
}
