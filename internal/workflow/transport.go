package workflow

import "encoding/json"

// Row is one lead as returned by the webhook read endpoints. Values stay raw
// for the per-field normalizers.
type Row map[string]json.RawMessage

// LeadsResponse is the body of GET /api/leads.
type LeadsResponse struct {
	Leads []Row  `json:"leads"`
	Count int    `json:"count,omitempty"`
	Tab   string `json:"tab,omitempty"`
}

// MetricsResponse is the body of GET /api/metrics.
type MetricsResponse struct {
	LeadsThisWeek       int     `json:"leadsThisWeek"`
	TotalLeads          int     `json:"totalLeads"`
	PendingReview       int     `json:"pendingReview"`
	BookedConsultations int     `json:"bookedConsultations"`
	AvgHoursToBook      float64 `json:"avgHoursToBook"`
}

// ApproveRequest assigns an advisor to a pending lead.
type ApproveRequest struct {
	LeadID              string `json:"leadId"`
	AssignedAdvisorID   string `json:"assignedAdvisorId"`
	AssignedAdvisorName string `json:"assignedAdvisorName"`
}

// RejectRequest rejects a pending lead, or confirms the rejection of a disqualified one.
type RejectRequest struct {
	LeadID          string `json:"leadId"`
	RejectionReason string `json:"rejectionReason"`
	CustomNote      string `json:"customNote"`
}

// OverrideRequest sends a disqualified lead back to enrichment.
type OverrideRequest struct {
	LeadID         string `json:"leadId"`
	OverrideReason string `json:"overrideReason"`
}

// RequestInfoRequest asks the applicant a follow-up question.
type RequestInfoRequest struct {
	LeadID           string `json:"leadId"`
	FollowUpQuestion string `json:"followUpQuestion"`
}

// NurtureSendRequest sends the (possibly edited) nurture email draft.
type NurtureSendRequest struct {
	LeadID  string `json:"leadId"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NurtureDismissRequest discards the nurture email draft.
type NurtureDismissRequest struct {
	LeadID string `json:"leadId"`
}

// Ack is the 2xx body of a write endpoint. Fields are optional; Raw keeps the
// full body for callers that need more.
type Ack struct {
	Success *bool           `json:"success,omitempty"`
	Message string          `json:"message,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

// Acknowledged is false only when the webhook explicitly answered success=false.
func (a *Ack) Acknowledged() bool {
	return a == nil || a.Success == nil || *a.Success
}

type errorBody struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}
