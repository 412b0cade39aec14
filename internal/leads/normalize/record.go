package normalize

import (
	"encoding/json"
	"strings"
	"time"

	"advisory_portal/internal/airtable"
	"advisory_portal/internal/leads/domain"
	"advisory_portal/internal/workflow"
)

// Fields is one raw row keyed by field name.
type Fields map[string]json.RawMessage

// FromRecord maps a record-store lead row.
func FromRecord(record airtable.Record) domain.Lead {
	lead := fromFields(Fields(record.Fields))
	lead.RecordID = record.ID
	return lead
}

// FromWorkflow maps a webhook lead row. The record id travels under one of
// _airtableId, recordId or id.
func FromWorkflow(row workflow.Row) domain.Lead {
	fields := Fields(row)
	lead := fromFields(fields)
	lead.RecordID = fields.firstString("_airtableId", "recordId", "id")
	return lead
}

// FromRows maps a webhook lead list.
func FromRows(rows []workflow.Row) []domain.Lead {
	leads := make([]domain.Lead, 0, len(rows))
	for _, row := range rows {
		leads = append(leads, FromWorkflow(row))
	}
	return leads
}

// FromRecords maps a record-store lead list.
func FromRecords(records []airtable.Record) []domain.Lead {
	leads := make([]domain.Lead, 0, len(records))
	for _, record := range records {
		leads = append(leads, FromRecord(record))
	}
	return leads
}

// MetricsRowsFromRecords projects record-store rows fetched with the
// status/submittedAt/bookedAt field projection.
func MetricsRowsFromRecords(records []airtable.Record) []domain.MetricsRow {
	rows := make([]domain.MetricsRow, 0, len(records))
	for _, record := range records {
		fields := Fields(record.Fields)
		rows = append(rows, domain.MetricsRow{
			Status:      domain.Status(fields.String("status")),
			SubmittedAt: fields.Time("submittedAt"),
			BookedAt:    fields.Time("bookedAt"),
		})
	}
	return rows
}

func fromFields(f Fields) domain.Lead {
	return domain.Lead{
		LeadID:   f.String("leadId"),
		FullName: f.String("fullName"),
		Email:    f.String("email"),
		Phone:    f.String("phone"),
		Province: f.String("province"),

		InvestableAssets:        f.String("investableAssets"),
		InvestableAssetsDisplay: f.String("investableAssetsDisplay"),
		AnnualIncome:            f.String("annualIncome"),
		AnnualIncomeDisplay:     f.String("annualIncomeDisplay"),
		FinancialGoals:          ParseGoals(f["financialGoals"]),
		InvestmentTimeline:      f.String("investmentTimeline"),
		RiskTolerance:           f.String("riskTolerance"),
		CurrentAdvisorSituation: f.String("currentAdvisorSituation"),

		PreferredDate: f.String("preferredDate"),
		PreferredTime: f.String("preferredTime"),
		BackupDate:    f.String("backupDate"),
		BackupTime:    f.String("backupTime"),
		FreeText:      f.String("freeText"),

		Status:            domain.Status(f.String("status")),
		PriorityScore:     domain.Priority(strings.ToUpper(f.String("priorityScore"))),
		PriorityReasoning: f.String("priorityReasoning"),
		ProfileSummary:    f.String("profileSummary"),
		Disqualification: NormalizeDisqualification(
			f["disqualificationReasons"],
			f["disqualificationReasonsDisplay"],
			f["disqualificationReason"],
		),

		AvailabilityStatus:  f.String("availabilityStatus"),
		AssignedAdvisorID:   f.String("assignedAdvisorId"),
		AssignedAdvisorName: f.String("assignedAdvisorName"),
		AppointmentDatetime: f.String("appointmentDatetime"),
		CalendarEventID:     f.String("calendarEventId"),
		RejectionReason:     f.String("rejectionReason"),
		OverrideReason:      f.String("overrideReason"),
		FollowUpCount:       int(f.Number("followUpCount")),

		AdvisorMatchRanking:    Structured(f["advisorMatchRanking"]),
		RiskFlags:              Structured(f["riskFlags"]),
		ConversationStarters:   Structured(f["conversationStarters"]),
		RecommendedServiceTier: Structured(f["recommendedServiceTier"]),
		SuggestedBooking:       Structured(f["suggestedBooking"]),
		ConsultationPrepBrief:  Structured(f["consultationPrepBrief"]),

		NurtureEmailDraft:   f.String("nurtureEmailDraft"),
		NurtureEmailSubject: f.String("nurtureEmailSubject"),
		NurtureEmailStatus:  domain.NurtureStatus(f.String("nurtureEmailStatus")),

		SubmittedAt:          f.Time("submittedAt"),
		ApprovedAt:           f.Time("approvedAt"),
		RejectedAt:           f.Time("rejectedAt"),
		BookedAt:             f.Time("bookedAt"),
		LastEmailSentAt:      f.Time("lastEmailSentAt"),
		RejectionEmailSentAt: f.Time("rejectionEmailSentAt"),

		GraceHoursRemaining: f.NumberPtr("graceHoursRemaining"),
		GracePeriodExpired:  f.BoolPtr("gracePeriodExpired"),
	}
}

// AdvisorFromRecord maps a record-store advisor row.
func AdvisorFromRecord(record airtable.Record) domain.Advisor {
	advisor := AdvisorFromFields(Fields(record.Fields))
	advisor.RecordID = record.ID
	return advisor
}

// AdvisorFromFields maps a raw advisor row from any source.
func AdvisorFromFields(f Fields) domain.Advisor {
	current := f.Number("currentCaseload")
	capacity := f.Number("maxCapacity")
	return domain.Advisor{
		AdvisorID:       f.String("advisorId"),
		AdvisorName:     f.String("advisorName"),
		Email:           f.String("email"),
		Specializations: ParseSpecializations(f["specializations"]),
		CurrentCaseload: current,
		MaxCapacity:     capacity,
		CaseloadPercent: domain.CaseloadPercent(current, capacity),
		Bio:             f.String("bio"),
	}
}

// String decodes a field as text. Numbers and booleans are formatted;
// anything else yields "".
func (f Fields) String(key string) string {
	raw, ok := f[key]
	if !ok {
		return ""
	}
	var value FlexString
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return strings.TrimSpace(string(value))
}

func (f Fields) firstString(keys ...string) string {
	for _, key := range keys {
		if value := f.String(key); value != "" {
			return value
		}
	}
	return ""
}

// Number decodes a numeric or numeric-text field; anything else yields 0.
func (f Fields) Number(key string) float64 {
	if value := f.NumberPtr(key); value != nil {
		return *value
	}
	return 0
}

// NumberPtr is Number that distinguishes an absent or unusable field.
func (f Fields) NumberPtr(key string) *float64 {
	raw, ok := f[key]
	if !ok || isNull(raw) {
		return nil
	}
	var value FlexNumber
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil
	}
	if text := f.String(key); text == "" {
		return nil
	}
	out := float64(value)
	return &out
}

// BoolPtr decodes a boolean field, or nil when absent.
func (f Fields) BoolPtr(key string) *bool {
	raw, ok := f[key]
	if !ok || isNull(raw) {
		return nil
	}
	var value FlexBool
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil
	}
	out := bool(value)
	return &out
}

// Time decodes a timestamp field, or nil when absent or unparseable.
func (f Fields) Time(key string) *time.Time {
	raw, ok := f[key]
	if !ok || isNull(raw) {
		return nil
	}
	var value FlexTime
	if err := json.Unmarshal(raw, &value); err != nil || value.IsZero() {
		return nil
	}
	out := value.Time
	return &out
}
