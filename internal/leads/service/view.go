package service

import (
	"strings"
	"time"

	"advisory_portal/internal/leads/domain"
	"advisory_portal/internal/leads/normalize"
	"advisory_portal/internal/leads/transport"
	"advisory_portal/platform/phone"
)

// Detail returns one lead with its display-ready view.
func (s *Service) Detail(lead domain.Lead, tab domain.Tab) transport.LeadDetailResponse {
	return transport.LeadDetailResponse{Lead: lead, Tab: tab, View: BuildView(lead, s.now())}
}

// BuildView derives every display value of the lead detail card.
func BuildView(lead domain.Lead, now time.Time) transport.LeadView {
	view := transport.LeadView{
		FirstName:            lead.FirstName(),
		PhoneDisplay:         phone.FormatNational(lead.Phone),
		ProvinceLabel:        domain.ProvinceLabel(lead.Province),
		AssetsLabel:          domain.AssetsDisplay(lead),
		IncomeLabel:          domain.IncomeDisplay(lead),
		TimelineLabel:        domain.TimelineLabel(lead.InvestmentTimeline),
		RiskLabel:            domain.RiskLabel(lead.RiskTolerance),
		SituationLabel:       domain.SituationLabel(lead.CurrentAdvisorSituation),
		StatusLabel:          domain.StatusLabel(lead.Status),
		Goals:                lead.FinancialGoals,
		SubmittedAgo:         domain.TimeAgo(lead.SubmittedAt, now),
		PreferredSlot:        slot(lead.PreferredDate, lead.PreferredTime),
		BackupSlot:           slot(lead.BackupDate, lead.BackupTime),
		Disqualification:     domain.ExplainDisqualification(lead),
		AdvisorRanking:       normalize.AdvisorRanking(lead),
		RiskFlags:            normalize.RiskFlags(lead),
		ConversationStarters: normalize.ConversationStarters(lead),
		SuggestedBooking:     normalize.SuggestedBooking(lead),
		PrepBrief:            normalize.PrepBrief(lead),
		Actions:              domain.AvailableActions(lead),
	}
	if view.Goals == nil {
		view.Goals = []string{}
	}
	if tier := normalize.ServiceTier(lead); tier.TierName != "" {
		view.ServiceTier = &tier
	}
	if lead.Status == domain.StatusDisqualified {
		grace := domain.Grace(lead, now)
		view.Grace = &grace
	}
	return view
}

func slot(date, clock string) string {
	parts := make([]string, 0, 2)
	if formatted := domain.FormatDate(date); formatted != "" {
		parts = append(parts, formatted)
	}
	if formatted := domain.FormatTime(clock); formatted != "" {
		parts = append(parts, formatted)
	}
	return strings.Join(parts, " at ")
}
