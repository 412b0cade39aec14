package domain

import "strings"

var provinceLabels = map[string]string{
	"ON": "Ontario",
	"BC": "British Columbia",
	"AB": "Alberta",
	"QC": "Quebec",
	"MB": "Manitoba",
	"SK": "Saskatchewan",
	"NS": "Nova Scotia",
	"NB": "New Brunswick",
	"NL": "Newfoundland",
	"PE": "PEI",
	"NT": "Northwest Territories",
	"YT": "Yukon",
	"NU": "Nunavut",
}

var assetLabels = map[string]string{
	"under_25k": "Under $25K",
	"25k_100k":  "$25K - $100K",
	"100k_250k": "$100K - $250K",
	"250k_500k": "$250K - $500K",
	"500k_1m":   "$500K - $1M",
	"1m_plus":   "$1M+",
}

var incomeLabels = map[string]string{
	"under_50k": "Under $50K",
	"50k_100k":  "$50K - $100K",
	"100k_200k": "$100K - $200K",
	"200k_500k": "$200K - $500K",
	"500k_plus": "$500K+",
}

var timelineLabels = map[string]string{
	"under_1yr": "<1 year",
	"1_3yr":     "1-3 years",
	"3_5yr":     "3-5 years",
	"5_10yr":    "5-10 years",
	"10_plus":   "10+ years",
}

var situationLabels = map[string]string{
	"switching":      "Switching advisors",
	"never_had":      "First-time client",
	"previously_had": "Previously had advisor",
}

var statusLabels = map[Status]string{
	StatusPendingReview:      "Pending review",
	StatusDisqualified:       "Disqualified",
	StatusApproved:           "Approved",
	StatusOutreachInProgress: "Outreach in progress",
	StatusBooked:             "Booked",
	StatusUnresponsive:       "Unresponsive",
	StatusCompleted:          "Completed",
	StatusRejected:           "Rejected",
	StatusCancelledByLead:    "Cancelled by lead",
}

func lookup(table map[string]string, code string) string {
	if label, ok := table[code]; ok {
		return label
	}
	return code
}

// ProvinceLabel maps a province code to its dashboard label; unknown codes pass through.
func ProvinceLabel(code string) string { return lookup(provinceLabels, code) }

// AssetsLabel maps an investable-assets bucket to its label.
func AssetsLabel(code string) string { return lookup(assetLabels, code) }

// IncomeLabel maps an annual-income bucket to its label.
func IncomeLabel(code string) string { return lookup(incomeLabels, code) }

// TimelineLabel maps an investment-timeline bucket to its label.
func TimelineLabel(code string) string { return lookup(timelineLabels, code) }

// SituationLabel maps a current-advisor situation to its label.
func SituationLabel(code string) string { return lookup(situationLabels, code) }

// RiskLabel capitalizes the risk tolerance code.
func RiskLabel(code string) string {
	if code == "" {
		return ""
	}
	return strings.ToUpper(code[:1]) + code[1:]
}

// StatusLabel maps a status to its human label.
func StatusLabel(status Status) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return string(status)
}

// ProvinceCodes lists the province codes in form order.
var ProvinceCodes = []string{"ON", "BC", "AB", "QC", "MB", "SK", "NS", "NB", "NL", "PE", "NT", "YT", "NU"}
