package domain

import (
	"fmt"
	"strings"
)

// Disqualification reason codes set by the workflow engine.
const (
	ReasonJurisdictionNotServed = "jurisdiction_not_served"
	ReasonBelowAssetThreshold   = "below_asset_threshold"
	ReasonGoalMismatch          = "goal_mismatch"
)

var disqualificationLabels = map[string]string{
	ReasonJurisdictionNotServed: "Jurisdiction not served",
	ReasonBelowAssetThreshold:   "Below asset threshold",
	ReasonGoalMismatch:          "Service goals not offered",
}

var disqualificationPolicies = map[string]string{
	ReasonJurisdictionNotServed: "NorthStar currently serves ON, BC, AB, QC.",
	ReasonBelowAssetThreshold:   "Minimum investable assets requirement: $100,000.",
	ReasonGoalMismatch:          "NorthStar offers: Retirement, Tax, Estate, Investment, Education planning.",
}

// DisqualificationLabel maps a reason code to its label; unknown codes are their own label.
func DisqualificationLabel(code string) string {
	return lookup(disqualificationLabels, code)
}

// DisqualificationContext explains one reason against the lead's own answers.
type DisqualificationContext struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Detail string `json:"detail,omitempty"`
	Policy string `json:"policy,omitempty"`
}

// ExplainDisqualification pairs each normalized reason with the applicant's
// answer and the firm policy it failed. Unknown reasons carry only key and label.
func ExplainDisqualification(lead Lead) []DisqualificationContext {
	dq := lead.Disqualification
	out := make([]DisqualificationContext, 0, len(dq.Keys))
	for i, key := range dq.Keys {
		entry := DisqualificationContext{Key: key, Label: DisqualificationLabel(key)}
		if i < len(dq.Labels) {
			entry.Label = dq.Labels[i]
		}
		entry.Policy = disqualificationPolicies[key]
		switch key {
		case ReasonJurisdictionNotServed:
			entry.Detail = fmt.Sprintf("Applicant province: %s (%s)", ProvinceLabel(lead.Province), lead.Province)
		case ReasonBelowAssetThreshold:
			entry.Detail = "Reported assets: " + AssetsDisplay(lead)
		case ReasonGoalMismatch:
			requested := strings.Join(lead.FinancialGoals, ", ")
			if requested == "" {
				requested = "Not specified"
			}
			entry.Detail = "Requested: " + requested
		}
		out = append(out, entry)
	}
	return out
}

// AssetsDisplay prefers the server-provided display value.
func AssetsDisplay(lead Lead) string {
	if lead.InvestableAssetsDisplay != "" {
		return lead.InvestableAssetsDisplay
	}
	return AssetsLabel(lead.InvestableAssets)
}

// IncomeDisplay prefers the server-provided display value.
func IncomeDisplay(lead Lead) string {
	if lead.AnnualIncomeDisplay != "" {
		return lead.AnnualIncomeDisplay
	}
	return IncomeLabel(lead.AnnualIncome)
}
