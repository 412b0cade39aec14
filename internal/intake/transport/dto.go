// Package transport holds the request and response bodies of the intake API.
package transport

import "advisory_portal/internal/intake/form"

// OptionsResponse is everything the questionnaire renders its choices from.
type OptionsResponse struct {
	Steps             []form.Step   `json:"steps"`
	Provinces         []form.Option `json:"provinces"`
	AssetRanges       []form.Option `json:"assetRanges"`
	IncomeRanges      []form.Option `json:"incomeRanges"`
	FinancialGoals    []form.Option `json:"financialGoals"`
	Timelines         []form.Option `json:"timelines"`
	RiskLevels        []form.Option `json:"riskLevels"`
	AdvisorSituations []form.Option `json:"advisorSituations"`
	TimeSlots         []form.Option `json:"timeSlots"`
	DateWindow        DateWindow    `json:"dateWindow"`
	FreeTextLimit     int           `json:"freeTextLimit"`
	Firm              Firm          `json:"firm"`
}

// DateWindow bounds the selectable consultation dates (YYYY-MM-DD, inclusive).
type DateWindow struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// Firm is the contact block shown around the form.
type Firm struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// ValidateStepResponse reports the errors of one step.
type ValidateStepResponse struct {
	Step   int               `json:"step"`
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// ValidationDetails is the error detail of a rejected submission.
type ValidationDetails struct {
	Step   int               `json:"step"`
	Fields map[string]string `json:"fields"`
}

// SubmitResponse feeds the thank-you page.
type SubmitResponse struct {
	FirstName string `json:"firstName"`
}
