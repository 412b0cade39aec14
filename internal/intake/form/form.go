// Package form implements the five-step intake questionnaire: the draft,
// the per-step rules, the option catalog and the submission payload.
package form

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"advisory_portal/internal/workflow"
	"advisory_portal/platform/phone"
)

// MsgUnreachable is surfaced when the submission never reached the workflow engine.
const MsgUnreachable = "Unable to reach our servers. Please check your connection and try again."

// Draft is the questionnaire as filled in so far.
type Draft struct {
	FullName                string   `json:"fullName" validate:"max=200"`
	Email                   string   `json:"email" validate:"max=254"`
	Phone                   string   `json:"phone" validate:"max=40"`
	Province                string   `json:"province"`
	InvestableAssets        string   `json:"investableAssets"`
	AnnualIncome            string   `json:"annualIncome"`
	FinancialGoals          []string `json:"financialGoals" validate:"max=6"`
	InvestmentTimeline      string   `json:"investmentTimeline"`
	RiskTolerance           string   `json:"riskTolerance"`
	CurrentAdvisorSituation string   `json:"currentAdvisorSituation"`
	PreferredDate           string   `json:"preferredDate"`
	PreferredTime           string   `json:"preferredTime"`
	BackupDate              string   `json:"backupDate"`
	BackupTime              string   `json:"backupTime" validate:"max=5"`
	FreeText                string   `json:"freeText"`
	ConsentGiven            bool     `json:"consentGiven"`
}

// Payload is the normalized body forwarded to the intake webhook.
type Payload struct {
	FullName                string   `json:"fullName"`
	Email                   string   `json:"email"`
	Phone                   string   `json:"phone"`
	Province                string   `json:"province"`
	InvestableAssets        string   `json:"investableAssets"`
	AnnualIncome            string   `json:"annualIncome"`
	FinancialGoals          []string `json:"financialGoals"`
	InvestmentTimeline      string   `json:"investmentTimeline"`
	RiskTolerance           string   `json:"riskTolerance"`
	CurrentAdvisorSituation string   `json:"currentAdvisorSituation"`
	PreferredDate           string   `json:"preferredDate"`
	PreferredTime           string   `json:"preferredTime"`
	BackupDate              string   `json:"backupDate,omitempty"`
	BackupTime              string   `json:"backupTime,omitempty"`
	FreeText                string   `json:"freeText,omitempty"`
	ConsentGiven            bool     `json:"consentGiven"`
}

// BuildPayload normalizes a validated draft: trimmed name, lower-cased email,
// digits-only phone, optional fields dropped when empty.
func BuildPayload(d Draft) Payload {
	goals := make([]string, len(d.FinancialGoals))
	copy(goals, d.FinancialGoals)
	return Payload{
		FullName:                strings.TrimSpace(d.FullName),
		Email:                   strings.ToLower(strings.TrimSpace(d.Email)),
		Phone:                   phone.Digits(d.Phone),
		Province:                d.Province,
		InvestableAssets:        d.InvestableAssets,
		AnnualIncome:            d.AnnualIncome,
		FinancialGoals:          goals,
		InvestmentTimeline:      d.InvestmentTimeline,
		RiskTolerance:           d.RiskTolerance,
		CurrentAdvisorSituation: d.CurrentAdvisorSituation,
		PreferredDate:           d.PreferredDate,
		PreferredTime:           d.PreferredTime,
		BackupDate:              d.BackupDate,
		BackupTime:              d.BackupTime,
		FreeText:                strings.TrimSpace(d.FreeText),
		ConsentGiven:            true,
	}
}

// FirstName is the first word of the applicant's name, shown on the thank-you page.
func (d Draft) FirstName() string {
	fields := strings.Fields(d.FullName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Submitter forwards a payload to the workflow engine.
type Submitter interface {
	SubmitIntake(ctx context.Context, payload any) error
}

// ValidationError reports the failing step and its field errors.
type ValidationError struct {
	Step   int
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %d has %d invalid field(s)", e.Step, len(e.Fields))
}

// SubmitError is a failed write. Network is true when the workflow engine
// could not be reached; otherwise Message is what it answered.
type SubmitError struct {
	Network bool
	Message string
	Err     error
}

func (e *SubmitError) Error() string { return e.Message }

func (e *SubmitError) Unwrap() error { return e.Err }

// Form is the step controller of one applicant's questionnaire. It is not
// safe for concurrent use.
type Form struct {
	rules     *Rules
	draft     Draft
	step      int
	errors    FieldErrors
	submitted bool
}

// New starts an empty form on the first step.
func New(rules *Rules) *Form {
	return &Form{rules: rules, step: FirstStep, errors: FieldErrors{}}
}

// FromDraft starts a form already holding d.
func FromDraft(rules *Rules, d Draft) *Form {
	f := New(rules)
	f.draft = d
	return f
}

// Draft returns a copy of the current answers.
func (f *Form) Draft() Draft {
	d := f.draft
	d.FinancialGoals = append([]string(nil), f.draft.FinancialGoals...)
	return d
}

// Step returns the current step.
func (f *Form) Step() int { return f.step }

// Submitted reports whether the workflow engine accepted the form.
func (f *Form) Submitted() bool { return f.submitted }

// Errors returns the errors of the last validation, minus fields touched since.
func (f *Form) Errors() FieldErrors {
	out := make(FieldErrors, len(f.errors))
	for field, msg := range f.errors {
		out[field] = msg
	}
	return out
}

// UpdateField sets one answer by its json name and clears that field's error.
// financialGoals takes a []string, consentGiven a bool, every other field a string.
func (f *Form) UpdateField(name string, value any) error {
	switch name {
	case "financialGoals":
		goals, ok := value.([]string)
		if !ok {
			return fmt.Errorf("field %s: want []string, got %T", name, value)
		}
		f.draft.FinancialGoals = append([]string(nil), goals...)
	case "consentGiven":
		consent, ok := value.(bool)
		if !ok {
			return fmt.Errorf("field %s: want bool, got %T", name, value)
		}
		f.draft.ConsentGiven = consent
	default:
		text, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %s: want string, got %T", name, value)
		}
		target := f.stringField(name)
		if target == nil {
			return fmt.Errorf("unknown field %q", name)
		}
		*target = text
	}
	delete(f.errors, name)
	return nil
}

func (f *Form) stringField(name string) *string {
	switch name {
	case "fullName":
		return &f.draft.FullName
	case "email":
		return &f.draft.Email
	case "phone":
		return &f.draft.Phone
	case "province":
		return &f.draft.Province
	case "investableAssets":
		return &f.draft.InvestableAssets
	case "annualIncome":
		return &f.draft.AnnualIncome
	case "investmentTimeline":
		return &f.draft.InvestmentTimeline
	case "riskTolerance":
		return &f.draft.RiskTolerance
	case "currentAdvisorSituation":
		return &f.draft.CurrentAdvisorSituation
	case "preferredDate":
		return &f.draft.PreferredDate
	case "preferredTime":
		return &f.draft.PreferredTime
	case "backupDate":
		return &f.draft.BackupDate
	case "backupTime":
		return &f.draft.BackupTime
	case "freeText":
		return &f.draft.FreeText
	default:
		return nil
	}
}

// ValidateStep validates one step and records its errors.
func (f *Form) ValidateStep(step int) FieldErrors {
	f.errors = f.rules.ValidateStep(f.draft, step)
	return f.Errors()
}

// Next advances one step when the current step validates.
func (f *Form) Next() bool {
	if len(f.ValidateStep(f.step)) > 0 {
		return false
	}
	if f.step < LastStep {
		f.step++
	}
	return true
}

// Back returns to the previous step.
func (f *Form) Back() {
	if f.step > FirstStep {
		f.step--
	}
}

// Submit re-validates the last step, then forwards the normalized payload
// exactly once. On failure the form stays where it is.
func (f *Form) Submit(ctx context.Context, sub Submitter) (Payload, error) {
	if errs := f.ValidateStep(LastStep); len(errs) > 0 {
		return Payload{}, &ValidationError{Step: LastStep, Fields: errs}
	}

	payload := BuildPayload(f.draft)
	if err := sub.SubmitIntake(ctx, payload); err != nil {
		if errors.Is(err, workflow.ErrUnreachable) {
			return payload, &SubmitError{Network: true, Message: MsgUnreachable, Err: err}
		}
		return payload, &SubmitError{Message: err.Error(), Err: err}
	}
	f.submitted = true
	return payload, nil
}
