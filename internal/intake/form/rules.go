package form

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"advisory_portal/platform/phone"
	"advisory_portal/platform/validator"
)

const dateLayout = "2006-01-02"

// Messages shown next to the offending field.
const (
	msgFullNameRequired  = "Full name is required"
	msgEmailRequired     = "Email is required"
	msgEmailInvalid      = "Please enter a valid email"
	msgPhoneRequired     = "Phone number is required"
	msgPhoneInvalid      = "Please enter a valid phone number"
	msgProvinceRequired  = "Province is required"
	msgAssetsRequired    = "Please select your investable assets range"
	msgIncomeRequired    = "Please select your income range"
	msgGoalsRequired     = "Please select at least one financial goal"
	msgTimelineRequired  = "Please select your investment timeline"
	msgRiskRequired      = "Please select your risk tolerance"
	msgSituationRequired = "Please select your current advisor situation"
	msgDateRequired      = "Please select a preferred date"
	msgDateInvalid       = "Please select a valid date"
	msgDateFuture        = "Date must be in the future"
	msgDateTooFar        = "Date must be within the next 30 days"
	msgDateWeekday       = "Please select a weekday"
	msgTimeRequired      = "Please select a preferred time"
	msgConsentRequired   = "You must consent to be contacted"
	msgInvalidOption     = "Please select a valid option"
	msgFreeTextTooLong   = "Please keep this under 1000 characters"
)

// Validator tags for the enumerated answers.
const (
	TagProvince         = "province"
	TagAssets           = "assets"
	TagIncome           = "income"
	TagGoal             = "goal"
	TagTimeline         = "timeline"
	TagRisk             = "risk"
	TagAdvisorSituation = "advisor_situation"
	TagTimeslot         = "timeslot"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldErrors maps a draft field (json name) to its message.
type FieldErrors map[string]string

// Rules validates drafts one step at a time. "Today" comes from now, in the
// location of the time it returns.
type Rules struct {
	val *validator.Validator
	now func() time.Time
}

// NewRules registers the enumeration tags on val and returns the step rules.
func NewRules(val *validator.Validator, now func() time.Time) (*Rules, error) {
	if now == nil {
		now = time.Now
	}
	enums := map[string][]Option{
		TagProvince:         Provinces,
		TagAssets:           AssetRanges,
		TagIncome:           IncomeRanges,
		TagGoal:             Goals,
		TagTimeline:         Timelines,
		TagRisk:             RiskLevels,
		TagAdvisorSituation: AdvisorSituations,
		TagTimeslot:         TimeSlots,
	}
	for tag, options := range enums {
		if err := val.RegisterOneOf(tag, Values(options)...); err != nil {
			return nil, fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return &Rules{val: val, now: now}, nil
}

// Now returns the rules clock.
func (r *Rules) Now() time.Time {
	return r.now()
}

// ValidateStep returns the errors of one step; an empty map means the step passes.
// Steps outside 1..5 have no rules.
func (r *Rules) ValidateStep(d Draft, step int) FieldErrors {
	errs := FieldErrors{}
	switch step {
	case 1:
		if strings.TrimSpace(d.FullName) == "" {
			errs["fullName"] = msgFullNameRequired
		}
		switch {
		case strings.TrimSpace(d.Email) == "":
			errs["email"] = msgEmailRequired
		case !emailPattern.MatchString(d.Email):
			errs["email"] = msgEmailInvalid
		}
		switch {
		case strings.TrimSpace(d.Phone) == "":
			errs["phone"] = msgPhoneRequired
		case len(phone.Digits(d.Phone)) < 10:
			errs["phone"] = msgPhoneInvalid
		}
		r.selected(errs, "province", d.Province, TagProvince, msgProvinceRequired)
	case 2:
		r.selected(errs, "investableAssets", d.InvestableAssets, TagAssets, msgAssetsRequired)
		r.selected(errs, "annualIncome", d.AnnualIncome, TagIncome, msgIncomeRequired)
		switch {
		case len(d.FinancialGoals) == 0:
			errs["financialGoals"] = msgGoalsRequired
		case r.val.Var(d.FinancialGoals, TagGoal) != nil:
			errs["financialGoals"] = msgInvalidOption
		}
	case 3:
		r.selected(errs, "investmentTimeline", d.InvestmentTimeline, TagTimeline, msgTimelineRequired)
		r.selected(errs, "riskTolerance", d.RiskTolerance, TagRisk, msgRiskRequired)
		r.selected(errs, "currentAdvisorSituation", d.CurrentAdvisorSituation, TagAdvisorSituation, msgSituationRequired)
	case 4:
		today := startOfDay(r.now())
		if d.PreferredDate == "" {
			errs["preferredDate"] = msgDateRequired
		} else if msg := checkDate(d.PreferredDate, today); msg != "" {
			errs["preferredDate"] = msg
		}
		r.selected(errs, "preferredTime", d.PreferredTime, TagTimeslot, msgTimeRequired)
		if d.BackupDate != "" {
			if msg := checkDate(d.BackupDate, today); msg != "" {
				errs["backupDate"] = msg
			}
		}
	case 5:
		if !d.ConsentGiven {
			errs["consentGiven"] = msgConsentRequired
		}
		if utf8.RuneCountInString(d.FreeText) > FreeTextLimit {
			errs["freeText"] = msgFreeTextTooLong
		}
	}
	return errs
}

// ValidateAll runs every step and returns the first failing step with its
// errors, or 0 and an empty map.
func (r *Rules) ValidateAll(d Draft) (int, FieldErrors) {
	for step := FirstStep; step <= LastStep; step++ {
		if errs := r.ValidateStep(d, step); len(errs) > 0 {
			return step, errs
		}
	}
	return 0, FieldErrors{}
}

func (r *Rules) selected(errs FieldErrors, field, value, tag, requiredMsg string) {
	switch {
	case value == "":
		errs[field] = requiredMsg
	case r.val.Var(value, tag) != nil:
		errs[field] = msgInvalidOption
	}
}

// checkDate applies the consultation date rules: strictly after today, within
// the booking window, on a weekday. The weekday message wins when several apply.
func checkDate(value string, today time.Time) string {
	date, err := time.ParseInLocation(dateLayout, value, today.Location())
	if err != nil {
		return msgDateInvalid
	}
	msg := ""
	if !date.After(today) {
		msg = msgDateFuture
	} else if date.After(today.AddDate(0, 0, BookingWindowDays)) {
		msg = msgDateTooFar
	}
	if isWeekend(date) {
		msg = msgDateWeekday
	}
	return msg
}
