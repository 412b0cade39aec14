package form

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"advisory_portal/internal/workflow"
	"advisory_portal/platform/validator"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday.
var fixedNow = time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

func newRules(t *testing.T) *Rules {
	t.Helper()
	rules, err := NewRules(validator.New(), func() time.Time { return fixedNow })
	require.NoError(t, err)
	return rules
}

func validDraft() Draft {
	return Draft{
		FullName:                "  Jordan Lee ",
		Email:                   " Jordan.Lee@Example.COM ",
		Phone:                   "(416) 555-0142",
		Province:                "ON",
		InvestableAssets:        "250k_500k",
		AnnualIncome:            "100k_200k",
		FinancialGoals:          []string{"Retirement Planning", "Tax Optimization"},
		InvestmentTimeline:      "5_10yr",
		RiskTolerance:           "moderate",
		CurrentAdvisorSituation: "switching",
		PreferredDate:           "2026-03-05",
		PreferredTime:           "10:30",
		FreeText:                "  Looking to consolidate accounts.  ",
		ConsentGiven:            true,
	}
}

type recordingSubmitter struct {
	payloads []any
	err      error
}

func (r *recordingSubmitter) SubmitIntake(_ context.Context, payload any) error {
	r.payloads = append(r.payloads, payload)
	return r.err
}

func TestValidDraftPassesEveryStep(t *testing.T) {
	rules := newRules(t)
	for step := FirstStep; step <= LastStep; step++ {
		assert.Empty(t, rules.ValidateStep(validDraft(), step), "step %d", step)
	}
}

func TestBlankRequiredFieldsAreReported(t *testing.T) {
	rules := newRules(t)
	empty := Draft{}

	tests := []struct {
		step   int
		fields []string
	}{
		{1, []string{"fullName", "email", "phone", "province"}},
		{2, []string{"investableAssets", "annualIncome", "financialGoals"}},
		{3, []string{"investmentTimeline", "riskTolerance", "currentAdvisorSituation"}},
		{4, []string{"preferredDate", "preferredTime"}},
		{5, []string{"consentGiven"}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("step %d", tt.step), func(t *testing.T) {
			errs := rules.ValidateStep(empty, tt.step)
			assert.Len(t, errs, len(tt.fields))
			for _, field := range tt.fields {
				assert.Contains(t, errs, field)
			}
		})
	}
}

func TestStepOneFormats(t *testing.T) {
	rules := newRules(t)
	d := validDraft()
	d.Email = "jordan@example"
	d.Phone = "555-0142"
	d.Province = "XX"

	assert.Equal(t, FieldErrors{
		"email":    msgEmailInvalid,
		"phone":    msgPhoneInvalid,
		"province": msgInvalidOption,
	}, rules.ValidateStep(d, 1))
}

func TestUnknownGoalIsRejected(t *testing.T) {
	rules := newRules(t)
	d := validDraft()
	d.FinancialGoals = []string{"Retirement Planning", "Crypto"}

	assert.Equal(t, FieldErrors{"financialGoals": msgInvalidOption}, rules.ValidateStep(d, 2))
}

func TestPreferredDateRules(t *testing.T) {
	rules := newRules(t)
	tests := []struct {
		date string
		want string
	}{
		{"2026-03-05", ""},             // tomorrow, Thursday
		{"2026-03-04", msgDateFuture},  // today
		{"2026-03-03", msgDateFuture},  // yesterday
		{"2026-03-07", msgDateWeekday}, // Saturday
		{"2026-03-08", msgDateWeekday}, // Sunday
		{"2026-03-01", msgDateWeekday}, // past Sunday: weekday message wins
		{"2026-04-03", ""},             // day 30, Friday
		{"2026-04-06", msgDateTooFar},  // Monday after the window
		{"03/05/2026", msgDateInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d := validDraft()
			d.PreferredDate = tt.date
			errs := rules.ValidateStep(d, 4)
			if tt.want == "" {
				assert.Empty(t, errs)
				return
			}
			assert.Equal(t, FieldErrors{"preferredDate": tt.want}, errs)
		})
	}
}

func TestPreferredTimeMustBeOnTheGrid(t *testing.T) {
	rules := newRules(t)
	d := validDraft()
	d.PreferredTime = "17:00"
	assert.Equal(t, FieldErrors{"preferredTime": msgInvalidOption}, rules.ValidateStep(d, 4))
}

func TestBackupDateOptionalButConstrained(t *testing.T) {
	rules := newRules(t)
	d := validDraft()
	d.BackupDate = "2026-03-07"
	d.BackupTime = "whenever"

	assert.Equal(t, FieldErrors{"backupDate": msgDateWeekday}, rules.ValidateStep(d, 4))
}

func TestFreeTextLimit(t *testing.T) {
	rules := newRules(t)
	d := validDraft()
	d.FreeText = strings.Repeat("é", FreeTextLimit)
	assert.Empty(t, rules.ValidateStep(d, 5))

	d.FreeText += "!"
	assert.Equal(t, FieldErrors{"freeText": msgFreeTextTooLong}, rules.ValidateStep(d, 5))
}

func TestTimeSlotGrid(t *testing.T) {
	require.Len(t, TimeSlots, 16)
	assert.Equal(t, Option{Value: "09:00", Label: "9:00 AM"}, TimeSlots[0])
	assert.Equal(t, Option{Value: "13:30", Label: "1:30 PM"}, TimeSlots[9])
	assert.Equal(t, Option{Value: "16:30", Label: "4:30 PM"}, TimeSlots[15])
}

func TestDateWindowSkipsWeekend(t *testing.T) {
	friday := time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC)
	first, last := DateWindow(friday)
	assert.Equal(t, "2026-03-09", first)
	assert.Equal(t, "2026-04-05", last)
}

func TestNextBlockedUntilStepValidates(t *testing.T) {
	f := New(newRules(t))

	assert.False(t, f.Next())
	assert.Equal(t, 1, f.Step())
	assert.Contains(t, f.Errors(), "email")

	require.NoError(t, f.UpdateField("email", "jordan@example.com"))
	assert.NotContains(t, f.Errors(), "email", "touching a field clears its error")
	assert.Contains(t, f.Errors(), "fullName")

	require.NoError(t, f.UpdateField("fullName", "Jordan Lee"))
	require.NoError(t, f.UpdateField("phone", "416 555 0142"))
	require.NoError(t, f.UpdateField("province", "BC"))
	assert.True(t, f.Next())
	assert.Equal(t, 2, f.Step())

	f.Back()
	f.Back()
	assert.Equal(t, 1, f.Step())
}

func TestUpdateFieldRejectsWrongTypes(t *testing.T) {
	f := New(newRules(t))
	assert.Error(t, f.UpdateField("financialGoals", "Tax Optimization"))
	assert.Error(t, f.UpdateField("consentGiven", "yes"))
	assert.Error(t, f.UpdateField("fullName", 42))
	assert.Error(t, f.UpdateField("nickname", "JL"))

	require.NoError(t, f.UpdateField("financialGoals", []string{"Estate Planning"}))
	require.NoError(t, f.UpdateField("consentGiven", true))
	assert.Equal(t, []string{"Estate Planning"}, f.Draft().FinancialGoals)
}

func TestSubmitSendsOneNormalizedPayload(t *testing.T) {
	f := FromDraft(newRules(t), validDraft())
	sub := &recordingSubmitter{}

	payload, err := f.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.True(t, f.Submitted())
	require.Len(t, sub.payloads, 1)

	want := Payload{
		FullName:                "Jordan Lee",
		Email:                   "jordan.lee@example.com",
		Phone:                   "4165550142",
		Province:                "ON",
		InvestableAssets:        "250k_500k",
		AnnualIncome:            "100k_200k",
		FinancialGoals:          []string{"Retirement Planning", "Tax Optimization"},
		InvestmentTimeline:      "5_10yr",
		RiskTolerance:           "moderate",
		CurrentAdvisorSituation: "switching",
		PreferredDate:           "2026-03-05",
		PreferredTime:           "10:30",
		FreeText:                "Looking to consolidate accounts.",
		ConsentGiven:            true,
	}
	if diff := cmp.Diff(want, payload); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, payload, sub.payloads[0])
}

func TestSubmitWithoutConsentNeverCallsOut(t *testing.T) {
	d := validDraft()
	d.ConsentGiven = false
	f := FromDraft(newRules(t), d)
	sub := &recordingSubmitter{}

	_, err := f.Submit(context.Background(), sub)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, LastStep, validation.Step)
	assert.Contains(t, validation.Fields, "consentGiven")
	assert.Empty(t, sub.payloads)
}

func TestSubmitDistinguishesNetworkFromRejection(t *testing.T) {
	rules := newRules(t)

	unreachable := &recordingSubmitter{err: fmt.Errorf("%w: connection refused", workflow.ErrUnreachable)}
	f := FromDraft(rules, validDraft())
	_, err := f.Submit(context.Background(), unreachable)
	var submitErr *SubmitError
	require.ErrorAs(t, err, &submitErr)
	assert.True(t, submitErr.Network)
	assert.Equal(t, MsgUnreachable, submitErr.Message)
	assert.False(t, f.Submitted())

	rejected := &recordingSubmitter{err: &workflow.UpstreamError{Status: 422, Message: "email already registered"}}
	_, err = f.Submit(context.Background(), rejected)
	require.ErrorAs(t, err, &submitErr)
	assert.False(t, submitErr.Network)
	assert.Equal(t, "email already registered", submitErr.Message)

	var upstream *workflow.UpstreamError
	assert.True(t, errors.As(err, &upstream))
}

func TestOptionalPayloadFieldsAreOmitted(t *testing.T) {
	d := validDraft()
	d.FreeText = "   "
	payload := BuildPayload(d)
	assert.Empty(t, payload.FreeText)
	assert.Empty(t, payload.BackupDate)

	d.BackupDate = "2026-03-06"
	d.BackupTime = "14:00"
	payload = BuildPayload(d)
	assert.Equal(t, "2026-03-06", payload.BackupDate)
	assert.Equal(t, "14:00", payload.BackupTime)
}
