package domain

import "time"

// GraceHours is the review window before a disqualified lead's rejection email goes out.
const GraceHours = 48

// GraceState is the derived countdown shown on auto-rejected leads.
// It never gates an action.
type GraceState struct {
	Known          bool     `json:"known"`
	HoursRemaining *float64 `json:"hoursRemaining,omitempty"`
	Expired        bool     `json:"expired"`
	DisplayHours   int      `json:"displayHours"`
	Suppressed     bool     `json:"suppressed"`
	Active         bool     `json:"active"`
}

// Grace computes the countdown. A server-supplied remaining value wins; otherwise
// it is GraceHours minus the hours elapsed since submission. Expired holds exactly
// when the remaining hours are <= 0.
func Grace(lead Lead, now time.Time) GraceState {
	state := GraceState{Suppressed: lead.RejectionEmailSentAt != nil}

	var remaining *float64
	switch {
	case lead.GraceHoursRemaining != nil:
		value := *lead.GraceHoursRemaining
		remaining = &value
	case lead.SubmittedAt != nil:
		value := GraceHours - now.Sub(*lead.SubmittedAt).Hours()
		remaining = &value
	}

	switch {
	case remaining != nil:
		state.Known = true
		state.HoursRemaining = remaining
		state.Expired = *remaining <= 0
		state.DisplayHours = max(0, jsRound(*remaining))
	case lead.GracePeriodExpired != nil:
		state.Known = true
		state.Expired = *lead.GracePeriodExpired
	}

	state.Active = state.Known && !state.Expired && !state.Suppressed
	return state
}
