package domain

// Action is an operator action forwarded to the workflow engine.
type Action string

const (
	ActionApprove        Action = "approve"
	ActionReject         Action = "reject"
	ActionConfirmReject  Action = "confirm_reject"
	ActionOverride       Action = "override"
	ActionRequestInfo    Action = "request_info"
	ActionNurtureSend    Action = "nurture_send"
	ActionNurtureDismiss Action = "nurture_dismiss"
)

// DefaultOverrideReason is sent when the operator gives no override reason.
const DefaultOverrideReason = "Admin override — sent to AI enrichment"

// Rejection reason codes offered by the two reject dialogs.
var (
	RejectReasons        = []string{"below_threshold", "not_a_fit", "incomplete_info", "other"}
	ConfirmRejectReasons = []string{"not_a_fit", "below_threshold", "other"}
)

var rejectReasonLabels = map[string]string{
	"below_threshold": "Below our minimum threshold",
	"not_a_fit":       "Not a good fit for our services",
	"incomplete_info": "Incomplete or unclear information",
	"other":           "Other",
}

var confirmRejectReasonLabels = map[string]string{
	"not_a_fit":       "Not a fit for our services",
	"below_threshold": "Below threshold on review",
	"other":           "Other",
}

// RejectReasonLabel labels a pending-queue rejection reason.
func RejectReasonLabel(code string) string { return lookup(rejectReasonLabels, code) }

// ConfirmRejectReasonLabel labels a confirm-rejection reason.
func ConfirmRejectReasonLabel(code string) string { return lookup(confirmRejectReasonLabels, code) }

// AvailableActions lists what an operator may do with the lead as currently known.
// Only terminal leads and nurture preconditions are enforced here; every other
// transition is left to the workflow engine.
func AvailableActions(lead Lead) []Action {
	if lead.IsTerminal() {
		return []Action{}
	}
	switch lead.Status {
	case StatusPendingReview:
		return []Action{ActionApprove, ActionReject, ActionRequestInfo}
	case StatusDisqualified:
		return []Action{ActionOverride, ActionConfirmReject, ActionRequestInfo}
	case StatusBooked:
		if CanNurture(lead) {
			actions := []Action{ActionNurtureDismiss}
			if lead.Email != "" {
				actions = append([]Action{ActionNurtureSend}, actions...)
			}
			return actions
		}
	}
	return []Action{}
}

// CanNurture reports whether the lead carries a nurture draft that is still open.
func CanNurture(lead Lead) bool {
	return lead.NurtureEmailDraft != "" && !lead.NurtureEmailStatus.IsFinal()
}

// RemovesFromView reports whether a successful action takes the lead out of the
// queue it was shown in. Confirm-reject keeps the row and marks it instead, and
// the nurture actions only patch the nurture status.
func (a Action) RemovesFromView() bool {
	switch a {
	case ActionApprove, ActionReject, ActionOverride, ActionRequestInfo:
		return true
	default:
		return false
	}
}
