// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"advisory_portal/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// Event names.
const (
	NameIntakeSubmitted     = "intake.submitted"
	NameLeadActionSucceeded = "leads.action.succeeded"
	NameLeadActionFailed    = "leads.action.failed"
)

// =============================================================================
// Intake Domain Events
// =============================================================================

// IntakeSubmitted is published after the workflow engine accepted an intake submission.
type IntakeSubmitted struct {
	BaseEvent
	FirstName        string `json:"firstName"`
	Province         string `json:"province"`
	InvestableAssets string `json:"investableAssets"`
	PreferredDate    string `json:"preferredDate"`
}

func (e IntakeSubmitted) EventName() string { return NameIntakeSubmitted }

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadActionSucceeded is published when the workflow engine accepted an operator action.
type LeadActionSucceeded struct {
	BaseEvent
	Action          string `json:"action"`
	LeadID          string `json:"leadId"`
	Operator        string `json:"operator"`
	RemovedFromView bool   `json:"removedFromView"`
}

func (e LeadActionSucceeded) EventName() string { return NameLeadActionSucceeded }

// LeadActionFailed is published when an operator action was refused or never reached
// the workflow engine. RemovedFromView is true only under the optimistic policy.
type LeadActionFailed struct {
	BaseEvent
	Action          string `json:"action"`
	LeadID          string `json:"leadId"`
	Operator        string `json:"operator"`
	Reason          string `json:"reason"`
	RemovedFromView bool   `json:"removedFromView"`
}

func (e LeadActionFailed) EventName() string { return NameLeadActionFailed }
