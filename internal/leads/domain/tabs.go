package domain

import (
	"sort"
	"time"
)

// Tab is one of the three dashboard queues.
type Tab string

const (
	TabPending      Tab = "pending"
	TabAutoRejected Tab = "auto_rejected"
	TabActive       Tab = "active"
)

// AllTabs lists the queues in dashboard order.
var AllTabs = []Tab{TabPending, TabAutoRejected, TabActive}

var tabStatuses = map[Tab][]Status{
	TabPending:      {StatusPendingReview},
	TabAutoRejected: {StatusDisqualified},
	TabActive: {
		StatusApproved,
		StatusOutreachInProgress,
		StatusBooked,
		StatusUnresponsive,
		StatusCompleted,
		StatusRejected,
		StatusCancelledByLead,
	},
}

// ParseTab validates a tab name.
func ParseTab(value string) (Tab, bool) {
	tab := Tab(value)
	_, ok := tabStatuses[tab]
	return tab, ok
}

// Statuses returns the statuses that belong to the tab.
func (t Tab) Statuses() []Status {
	statuses := tabStatuses[t]
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

// StatusStrings returns Statuses as plain strings.
func (t Tab) StatusStrings() []string {
	statuses := tabStatuses[t]
	out := make([]string, len(statuses))
	for i, status := range statuses {
		out[i] = string(status)
	}
	return out
}

// Contains reports whether a lead with status belongs to the tab.
func (t Tab) Contains(status Status) bool {
	for _, candidate := range tabStatuses[t] {
		if candidate == status {
			return true
		}
	}
	return false
}

// TabFor returns the tab a status belongs to.
func TabFor(status Status) (Tab, bool) {
	for _, tab := range AllTabs {
		if tab.Contains(status) {
			return tab, true
		}
	}
	return "", false
}

// Partition keeps the leads that belong to the tab, and sorts the pending tab.
func Partition(tab Tab, leads []Lead) []Lead {
	out := make([]Lead, 0, len(leads))
	for _, lead := range leads {
		if tab.Contains(lead.Status) {
			out = append(out, lead)
		}
	}
	if tab == TabPending {
		SortPending(out)
	}
	return out
}

// SortPending orders by priority (HIGH, MEDIUM, LOW, then anything else) and
// then by ascending submission time. A missing submission time sorts as the epoch.
func SortPending(leads []Lead) {
	sort.SliceStable(leads, func(i, j int) bool {
		pi, pj := leads[i].PriorityScore.Rank(), leads[j].PriorityScore.Rank()
		if pi != pj {
			return pi < pj
		}
		return submittedOrEpoch(leads[i]).Before(submittedOrEpoch(leads[j]))
	})
}

// FilterByStatus keeps leads with exactly the given status; an empty status keeps all.
func FilterByStatus(leads []Lead, status Status) []Lead {
	if status == "" {
		return leads
	}
	out := make([]Lead, 0, len(leads))
	for _, lead := range leads {
		if lead.Status == status {
			out = append(out, lead)
		}
	}
	return out
}

func submittedOrEpoch(lead Lead) time.Time {
	if lead.SubmittedAt == nil {
		return time.Unix(0, 0)
	}
	return *lead.SubmittedAt
}
