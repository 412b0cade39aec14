// Package queue holds the operator's local view of the three lead queues.
// A view is loaded on first use and replaced only by an explicit Refresh;
// successful actions mutate it in place so the operator sees the result
// without another round trip.
package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"advisory_portal/internal/leads/domain"
	"advisory_portal/internal/leads/source"
)

// Snapshot is a copy of one queue as last loaded.
type Snapshot struct {
	Tab           domain.Tab    `json:"tab"`
	Leads         []domain.Lead `json:"leads"`
	Count         int           `json:"count"`
	UsingFallback bool          `json:"usingFallback"`
	RefreshedAt   time.Time     `json:"refreshedAt"`
}

type view struct {
	leads         []domain.Lead
	loaded        bool
	generation    uint64
	usingFallback bool
	refreshedAt   time.Time

	// edits made while a refresh is in flight, replayed on its result
	refreshing int
	removed    map[string]struct{}
	patches    map[string][]func(*domain.Lead)
}

// Queues keeps one view per tab.
type Queues struct {
	src source.LeadSource
	now func() time.Time

	mu    sync.Mutex
	views map[domain.Tab]*view
}

// New creates empty views over src. now may be nil.
func New(src source.LeadSource, now func() time.Time) *Queues {
	if now == nil {
		now = time.Now
	}
	views := make(map[domain.Tab]*view, len(domain.AllTabs))
	for _, tab := range domain.AllTabs {
		views[tab] = &view{}
	}
	return &Queues{src: src, now: now, views: views}
}

// Refresh reloads tab from the source. When another Refresh or a Reset of the
// same tab starts while this one is in flight, this result is discarded and
// the newer state is returned instead. Removals and patches made while it is
// in flight are replayed on the result.
func (q *Queues) Refresh(ctx context.Context, tab domain.Tab) (Snapshot, error) {
	if _, ok := q.views[tab]; !ok {
		return Snapshot{}, fmt.Errorf("unknown tab %q", tab)
	}
	q.mu.Lock()
	v := q.views[tab]
	v.generation++
	v.refreshing++
	generation := v.generation
	q.mu.Unlock()

	ctx, report := source.WithReport(ctx)
	leads, err := q.src.ListLeads(ctx, tab)

	q.mu.Lock()
	defer q.mu.Unlock()
	defer v.settle()
	if err != nil {
		return Snapshot{}, err
	}
	if v.generation == generation {
		v.leads = v.replay(leads)
		v.loaded = true
		v.usingFallback = report.UsingFallback()
		v.refreshedAt = q.now()
	}
	return v.snapshot(tab, ""), nil
}

// List returns tab, loading it first if it was never loaded. A non-empty
// status keeps only leads with exactly that status.
func (q *Queues) List(ctx context.Context, tab domain.Tab, status domain.Status) (Snapshot, error) {
	if _, ok := q.views[tab]; !ok {
		return Snapshot{}, fmt.Errorf("unknown tab %q", tab)
	}
	q.mu.Lock()
	v := q.views[tab]
	if v.loaded {
		snap := v.snapshot(tab, status)
		q.mu.Unlock()
		return snap, nil
	}
	q.mu.Unlock()

	snap, err := q.Refresh(ctx, tab)
	if err != nil {
		return Snapshot{}, err
	}
	if status != "" {
		snap.Leads = domain.FilterByStatus(snap.Leads, status)
		snap.Count = len(snap.Leads)
	}
	return snap, nil
}

// Find returns the lead with leadID from the loaded views.
func (q *Queues) Find(leadID string) (domain.Lead, domain.Tab, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, tab := range domain.AllTabs {
		for _, lead := range q.views[tab].leads {
			if lead.LeadID == leadID {
				return lead, tab, true
			}
		}
	}
	return domain.Lead{}, "", false
}

// Lookup is Find, loading every tab that was never loaded before giving up.
func (q *Queues) Lookup(ctx context.Context, leadID string) (domain.Lead, domain.Tab, bool, error) {
	if lead, tab, ok := q.Find(leadID); ok {
		return lead, tab, true, nil
	}
	for _, tab := range domain.AllTabs {
		if q.isLoaded(tab) {
			continue
		}
		if _, err := q.Refresh(ctx, tab); err != nil {
			return domain.Lead{}, "", false, err
		}
		if lead, found, ok := q.Find(leadID); ok {
			return lead, found, true, nil
		}
	}
	return domain.Lead{}, "", false, nil
}

// Remove drops leadID from every view and reports whether it was present.
func (q *Queues) Remove(leadID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	removed := false
	for _, v := range q.views {
		if v.refreshing > 0 {
			if v.removed == nil {
				v.removed = make(map[string]struct{})
			}
			v.removed[leadID] = struct{}{}
		}
		kept := v.leads[:0:0]
		for _, lead := range v.leads {
			if lead.LeadID == leadID {
				removed = true
				continue
			}
			kept = append(kept, lead)
		}
		v.leads = kept
	}
	return removed
}

// Patch applies fn to leadID in every view and reports whether it was present.
func (q *Queues) Patch(leadID string, fn func(*domain.Lead)) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	patched := false
	for _, v := range q.views {
		if v.refreshing > 0 {
			if v.patches == nil {
				v.patches = make(map[string][]func(*domain.Lead))
			}
			v.patches[leadID] = append(v.patches[leadID], fn)
		}
		for i := range v.leads {
			if v.leads[i].LeadID == leadID {
				fn(&v.leads[i])
				patched = true
			}
		}
	}
	return patched
}

// Close resets every view.
func (q *Queues) Close() {
	for _, tab := range domain.AllTabs {
		q.Reset(tab)
	}
}

// Reset forgets tab; an in-flight Refresh of it is discarded.
func (q *Queues) Reset(tab domain.Tab) {
	q.mu.Lock()
	defer q.mu.Unlock()
	v, ok := q.views[tab]
	if !ok {
		return
	}
	v.generation++
	v.leads = nil
	v.loaded = false
	v.usingFallback = false
}

func (q *Queues) isLoaded(tab domain.Tab) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.views[tab].loaded
}

// replay applies the edits recorded during a refresh to its result.
func (v *view) replay(leads []domain.Lead) []domain.Lead {
	if len(v.removed) == 0 && len(v.patches) == 0 {
		return leads
	}
	kept := leads[:0:0]
	for _, lead := range leads {
		if _, gone := v.removed[lead.LeadID]; gone {
			continue
		}
		for _, fn := range v.patches[lead.LeadID] {
			fn(&lead)
		}
		kept = append(kept, lead)
	}
	return kept
}

// settle ends one refresh; the recorded edits are dropped with the last one.
func (v *view) settle() {
	v.refreshing--
	if v.refreshing == 0 {
		v.removed = nil
		v.patches = nil
	}
}

func (v *view) snapshot(tab domain.Tab, status domain.Status) Snapshot {
	leads := make([]domain.Lead, len(v.leads))
	copy(leads, v.leads)
	leads = domain.FilterByStatus(leads, status)
	return Snapshot{
		Tab:           tab,
		Leads:         leads,
		Count:         len(leads),
		UsingFallback: v.usingFallback,
		RefreshedAt:   v.refreshedAt,
	}
}
