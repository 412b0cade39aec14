package source

import (
	"fmt"
	"time"

	"advisory_portal/internal/airtable"
	"advisory_portal/internal/cache"
	"advisory_portal/internal/leads/source/demo"
	"advisory_portal/internal/observer"
	"advisory_portal/internal/workflow"
	"advisory_portal/platform/config"
	"advisory_portal/platform/logger"
)

// Deps are the collaborators Build wires together.
type Deps struct {
	Airtable      *airtable.Client
	Workflow      *workflow.Client
	Cache         *cache.Store
	LeadsTable    string
	AdvisorsTable string
	Log           *logger.Logger
	Metrics       *observer.Metrics
	Now           func() time.Time
}

// Build selects the source for mode:
//   - demo: embedded sample data only
//   - airtable: the record store
//   - workflow: the webhook, with advisors from the record store when configured
//   - auto: the record store when configured, otherwise the webhook, falling
//     back to sample data on failure
func Build(mode string, deps Deps) (LeadSource, error) {
	sample, err := demo.New(deps.Now)
	if err != nil {
		return nil, err
	}

	var advisors AdvisorLister = sample
	var records *AirtableSource
	if deps.Airtable != nil && deps.Airtable.Configured() {
		records = NewAirtableSource(deps.Airtable, deps.LeadsTable, deps.AdvisorsTable, deps.Now)
		advisors = records
	}

	switch mode {
	case config.SourceDemo:
		return sample, nil
	case config.SourceAirtable:
		if records == nil {
			return nil, fmt.Errorf("lead source %q requires record-store credentials", mode)
		}
		return NewCached(records, deps.Cache, deps.Log), nil
	case config.SourceWorkflow:
		return NewCached(NewWorkflowSource(deps.Workflow, advisors), deps.Cache, deps.Log), nil
	case config.SourceAuto, "":
		var primary LeadSource = NewWorkflowSource(deps.Workflow, advisors)
		if records != nil {
			primary = records
		}
		return NewFallback(NewCached(primary, deps.Cache, deps.Log), sample, deps.Log, deps.Metrics), nil
	default:
		return nil, fmt.Errorf("unknown lead source %q", mode)
	}
}
