// Package service provides business logic for the lead review dashboard:
// reading the queues and forwarding operator actions to the workflow engine.
package service

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"advisory_portal/internal/events"
	"advisory_portal/internal/leads/domain"
	"advisory_portal/internal/leads/queue"
	"advisory_portal/internal/leads/source"
	"advisory_portal/internal/leads/transport"
	"advisory_portal/internal/observer"
	"advisory_portal/internal/workflow"
	"advisory_portal/platform/apperr"
	"advisory_portal/platform/config"
	"advisory_portal/platform/logger"
	"advisory_portal/platform/sanitize"

	"golang.org/x/sync/errgroup"
)

const (
	errLeadNotFound   = "lead not found"
	errLeadTerminal   = "rejection email already sent; no further actions apply"
	errNotBooked      = "nurture emails apply to booked leads only"
	errNoNurtureDraft = "no open nurture email draft"
	errNoEmail        = "no email on file"
	errNotAccepted    = "workflow engine did not accept the request"
)

// Writer is the write half of the workflow webhook client.
type Writer interface {
	Approve(ctx context.Context, req workflow.ApproveRequest) (*workflow.Ack, error)
	Reject(ctx context.Context, req workflow.RejectRequest) (*workflow.Ack, error)
	ConfirmReject(ctx context.Context, req workflow.RejectRequest) (*workflow.Ack, error)
	Override(ctx context.Context, req workflow.OverrideRequest) (*workflow.Ack, error)
	RequestInfo(ctx context.Context, req workflow.RequestInfoRequest) (*workflow.Ack, error)
	SendNurture(ctx context.Context, req workflow.NurtureSendRequest) (*workflow.Ack, error)
	DismissNurture(ctx context.Context, req workflow.NurtureDismissRequest) (*workflow.Ack, error)
}

// Outcome is the result of one operator action. A failed write is never
// reported as success; under the optimistic policy the row may still leave
// the view, which RemovedFromView reports.
type Outcome struct {
	Action          domain.Action
	LeadID          string
	Succeeded       bool
	RemovedFromView bool
	Message         string
	Lead            *domain.Lead
	Err             error
}

// Service provides business logic for lead review.
type Service struct {
	queues  *queue.Queues
	src     source.LeadSource
	writer  Writer
	bus     events.Bus
	log     *logger.Logger
	metrics *observer.Metrics
	policy  string
	now     func() time.Time
}

// New creates the lead review service. now may be nil.
func New(
	queues *queue.Queues,
	src source.LeadSource,
	writer Writer,
	bus events.Bus,
	log *logger.Logger,
	metrics *observer.Metrics,
	policy string,
	now func() time.Time,
) *Service {
	if now == nil {
		now = time.Now
	}
	if policy == "" {
		policy = config.PolicyStrict
	}
	return &Service{
		queues:  queues,
		src:     src,
		writer:  writer,
		bus:     bus,
		log:     log,
		metrics: metrics,
		policy:  policy,
		now:     now,
	}
}

// Now returns the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}

// ListLeads returns one queue, reloading it first when refresh is set.
func (s *Service) ListLeads(ctx context.Context, tab domain.Tab, status domain.Status, refresh bool) (queue.Snapshot, error) {
	if refresh {
		if _, err := s.queues.Refresh(ctx, tab); err != nil {
			return queue.Snapshot{}, readError("list leads", err)
		}
	}
	snap, err := s.queues.List(ctx, tab, status)
	if err != nil {
		return queue.Snapshot{}, readError("list leads", err)
	}
	return snap, nil
}

// GetLead returns one lead from the loaded queues.
func (s *Service) GetLead(ctx context.Context, leadID string) (domain.Lead, domain.Tab, error) {
	lead, tab, ok, err := s.queues.Lookup(ctx, leadID)
	if err != nil {
		return domain.Lead{}, "", readError("get lead", err)
	}
	if !ok {
		return domain.Lead{}, "", apperr.NotFound(errLeadNotFound)
	}
	return lead, tab, nil
}

// Metrics returns the summary strip and whether it came from demo data.
func (s *Service) Metrics(ctx context.Context) (domain.Metrics, bool, error) {
	ctx, report := source.WithReport(ctx)
	metrics, err := s.src.Metrics(ctx)
	if err != nil {
		return domain.Metrics{}, false, readError("metrics", err)
	}
	return metrics, report.UsingFallback(), nil
}

// Advisors returns the advisor roster and whether it came from demo data.
func (s *Service) Advisors(ctx context.Context) ([]domain.Advisor, bool, error) {
	ctx, report := source.WithReport(ctx)
	advisors, err := s.src.Advisors(ctx)
	if err != nil {
		return nil, false, readError("advisors", err)
	}
	return advisors, report.UsingFallback(), nil
}

// Overview loads the metrics, the roster and every queue concurrently.
func (s *Service) Overview(ctx context.Context) (transport.OverviewResponse, error) {
	ctx, report := source.WithReport(ctx)
	g, gctx := errgroup.WithContext(ctx)

	var (
		metrics       domain.Metrics
		advisors      []domain.Advisor
		counts        = make([]int, len(domain.AllTabs))
		queueFallback atomic.Bool
	)
	g.Go(func() error {
		var err error
		metrics, err = s.src.Metrics(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		advisors, err = s.src.Advisors(gctx)
		return err
	})
	for i, tab := range domain.AllTabs {
		i, tab := i, tab
		g.Go(func() error {
			snap, err := s.queues.List(gctx, tab, "")
			if err != nil {
				return err
			}
			counts[i] = snap.Count
			if snap.UsingFallback {
				queueFallback.Store(true)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return transport.OverviewResponse{}, readError("overview", err)
	}

	out := transport.OverviewResponse{
		Metrics:       metrics,
		Counts:        make(map[domain.Tab]int, len(domain.AllTabs)),
		Advisors:      advisors,
		UsingFallback: report.UsingFallback() || queueFallback.Load(),
	}
	for i, tab := range domain.AllTabs {
		out.Counts[tab] = counts[i]
	}
	return out, nil
}

// Approve assigns an advisor to a pending lead.
func (s *Service) Approve(ctx context.Context, operator, leadID string, req transport.ApproveRequest) Outcome {
	return s.run(ctx, operator, domain.ActionApprove, leadID, nil,
		func(ctx context.Context, _ domain.Lead) (*workflow.Ack, error) {
			return s.writer.Approve(ctx, workflow.ApproveRequest{
				LeadID:              leadID,
				AssignedAdvisorID:   strings.TrimSpace(req.AssignedAdvisorID),
				AssignedAdvisorName: strings.TrimSpace(req.AssignedAdvisorName),
			})
		}, nil)
}

// Reject rejects a pending lead.
func (s *Service) Reject(ctx context.Context, operator, leadID string, req transport.RejectRequest) Outcome {
	return s.run(ctx, operator, domain.ActionReject, leadID, nil,
		func(ctx context.Context, _ domain.Lead) (*workflow.Ack, error) {
			return s.writer.Reject(ctx, workflow.RejectRequest{
				LeadID:          leadID,
				RejectionReason: req.RejectionReason,
				CustomNote:      sanitize.Text(req.CustomNote),
			})
		}, nil)
}

// ConfirmReject confirms the automatic rejection of a disqualified lead. The
// lead stays in view, marked as having its rejection email sent.
func (s *Service) ConfirmReject(ctx context.Context, operator, leadID string, req transport.ConfirmRejectRequest) Outcome {
	return s.run(ctx, operator, domain.ActionConfirmReject, leadID, nil,
		func(ctx context.Context, _ domain.Lead) (*workflow.Ack, error) {
			return s.writer.ConfirmReject(ctx, workflow.RejectRequest{
				LeadID:          leadID,
				RejectionReason: req.RejectionReason,
				CustomNote:      sanitize.Text(req.CustomNote),
			})
		},
		func(lead *domain.Lead) {
			sentAt := s.now().UTC()
			lead.RejectionEmailSentAt = &sentAt
		})
}

// Override sends a disqualified lead back to enrichment.
func (s *Service) Override(ctx context.Context, operator, leadID string, req transport.OverrideRequest) Outcome {
	reason := sanitize.Text(req.OverrideReason)
	if reason == "" {
		reason = domain.DefaultOverrideReason
	}
	return s.run(ctx, operator, domain.ActionOverride, leadID, nil,
		func(ctx context.Context, _ domain.Lead) (*workflow.Ack, error) {
			return s.writer.Override(ctx, workflow.OverrideRequest{LeadID: leadID, OverrideReason: reason})
		}, nil)
}

// RequestInfo asks the applicant a follow-up question.
func (s *Service) RequestInfo(ctx context.Context, operator, leadID string, req transport.RequestInfoRequest) Outcome {
	return s.run(ctx, operator, domain.ActionRequestInfo, leadID, nil,
		func(ctx context.Context, _ domain.Lead) (*workflow.Ack, error) {
			return s.writer.RequestInfo(ctx, workflow.RequestInfoRequest{
				LeadID:           leadID,
				FollowUpQuestion: sanitize.Text(req.FollowUpQuestion),
			})
		}, nil)
}

// SendNurture sends the (possibly edited) nurture email of a booked lead.
func (s *Service) SendNurture(ctx context.Context, operator, leadID string, req transport.NurtureSendRequest) Outcome {
	return s.run(ctx, operator, domain.ActionNurtureSend, leadID,
		func(lead domain.Lead) error {
			if err := nurtureOpen(lead); err != nil {
				return err
			}
			if lead.Email == "" && strings.TrimSpace(req.To) == "" {
				return apperr.Validation(errNoEmail)
			}
			return nil
		},
		func(ctx context.Context, lead domain.Lead) (*workflow.Ack, error) {
			return s.writer.SendNurture(ctx, workflow.NurtureSendRequest{
				LeadID:  leadID,
				To:      firstNonEmpty(req.To, lead.Email),
				Subject: firstNonEmpty(req.Subject, lead.NurtureEmailSubject),
				Body:    firstNonEmpty(req.Body, lead.NurtureEmailDraft),
			})
		},
		func(lead *domain.Lead) {
			lead.NurtureEmailStatus = domain.NurtureSent
		})
}

// DismissNurture discards the nurture email draft of a booked lead.
func (s *Service) DismissNurture(ctx context.Context, operator, leadID string) Outcome {
	return s.run(ctx, operator, domain.ActionNurtureDismiss, leadID,
		nurtureOpen,
		func(ctx context.Context, _ domain.Lead) (*workflow.Ack, error) {
			return s.writer.DismissNurture(ctx, workflow.NurtureDismissRequest{LeadID: leadID})
		},
		func(lead *domain.Lead) {
			lead.NurtureEmailStatus = domain.NurtureDismissed
		})
}

func nurtureOpen(lead domain.Lead) error {
	if lead.Status != domain.StatusBooked {
		return apperr.Conflict(errNotBooked)
	}
	if !domain.CanNurture(lead) {
		return apperr.Conflict(errNoNurtureDraft)
	}
	return nil
}

type (
	precondition func(lead domain.Lead) error
	writeCall    func(ctx context.Context, lead domain.Lead) (*workflow.Ack, error)
	patchFunc    func(lead *domain.Lead)
)

// run performs one action: local refusal of terminal leads and unmet
// preconditions, exactly one webhook call, then the local view update.
func (s *Service) run(ctx context.Context, operator string, action domain.Action, leadID string, check precondition, call writeCall, patch patchFunc) Outcome {
	out := Outcome{Action: action, LeadID: leadID}

	lead, tab, ok, err := s.queues.Lookup(ctx, leadID)
	if err != nil {
		out.Err = readError(string(action), err)
		return s.finish(ctx, operator, out, observer.OutcomeFailure)
	}
	if !ok {
		out.Err = apperr.NotFound(errLeadNotFound)
		return s.finish(ctx, operator, out, observer.OutcomeRefused)
	}
	if lead.IsTerminal() {
		out.Err = apperr.Conflict(errLeadTerminal)
		return s.finish(ctx, operator, out, observer.OutcomeRefused)
	}
	if check != nil {
		if err := check(lead); err != nil {
			out.Err = err
			return s.finish(ctx, operator, out, observer.OutcomeRefused)
		}
	}

	ack, err := call(ctx, lead)
	if err == nil && !ack.Acknowledged() {
		message := errNotAccepted
		if ack.Message != "" {
			message = ack.Message
		}
		err = &workflow.UpstreamError{Status: 200, Message: message}
	}
	if err != nil {
		out.Err = upstreamError(string(action), err)
		outcome := observer.OutcomeFailure
		if apperr.Is(out.Err, apperr.KindUnavailable) {
			outcome = observer.OutcomeUnreachable
		}
		if s.policy == config.PolicyOptimistic && tab == domain.TabPending && action.RemovesFromView() {
			out.RemovedFromView = s.queues.Remove(leadID)
			outcome = observer.OutcomeFailedButRemoved
		}
		return s.finish(ctx, operator, out, outcome)
	}

	out.Succeeded = true
	if ack != nil {
		out.Message = ack.Message
	}
	if action.RemovesFromView() {
		out.RemovedFromView = s.queues.Remove(leadID)
	} else if patch != nil {
		s.queues.Patch(leadID, patch)
		patch(&lead)
		out.Lead = &lead
	}
	if inv, ok := s.src.(source.Invalidator); ok {
		inv.Invalidate(ctx)
	}
	return s.finish(ctx, operator, out, observer.OutcomeSuccess)
}

func (s *Service) finish(ctx context.Context, operator string, out Outcome, outcome string) Outcome {
	s.metrics.ObserveAction(string(out.Action), outcome)
	if s.log != nil {
		s.log.WithContext(ctx).ActionOutcome(string(out.Action), out.LeadID, outcome, out.Err)
	}
	if s.bus == nil {
		return out
	}

	if out.Succeeded {
		s.bus.Publish(ctx, events.LeadActionSucceeded{
			BaseEvent:       events.NewBaseEvent(),
			Action:          string(out.Action),
			LeadID:          out.LeadID,
			Operator:        operator,
			RemovedFromView: out.RemovedFromView,
		})
		return out
	}
	s.bus.Publish(ctx, events.LeadActionFailed{
		BaseEvent:       events.NewBaseEvent(),
		Action:          string(out.Action),
		LeadID:          out.LeadID,
		Operator:        operator,
		Reason:          out.Err.Error(),
		RemovedFromView: out.RemovedFromView,
	})
	return out
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
