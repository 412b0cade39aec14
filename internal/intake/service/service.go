// Package service provides business logic for the intake questionnaire:
// step validation and the single forward of a completed application.
package service

import (
	"context"
	"errors"

	"advisory_portal/internal/events"
	"advisory_portal/internal/intake/form"
	"advisory_portal/internal/intake/transport"
	"advisory_portal/internal/observer"
	"advisory_portal/platform/apperr"
	"advisory_portal/platform/config"
	"advisory_portal/platform/logger"
	"advisory_portal/platform/validator"
)

const (
	msgValidationFailed = "validation failed"
	msgUnknownStep      = "unknown step"
	msgTooLong          = "This answer is too long"
)

// Service provides business logic for intake.
type Service struct {
	rules   *form.Rules
	val     *validator.Validator
	sub     form.Submitter
	bus     events.Bus
	log     *logger.Logger
	metrics *observer.Metrics
	firm    config.FirmConfig
}

// New creates the intake service. bus, log and metrics may be nil.
func New(
	rules *form.Rules,
	val *validator.Validator,
	sub form.Submitter,
	bus events.Bus,
	log *logger.Logger,
	metrics *observer.Metrics,
	firm config.FirmConfig,
) *Service {
	return &Service{rules: rules, val: val, sub: sub, bus: bus, log: log, metrics: metrics, firm: firm}
}

// Options returns the choices, slots and date window of the questionnaire.
func (s *Service) Options() transport.OptionsResponse {
	first, last := form.DateWindow(s.rules.Now())
	out := transport.OptionsResponse{
		Steps:             form.Steps,
		Provinces:         form.Provinces,
		AssetRanges:       form.AssetRanges,
		IncomeRanges:      form.IncomeRanges,
		FinancialGoals:    form.Goals,
		Timelines:         form.Timelines,
		RiskLevels:        form.RiskLevels,
		AdvisorSituations: form.AdvisorSituations,
		TimeSlots:         form.TimeSlots,
		DateWindow:        transport.DateWindow{Min: first, Max: last},
		FreeTextLimit:     form.FreeTextLimit,
	}
	if s.firm != nil {
		out.Firm = transport.Firm{Name: s.firm.GetFirmName(), Phone: s.firm.GetFirmPhone(), Email: s.firm.GetFirmEmail()}
	}
	return out
}

// ValidateStep checks one step of a posted draft. It never contacts the workflow engine.
func (s *Service) ValidateStep(d form.Draft, step int) (transport.ValidateStepResponse, error) {
	if step < form.FirstStep || step > form.LastStep {
		return transport.ValidateStepResponse{}, apperr.Validation(msgUnknownStep)
	}
	errs := s.rules.ValidateStep(d, step)
	for field, msg := range s.shapeErrors(d) {
		if _, ok := errs[field]; !ok {
			errs[field] = msg
		}
	}
	return transport.ValidateStepResponse{Step: step, Valid: len(errs) == 0, Errors: errs}, nil
}

// Submit validates every step and forwards the normalized payload once.
func (s *Service) Submit(ctx context.Context, d form.Draft) (transport.SubmitResponse, error) {
	if shape := s.shapeErrors(d); len(shape) > 0 {
		return s.invalid(ctx, 0, shape)
	}
	if step, errs := s.rules.ValidateAll(d); len(errs) > 0 {
		return s.invalid(ctx, step, errs)
	}

	f := form.FromDraft(s.rules, d)
	payload, err := f.Submit(ctx, s.sub)
	if err != nil {
		var validation *form.ValidationError
		if errors.As(err, &validation) {
			return s.invalid(ctx, validation.Step, validation.Fields)
		}
		return transport.SubmitResponse{}, s.failed(ctx, err)
	}

	s.metrics.ObserveIntake(observer.OutcomeSuccess)
	if s.log != nil {
		s.log.WithContext(ctx).IntakeOutcome(observer.OutcomeSuccess, nil)
	}
	if s.bus != nil {
		s.bus.Publish(ctx, events.IntakeSubmitted{
			BaseEvent:        events.NewBaseEvent(),
			FirstName:        d.FirstName(),
			Province:         payload.Province,
			InvestableAssets: payload.InvestableAssets,
			PreferredDate:    payload.PreferredDate,
		})
	}
	return transport.SubmitResponse{FirstName: d.FirstName()}, nil
}

func (s *Service) invalid(ctx context.Context, step int, fields form.FieldErrors) (transport.SubmitResponse, error) {
	s.metrics.ObserveIntake(observer.OutcomeInvalid)
	err := apperr.Validation(msgValidationFailed).WithDetails(transport.ValidationDetails{Step: step, Fields: fields})
	if s.log != nil {
		s.log.WithContext(ctx).IntakeOutcome(observer.OutcomeInvalid, err)
	}
	return transport.SubmitResponse{}, err
}

func (s *Service) failed(ctx context.Context, err error) error {
	outcome := observer.OutcomeFailure
	kind := apperr.KindUpstream
	message := err.Error()

	var submitErr *form.SubmitError
	if errors.As(err, &submitErr) {
		message = submitErr.Message
		if submitErr.Network {
			outcome = observer.OutcomeUnreachable
			kind = apperr.KindUnavailable
		}
	}
	s.metrics.ObserveIntake(outcome)
	if s.log != nil {
		s.log.WithContext(ctx).IntakeOutcome(outcome, err)
	}
	return apperr.Wrap(kind, message, err).WithOp("intake submit")
}

// shapeErrors reports struct-tag violations (lengths) keyed by json name.
func (s *Service) shapeErrors(d form.Draft) form.FieldErrors {
	out := form.FieldErrors{}
	for field := range validator.FieldErrors(s.val.Struct(d)) {
		out[field] = msgTooLong
	}
	return out
}
