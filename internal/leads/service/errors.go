package service

import (
	"context"
	"errors"

	"advisory_portal/internal/airtable"
	"advisory_portal/internal/workflow"
	"advisory_portal/platform/apperr"
)

const (
	errWorkflowUnreachable    = "workflow engine unreachable"
	errRecordStoreUnreachable = "record store unreachable"
	errTimedOut               = "request timed out"
)

// readError maps a source failure to a typed error.
func readError(op string, err error) error {
	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		return err
	}
	return upstreamError(op, err)
}

// upstreamError keeps the collaborator's own message for rejected calls and
// reports unreachable collaborators as unavailable.
func upstreamError(op string, err error) error {
	var hookErr *workflow.UpstreamError
	if errors.As(err, &hookErr) {
		return apperr.Wrap(apperr.KindUpstream, hookErr.Message, err).WithOp(op)
	}
	var storeErr *airtable.Error
	if errors.As(err, &storeErr) {
		return apperr.Wrap(apperr.KindUpstream, storeErr.Message, err).WithOp(op)
	}
	switch {
	case errors.Is(err, workflow.ErrUnreachable):
		return apperr.Wrap(apperr.KindUnavailable, errWorkflowUnreachable, err).WithOp(op)
	case errors.Is(err, airtable.ErrUnreachable):
		return apperr.Wrap(apperr.KindUnavailable, errRecordStoreUnreachable, err).WithOp(op)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperr.Wrap(apperr.KindUnavailable, errTimedOut, err).WithOp(op)
	}
	return err
}
