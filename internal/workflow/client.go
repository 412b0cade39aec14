// Package workflow provides the HTTP client for the workflow-engine webhooks.
// Every state change of a lead, and the initial intake submission, goes through it.
package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"advisory_portal/internal/observer"
	"advisory_portal/platform/config"
	"advisory_portal/platform/logger"
)

const (
	serviceName  = "workflow"
	maxErrorBody = 64 << 10
)

// ErrUnreachable wraps transport failures (DNS, refused connection, timeout).
var ErrUnreachable = errors.New("workflow webhook unreachable")

// UpstreamError is a non-2xx answer from the webhook, carrying the message it returned.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string { return e.Message }

// errorStyle selects how a failure body is turned into a message.
type errorStyle int

const (
	// admin endpoints: {message}, then {errors}, then "Request failed: N"
	adminErrors errorStyle = iota
	// intake endpoint: {errors} joined, then {message}, then "Submission failed (N)"
	intakeErrors
)

// Client talks to the workflow engine.
type Client struct {
	httpClient *http.Client
	baseURL    string
	intakePath string
	log        *logger.Logger
	metrics    *observer.Metrics
}

// New creates a webhook client from configuration.
func New(cfg config.WorkflowConfig, log *logger.Logger, metrics *observer.Metrics) *Client {
	intakePath := cfg.GetIntakeWebhookPath()
	if intakePath != "" && !strings.HasPrefix(intakePath, "/") {
		intakePath = "/" + intakePath
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.GetUpstreamTimeout()},
		baseURL:    strings.TrimRight(cfg.GetWorkflowBaseURL(), "/"),
		intakePath: intakePath,
		log:        log,
		metrics:    metrics,
	}
}

// ListLeads returns the raw rows of one dashboard tab.
func (c *Client) ListLeads(ctx context.Context, tab string) ([]Row, error) {
	var out LeadsResponse
	path := "/api/leads?tab=" + url.QueryEscape(tab)
	if err := c.do(ctx, "leads", http.MethodGet, path, nil, &out, adminErrors); err != nil {
		return nil, err
	}
	return out.Leads, nil
}

// Metrics returns the summary counters.
func (c *Client) Metrics(ctx context.Context) (*MetricsResponse, error) {
	var out MetricsResponse
	if err := c.do(ctx, "metrics", http.MethodGet, "/api/metrics", nil, &out, adminErrors); err != nil {
		return nil, err
	}
	return &out, nil
}

// Approve assigns an advisor to a pending lead.
func (c *Client) Approve(ctx context.Context, req ApproveRequest) (*Ack, error) {
	return c.post(ctx, "approve", "/api/leads/approve", req)
}

// Reject rejects a pending lead.
func (c *Client) Reject(ctx context.Context, req RejectRequest) (*Ack, error) {
	return c.post(ctx, "reject", "/api/leads/reject", req)
}

// ConfirmReject confirms the rejection of a disqualified lead; the engine then sends the rejection email.
func (c *Client) ConfirmReject(ctx context.Context, req RejectRequest) (*Ack, error) {
	return c.post(ctx, "confirm_reject", "/api/leads/confirm-reject", req)
}

// Override sends a disqualified lead back through enrichment.
func (c *Client) Override(ctx context.Context, req OverrideRequest) (*Ack, error) {
	return c.post(ctx, "override", "/api/leads/override", req)
}

// RequestInfo emails the applicant a follow-up question.
func (c *Client) RequestInfo(ctx context.Context, req RequestInfoRequest) (*Ack, error) {
	return c.post(ctx, "request_info", "/api/leads/request-info", req)
}

// SendNurture sends the nurture email.
func (c *Client) SendNurture(ctx context.Context, req NurtureSendRequest) (*Ack, error) {
	return c.post(ctx, "nurture_send", "/api/nurture/send", req)
}

// DismissNurture discards the nurture email draft.
func (c *Client) DismissNurture(ctx context.Context, req NurtureDismissRequest) (*Ack, error) {
	return c.post(ctx, "nurture_dismiss", "/api/nurture/dismiss", req)
}

// SubmitIntake forwards a normalized intake payload. It is called exactly once per submission.
func (c *Client) SubmitIntake(ctx context.Context, payload any) error {
	return c.do(ctx, "intake", http.MethodPost, c.intakePath, payload, nil, intakeErrors)
}

func (c *Client) post(ctx context.Context, op, path string, body any) (*Ack, error) {
	var raw json.RawMessage
	if err := c.do(ctx, op, http.MethodPost, path, body, &raw, adminErrors); err != nil {
		return nil, err
	}
	ack := &Ack{Raw: raw}
	if len(raw) > 0 {
		// non-object bodies are still a success
		_ = json.Unmarshal(raw, ack)
	}
	return ack, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body any, out any, style errorStyle) error {
	started := time.Now()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s payload: %w", op, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(serviceName, op, observer.OutcomeUnreachable, started)
		c.log.WithContext(ctx).UpstreamError(serviceName, op, 0, err)
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		upstreamErr := decodeError(resp, style)
		c.metrics.ObserveUpstream(serviceName, op, observer.OutcomeFailure, started)
		c.log.WithContext(ctx).UpstreamError(serviceName, op, resp.StatusCode, upstreamErr)
		return upstreamErr
	}

	c.metrics.ObserveUpstream(serviceName, op, observer.OutcomeSuccess, started)
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", op, err)
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = bytes.TrimSpace(data)
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

func decodeError(resp *http.Response, style errorStyle) *UpstreamError {
	upstreamErr := &UpstreamError{Status: resp.StatusCode}

	var parsed errorBody
	if data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)); err == nil {
		_ = json.Unmarshal(data, &parsed)
	}
	joined := strings.Join(nonEmpty(parsed.Errors), ", ")

	switch style {
	case intakeErrors:
		upstreamErr.Message = firstNonEmpty(joined, parsed.Message, fmt.Sprintf("Submission failed (%d)", resp.StatusCode))
	default:
		upstreamErr.Message = firstNonEmpty(parsed.Message, joined, fmt.Sprintf("Request failed: %d", resp.StatusCode))
	}
	return upstreamErr
}

func nonEmpty(values []string) []string {
	out := values[:0:0]
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			out = append(out, value)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
