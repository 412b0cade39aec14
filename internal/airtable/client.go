// Package airtable provides the read-only HTTP client for the record store.
package airtable

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"advisory_portal/internal/observer"
	"advisory_portal/platform/config"
	"advisory_portal/platform/logger"
)

const (
	serviceName = "airtable"
	maxPageSize = 100
	maxPages    = 500
)

// ErrUnreachable wraps transport failures (DNS, refused connection, timeout).
var ErrUnreachable = errors.New("record store unreachable")

// Error is a non-2xx answer from the record store.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// Record is one row as returned by the list endpoint. Field values are kept raw
// so each field can be decoded by its own normalizer.
type Record struct {
	ID          string                     `json:"id"`
	Fields      map[string]json.RawMessage `json:"fields"`
	CreatedTime time.Time                  `json:"createdTime"`
}

// Sort is one sort key.
type Sort struct {
	Field     string
	Direction string // "asc" or "desc"
}

// ListOptions narrows a list call.
type ListOptions struct {
	Formula  string
	Sort     []Sort
	Fields   []string
	PageSize int
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client is the HTTP client for the record-store list API.
type Client struct {
	httpClient *http.Client
	apiURL     string
	pat        string
	baseID     string
	log        *logger.Logger
	metrics    *observer.Metrics
}

// New creates a record-store client from configuration.
func New(cfg config.AirtableConfig, log *logger.Logger, metrics *observer.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.GetUpstreamTimeout()},
		apiURL:     cfg.GetAirtableAPIURL(),
		pat:        cfg.GetAirtablePAT(),
		baseID:     cfg.GetAirtableBaseID(),
		log:        log,
		metrics:    metrics,
	}
}

// Configured reports whether both the access token and the base id are set.
func (c *Client) Configured() bool {
	return c.pat != "" && c.baseID != ""
}

// List returns every record of table matching opts, following the offset
// cursor until the record store stops returning one.
func (c *Client) List(ctx context.Context, table string, opts ListOptions) ([]Record, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%w: credentials not configured", ErrUnreachable)
	}

	var (
		records []Record
		offset  string
	)
	for page := 0; ; page++ {
		if page >= maxPages {
			return nil, fmt.Errorf("list %s: more than %d pages", table, maxPages)
		}

		resp, err := c.listPage(ctx, table, opts, offset)
		if err != nil {
			return nil, err
		}
		records = append(records, resp.Records...)

		if resp.Offset == "" {
			return records, nil
		}
		if resp.Offset == offset {
			return nil, fmt.Errorf("list %s: offset cursor did not advance", table)
		}
		offset = resp.Offset
	}
}

func (c *Client) listPage(ctx context.Context, table string, opts ListOptions, offset string) (*listResponse, error) {
	reqURL := c.buildURL(table, opts, offset)
	started := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.pat)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(serviceName, "list", observer.OutcomeUnreachable, started)
		c.log.WithContext(ctx).UpstreamError(serviceName, "list "+table, 0, err)
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := decodeError(resp)
		c.metrics.ObserveUpstream(serviceName, "list", observer.OutcomeFailure, started)
		c.log.WithContext(ctx).UpstreamError(serviceName, "list "+table, resp.StatusCode, apiErr)
		return nil, apiErr
	}

	var out listResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.metrics.ObserveUpstream(serviceName, "list", observer.OutcomeFailure, started)
		return nil, fmt.Errorf("decode response: %w", err)
	}
	c.metrics.ObserveUpstream(serviceName, "list", observer.OutcomeSuccess, started)
	return &out, nil
}

func (c *Client) buildURL(table string, opts ListOptions, offset string) string {
	params := url.Values{}
	if opts.Formula != "" {
		params.Set("filterByFormula", opts.Formula)
	}
	for i, sort := range opts.Sort {
		params.Set(fmt.Sprintf("sort[%d][field]", i), sort.Field)
		direction := sort.Direction
		if direction == "" {
			direction = "asc"
		}
		params.Set(fmt.Sprintf("sort[%d][direction]", i), direction)
	}
	for _, field := range opts.Fields {
		params.Add("fields[]", field)
	}
	pageSize := opts.PageSize
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	params.Set("pageSize", strconv.Itoa(pageSize))
	if offset != "" {
		params.Set("offset", offset)
	}

	return fmt.Sprintf("%s/v0/%s/%s?%s", c.apiURL, url.PathEscape(c.baseID), url.PathEscape(table), params.Encode())
}

func decodeError(resp *http.Response) *Error {
	apiErr := &Error{
		Status:  resp.StatusCode,
		Message: fmt.Sprintf("Airtable error: %d", resp.StatusCode),
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}
	var parsed errorBody
	if json.Unmarshal(body, &parsed) == nil && parsed.Error.Message != "" {
		apiErr.Message = parsed.Error.Message
	}
	return apiErr
}
