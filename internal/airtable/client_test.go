package airtable

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"advisory_portal/internal/observer"
	"advisory_portal/platform/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testConfig struct {
	url    string
	pat    string
	baseID string
}

func (c testConfig) GetAirtableAPIURL() string         { return c.url }
func (c testConfig) GetAirtablePAT() string            { return c.pat }
func (c testConfig) GetAirtableBaseID() string         { return c.baseID }
func (c testConfig) GetAirtableLeadsTable() string     { return "Leads" }
func (c testConfig) GetAirtableAdvisorsTable() string  { return "Advisor Info" }
func (c testConfig) GetUpstreamTimeout() time.Duration { return 2 * time.Second }
func (c testConfig) IsAirtableConfigured() bool        { return c.pat != "" && c.baseID != "" }

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *observer.Metrics) {
	t.Helper()
	srv := httptest.NewServer(handler)
	metrics := observer.New(prometheus.NewRegistry())
	client := New(testConfig{url: srv.URL, pat: "pat-123", baseID: "appBase"}, logger.Nop(), metrics)
	t.Cleanup(func() {
		client.httpClient.CloseIdleConnections()
		srv.Close()
	})
	return client, metrics
}

func TestListFollowsOffsetCursor(t *testing.T) {
	var calls atomic.Int32
	client, metrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v0/appBase/Leads", r.URL.Path)
		assert.Equal(t, "Bearer pat-123", r.Header.Get("Authorization"))
		assert.Equal(t, "100", r.URL.Query().Get("pageSize"))
		assert.Equal(t, "{status} = 'PENDING_REVIEW'", r.URL.Query().Get("filterByFormula"))
		assert.Equal(t, "priorityScore", r.URL.Query().Get("sort[0][field]"))
		assert.Equal(t, "asc", r.URL.Query().Get("sort[1][direction]"))

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("offset") {
		case "":
			_, _ = w.Write([]byte(`{"records":[{"id":"rec1","fields":{"leadId":"L-1"},"createdTime":"2026-01-05T10:00:00.000Z"}],"offset":"itr2"}`))
		case "itr2":
			_, _ = w.Write([]byte(`{"records":[{"id":"rec2","fields":{"leadId":"L-2"}}]}`))
		default:
			t.Errorf("unexpected offset %q", r.URL.Query().Get("offset"))
		}
	})

	records, err := client.List(context.Background(), "Leads", ListOptions{
		Formula: StatusFormula("PENDING_REVIEW"),
		Sort:    []Sort{{Field: "priorityScore"}, {Field: "submittedAt", Direction: "asc"}},
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "rec1", records[0].ID)
	assert.JSONEq(t, `"L-2"`, string(records[1].Fields["leadId"]))
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.UpstreamRequestsTotal.WithLabelValues("airtable", "list", observer.OutcomeSuccess)))
}

func TestListSendsFieldProjection(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, []string{"status", "submittedAt", "bookedAt"}, r.URL.Query()["fields[]"])
		_, _ = w.Write([]byte(`{"records":[]}`))
	})

	records, err := client.List(context.Background(), "Leads", ListOptions{Fields: []string{"status", "submittedAt", "bookedAt"}})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestListSurfacesErrorMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"type":"INVALID_FILTER_BY_FORMULA","message":"Invalid formula"}}`))
	})

	_, err := client.List(context.Background(), "Leads", ListOptions{})
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "Invalid formula", apiErr.Message)
}

func TestListFallsBackToStatusMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`<html>down</html>`))
	})

	_, err := client.List(context.Background(), "Leads", ListOptions{})
	require.Error(t, err)
	assert.Equal(t, "Airtable error: 503", err.Error())
}

func TestListRejectsStuckCursor(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"records":[],"offset":"same"}`))
	})

	_, err := client.List(context.Background(), "Leads", ListOptions{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "did not advance"))
}

func TestListUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	client := New(testConfig{url: addr, pat: "p", baseID: "b"}, logger.Nop(), nil)
	_, err := client.List(context.Background(), "Leads", ListOptions{})
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestListRequiresCredentials(t *testing.T) {
	client := New(testConfig{url: "http://127.0.0.1:1"}, logger.Nop(), nil)
	assert.False(t, client.Configured())
	_, err := client.List(context.Background(), "Leads", ListOptions{})
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestStatusFormula(t *testing.T) {
	assert.Equal(t, "", StatusFormula())
	assert.Equal(t, "{status} = 'DISQUALIFIED'", StatusFormula("DISQUALIFIED"))
	assert.Equal(t, "OR({status} = 'BOOKED',{status} = 'COMPLETED')", StatusFormula("BOOKED", "COMPLETED"))
	assert.Equal(t, `{status} = 'it\'s'`, StatusFormula("it's"))
}
