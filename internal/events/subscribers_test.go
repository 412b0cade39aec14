package events

import (
	"bytes"
	"context"
	"testing"

	"advisory_portal/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLogWritesEachEvent(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("production", &buf)
	bus := NewInMemoryBus(log)
	RegisterAuditLog(bus, log)

	ctx := context.Background()
	accepted := LeadActionSucceeded{BaseEvent: NewBaseEvent(), Action: "approve", LeadID: "L-1"}
	require.NoError(t, bus.PublishSync(ctx, IntakeSubmitted{BaseEvent: NewBaseEvent(), Province: "ON"}))
	require.NoError(t, bus.PublishSync(ctx, accepted))
	require.NoError(t, bus.PublishSync(ctx, LeadActionFailed{BaseEvent: NewBaseEvent(), Action: "reject", LeadID: "L-2", Reason: "Request failed: 500"}))

	out := buf.String()
	assert.Contains(t, out, `"msg":"intake submitted"`)
	assert.Contains(t, out, `"lead_id":"L-1"`)
	assert.Contains(t, out, `"reason":"Request failed: 500"`)
	assert.Contains(t, out, `"event_id":"`+accepted.ID+`"`)
}
