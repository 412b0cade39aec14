// Package live pushes queue changes to connected dashboards over Server-Sent Events,
// so an operator sees a lead leave the queue when a colleague acts on it.
package live

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"advisory_portal/internal/events"
	"advisory_portal/platform/httpkit"
	"advisory_portal/platform/logger"

	"github.com/gin-gonic/gin"
)

// EventType names the SSE event sent to dashboards.
type EventType string

const (
	EventConnected    EventType = "connected"
	EventLeadRemoved  EventType = "lead_removed"
	EventLeadUpdated  EventType = "lead_updated"
	EventActionFailed EventType = "lead_action_failed"
	EventIntake       EventType = "intake_received"
)

const (
	bufferSize       = 32
	defaultKeepAlive = 25 * time.Second
	keepAliveComment = ": keep-alive\n\n"
)

// Event is the payload of one SSE message.
type Event struct {
	// ID is the bus event ID, matching the audit log line for the same change.
	ID       string    `json:"id,omitempty"`
	Type     EventType `json:"type"`
	LeadID   string    `json:"leadId,omitempty"`
	Action   string    `json:"action,omitempty"`
	Operator string    `json:"operator,omitempty"`
	Message  string    `json:"message,omitempty"`
}

type client struct {
	operator string
	events   chan Event
}

// Service fans events out to every connected dashboard.
type Service struct {
	mu        sync.RWMutex
	clients   map[*client]struct{}
	log       *logger.Logger
	keepAlive time.Duration
}

// New creates a broadcaster. log may be nil.
func New(log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{clients: make(map[*client]struct{}), log: log, keepAlive: defaultKeepAlive}
}

// Subscribe forwards lead and intake events from the bus to connected dashboards.
func (s *Service) Subscribe(bus events.Bus) {
	bus.Subscribe(events.NameLeadActionSucceeded, events.HandlerFunc(func(_ context.Context, event events.Event) error {
		e, ok := event.(events.LeadActionSucceeded)
		if !ok {
			return nil
		}
		kind := EventLeadUpdated
		if e.RemovedFromView {
			kind = EventLeadRemoved
		}
		s.Broadcast(Event{ID: e.ID, Type: kind, LeadID: e.LeadID, Action: e.Action, Operator: e.Operator})
		return nil
	}))
	bus.Subscribe(events.NameLeadActionFailed, events.HandlerFunc(func(_ context.Context, event events.Event) error {
		e, ok := event.(events.LeadActionFailed)
		if !ok {
			return nil
		}
		if e.RemovedFromView {
			s.Broadcast(Event{ID: e.ID, Type: EventLeadRemoved, LeadID: e.LeadID, Action: e.Action, Operator: e.Operator, Message: e.Reason})
			return nil
		}
		s.Broadcast(Event{ID: e.ID, Type: EventActionFailed, LeadID: e.LeadID, Action: e.Action, Operator: e.Operator, Message: e.Reason})
		return nil
	}))
	bus.Subscribe(events.NameIntakeSubmitted, events.HandlerFunc(func(_ context.Context, event events.Event) error {
		if e, ok := event.(events.IntakeSubmitted); ok {
			s.Broadcast(Event{ID: e.ID, Type: EventIntake})
		}
		return nil
	}))
}

// Broadcast queues event for every client. A client whose buffer is full misses it.
func (s *Service) Broadcast(event Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for c := range s.clients {
		select {
		case c.events <- event:
		default:
			s.log.Warn("live event dropped", "type", string(event.Type), "operator", c.operator)
		}
	}
}

// Clients returns the number of connected dashboards.
func (s *Service) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Service) addClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c] = struct{}{}
}

func (s *Service) removeClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.events)
	}
}

// Handler streams events to one operator until the request ends or Close is called.
func (s *Service) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")

		cl := &client{operator: httpkit.Operator(c), events: make(chan Event, bufferSize)}
		s.addClient(cl)
		defer s.removeClient(cl)

		send(c, Event{Type: EventConnected, Operator: cl.operator})
		reqLog := s.log.WithContext(c.Request.Context())
		reqLog.Debug("live client connected", "operator", cl.operator)

		ticker := time.NewTicker(s.keepAlive)
		defer ticker.Stop()

		clientGone := c.Request.Context().Done()
		for {
			select {
			case <-clientGone:
				reqLog.Debug("live client disconnected", "operator", cl.operator)
				return
			case <-ticker.C:
				if _, err := c.Writer.WriteString(keepAliveComment); err != nil {
					return
				}
				c.Writer.Flush()
			case event, ok := <-cl.events:
				if !ok {
					return
				}
				send(c, event)
			}
		}
	}
}

// Close disconnects every client.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for c := range s.clients {
		close(c.events)
	}
	s.clients = make(map[*client]struct{})
}

func send(c *gin.Context, event Event) {
	data, _ := json.Marshal(event)
	c.SSEvent(string(event.Type), string(data))
	c.Writer.Flush()
}
