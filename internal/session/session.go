// Package session implements the Progress/Session Bus (C9): a process-wide
// registry of session-scoped bounded event queues with cooperative
// cancellation, following the design notes' "explicit service struct, no
// hidden singleton" guidance — callers construct one Registry per process.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Reserved terminal stages, per the outbound event contract.
const (
	StageComplete   = "complete"
	StageError      = "error"
	StageCancelled  = "cancelled"
	StageKeepalive  = "keepalive"
)

// Event is one message delivered to a session's subscriber.
type Event struct {
	Stage     string
	Message   string
	Timestamp time.Time
	Details   map[string]any
}

const (
	defaultQueueCapacity = 64
	heartbeatInterval    = 30 * time.Second
)

type sessionState struct {
	mu        sync.Mutex
	queue     chan Event
	cancelled bool
	cancelCh  chan struct{}
}

// Registry is the process-wide session_id -> event queue map, guarded by a
// single mutex held only around the map mutation, never across I/O, per the
// shared-resource policy.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*sessionState

	SessionsOpened     prometheus.Counter
	EventsEmitted      prometheus.Counter
	SessionsCancelled  prometheus.Counter
}

// NewRegistry returns an empty Registry with its own Prometheus counters
// registered against reg (pass a fresh prometheus.NewRegistry() per
// process, or prometheus.DefaultRegisterer for a single-process binary).
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		sessions: make(map[string]*sessionState),
		SessionsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sessions_opened_total",
			Help: "Number of progress sessions opened.",
		}),
		EventsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "events_emitted_total",
			Help: "Number of progress events emitted across all sessions.",
		}),
		SessionsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sessions_cancelled_total",
			Help: "Number of progress sessions cancelled.",
		}),
	}
	if reg != nil {
		reg.MustRegister(r.SessionsOpened, r.EventsEmitted, r.SessionsCancelled)
	}
	return r
}

// Open creates and registers a session's event queue.
func (r *Registry) Open(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[sessionID]; exists {
		return
	}
	r.sessions[sessionID] = &sessionState{
		queue:    make(chan Event, defaultQueueCapacity),
		cancelCh: make(chan struct{}),
	}
	r.SessionsOpened.Inc()
}

// Emit enqueues an event; a silent no-op if the session is unknown. A full
// queue drops the event rather than blocking the producer (try-put, per
// design note), since a slow/absent subscriber must never stall the
// pipeline.
func (r *Registry) Emit(sessionID, stage, message string, details map[string]any) {
	r.mu.Lock()
	st, ok := r.sessions[sessionID]
	r.mu.Unlock()
	if !ok {
		return
	}
	evt := Event{Stage: stage, Message: message, Timestamp: time.Now().UTC(), Details: details}
	select {
	case st.queue <- evt:
		r.EventsEmitted.Inc()
	default:
		// queue full: drop, matching the "never block producers" design note
	}
}

// Subscribe returns a single-consumer channel of Events for sessionID. The
// channel is closed after an event with a terminal stage has been delivered,
// or once ctx is done; a heartbeat Event is synthesized every 30s of
// inactivity.
func (r *Registry) Subscribe(ctx context.Context, sessionID string) (<-chan Event, bool) {
	r.mu.Lock()
	st, ok := r.sessions[sessionID]
	r.mu.Unlock()
	if !ok {
		return nil, false
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-st.queue:
				if !ok {
					return
				}
				select {
				case out <- evt:
				case <-ctx.Done():
					return
				}
				if isTerminal(evt.Stage) {
					return
				}
			case <-ticker.C:
				hb := Event{Stage: StageKeepalive, Timestamp: time.Now().UTC()}
				select {
				case out <- hb:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, true
}

func isTerminal(stage string) bool {
	switch stage {
	case StageComplete, StageError, StageCancelled:
		return true
	default:
		return false
	}
}

// Cancel marks sessionID cancelled and emits a terminal cancelled event.
// Returns false if the session is unknown.
func (r *Registry) Cancel(sessionID string) bool {
	r.mu.Lock()
	st, ok := r.sessions[sessionID]
	r.mu.Unlock()
	if !ok {
		return false
	}
	st.mu.Lock()
	if !st.cancelled {
		st.cancelled = true
		close(st.cancelCh)
	}
	st.mu.Unlock()
	r.SessionsCancelled.Inc()
	r.Emit(sessionID, StageCancelled, "session cancelled", nil)
	return true
}

// CheckCancelled is the cooperative check used at pipeline stage boundaries.
// Returns true once Cancel has been called for sessionID. An empty or
// unrecognized sessionID is reported as not cancelled, so callers that never
// opened a session can call this unconditionally.
func (r *Registry) CheckCancelled(sessionID string) bool {
	if sessionID == "" {
		return false
	}
	r.mu.Lock()
	st, ok := r.sessions[sessionID]
	r.mu.Unlock()
	if !ok {
		return false
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.cancelled
}

// Close removes sessionID's state entirely; used once a terminal event has
// been delivered and drained.
func (r *Registry) Close(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}
