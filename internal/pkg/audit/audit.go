// Package audit records security-relevant events (password changes,
// role changes, deactivations) as a fire-and-forget side effect. Emit
// never blocks the calling operation and a full buffer drops the event
// rather than failing the request.
package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ActionPasswordChange   = "PASSWORD_CHANGE"
	ActionPasswordReset    = "PASSWORD_RESET"
	ActionRoleChange       = "ROLE_CHANGE"
	ActionUserDeactivation = "USER_DEACTIVATION"
	ActionAdminAssigned    = "SCHOOL_ADMIN_ASSIGNED"
	ActionAdminRemoved     = "SCHOOL_ADMIN_REMOVED"
)

type Event struct {
	ID          string
	UserID      int64
	PerformedBy string
	Action      string
	Details     string
	At          time.Time
}

type Emitter struct {
	ch      chan Event
	log     *zap.Logger
	once    sync.Once
	done    chan struct{}
	dropped int64
	mu      sync.Mutex
}

func NewEmitter(log *zap.Logger) *Emitter {
	e := &Emitter{
		ch:   make(chan Event, 256),
		log:  log.Named("audit"),
		done: make(chan struct{}),
	}
	go e.drain()
	return e
}

// Emit queues an event. The event id and timestamp are filled in here
// so callers only describe what happened.
func (e *Emitter) Emit(userID int64, performedBy, action, details string) {
	ev := Event{
		ID:          uuid.NewString(),
		UserID:      userID,
		PerformedBy: performedBy,
		Action:      action,
		Details:     details,
		At:          time.Now(),
	}
	select {
	case e.ch <- ev:
	default:
		e.mu.Lock()
		e.dropped++
		e.mu.Unlock()
	}
}

func (e *Emitter) drain() {
	defer close(e.done)
	for ev := range e.ch {
		e.log.Info("audit_event",
			zap.String("event_id", ev.ID),
			zap.Int64("user_id", ev.UserID),
			zap.String("performed_by", ev.PerformedBy),
			zap.String("action", ev.Action),
			zap.String("details", ev.Details),
			zap.Time("at", ev.At),
		)
	}
}

// Close flushes queued events and stops the drain goroutine.
func (e *Emitter) Close() {
	e.once.Do(func() {
		close(e.ch)
		<-e.done
	})
}

// Dropped reports how many events were discarded due to backpressure.
func (e *Emitter) Dropped() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dropped
}
