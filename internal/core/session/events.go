package session

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/seckatie/linklift/internal/core/domain"
)

// Event is the common interface for session store events.
type Event interface {
	Kind() EventKind
}

// EventKind represents the kinds of events a session store emits.
type EventKind int

const (
	// OnSessionSaved is emitted after a session is written.
	OnSessionSaved EventKind = iota
	// OnSessionCleared is emitted after the stored session is removed.
	OnSessionCleared
)

func (k EventKind) String() string {
	switch k {
	case OnSessionSaved:
		return "session_saved"
	case OnSessionCleared:
		return "session_cleared"
	default:
		return "unknown"
	}
}

// SessionSavedEvent carries the session that was written.
type SessionSavedEvent struct {
	Session domain.Session
}

func (e SessionSavedEvent) Kind() EventKind { return OnSessionSaved }

// SessionClearedEvent is emitted after Clear.
type SessionClearedEvent struct{}

func (e SessionClearedEvent) Kind() EventKind { return OnSessionCleared }

// EventListener is a callback that handles events of a specific kind.
type EventListener func(event Event) error

// emitter is shared by both backends.
type emitter struct {
	log logrus.FieldLogger

	mu        sync.RWMutex
	listeners map[EventKind][]EventListener
}

// RegisterEventListener adds a listener for a specific event kind.
// Listeners are called synchronously in registration order after the write succeeds.
func (e *emitter) RegisterEventListener(kind EventKind, listener EventListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.listeners == nil {
		e.listeners = make(map[EventKind][]EventListener)
	}
	e.listeners[kind] = append(e.listeners[kind], listener)
}

func (e *emitter) emit(event Event) {
	e.mu.RLock()
	listeners := append([]EventListener(nil), e.listeners[event.Kind()]...)
	e.mu.RUnlock()

	for _, listener := range listeners {
		if err := listener(event); err != nil {
			e.log.WithError(err).WithField("event", event.Kind().String()).Warn("event listener error")
		}
	}
}
