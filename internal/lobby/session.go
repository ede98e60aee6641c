package lobby

import "sync"

// Event is sent from the coordinator to a waiting session.
type Event interface {
	lobbyEvent()
}

// Session is one player's connection to the coordinator, typically an SSH
// session. The coordinator pushes events into its buffered channel; sends
// never block, dropping the oldest event under pressure.
type Session struct {
	id       SessionID
	events   chan Event
	done     chan struct{}
	doneOnce sync.Once
}

const sessionEventBuffer = 16

// NewSession creates a session handle with the given identifier.
func NewSession(id SessionID) *Session {
	return &Session{
		id:     id,
		events: make(chan Event, sessionEventBuffer),
		done:   make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() SessionID {
	return s.id
}

// Events returns the channel the session's UI reads coordinator events from.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Done returns a channel that closes when the session ends.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close marks the session as gone. Safe to call more than once.
func (s *Session) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// send delivers an event without blocking; if the buffer is full the oldest
// event is dropped to make room.
func (s *Session) send(evt Event) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- evt:
	default:
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- evt:
		default:
		}
	}
}
