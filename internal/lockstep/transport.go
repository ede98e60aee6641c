package lockstep

import (
	"errors"
	"sync"
)

// ErrClosed is returned when sending over a transport that has been closed.
var ErrClosed = errors.New("lockstep: transport closed")

// Transport moves opaque frames between the two peers of a duel. The engine
// never sees addresses or connection state beyond open/closed; anything that
// can carry a byte slice both ways can back a match.
//
// Send must be safe for concurrent use. The message callback is invoked from
// the transport's own goroutine; implementations must never call it after
// Close returns.
type Transport interface {
	// Send delivers one frame to the peer.
	Send(frame []byte) error

	// SetOnMessage installs the handler for incoming frames. Frames that
	// arrive before a handler is installed are dropped.
	SetOnMessage(fn func(frame []byte))

	// IsOpen reports whether the transport can still carry frames.
	IsOpen() bool

	// Close tears the transport down. Safe to call more than once.
	Close() error
}

// Pipe is an in-process Transport half. Both halves of a pair share two
// buffered channels, one per direction, each drained by its own pump
// goroutine, so a frame sent from inside a message handler never re-enters
// the sender's lock.
type Pipe struct {
	out  chan []byte
	in   chan []byte
	done chan struct{}

	mu        sync.RWMutex
	onMessage func([]byte)

	// Shared between both halves: closing either half closes the pair.
	closeOnce *sync.Once
}

const pipeBuffer = 64

// NewPipe returns the two connected halves of an in-process transport.
// Closing either half closes both.
func NewPipe() (*Pipe, *Pipe) {
	ab := make(chan []byte, pipeBuffer)
	ba := make(chan []byte, pipeBuffer)
	done := make(chan struct{})
	once := &sync.Once{}

	a := &Pipe{out: ab, in: ba, done: done, closeOnce: once}
	b := &Pipe{out: ba, in: ab, done: done, closeOnce: once}
	go a.pump()
	go b.pump()
	return a, b
}

func (p *Pipe) pump() {
	for {
		select {
		case frame := <-p.in:
			p.mu.RLock()
			fn := p.onMessage
			p.mu.RUnlock()
			if fn != nil {
				fn(frame)
			}
		case <-p.done:
			return
		}
	}
}

func (p *Pipe) Send(frame []byte) error {
	// Own the bytes: the caller may reuse its buffer.
	buf := make([]byte, len(frame))
	copy(buf, frame)

	select {
	case <-p.done:
		return ErrClosed
	case p.out <- buf:
		return nil
	}
}

func (p *Pipe) SetOnMessage(fn func(frame []byte)) {
	p.mu.Lock()
	p.onMessage = fn
	p.mu.Unlock()
}

func (p *Pipe) IsOpen() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

func (p *Pipe) Close() error {
	p.closeOnce.Do(func() {
		close(p.done)
	})
	return nil
}
