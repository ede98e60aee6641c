// Package transport connects the two peers of a duel over a WebSocket. One
// peer hosts, the other joins; after the handshake both ends are symmetric
// and carry opaque binary frames.
package transport

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/netpong/internal/lockstep"
)

// DuelPath is the WebSocket endpoint a joiner dials on the host.
const DuelPath = "/duel"

const (
	writeWait      = 5 * time.Second
	handshakeWait  = 2 * time.Minute
	maxFrameLength = 256
)

// Conn is one end of a peer-to-peer WebSocket link. It satisfies the
// lockstep transport contract: concurrent sends are serialized behind a
// mutex and incoming frames are delivered from a single read pump.
type Conn struct {
	ws     *websocket.Conn
	logger *log.Logger

	writeMu sync.Mutex

	handlerMu sync.RWMutex
	onMessage func([]byte)

	done      chan struct{}
	closeOnce sync.Once
}

var _ lockstep.Transport = (*Conn)(nil)

func newConn(ws *websocket.Conn, logger *log.Logger) *Conn {
	ws.SetReadLimit(maxFrameLength)
	c := &Conn{
		ws:     ws,
		logger: logger,
		done:   make(chan struct{}),
	}
	go c.readPump()
	return c
}

// Host listens on addr and waits for exactly one peer to dial in. The
// listener is torn down once the duel link is up; a second joiner finds
// nobody home. Cancel the context to abandon the wait.
func Host(ctx context.Context, addr string, logger *log.Logger) (*Conn, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: listen %s: %w", addr, err)
	}
	return HostOn(ctx, ln, logger)
}

// HostOn is Host over an existing listener, which it always closes.
func HostOn(ctx context.Context, ln net.Listener, logger *log.Logger) (*Conn, error) {
	if logger == nil {
		logger = log.Default()
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  512,
		WriteBufferSize: 512,
		// Peers dial directly, not from browsers.
		CheckOrigin: func(*http.Request) bool { return true },
	}

	accepted := make(chan *websocket.Conn, 1)
	mux := http.NewServeMux()
	mux.HandleFunc(DuelPath, func(w http.ResponseWriter, r *http.Request) {
		ws, upgradeErr := upgrader.Upgrade(w, r, nil)
		if upgradeErr != nil {
			logger.Warn("upgrade failed", "remote", r.RemoteAddr, "error", upgradeErr)
			return
		}
		select {
		case accepted <- ws:
		default:
			// Already paired.
			_ = ws.Close()
		}
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		// Serve returns once the listener closes below.
		_ = srv.Serve(ln)
	}()

	logger.Info("waiting for a challenger", "address", ln.Addr().String())

	select {
	case ws := <-accepted:
		// Stop accepting; the one live connection survives the shutdown
		// because it has been hijacked off the HTTP server.
		ln.Close()
		logger.Info("peer connected", "remote", ws.RemoteAddr().String())
		return newConn(ws, logger), nil
	case <-time.After(handshakeWait):
		ln.Close()
		return nil, fmt.Errorf("transport: no peer joined within %s", handshakeWait)
	case <-ctx.Done():
		ln.Close()
		return nil, ctx.Err()
	}
}

// Join dials a hosting peer. The url may be a bare host:port, in which case
// the scheme and duel path are filled in.
func Join(ctx context.Context, url string, logger *log.Logger) (*Conn, error) {
	if logger == nil {
		logger = log.Default()
	}

	target := normalizeURL(url)
	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", target, err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	logger.Info("connected to host", "url", target)
	return newConn(ws, logger), nil
}

func normalizeURL(url string) string {
	if strings.HasPrefix(url, "ws://") || strings.HasPrefix(url, "wss://") {
		return url
	}
	return "ws://" + url + DuelPath
}

// Send delivers one binary frame to the peer.
func (c *Conn) Send(frame []byte) error {
	select {
	case <-c.done:
		return lockstep.ErrClosed
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("transport: set write deadline: %w", err)
	}
	if err := c.ws.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		c.Close()
		return fmt.Errorf("transport: write: %w", err)
	}
	return nil
}

func (c *Conn) SetOnMessage(fn func(frame []byte)) {
	c.handlerMu.Lock()
	c.onMessage = fn
	c.handlerMu.Unlock()
}

func (c *Conn) IsOpen() bool {
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

// Close tears the link down. Safe to call more than once.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		deadline := time.Now().Add(writeWait)
		c.writeMu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		c.writeMu.Unlock()
		_ = c.ws.Close()
	})
	return nil
}

func (c *Conn) readPump() {
	defer c.Close()

	for {
		kind, frame, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn("peer connection lost", "error", err)
			}
			return
		}
		if kind != websocket.BinaryMessage {
			// Protocol frames are binary only.
			continue
		}

		c.handlerMu.RLock()
		fn := c.onMessage
		c.handlerMu.RUnlock()
		if fn != nil {
			fn(frame)
		}
	}
}
