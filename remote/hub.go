// Package remote turns WebSocket clients into sandbox players.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/milk9111/grabbox/pointer"
	"github.com/milk9111/grabbox/sandbox"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Path is where the hub accepts connections.
const Path = "/ws"

const (
	shutdownTimeout = 5 * time.Second
	closeWriteWait  = time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Hub accepts WebSocket clients and queues their input as events. Every
// connection is one player; ids start at 1 so 0 stays free for a local player.
type Hub struct {
	queue     *Queue
	logger    *zap.Logger
	nextID    atomic.Uint32
	connected atomic.Int32

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewHub creates a hub pushing into queue.
func NewHub(queue *Queue, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{queue: queue, logger: logger, conns: make(map[*websocket.Conn]struct{})}
}

// Connected returns the number of open connections.
func (h *Hub) Connected() int {
	return int(h.connected.Load())
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("remote: upgrade failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}
	defer conn.Close()
	h.track(conn)
	defer h.untrack(conn)

	player := pointer.PlayerID(h.nextID.Add(1))
	session := uuid.New()
	logger := h.logger.With(
		zap.Uint32("player", uint32(player)),
		zap.String("session", session.String()),
		zap.String("remote", conn.RemoteAddr().String()))

	h.connected.Add(1)
	h.queue.Push(sandbox.PlayerJoined{Player: player})
	logger.Info("remote: connected")
	defer func() {
		h.queue.Push(sandbox.PlayerLeft{Player: player})
		h.connected.Add(-1)
		logger.Info("remote: disconnected")
	}()

	if err := conn.WriteJSON(Welcome{Type: TypeWelcome, Player: uint32(player), Session: session.String()}); err != nil {
		logger.Debug("remote: welcome failed", zap.Error(err))
		return
	}

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("remote: read ended", zap.Error(err))
			}
			return
		}
		evt, err := msg.Event(player)
		if err != nil {
			logger.Warn("remote: dropping connection", zap.Error(err))
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseUnsupportedData, err.Error()))
			return
		}
		h.queue.Push(evt)
	}
}

// CloseAll sends a going-away close frame to every open connection and
// closes it. Their players leave as the read loops end.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, conn := range conns {
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWriteWait))
		_ = conn.Close()
	}
}

func (h *Hub) track(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) untrack(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
}

// Serve listens on addr until ctx is cancelled.
func (h *Hub) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("remote: listen %s: %w", addr, err)
	}
	return h.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled, then shuts the server
// down and closes every open connection. ln is closed on return.
func (h *Hub) ServeListener(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle(Path, h)
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h.logger.Info("remote: listening", zap.Stringer("addr", ln.Addr()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		h.CloseAll()
		return err
	})
	return g.Wait()
}
