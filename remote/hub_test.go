package remote

import (
	"context"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/milk9111/grabbox/pointer"
	"github.com/milk9111/grabbox/sandbox"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func dial(t *testing.T, srv *httptest.Server) (*websocket.Conn, Welcome) {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + Path
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)

	var w Welcome
	require.NoError(t, conn.ReadJSON(&w))
	require.Equal(t, TypeWelcome, w.Type)
	require.NotEmpty(t, w.Session)
	return conn, w
}

func collect(t *testing.T, q *Queue, want int) []sandbox.Event {
	t.Helper()
	var events []sandbox.Event
	require.Eventually(t, func() bool {
		events = append(events, q.Drain()...)
		return len(events) >= want
	}, 5*time.Second, 10*time.Millisecond)
	return events
}

func newServer(t *testing.T) (*Hub, *Queue, *httptest.Server) {
	t.Helper()
	q := &Queue{}
	hub := NewHub(q, zaptest.NewLogger(t))
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)
	return hub, q, srv
}

func TestHubTurnsConnectionIntoEvents(t *testing.T) {
	hub, q, srv := newServer(t)

	conn, welcome := dial(t, srv)
	require.EqualValues(t, 1, welcome.Player)
	player := pointer.PlayerID(welcome.Player)

	require.NoError(t, conn.WriteJSON(Message{Type: TypePointerMove, PointerID: 2, X: 10, Y: 20}))
	require.NoError(t, conn.WriteJSON(Message{Type: TypePointerDown, PointerID: 2, X: 10, Y: 20}))
	require.NoError(t, conn.WriteJSON(Message{Type: TypePointerUp, PointerID: 2, X: 11, Y: 21, IsMouse: true}))
	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	require.NoError(t, conn.Close())

	events := collect(t, q, 5)
	require.Equal(t, []sandbox.Event{
		sandbox.PlayerJoined{Player: player},
		sandbox.PointerMove{Player: player, Pointer: 2, X: 10, Y: 20},
		sandbox.PointerDown{Player: player, Pointer: 2, X: 10, Y: 20},
		sandbox.PointerUp{Player: player, Pointer: 2, IsMouse: true, X: 11, Y: 21},
		sandbox.PlayerLeft{Player: player},
	}, events)
	require.Eventually(t, func() bool { return hub.Connected() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestHubAllocatesDistinctPlayers(t *testing.T) {
	_, _, srv := newServer(t)

	a, wa := dial(t, srv)
	defer a.Close()
	b, wb := dial(t, srv)
	defer b.Close()

	require.NotEqual(t, wa.Player, wb.Player)
	require.NotEqual(t, wa.Session, wb.Session)
	require.NotZero(t, wa.Player)
	require.NotZero(t, wb.Player)
}

func TestHubDropsUnknownMessages(t *testing.T) {
	_, q, srv := newServer(t)

	conn, welcome := dial(t, srv)
	defer conn.Close()
	require.NoError(t, conn.WriteJSON(Message{Type: "teleport"}))

	_, _, err := conn.ReadMessage()
	require.True(t, websocket.IsCloseError(err, websocket.CloseUnsupportedData), "got %v", err)

	events := collect(t, q, 2)
	require.Equal(t, []sandbox.Event{
		sandbox.PlayerJoined{Player: pointer.PlayerID(welcome.Player)},
		sandbox.PlayerLeft{Player: pointer.PlayerID(welcome.Player)},
	}, events)
}

func TestMessageEvent(t *testing.T) {
	evt, err := Message{Type: TypePointerUp, PointerID: 1, IsMouse: false, X: 3, Y: 4}.Event(9)
	require.NoError(t, err)
	require.Equal(t, sandbox.PointerUp{Player: 9, Pointer: 1, X: 3, Y: 4}, evt)

	_, err = Message{Type: "nope"}.Event(9)
	require.ErrorIs(t, err, ErrUnknownMessage)
}

func TestQueueDrain(t *testing.T) {
	var q Queue
	require.Nil(t, q.Drain())
	q.Push(sandbox.FixedUpdate{})
	q.Push(sandbox.Draw{})
	require.Equal(t, 2, q.Len())
	require.Equal(t, []sandbox.Event{sandbox.FixedUpdate{}, sandbox.Draw{}}, q.Drain())
	require.Zero(t, q.Len())

	var nilQueue *Queue
	nilQueue.Push(sandbox.FixedUpdate{})
	require.Nil(t, nilQueue.Drain())
}

func TestServeClosesConnectionsOnShutdown(t *testing.T) {
	q := &Queue{}
	hub := NewHub(q, zaptest.NewLogger(t))
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- hub.ServeListener(ctx, ln) }()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+Path, nil)
	require.NoError(t, err)
	defer conn.Close()
	var welcome Welcome
	require.NoError(t, conn.ReadJSON(&welcome))
	require.Eventually(t, func() bool { return hub.Connected() == 1 }, 5*time.Second, 10*time.Millisecond)

	cancel()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err = conn.ReadMessage()
	require.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	player := pointer.PlayerID(welcome.Player)
	events := collect(t, q, 2)
	require.Equal(t, []sandbox.Event{
		sandbox.PlayerJoined{Player: player},
		sandbox.PlayerLeft{Player: player},
	}, events)
	require.Eventually(t, func() bool { return hub.Connected() == 0 }, 5*time.Second, 10*time.Millisecond)
}
