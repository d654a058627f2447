package socketio

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const waitFor = 3 * time.Second

type serverConn struct {
	ws     *websocket.Conn
	auth   string
	frames chan string
}

func (sc *serverConn) send(t *testing.T, frame string) {
	t.Helper()
	require.NoError(t, sc.ws.WriteMessage(websocket.TextMessage, []byte(frame)))
}

// next skips Engine.IO pongs and returns the next packet the client sent.
func (sc *serverConn) next(t *testing.T) string {
	t.Helper()
	for {
		select {
		case f, ok := <-sc.frames:
			require.True(t, ok, "connection closed")
			if f == "3" {
				continue
			}
			return f
		case <-time.After(waitFor):
			t.Fatal("timed out waiting for frame")
			return ""
		}
	}
}

// fakeServer speaks just enough Engine.IO v4 / Socket.IO v5 over a websocket to drive the client.
type fakeServer struct {
	srv      *httptest.Server
	reject   string
	attempts atomic.Int32
	conns    chan *serverConn
}

func newFakeServer(t *testing.T, configure func(*fakeServer)) *fakeServer {
	t.Helper()
	fs := &fakeServer{conns: make(chan *serverConn, 4)}
	if configure != nil {
		configure(fs)
	}
	upgrader := websocket.Upgrader{}
	fs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/socket.io") || r.URL.Query().Get("EIO") != "4" || r.URL.Query().Get("transport") != "websocket" {
			http.Error(w, "bad endpoint", http.StatusBadRequest)
			return
		}
		fs.attempts.Add(1)
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()

		open := `0{"sid":"eio-1","upgrades":[],"pingInterval":25000,"pingTimeout":20000,"maxPayload":1000000}`
		if ws.WriteMessage(websocket.TextMessage, []byte(open)) != nil {
			return
		}
		_, msg, err := ws.ReadMessage()
		if err != nil || !strings.HasPrefix(string(msg), "40") {
			return
		}
		sc := &serverConn{ws: ws, auth: strings.TrimPrefix(string(msg), "40"), frames: make(chan string, 16)}
		if fs.reject != "" {
			_ = ws.WriteMessage(websocket.TextMessage, []byte(`44{"message":"`+fs.reject+`"}`))
			return
		}
		if ws.WriteMessage(websocket.TextMessage, []byte(`40{"sid":"sio-1"}`)) != nil {
			return
		}
		fs.conns <- sc
		defer close(sc.frames)
		for {
			_, msg, err := ws.ReadMessage()
			if err != nil {
				return
			}
			sc.frames <- string(msg)
		}
	}))
	t.Cleanup(fs.srv.Close)
	return fs
}

func (fs *fakeServer) accept(t *testing.T) *serverConn {
	t.Helper()
	return receive(t, fs.conns)
}

func newClient(t *testing.T, fs *fakeServer, opts Options) *Client {
	t.Helper()
	opts.Logger = zaptest.NewLogger(t)
	c, err := New(fs.srv.URL, opts)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(waitFor):
		t.Fatal("timed out")
		var zero T
		return zero
	}
}

func TestSocketURL(t *testing.T) {
	tests := []struct {
		origin    string
		namespace string
		want      string
		wantErr   bool
	}{
		{origin: "https://api.example.com/ignored?x=1", namespace: "/", want: "https://api.example.com/"},
		{origin: "ws://localhost:5000", namespace: "/", want: "http://localhost:5000/"},
		{origin: "wss://api.example.com", namespace: "vendors", want: "https://api.example.com/vendors"},
		{origin: "ftp://example.com", namespace: "/", wantErr: true},
		{origin: "not a url", namespace: "/", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			got, err := socketURL(tt.origin, tt.namespace)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConnectEventsAndEmit(t *testing.T) {
	fs := newFakeServer(t, nil)
	c := newClient(t, fs, Options{Token: "tok"})

	connected := make(chan struct{}, 1)
	leads := make(chan json.RawMessage, 1)
	c.On(EventConnect, func(json.RawMessage) { connected <- struct{}{} })
	c.On("new_lead", func(data json.RawMessage) { leads <- data })
	c.Connect()

	sc := fs.accept(t)
	assert.JSONEq(t, `{"token":"tok"}`, sc.auth)
	receive(t, connected)
	assert.True(t, c.Connected())

	sc.send(t, `42["new_lead",{"lead":{"_id":"l1"}}]`)
	assert.JSONEq(t, `{"lead":{"_id":"l1"}}`, string(receive(t, leads)))

	require.NoError(t, c.Emit("lead_accepted", map[string]string{"leadResponseId": "lr1"}))
	assert.Equal(t, `42["lead_accepted",{"leadResponseId":"lr1"}]`, sc.next(t))

	c.Close()
	assert.Equal(t, "41", sc.next(t))
	assert.ErrorIs(t, c.Emit("lead_accepted"), ErrClosed)
	assert.Equal(t, int32(1), fs.attempts.Load())
}

func TestConnectErrorCarriesServerMessage(t *testing.T) {
	fs := newFakeServer(t, func(fs *fakeServer) { fs.reject = "invalid token" })
	c := newClient(t, fs, Options{Token: "stale", Reconnection: true, ReconnectionDelay: 10 * time.Millisecond})

	errs := make(chan json.RawMessage, 4)
	c.On(EventConnectError, func(data json.RawMessage) { errs <- data })
	c.Connect()

	var payload struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(receive(t, errs), &payload))
	assert.Equal(t, "invalid token", payload.Message)
	assert.False(t, c.Connected())
}

func TestServerDisconnectReason(t *testing.T) {
	fs := newFakeServer(t, nil)
	c := newClient(t, fs, Options{Reconnection: true, ReconnectionDelay: 10 * time.Millisecond})

	disconnected := make(chan string, 1)
	c.On(EventDisconnect, func(data json.RawMessage) {
		var reason string
		_ = json.Unmarshal(data, &reason)
		disconnected <- reason
	})
	c.Connect()

	sc := fs.accept(t)
	sc.send(t, "41")
	assert.Equal(t, "io server disconnect", receive(t, disconnected))
	assert.False(t, c.Connected())
}

func TestReconnectFlushesBufferedEmits(t *testing.T) {
	fs := newFakeServer(t, nil)
	c := newClient(t, fs, Options{Reconnection: true, ReconnectionDelay: 100 * time.Millisecond, ReconnectionDelayMax: 200 * time.Millisecond})

	disconnected := make(chan struct{}, 1)
	c.On(EventDisconnect, func(json.RawMessage) { disconnected <- struct{}{} })
	c.Connect()

	first := fs.accept(t)
	require.NoError(t, first.ws.Close())
	receive(t, disconnected)

	require.NoError(t, c.Emit("lead_rejected", map[string]string{"leadResponseId": "lr2"}))

	second := fs.accept(t)
	assert.Equal(t, `42["lead_rejected",{"leadResponseId":"lr2"}]`, second.next(t))
	assert.Equal(t, int32(2), fs.attempts.Load())
}

func TestCloseBeforeConnect(t *testing.T) {
	c, err := New("http://127.0.0.1:1", Options{})
	require.NoError(t, err)
	c.Close()
	c.Connect()
	assert.False(t, c.Connected())
	assert.ErrorIs(t, c.Emit("lead_rejected"), ErrClosed)
}
