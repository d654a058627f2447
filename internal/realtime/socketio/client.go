// Package socketio adapts the Socket.IO v5 client to the lead listener: one namespace, websocket transport only,
// token auth in the CONNECT packet and event payloads delivered as raw JSON.
package socketio

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/zishang520/engine.io/v2/types"
	sio "github.com/zishang520/socket.io-client-go/socket"
	"go.uber.org/zap"
)

// Reserved local events, fired by the client rather than received from the server.
const (
	EventConnect      = "connect"
	EventDisconnect   = "disconnect"
	EventConnectError = "connect_error"
)

// ErrClosed is returned by Emit after Close.
var ErrClosed = errors.New("socket closed")

// Options configures a Client. Zero durations and factors take the socket.io client defaults;
// ReconnectionAttempts of zero means unlimited.
type Options struct {
	// Token is sent as {"token": ...} in the CONNECT packet.
	Token     string
	Path      string
	Namespace string
	Header    http.Header
	Timeout   time.Duration

	Reconnection         bool
	ReconnectionAttempts uint64
	ReconnectionDelay    time.Duration
	ReconnectionDelayMax time.Duration
	RandomizationFactor  float64

	Logger *zap.Logger
}

func (o *Options) setDefaults() {
	if o.Path == "" {
		o.Path = "/socket.io/"
	}
	if o.Namespace == "" {
		o.Namespace = "/"
	}
	if o.Timeout <= 0 {
		o.Timeout = 20 * time.Second
	}
	if o.ReconnectionDelay <= 0 {
		o.ReconnectionDelay = time.Second
	}
	if o.ReconnectionDelayMax <= 0 {
		o.ReconnectionDelayMax = 5 * time.Second
	}
	if o.RandomizationFactor <= 0 {
		o.RandomizationFactor = 0.5
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

func (o Options) managerOptions() *sio.Options {
	mo := sio.DefaultOptions()
	mo.SetPath(o.Path)
	mo.SetTransports(types.NewSet(sio.WebSocket))
	mo.SetForceNew(true)
	mo.SetAutoConnect(false)
	mo.SetTimeout(o.Timeout)
	mo.SetReconnection(o.Reconnection)
	if o.ReconnectionAttempts > 0 {
		mo.SetReconnectionAttempts(float64(o.ReconnectionAttempts))
	}
	mo.SetReconnectionDelay(float64(o.ReconnectionDelay.Milliseconds()))
	mo.SetReconnectionDelayMax(float64(o.ReconnectionDelayMax.Milliseconds()))
	mo.SetRandomizationFactor(o.RandomizationFactor)
	if len(o.Header) > 0 {
		mo.SetExtraHeaders(o.Header)
	}
	if o.Token != "" {
		mo.SetAuth(map[string]any{"token": o.Token})
	}
	return mo
}

// Handler receives the first argument of an event, or nil.
type Handler = func(data json.RawMessage)

// Client is one Socket.IO namespace connection.
type Client struct {
	sock   *sio.Socket
	logger *zap.Logger

	mu     sync.Mutex
	closed bool
}

// New prepares a client for origin (http, https, ws or wss). Nothing is dialed until Connect.
func New(origin string, opts Options) (*Client, error) {
	opts.setDefaults()
	uri, err := socketURL(origin, opts.Namespace)
	if err != nil {
		return nil, err
	}
	sock, err := sio.Io(uri, opts.managerOptions())
	if err != nil {
		return nil, fmt.Errorf("socket client: %w", err)
	}

	c := &Client{sock: sock, logger: opts.Logger}
	manager := sock.Io()
	_ = manager.On("reconnect_attempt", func(args ...any) {
		c.logger.Debug("socket reconnect attempt", zap.Any("attempt", first(args)))
	})
	_ = manager.On("reconnect_failed", func(...any) {
		c.logger.Warn("socket reconnection gave up")
	})
	return c, nil
}

// socketURL maps origin onto the namespace URL the client dials; any path or query on origin is dropped.
func socketURL(origin, namespace string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(origin))
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid socket origin %q", origin)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "http"
	case "https", "wss":
		u.Scheme = "https"
	default:
		return "", fmt.Errorf("unsupported socket scheme %q", u.Scheme)
	}
	if !strings.HasPrefix(namespace, "/") {
		namespace = "/" + namespace
	}
	u.Path = namespace
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// On registers fn for event. Several handlers per event run in registration order.
func (c *Client) On(event string, fn Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	_ = c.sock.On(types.EventName(event), func(args ...any) {
		fn(c.payload(event, args))
	})
}

// Connect opens the connection in the background. Calling it again is a no-op.
func (c *Client) Connect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.sock.Connect()
}

// Connected reports whether the namespace handshake has completed on the live connection.
func (c *Client) Connected() bool {
	return c.sock.Connected()
}

// Emit sends event with args. While reconnecting the packet is buffered and sent on the next connect.
func (c *Client) Emit(event string, args ...any) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrClosed
	}
	return c.sock.Emit(event, args...)
}

// Close sends a namespace DISCONNECT, stops reconnecting and removes every handler.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.sock.Clear()
	c.sock.Disconnect()
}

// payload flattens a library event into the JSON the listener decodes: errors become {"message": ...},
// anything else is the first argument re-encoded.
func (c *Client) payload(event string, args []any) json.RawMessage {
	v := first(args)
	switch e := v.(type) {
	case nil:
		return nil
	case *sio.ExtendedError:
		v = e
	case error:
		v = map[string]string{"message": e.Error()}
	}
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("socket event payload not encodable", zap.String("event", event), zap.Error(err))
		return nil
	}
	return data
}

func first(args []any) any {
	if len(args) == 0 {
		return nil
	}
	return args[0]
}
