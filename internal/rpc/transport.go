package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/enigma-go/internal/config"
	"github.com/wagiedev/enigma-go/internal/errors"
	"github.com/wagiedev/enigma-go/internal/pending"
	"github.com/wagiedev/enigma-go/internal/protocol"
)

const (
	// DefaultConnectedTimeout is how long Open waits for OnConnected when a
	// session builds the transport itself.
	DefaultConnectedTimeout = 10 * time.Second

	// maxFrameSize is the maximum size of a single inbound frame.
	maxFrameSize = 16 * 1024 * 1024 // 16MB
)

// Transport implements config.Transport over a newline-delimited stream.
type Transport struct {
	log              *slog.Logger
	dial             config.Dialer
	connectedTimeout time.Duration

	nextID atomic.Int64

	handlerMu sync.RWMutex
	handler   protocol.EventHandler

	// mu guards conn, lastDispatch, and sessionState.
	mu           sync.Mutex
	conn         *connection
	lastDispatch <-chan struct{}
	sessionState string
}

// Compile-time verification that Transport implements the config interfaces.
var (
	_ config.Transport     = (*Transport)(nil)
	_ config.SessionStater = (*Transport)(nil)
)

// call tracks an outbound request awaiting its response.
type call struct {
	result *pending.Pending
	handle int
}

// New creates a transport that dials through dial.
//
// When connectedTimeout is positive, Open waits up to that long for the
// engine's OnConnected notification so SessionState is known once Open
// returns.
func New(log *slog.Logger, dial config.Dialer, connectedTimeout time.Duration) *Transport {
	return &Transport{
		log:              log.With("component", "rpc"),
		dial:             dial,
		connectedTimeout: connectedTimeout,
	}
}

// Subscribe sets the handler that receives transport events.
func (t *Transport) Subscribe(handler protocol.EventHandler) {
	t.handlerMu.Lock()
	defer t.handlerMu.Unlock()

	t.handler = handler
}

func (t *Transport) currentHandler() protocol.EventHandler {
	t.handlerMu.RLock()
	defer t.handlerMu.RUnlock()

	return t.handler
}

// NewRequestID returns the next request identifier.
func (t *Transport) NewRequestID() int {
	return int(t.nextID.Add(1))
}

// SessionState returns the engine session state reported by the last
// OnConnected notification.
func (t *Transport) SessionState() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.sessionState
}

func (t *Transport) setSessionState(state string) {
	t.mu.Lock()
	t.sessionState = state
	t.mu.Unlock()
}

// Open dials a new connection and starts reading from it.
// Opening an already open transport is a no-op.
func (t *Transport) Open(ctx context.Context) error {
	t.mu.Lock()

	if t.conn != nil {
		t.mu.Unlock()

		return nil
	}

	t.log.Debug("Dialing engine")

	rwc, err := t.dial(ctx)
	if err != nil {
		t.mu.Unlock()
		t.log.Error("Failed to dial engine", "error", err)

		return &errors.ConnectionError{Err: err}
	}

	conn := newConnection(t, rwc, t.lastDispatch)
	t.conn = conn
	t.lastDispatch = conn.dispatchDone
	t.sessionState = ""

	t.mu.Unlock()

	go conn.dispatchLoop()

	conn.eg.Go(conn.readLoop)

	t.log.Info("Connection opened")

	if t.connectedTimeout <= 0 {
		return nil
	}

	select {
	case <-conn.connected:
		t.log.Debug("Engine connected", "session_state", t.SessionState())

	case <-conn.readDone:
		return &errors.ConnectionError{Err: errors.ErrTransportClosed}

	case <-time.After(t.connectedTimeout):
		t.log.Warn("No OnConnected notification before timeout", "timeout", t.connectedTimeout)

	case <-ctx.Done():
		_, _ = t.Close(context.WithoutCancel(ctx), protocol.CloseAbnormal, "open cancelled")

		return &errors.ConnectionError{Err: ctx.Err()}
	}

	return nil
}

func (t *Transport) current() *connection {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.conn
}

// detach forgets conn if it is still the current connection.
func (t *Transport) detach(conn *connection) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == conn {
		t.conn = nil
	}
}

// Send writes payload to the engine. A zero payload.ID is replaced with a
// fresh request ID. The returned Pending resolves with the *protocol.Response.
func (t *Transport) Send(ctx context.Context, payload *protocol.Payload) *pending.Pending {
	if payload.ID == 0 {
		payload.ID = t.NewRequestID()
	}

	result := pending.New(payload.ID)

	conn := t.current()
	if conn == nil {
		result.Reject(errors.ErrTransportNotOpen)

		return result
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.log.Error("Failed to marshal request", "error", err)
		result.Reject(fmt.Errorf("marshal request: %w", err))

		return result
	}

	conn.register(payload.ID, &call{result: result, handle: payload.Handle})

	conn.dispatch(protocol.TrafficEvent{
		Direction: protocol.DirectionSent,
		Data:      payload,
		Handle:    payload.Handle,
		HasHandle: true,
	})

	t.log.Debug("Sending request", "request_id", payload.ID, "method", payload.Method, "handle", payload.Handle)

	if err := conn.write(ctx, data); err != nil {
		conn.unregister(payload.ID)
		t.log.Error("Failed to send request", "request_id", payload.ID, "error", err)
		result.Reject(fmt.Errorf("send request: %w", err))
	}

	return result
}

// Close closes the current connection and waits for its read loop to stop.
// The close event carrying code and reason is delivered to the subscriber.
// Closing a transport without a connection returns the event without
// delivering it.
func (t *Transport) Close(ctx context.Context, code int, reason string) (protocol.CloseEvent, error) {
	evt := protocol.CloseEvent{Code: code, Reason: reason}

	conn := t.current()
	if conn == nil {
		return evt, nil
	}

	t.log.Debug("Closing connection", "code", code, "reason", reason)

	conn.close(evt)

	waitErr := make(chan error, 1)

	go func() {
		waitErr <- conn.eg.Wait()
	}()

	select {
	case err := <-waitErr:
		if err != nil {
			t.log.Debug("Read loop ended with error during close", "error", err)
		}

	case <-ctx.Done():
		return evt, ctx.Err()
	}

	t.log.Info("Connection closed", "code", code)

	return evt, nil
}

// connection is one dialed stream and the requests pending on it.
type connection struct {
	t   *Transport
	log *slog.Logger
	rwc io.ReadWriteCloser
	eg  errgroup.Group

	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[int]*call

	closeOnce  sync.Once
	closing    atomic.Bool
	closeEvent protocol.CloseEvent

	connectedOnce sync.Once
	connected     chan struct{}
	readDone      chan struct{}

	queueMu      sync.Mutex
	queue        []protocol.Event
	notify       chan struct{}
	prevDispatch <-chan struct{}
	dispatchDone chan struct{}
}

func newConnection(t *Transport, rwc io.ReadWriteCloser, prevDispatch <-chan struct{}) *connection {
	return &connection{
		t:            t,
		log:          t.log,
		rwc:          rwc,
		pending:      make(map[int]*call, 16),
		connected:    make(chan struct{}),
		readDone:     make(chan struct{}),
		notify:       make(chan struct{}, 1),
		prevDispatch: prevDispatch,
		dispatchDone: make(chan struct{}),
	}
}

func (c *connection) register(id int, cl *call) {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()

	c.pending[id] = cl
}

func (c *connection) unregister(id int) *call {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()

	cl, ok := c.pending[id]
	if ok {
		delete(c.pending, id)
	}

	return cl
}

func (c *connection) peek(id int) (*call, bool) {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()

	cl, ok := c.pending[id]

	return cl, ok
}

// rejectAll fails every pending request.
func (c *connection) rejectAll(err error) {
	c.pendingMu.Lock()
	calls := c.pending
	c.pending = make(map[int]*call)
	c.pendingMu.Unlock()

	for _, cl := range calls {
		cl.result.Reject(err)
	}
}

func (c *connection) write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.closing.Load() {
		return errors.ErrTransportClosed
	}

	// Copy so the caller's backing array is never extended.
	frame := make([]byte, len(data)+1)
	copy(frame, data)
	frame[len(data)] = '\n'

	if _, err := c.rwc.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}

	return nil
}

// close records evt as the close event and closes the stream.
func (c *connection) close(evt protocol.CloseEvent) {
	c.closeOnce.Do(func() {
		c.closeEvent = evt
		c.closing.Store(true)

		if err := c.rwc.Close(); err != nil {
			c.log.Debug("Error closing stream", "error", err)
		}
	})
}

// readLoop reads frames until the stream ends, then delivers the close event.
func (c *connection) readLoop() error {
	defer close(c.readDone)
	defer c.log.Debug("Read loop stopped")

	scanner := bufio.NewScanner(c.rwc)
	scanner.Buffer(make([]byte, 64*1024), maxFrameSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		raw := make([]byte, len(line))
		copy(raw, line)

		c.handleFrame(raw)
	}

	scanErr := scanner.Err()

	c.t.detach(c)

	lost := false

	c.closeOnce.Do(func() {
		lost = true
		c.closeEvent = protocol.CloseEvent{Code: protocol.CloseAbnormal, Reason: "connection lost"}
		c.closing.Store(true)

		_ = c.rwc.Close()
	})

	if lost && scanErr != nil {
		c.log.Warn("Connection failed", "error", scanErr)
		c.dispatch(protocol.SocketErrorEvent{Err: scanErr})
	}

	c.rejectAll(errors.ErrTransportClosed)
	c.dispatch(c.closeEvent)

	if lost {
		return scanErr
	}

	return nil
}

// handleFrame routes one inbound frame.
func (c *connection) handleFrame(raw []byte) {
	var resp protocol.Response

	if err := json.Unmarshal(raw, &resp); err != nil {
		c.log.Debug("Failed to unmarshal frame", "error", err, "frame", string(raw))
		c.dispatch(protocol.TrafficEvent{Direction: protocol.DirectionReceived, Data: json.RawMessage(raw)})
		c.dispatch(protocol.SocketErrorEvent{Err: &errors.MessageParseError{Data: string(raw), Err: err}})

		return
	}

	traffic := protocol.TrafficEvent{Direction: protocol.DirectionReceived, Data: &resp}

	if resp.IsNotification() {
		c.dispatch(traffic)
		c.handleNotification(&resp)

		return
	}

	if resp.ID != nil {
		if cl, ok := c.peek(*resp.ID); ok {
			traffic.Handle = cl.handle
			traffic.HasHandle = true
		}
	}

	c.dispatch(traffic)
	c.dispatch(protocol.MessageEvent{Response: &resp})

	if resp.ID == nil {
		return
	}

	cl := c.unregister(*resp.ID)
	if cl == nil {
		c.log.Warn("No pending request for response", "request_id", *resp.ID)

		return
	}

	cl.result.Resolve(&resp)
}

func (c *connection) handleNotification(resp *protocol.Response) {
	if resp.Method == protocol.NotificationOnConnected {
		if params, ok := resp.Params.(map[string]any); ok {
			state, _ := params["qSessionState"].(string)
			c.t.setSessionState(state)
		}

		c.connectedOnce.Do(func() { close(c.connected) })
	}

	c.dispatch(protocol.NotificationEvent{Method: resp.Method, Params: resp.Params})
}

// dispatch queues ev for in-order delivery.
func (c *connection) dispatch(ev protocol.Event) {
	c.queueMu.Lock()
	c.queue = append(c.queue, ev)
	c.queueMu.Unlock()

	select {
	case c.notify <- struct{}{}:
	default:
	}
}

// dispatchLoop delivers queued events until the close event was delivered.
func (c *connection) dispatchLoop() {
	defer close(c.dispatchDone)

	if c.prevDispatch != nil {
		<-c.prevDispatch
	}

	for range c.notify {
		c.queueMu.Lock()
		batch := c.queue
		c.queue = nil
		c.queueMu.Unlock()

		handler := c.t.currentHandler()

		for _, ev := range batch {
			if handler != nil {
				handler(ev)
			}

			if _, last := ev.(protocol.CloseEvent); last {
				return
			}
		}
	}
}
