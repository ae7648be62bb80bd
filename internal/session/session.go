package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/singleflight"

	"github.com/wagiedev/enigma-go/internal/apicache"
	"github.com/wagiedev/enigma-go/internal/config"
	"github.com/wagiedev/enigma-go/internal/errors"
	"github.com/wagiedev/enigma-go/internal/event"
	"github.com/wagiedev/enigma-go/internal/intercept"
	"github.com/wagiedev/enigma-go/internal/metrics"
	"github.com/wagiedev/enigma-go/internal/pending"
	"github.com/wagiedev/enigma-go/internal/protocol"
	"github.com/wagiedev/enigma-go/internal/rpc"
	"github.com/wagiedev/enigma-go/internal/schema"
	"github.com/wagiedev/enigma-go/internal/suspend"
)

// Session owns one logical connection to a QIX engine.
type Session struct {
	event.Emitter

	id             string
	log            *slog.Logger
	transport      config.Transport
	coordinator    *suspend.Coordinator
	pipeline       *intercept.Pipeline
	definition     *schema.Definition
	apis           *apicache.Cache[*schema.ObjectAPI]
	creates        singleflight.Group
	protocol       protocol.Options
	suspendOnClose bool
	metrics        *metrics.Collector

	// mu guards opening and closed.
	mu      sync.Mutex
	opening *pending.Pending
	closed  bool
}

// Compile-time verification of the interfaces Session satisfies.
var (
	_ schema.Sender     = (*Session)(nil)
	_ intercept.Session = (*Session)(nil)
)

// New creates a session from opts. The transport is not opened until Open
// or the first Send.
func New(opts *config.Options) (*Session, error) {
	if opts == nil {
		opts = &config.Options{}
	}

	id := ulid.Make().String()

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	log = log.With("component", "session", "session_id", id)

	transport := opts.Transport
	if transport == nil {
		t, err := newTransport(log, opts)
		if err != nil {
			return nil, err
		}

		transport = t
	}

	definition := opts.Definition
	if definition == nil {
		def, err := schema.Default(log)
		if err != nil {
			return nil, fmt.Errorf("load default schema: %w", err)
		}

		definition = def
	}

	interceptors := opts.Interceptors
	if interceptors == nil {
		interceptors = intercept.Defaults(log, opts.Retries())
	}

	s := &Session{
		id:             id,
		log:            log,
		transport:      transport,
		pipeline:       intercept.New(log, interceptors...),
		definition:     definition,
		apis:           apicache.New[*schema.ObjectAPI](),
		protocol:       opts.Protocol,
		suspendOnClose: opts.SuspendOnClose,
		metrics:        metrics.New(opts.MetricsRegisterer),
	}

	s.coordinator = suspend.New(log, transport, s.restore)
	transport.Subscribe(s.handleEvent)

	log.Debug("Session created", "delta", opts.Protocol.Delta, "suspend_on_close", opts.SuspendOnClose)

	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// IsSuspended reports whether the session is suspended.
func (s *Session) IsSuspended() bool {
	return s.coordinator.IsSuspended()
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

// Open opens the transport and resolves with the root (Global) object API.
//
// Open is memoized: calls made while an open is in flight or after it
// settled return the same result until Close is called. The open is shared,
// so cancelling ctx does not abort it; ctx only bounds the caller's wait.
// A Close that runs while the open is in flight rejects it with
// ErrSessionClosed.
func (s *Session) Open(ctx context.Context) *pending.Pending {
	s.mu.Lock()

	if s.opening != nil {
		p := s.opening
		s.mu.Unlock()

		return p
	}

	p := pending.New(0)
	s.opening = p
	s.closed = false

	s.mu.Unlock()

	s.log.Info("Opening session")

	go s.open(context.WithoutCancel(ctx), p)

	return p
}

func (s *Session) open(ctx context.Context, p *pending.Pending) {
	if err := s.transport.Open(ctx); err != nil {
		s.log.Error("Failed to open session", "error", err)
		p.Reject(err)

		return
	}

	s.mu.Lock()

	if s.opening != p {
		closed := s.closed && s.opening == nil
		s.mu.Unlock()

		s.log.Warn("Session closed while opening")

		if closed {
			if _, err := s.transport.Close(ctx, protocol.CloseNormal, ""); err != nil {
				s.log.Debug("Failed to close connection opened after close", "error", err)
			}
		}

		p.Reject(errors.ErrSessionClosed)

		return
	}

	root := s.GetObjectAPI(protocol.RootRef)
	s.mu.Unlock()

	s.Emit(EventOpened)
	p.Resolve(root)
}

// Send sends req and resolves with the intercepted result. Results that
// reference an engine object resolve to its object API.
//
// Send assigns req.ID and req.Retry. The returned Pending, and anything
// derived from it, carries req.ID.
func (s *Session) Send(ctx context.Context, req *protocol.Request) *pending.Pending {
	if s.coordinator.IsSuspended() {
		s.metrics.RecordRejected()

		return pending.Rejected(req.ID, errors.ErrSessionSuspended)
	}

	s.mu.Lock()
	closed, opening := s.closed, s.opening
	s.mu.Unlock()

	if closed {
		s.metrics.RecordRejected()

		return pending.Rejected(req.ID, errors.ErrSessionClosed)
	}

	if opening == nil {
		opening = s.Open(ctx)
	}

	if req.ID == 0 {
		req.ID = s.transport.NewRequestID()
	}

	req.Retry = func(ctx context.Context) *pending.Pending {
		req.Retries++

		return s.Send(ctx, req)
	}

	payload := protocol.NewPayload(s.protocol, req)
	raw := s.sendWhenOpen(ctx, opening, payload)

	return s.pipeline.Execute(ctx, s, raw, req).Transform(func(v any, err error) (any, error) {
		s.metrics.RecordRequest(err)

		if err != nil {
			return nil, err
		}

		return s.resolveObject(v)
	})
}

// sendWhenOpen forwards payload once opening succeeded.
func (s *Session) sendWhenOpen(ctx context.Context, opening *pending.Pending, payload *protocol.Payload) *pending.Pending {
	if opening.Settled() {
		if _, err := opening.Wait(context.WithoutCancel(ctx)); err != nil {
			return pending.Rejected(payload.ID, err)
		}

		return s.transport.Send(ctx, payload)
	}

	raw := pending.New(payload.ID)

	go func() {
		if _, err := opening.Wait(ctx); err != nil {
			raw.Reject(err)

			return
		}

		v, err := s.transport.Send(ctx, payload).Wait(ctx)
		if err != nil {
			raw.Reject(err)

			return
		}

		raw.Resolve(v)
	}()

	return raw
}

func (s *Session) resolveObject(v any) (any, error) {
	if ref, ok := protocol.ObjectRefFrom(v); ok {
		return s.GetObjectAPI(ref), nil
	}

	if protocol.IsMissingObject(v) {
		return nil, errors.ErrObjectNotFound
	}

	return v, nil
}

// GetObjectAPI returns the cached object API for ref.Handle, creating it
// from the schema if the handle is not cached yet.
func (s *Session) GetObjectAPI(ref protocol.ObjectRef) *schema.ObjectAPI {
	if api, ok := s.apis.Get(ref.Handle); ok {
		return api
	}

	v, _, _ := s.creates.Do(strconv.Itoa(ref.Handle), func() (any, error) {
		if api, ok := s.apis.Get(ref.Handle); ok {
			return api, nil
		}

		api := s.definition.Generate(ref.Type)(s, ref.Handle, ref.ID, s.protocol.Delta, ref.GenericType)
		s.apis.Add(ref.Handle, api)
		s.metrics.SetObjectAPIs(s.apis.Len())

		s.log.Debug("Object API created", "handle", ref.Handle, "type", ref.Type, "id", ref.ID)

		return api, nil
	})

	//nolint:forcetypeassert // the group only ever returns *schema.ObjectAPI
	return v.(*schema.ObjectAPI)
}

// ObjectAPIFromResponse resolves with the object API referenced by v, or
// rejects with ErrObjectNotFound when v carries no object reference.
func (s *Session) ObjectAPIFromResponse(v any) *pending.Pending {
	ref, ok := protocol.ObjectRefFrom(v)
	if !ok {
		return pending.Rejected(0, errors.ErrObjectNotFound)
	}

	return pending.Resolved(0, s.GetObjectAPI(ref))
}

// Suspend suspends the session with the manual-suspend close code.
func (s *Session) Suspend(ctx context.Context) error {
	return s.SuspendWith(ctx, protocol.CloseManualSuspend, "")
}

// SuspendWith suspends the session and closes the connection with code and
// reason. Object APIs stay cached.
func (s *Session) SuspendWith(ctx context.Context, code int, reason string) error {
	if err := s.coordinator.Suspend(ctx, code, reason); err != nil {
		s.log.Error("Failed to suspend session", "error", err)

		return err
	}

	s.metrics.RecordSuspension(InitiatorManual)
	s.Emit(EventSuspended, SuspendedEvent{Initiator: InitiatorManual, Code: code, Reason: reason})

	return nil
}

// Resume re-opens the connection of a suspended session.
//
// When onlyIfAttached is set and the engine created a new session instead
// of re-attaching, Resume returns ErrNotAttached and the session stays
// suspended.
func (s *Session) Resume(ctx context.Context, onlyIfAttached bool) error {
	if err := s.coordinator.Resume(ctx, onlyIfAttached); err != nil {
		s.log.Warn("Failed to resume session", "error", err)

		return err
	}

	s.Emit(EventResumed)

	return nil
}

// restore drops the object APIs of the previous engine session. Only the
// root object survives a new engine session.
func (s *Session) restore(context.Context) error {
	for _, e := range s.apis.All() {
		if e.Handle == protocol.RootHandle {
			continue
		}

		s.closeObjectAPI(e.Handle, e.API)
	}

	s.log.Info("Object APIs reset for new engine session")

	return nil
}

// Close closes the session with the normal close code.
func (s *Session) Close(ctx context.Context) error {
	return s.CloseWith(ctx, protocol.CloseNormal, "")
}

// CloseWith closes the connection with code and reason, tears down every
// cached object API and emits "closed". Closing a closed session is safe.
func (s *Session) CloseWith(ctx context.Context, code int, reason string) error {
	s.mu.Lock()
	s.opening = nil
	s.closed = true
	s.mu.Unlock()

	s.log.Info("Closing session", "code", code, "reason", reason)

	evt, err := s.transport.Close(ctx, code, reason)
	if err != nil {
		s.log.Error("Failed to close transport", "error", err)
		s.emitClosed(protocol.CloseEvent{Code: code, Reason: reason})

		return fmt.Errorf("close transport: %w", err)
	}

	s.emitClosed(evt)

	return nil
}

// emitClosed tears down the object APIs, then emits "closed".
func (s *Session) emitClosed(evt protocol.CloseEvent) {
	for _, e := range s.apis.All() {
		e.API.Emit(EventClosed)
		e.API.RemoveAllListeners()
	}

	s.apis.Clear()
	s.metrics.SetObjectAPIs(0)

	s.Emit(EventClosed, evt)
}

func (s *Session) closeObjectAPI(handle int, api *schema.ObjectAPI) {
	s.apis.Remove(handle)
	s.metrics.SetObjectAPIs(s.apis.Len())

	api.Emit(EventClosed)
	api.RemoveAllListeners()
}

// handleEvent routes one transport event.
func (s *Session) handleEvent(ev protocol.Event) {
	switch e := ev.(type) {
	case protocol.SocketErrorEvent:
		if s.IsSuspended() {
			s.log.Debug("Dropping socket error while suspended", "error", e.Err)

			return
		}

		s.Emit(EventSocketError, e.Err)

	case protocol.CloseEvent:
		s.handleClose(e)

	case protocol.MessageEvent:
		s.handleMessage(e.Response)

	case protocol.NotificationEvent:
		s.Emit(EventNotification, e.Method, e.Params)
		s.Emit(NotificationEventName(e.Method), e.Params)

	case protocol.TrafficEvent:
		s.metrics.RecordTraffic(string(e.Direction))

		s.Emit(EventTraffic, e.Direction, e.Data)
		s.Emit(TrafficEventName(e.Direction), e.Data)

		if !e.HasHandle {
			return
		}

		if api, ok := s.apis.Get(e.Handle); ok {
			api.Emit(EventTraffic, e.Direction, e.Data)
			api.Emit(TrafficEventName(e.Direction), e.Data)
		}
	}
}

func (s *Session) handleClose(evt protocol.CloseEvent) {
	if s.IsSuspended() {
		s.log.Debug("Dropping close while suspended", "code", evt.Code)

		return
	}

	if evt.IsReserved() || s.isClosed() {
		return
	}

	if s.suspendOnClose {
		s.log.Warn("Connection lost, suspending", "code", evt.Code, "reason", evt.Reason)

		if err := s.coordinator.Suspend(context.Background(), evt.Code, evt.Reason); err != nil {
			s.log.Debug("Close after network suspend failed", "error", err)
		}

		s.metrics.RecordSuspension(InitiatorNetwork)
		s.Emit(EventSuspended, SuspendedEvent{Initiator: InitiatorNetwork, Code: evt.Code, Reason: evt.Reason})

		return
	}

	s.log.Warn("Connection closed", "code", evt.Code, "reason", evt.Reason)

	s.mu.Lock()
	s.opening = nil
	s.closed = true
	s.mu.Unlock()

	s.emitClosed(evt)
}

func (s *Session) handleMessage(resp *protocol.Response) {
	if s.IsSuspended() {
		s.log.Debug("Dropping message while suspended")

		return
	}

	for _, handle := range resp.Change {
		if api, ok := s.apis.Get(handle); ok {
			api.Emit(EventChanged)
		}
	}

	for _, handle := range resp.Close {
		if api, ok := s.apis.Get(handle); ok {
			s.closeObjectAPI(handle, api)
		}
	}
}

// newTransport builds the default stream transport from opts.
func newTransport(log *slog.Logger, opts *config.Options) (*rpc.Transport, error) {
	dial := opts.Dialer

	switch {
	case dial != nil:
	case opts.Address != "":
		dial = rpc.DialTCP(opts.Address)
	case len(opts.Command) > 0:
		dial = rpc.DialCommand(log, opts.Command[0], opts.Command[1:]...)
	default:
		return nil, fmt.Errorf("create session: no transport, dialer, address or command configured")
	}

	timeout := opts.ConnectedTimeout
	if timeout <= 0 {
		timeout = rpc.DefaultConnectedTimeout
	}

	return rpc.New(log, dial, timeout), nil
}
