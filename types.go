package enigma

import (
	"context"
	"log/slog"

	"github.com/wagiedev/enigma-go/internal/config"
	"github.com/wagiedev/enigma-go/internal/event"
	"github.com/wagiedev/enigma-go/internal/intercept"
	"github.com/wagiedev/enigma-go/internal/pending"
	"github.com/wagiedev/enigma-go/internal/protocol"
	"github.com/wagiedev/enigma-go/internal/schema"
	"github.com/wagiedev/enigma-go/internal/session"
)

// Re-export types from internal packages

// ===== Options =====

// Options configures a session. Build it with the With* options.
type Options = config.Options

// ProtocolOptions are settings merged into every request.
type ProtocolOptions = protocol.Options

// ===== Requests and Results =====

// Request describes a single outbound call.
type Request = protocol.Request

// Response is a decoded engine frame.
type Response = protocol.Response

// Pending is an asynchronous call result carrying its request ID.
type Pending = pending.Pending

// Await waits for p and returns its value as T.
func Await[T any](ctx context.Context, p *Pending) (T, error) {
	return pending.Await[T](ctx, p)
}

// ===== Object APIs =====

// ObjectAPI is the client-side representation of one engine object.
type ObjectAPI = schema.ObjectAPI

// ObjectRef identifies an engine object by handle and type.
type ObjectRef = protocol.ObjectRef

// RootHandle is the handle of the Global object.
const RootHandle = protocol.RootHandle

// ===== Schema =====

// Definition is a parsed QIX schema.
type Definition = schema.Definition

// ParseSchema parses a QIX schema document.
func ParseSchema(log *slog.Logger, data []byte) (*Definition, error) {
	return schema.Parse(orNop(log), data)
}

// LoadSchema reads and parses the QIX schema at path.
func LoadSchema(log *slog.Logger, path string) (*Definition, error) {
	return schema.Load(orNop(log), path)
}

// DefaultSchema returns the embedded QIX schema.
func DefaultSchema(log *slog.Logger) (*Definition, error) {
	return schema.Default(orNop(log))
}

// ===== Interceptors =====

// Interceptor inspects or transforms a call result.
type Interceptor = intercept.Interceptor

// InterceptorSession is the view of the session interceptors receive.
type InterceptorSession = intercept.Session

// DefaultInterceptors returns the default interceptor pipeline.
func DefaultInterceptors(log *slog.Logger, maxRetries int) []Interceptor {
	return intercept.Defaults(orNop(log), maxRetries)
}

// FinalResult marks v as finished so the remaining interceptors skip it.
func FinalResult(v any) any {
	return intercept.Final(v)
}

// ===== Events =====

// Listener receives emitted event arguments.
type Listener = event.Listener

// CloseEvent reports why a connection closed.
type CloseEvent = protocol.CloseEvent

// SuspendedEvent describes why a session was suspended.
type SuspendedEvent = session.SuspendedEvent

// Direction of traffic.
type Direction = protocol.Direction

const (
	// DirectionSent marks outbound traffic.
	DirectionSent = protocol.DirectionSent
	// DirectionReceived marks inbound traffic.
	DirectionReceived = protocol.DirectionReceived
)

// Event names.
const (
	EventOpened       = session.EventOpened
	EventSuspended    = session.EventSuspended
	EventResumed      = session.EventResumed
	EventClosed       = session.EventClosed
	EventSocketError  = session.EventSocketError
	EventNotification = session.EventNotification
	EventTraffic      = session.EventTraffic
	EventChanged      = session.EventChanged
)

// NotificationEventName returns the event name for notifications of method.
func NotificationEventName(method string) string {
	return session.NotificationEventName(method)
}

// TrafficEventName returns the event name for traffic in dir.
func TrafficEventName(dir Direction) string {
	return session.TrafficEventName(dir)
}

// Suspension initiators.
const (
	InitiatorManual  = session.InitiatorManual
	InitiatorNetwork = session.InitiatorNetwork
)

// Close codes.
const (
	CloseNormal        = protocol.CloseNormal
	CloseAbnormal      = protocol.CloseAbnormal
	CloseManualSuspend = protocol.CloseManualSuspend
)

// Engine session states reported on connect.
const (
	SessionCreated  = protocol.SessionCreated
	SessionAttached = protocol.SessionAttached
)

func orNop(log *slog.Logger) *slog.Logger {
	if log == nil {
		return NopLogger()
	}

	return log
}
