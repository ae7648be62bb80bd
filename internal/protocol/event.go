package protocol

// Reserved close codes.
const (
	// CloseNormal is an intentional close of the session.
	CloseNormal = 1000

	// CloseAbnormal is reported when the connection dropped without a close.
	CloseAbnormal = 1006

	// CloseManualSuspend is an intentional close made while suspending.
	CloseManualSuspend = 4000
)

// Direction of a traffic event.
type Direction string

const (
	// DirectionSent marks outbound traffic.
	DirectionSent Direction = "sent"
	// DirectionReceived marks inbound traffic.
	DirectionReceived Direction = "received"
)

// Event is emitted by a transport to its subscriber.
// Implementations: SocketErrorEvent, CloseEvent, MessageEvent,
// NotificationEvent, TrafficEvent.
type Event interface {
	transportEvent() // marker method
}

// EventHandler receives transport events in arrival order.
type EventHandler func(Event)

// SocketErrorEvent reports a connection fault.
type SocketErrorEvent struct {
	Err error
}

func (SocketErrorEvent) transportEvent() {}

// CloseEvent reports that the connection closed.
type CloseEvent struct {
	Code   int
	Reason string
}

func (CloseEvent) transportEvent() {}

// IsReserved reports whether the code marks an intentional close.
func (e CloseEvent) IsReserved() bool {
	return e.Code == CloseNormal || e.Code == CloseManualSuspend
}

// MessageEvent carries a call response, including its change and close lists.
type MessageEvent struct {
	Response *Response
}

func (MessageEvent) transportEvent() {}

// NotificationEvent carries an engine notification.
type NotificationEvent struct {
	Method string
	Params any
}

func (NotificationEvent) transportEvent() {}

// TrafficEvent carries a raw frame in either direction.
// HasHandle is set when the frame belongs to a request on a known handle.
type TrafficEvent struct {
	Direction Direction
	Data      any
	Handle    int
	HasHandle bool
}

func (TrafficEvent) transportEvent() {}
