package session

import "github.com/wagiedev/enigma-go/internal/protocol"

// Session event names.
const (
	EventOpened       = "opened"
	EventSuspended    = "suspended"
	EventResumed      = "resumed"
	EventClosed       = "closed"
	EventSocketError  = "socket-error"
	EventNotification = "notification:*"
	EventTraffic      = "traffic:*"
)

// Object API event names.
const (
	EventChanged = "changed"
)

// Suspension initiators.
const (
	InitiatorManual  = "manual"
	InitiatorNetwork = "network"
)

// SuspendedEvent describes why a session was suspended.
type SuspendedEvent struct {
	// Initiator is InitiatorManual or InitiatorNetwork.
	Initiator string

	// Code and Reason are the close code and reason that ended the connection.
	Code   int
	Reason string
}

// NotificationEventName returns the event name for notifications of method.
func NotificationEventName(method string) string {
	return "notification:" + method
}

// TrafficEventName returns the event name for traffic in dir.
func TrafficEventName(dir protocol.Direction) string {
	return "traffic:" + string(dir)
}
