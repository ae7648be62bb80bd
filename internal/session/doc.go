// Package session implements the QIX session: the owner of one logical
// engine connection.
//
// A Session opens the transport lazily, sends requests through the
// interceptor pipeline, resolves object references in results into cached
// object APIs, and routes transport events to its own listeners and to the
// object API of the affected handle.
//
// # Events
//
// The session emits:
//
//   - "opened" once the root object API exists
//   - "suspended" with a SuspendedEvent
//   - "resumed"
//   - "closed" with the protocol.CloseEvent
//   - "socket-error" with the error
//   - "notification:*" with method and params, and "notification:<method>"
//     with params
//   - "traffic:*" with direction and data, and "traffic:sent" or
//     "traffic:received" with data
//
// Object APIs emit "changed" and "closed", plus the traffic events of
// requests made on their handle.
//
// While suspended, socket errors, close events and messages are dropped.
// Notifications and traffic are always delivered.
package session
