package config

import (
	"context"
	"io"

	"github.com/wagiedev/enigma-go/internal/pending"
	"github.com/wagiedev/enigma-go/internal/protocol"
)

// Transport defines the connection a session drives.
// Implement this to provide custom transports for testing, mocking,
// or alternative communication methods (e.g., WebSockets).
//
// The default implementation is rpc.Transport, which speaks newline-delimited
// JSON-RPC over a stream obtained from a Dialer.
type Transport interface {
	// Open connects to the engine. Events flow to the subscriber once Open
	// returns successfully.
	Open(ctx context.Context) error

	// NewRequestID returns the identifier for the next outbound request.
	NewRequestID() int

	// Send writes the payload and returns its result. The Pending carries
	// payload.ID and resolves with the *protocol.Response to the call.
	// This method must be safe for concurrent use.
	Send(ctx context.Context, payload *protocol.Payload) *pending.Pending

	// Close terminates the connection with the given close code and reason.
	// It's safe to call Close multiple times.
	Close(ctx context.Context, code int, reason string) (protocol.CloseEvent, error)

	// Subscribe sets the handler that receives transport events.
	// Events are delivered one at a time, in arrival order.
	Subscribe(handler protocol.EventHandler)
}

// SessionStater is implemented by transports that know whether the last
// Open attached to an existing engine session or created a new one.
type SessionStater interface {
	// SessionState returns protocol.SessionAttached, protocol.SessionCreated,
	// or "" when unknown.
	SessionState() string
}

// Dialer opens the byte stream a stream transport runs over.
type Dialer func(ctx context.Context) (io.ReadWriteCloser, error)
