package enigma

import "context"

// Session is one logical connection to a QIX engine.
//
// Sessions are reusable: after Close, Open starts a fresh connection. Send
// opens the session implicitly when it was never opened.
//
// Example usage:
//
//	s, err := enigma.New(enigma.WithAddress("localhost:9076"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close(ctx)
//
//	global, err := s.Open(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	version, err := global.Call(ctx, "EngineVersion").Wait(ctx)
type Session interface {
	// ID returns the session identifier used to tag logs.
	ID() string

	// Open opens the connection and returns the Global object API.
	// Concurrent and repeated calls share one open until Close.
	Open(ctx context.Context) (*ObjectAPI, error)

	// Send sends req. The result resolves to an *ObjectAPI when the engine
	// returns an object reference. Fails with ErrSessionSuspended while
	// suspended and ErrSessionClosed after Close.
	Send(ctx context.Context, req *Request) *Pending

	// Suspend closes the connection with CloseManualSuspend and keeps all
	// object APIs.
	Suspend(ctx context.Context) error

	// SuspendWith suspends with the given close code and reason.
	SuspendWith(ctx context.Context, code int, reason string) error

	// Resume re-opens a suspended session. With onlyIfAttached set, it
	// returns ErrNotAttached if the engine created a new session.
	Resume(ctx context.Context, onlyIfAttached bool) error

	// Close closes the connection with CloseNormal. Every object API
	// receives a final "closed" event. Safe to call multiple times.
	Close(ctx context.Context) error

	// CloseWith closes with the given close code and reason.
	CloseWith(ctx context.Context, code int, reason string) error

	// IsSuspended reports whether the session is suspended.
	IsSuspended() bool

	// GetObjectAPI returns the object API for ref, creating it if needed.
	GetObjectAPI(ref ObjectRef) *ObjectAPI

	// ObjectAPIFromResponse resolves with the object API referenced by v or
	// rejects with ErrObjectNotFound.
	ObjectAPIFromResponse(v any) *Pending

	// On registers fn for event and returns a function removing it.
	On(event string, fn Listener) func()

	// Once registers fn for the next emission of event.
	Once(event string, fn Listener) func()

	// RemoveAllListeners removes the listeners of the given events, or of
	// every event when none are given.
	RemoveAllListeners(events ...string)
}

// New creates a session. The connection opens on the first Open or Send.
//
// Configure the engine with WithAddress, WithCommand, WithDialer or
// WithTransport:
//
//	s, err := enigma.New(
//	    enigma.WithAddress("localhost:9076"),
//	    enigma.WithLogger(slog.Default()),
//	)
func New(opts ...Option) (Session, error) {
	return newSessionImpl(applyOptions(opts))
}
