package enigma

import "github.com/wagiedev/enigma-go/internal/errors"

// Re-export error types from internal package

// EngineError is an error response returned by the engine.
type EngineError = errors.EngineError

// ConnectionError indicates the connection to the engine could not be opened.
type ConnectionError = errors.ConnectionError

// MessageParseError indicates an inbound frame could not be decoded.
type MessageParseError = errors.MessageParseError

// ParameterError indicates call arguments did not match the method schema.
type ParameterError = errors.ParameterError

// EnigmaError is the base interface for all errors of this package.
type EnigmaError = errors.EnigmaError

// CodeAborted is the engine error code of an aborted request.
const CodeAborted = errors.CodeAborted

// Re-export sentinel errors from internal package.
var (
	// ErrSessionSuspended indicates a request was sent while suspended.
	ErrSessionSuspended = errors.ErrSessionSuspended

	// ErrSessionClosed indicates a request was sent after Close.
	ErrSessionClosed = errors.ErrSessionClosed

	// ErrObjectNotFound indicates a result did not reference an engine object.
	ErrObjectNotFound = errors.ErrObjectNotFound

	// ErrNotAttached indicates a resume landed in a new engine session.
	ErrNotAttached = errors.ErrNotAttached

	// ErrTransportNotOpen indicates the transport has no open connection.
	ErrTransportNotOpen = errors.ErrTransportNotOpen

	// ErrTransportClosed indicates the connection closed with requests pending.
	ErrTransportClosed = errors.ErrTransportClosed

	// ErrUnknownMethod indicates a method missing from the object's schema.
	ErrUnknownMethod = errors.ErrUnknownMethod

	// ErrRequestAborted matches engine errors with CodeAborted.
	ErrRequestAborted = errors.ErrRequestAborted
)
