package errors

import (
	"errors"
	"fmt"
)

// EnigmaError is the base interface for all session layer errors.
type EnigmaError interface {
	error
	IsEnigmaError() bool
}

// Compile-time verification that all error types implement EnigmaError.
var (
	_ EnigmaError = (*EngineError)(nil)
	_ EnigmaError = (*ConnectionError)(nil)
	_ EnigmaError = (*MessageParseError)(nil)
	_ EnigmaError = (*ParameterError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrSessionSuspended indicates a request was issued while the session is suspended.
	ErrSessionSuspended = errors.New("session suspended")

	// ErrSessionClosed indicates a request was issued after the session was closed.
	// Call Open to start a new connection.
	ErrSessionClosed = errors.New("session closed")

	// ErrObjectNotFound indicates the engine answered an object request
	// without a handle and type.
	ErrObjectNotFound = errors.New("object not found")

	// ErrNotAttached indicates a resume that required re-attaching to the
	// previous remote session ended up in a new one.
	ErrNotAttached = errors.New("not attached to previous engine session")

	// ErrTransportNotOpen indicates the transport has no open connection.
	ErrTransportNotOpen = errors.New("transport not open")

	// ErrTransportClosed indicates the connection closed while a request was pending.
	ErrTransportClosed = errors.New("transport closed")

	// ErrUnknownMethod indicates a method that the object type does not define.
	ErrUnknownMethod = errors.New("unknown method")

	// ErrRequestAborted indicates the engine aborted the request and no
	// retries remained.
	ErrRequestAborted = errors.New("request aborted")
)

// CodeAborted is the engine error code for an aborted request.
const CodeAborted = -128

// EngineError is an error response returned by the engine.
type EngineError struct {
	Code      int
	Parameter string
	Message   string
}

func (e *EngineError) Error() string {
	if e.Parameter != "" {
		return fmt.Sprintf("engine error %d: %s (%s)", e.Code, e.Message, e.Parameter)
	}

	return fmt.Sprintf("engine error %d: %s", e.Code, e.Message)
}

// Is reports aborted engine errors as ErrRequestAborted.
func (e *EngineError) Is(target error) bool {
	return target == ErrRequestAborted && e.Code == CodeAborted
}

// IsEnigmaError implements EnigmaError.
func (e *EngineError) IsEnigmaError() bool { return true }

// ConnectionError indicates failure to open the connection to the engine.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to engine: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsEnigmaError implements EnigmaError.
func (e *ConnectionError) IsEnigmaError() bool { return true }

// MessageParseError indicates an inbound frame could not be decoded.
// This error preserves the original raw data that failed to parse.
type MessageParseError struct {
	Data string
	Err  error
}

func (e *MessageParseError) Error() string {
	return fmt.Sprintf("failed to parse message: %v", e.Err)
}

func (e *MessageParseError) Unwrap() error {
	return e.Err
}

// IsEnigmaError implements EnigmaError.
func (e *MessageParseError) IsEnigmaError() bool { return true }

// ParameterError indicates call arguments did not match the method's schema.
type ParameterError struct {
	Method string
	Err    error
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameters for %s: %v", e.Method, e.Err)
}

func (e *ParameterError) Unwrap() error {
	return e.Err
}

// IsEnigmaError implements EnigmaError.
func (e *ParameterError) IsEnigmaError() bool { return true }
