// Package errors defines error types for the enigma session layer.
//
// This package provides sentinel errors for the conditions callers commonly
// branch on and structured error types for engine, connection, and decoding
// failures. All error types support error unwrapping and can be checked using
// errors.Is and errors.As.
package errors
