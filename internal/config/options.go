package config

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wagiedev/enigma-go/internal/intercept"
	"github.com/wagiedev/enigma-go/internal/protocol"
	"github.com/wagiedev/enigma-go/internal/schema"
)

// DefaultMaxRetries is how often an aborted request is re-sent when
// Options.MaxRetries is nil.
const DefaultMaxRetries = 3

// Options configures a session.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// Transport allows injecting a custom transport implementation.
	// If nil, a stream transport is built from Dialer.
	Transport Transport

	// Dialer opens the stream for the default transport.
	// Ignored when Transport is set.
	Dialer Dialer

	// Address is the host:port of an engine reached over TCP.
	// Used when neither Transport nor Dialer is set.
	Address string

	// Command spawns a local engine speaking over stdio.
	// Used when Transport, Dialer and Address are unset.
	Command []string

	// ConnectedTimeout bounds how long the default transport waits for the
	// engine's OnConnected notification. Zero uses the transport default.
	ConnectedTimeout time.Duration

	// Definition is the QIX schema used to generate object APIs.
	// If nil, the embedded default definition is used.
	Definition *schema.Definition

	// Protocol holds settings merged into every request.
	Protocol protocol.Options

	// SuspendOnClose suspends the session instead of closing it when the
	// connection drops unexpectedly.
	SuspendOnClose bool

	// Interceptors replaces the default response interceptor pipeline.
	// If nil, intercept.Defaults is used.
	Interceptors []intercept.Interceptor

	// MaxRetries limits how often an aborted request is re-sent by the
	// default pipeline. If nil, DefaultMaxRetries applies.
	MaxRetries *int

	// MetricsRegisterer receives the session's Prometheus collectors.
	// If nil, metrics are collected but not registered.
	MetricsRegisterer prometheus.Registerer
}

// Retries returns the effective retry limit.
func (o *Options) Retries() int {
	if o == nil || o.MaxRetries == nil {
		return DefaultMaxRetries
	}

	return max(*o.MaxRetries, 0)
}
