package enigma

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures Options using the functional options pattern.
type Option func(*Options)

// applyOptions applies functional options to an Options struct.
func applyOptions(opts []Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// ===== Basic Configuration =====

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithSchema sets the QIX schema object APIs are generated from.
// If not set, the embedded default schema is used.
func WithSchema(def *Definition) Option {
	return func(o *Options) {
		o.Definition = def
	}
}

// WithDelta asks the engine for incremental payloads.
func WithDelta(delta bool) Option {
	return func(o *Options) {
		o.Protocol.Delta = delta
	}
}

// WithSuspendOnClose suspends the session instead of closing it when the
// connection drops unexpectedly.
func WithSuspendOnClose(suspend bool) Option {
	return func(o *Options) {
		o.SuspendOnClose = suspend
	}
}

// ===== Connection =====

// WithAddress connects to an engine at the given host:port over TCP.
func WithAddress(addr string) Option {
	return func(o *Options) {
		o.Address = addr
	}
}

// WithCommand spawns a local engine and speaks to it over stdio.
func WithCommand(name string, args ...string) Option {
	return func(o *Options) {
		o.Command = append([]string{name}, args...)
	}
}

// WithDialer sets the dialer of the default transport.
// Takes precedence over WithAddress and WithCommand.
func WithDialer(dial Dialer) Option {
	return func(o *Options) {
		o.Dialer = dial
	}
}

// WithConnectedTimeout bounds how long opening waits for the engine to
// report its session state.
func WithConnectedTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.ConnectedTimeout = timeout
	}
}

// WithTransport injects a custom Transport implementation.
// This is primarily useful for testing and mocking scenarios.
// When set, the dialer, address and command are ignored.
func WithTransport(transport Transport) Option {
	return func(o *Options) {
		o.Transport = transport
	}
}

// ===== Results =====

// WithInterceptors replaces the default interceptor pipeline.
// Include DefaultInterceptors to extend rather than replace it.
func WithInterceptors(interceptors ...Interceptor) Option {
	return func(o *Options) {
		o.Interceptors = interceptors
	}
}

// WithMaxRetries limits how often the default pipeline re-sends aborted
// requests. Zero disables retries.
func WithMaxRetries(n int) Option {
	return func(o *Options) {
		o.MaxRetries = &n
	}
}

// ===== Observability =====

// WithMetricsRegisterer registers the session's Prometheus collectors with reg.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(o *Options) {
		o.MetricsRegisterer = reg
	}
}
