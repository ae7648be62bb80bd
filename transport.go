package enigma

import (
	"log/slog"

	"github.com/wagiedev/enigma-go/internal/config"
	"github.com/wagiedev/enigma-go/internal/rpc"
)

// Transport defines the interface a session uses to reach the engine.
// Implement this to provide custom transports for testing, mocking,
// or alternative communication methods.
//
// The default implementation speaks JSON-RPC over a newline-delimited
// stream. Custom transports can be injected via WithTransport.
type Transport = config.Transport

// SessionStater is implemented by transports that report the engine
// session state (SessionCreated or SessionAttached) after opening.
type SessionStater = config.SessionStater

// Dialer opens the byte stream of the default transport.
type Dialer = config.Dialer

// DialTCP returns a dialer connecting to an engine at addr.
func DialTCP(addr string) Dialer {
	return rpc.DialTCP(addr)
}

// DialCommand returns a dialer that spawns a local engine process and speaks
// to it over stdin and stdout.
func DialCommand(log *slog.Logger, name string, args ...string) Dialer {
	if log == nil {
		log = NopLogger()
	}

	return rpc.DialCommand(log, name, args...)
}
