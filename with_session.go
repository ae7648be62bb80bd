package enigma

import (
	"context"
	"fmt"
)

// WithSession manages session lifecycle with automatic cleanup.
//
// This helper creates a session, opens it with the provided options, executes
// the callback with the Global object API, and closes the session when done.
//
// If the callback returns an error, it is returned to the caller.
// If Close() fails, a warning is logged but does not override the callback's error.
//
// Example usage:
//
//	err := enigma.WithSession(ctx, func(s enigma.Session, global *enigma.ObjectAPI) error {
//	    doc, err := enigma.Await[*enigma.ObjectAPI](ctx, global.Call(ctx, "OpenDoc", "sales.qvf"))
//	    if err != nil {
//	        return err
//	    }
//	    // use doc...
//	    return nil
//	},
//	    enigma.WithAddress("localhost:9076"),
//	    enigma.WithLogger(log),
//	)
func WithSession(ctx context.Context, fn func(Session, *ObjectAPI) error, opts ...Option) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	options := applyOptions(opts)

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	s, err := newSessionImpl(options)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	defer func() {
		if closeErr := s.Close(context.WithoutCancel(ctx)); closeErr != nil {
			log.Warn("failed to close session", "error", closeErr)
		}
	}()

	global, err := s.Open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}

	return fn(s, global)
}
