// Package enigma provides a Go client for the Qlik Associative Engine (QIX)
// JSON-RPC API.
//
// A Session owns one logical connection to an engine. Opening it yields the
// Global object API; results that reference engine objects (documents,
// generic objects, fields) resolve to cached object APIs generated from a
// QIX schema. Sessions can be suspended and resumed without losing their
// object APIs.
//
// # Basic Usage
//
//	s, err := enigma.New(
//	    enigma.WithAddress("localhost:9076"),
//	    enigma.WithLogger(slog.Default()),
//	)
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
//	doc, err := enigma.Await[*enigma.ObjectAPI](ctx, global.Call(ctx, "OpenDoc", "sales.qvf"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	doc.On(enigma.EventChanged, func(...any) {
//	    // re-fetch the layout without blocking the listener
//	})
//
// Or let WithSession manage the lifecycle:
//
//	err := enigma.WithSession(ctx, func(s enigma.Session, global *enigma.ObjectAPI) error {
//	    version, err := global.Call(ctx, "EngineVersion").Wait(ctx)
//	    ...
//	}, enigma.WithAddress("localhost:9076"))
//
// # Suspend and Resume
//
// Suspend closes the connection but keeps every object API. While
// suspended, Send fails with ErrSessionSuspended and no protocol events are
// delivered. Resume re-opens the connection; with onlyIfAttached set it fails
// with ErrNotAttached when the engine could not re-attach to the previous
// engine session.
//
//	s, _ := enigma.New(enigma.WithAddress(addr), enigma.WithSuspendOnClose(true))
//	s.On(enigma.EventSuspended, func(args ...any) {
//	    evt := args[0].(enigma.SuspendedEvent)
//	    log.Printf("suspended by %s", evt.Initiator)
//	})
//
// # Request Metadata
//
// Every result is a *Pending that carries the request ID it was sent with.
// Results derived through Then, Catch, Transform or Chain keep that ID.
//
// # Error Handling
//
// Errors support errors.Is and errors.As:
//
//	var engErr *enigma.EngineError
//	if errors.As(err, &engErr) {
//	    log.Printf("engine error %d", engErr.Code)
//	}
//	if errors.Is(err, enigma.ErrObjectNotFound) {
//	    ...
//	}
package enigma
