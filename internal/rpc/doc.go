// Package rpc implements the default session transport: QIX JSON-RPC 2.0
// over a newline-delimited byte stream.
//
// The Transport dials a stream through a config.Dialer (a TCP address or a
// locally spawned engine speaking over stdio), correlates responses to
// pending requests by ID, and hands every other frame to its subscriber as
// protocol events.
//
// Events of one connection are delivered in arrival order on a dedicated
// dispatch goroutine, after the events of any previous connection. Because
// delivery is decoupled from reading, a subscriber may wait on request
// results from inside an event handler.
//
// Example usage:
//
//	t := rpc.New(log, rpc.DialTCP("localhost:9076"), 5*time.Second)
//	t.Subscribe(func(ev protocol.Event) { ... })
//	if err := t.Open(ctx); err != nil {
//	    return err
//	}
//
//	payload := &protocol.Payload{JSONRPC: "2.0", Method: "EngineVersion", Handle: -1, Params: []any{}}
//	resp, err := t.Send(ctx, payload).Wait(ctx)
package rpc
