// Package protocol defines the QIX JSON-RPC wire types exchanged between the
// session layer and a transport.
//
// The package covers three concerns:
//   - Outbound requests: Request is what callers build; Payload is the
//     merged wire form the transport serialises.
//   - Inbound frames: Response covers both call responses (with change and
//     close handle lists) and engine notifications.
//   - Transport events: the Event values a transport hands to the session,
//     plus the reserved close codes.
//
// Wire format of a request:
//
//	{"jsonrpc": "2.0", "id": 3, "method": "GetObject", "handle": 1, "params": ["fvZbPr"]}
//
// Wire format of a response:
//
//	{"jsonrpc": "2.0", "id": 3, "result": {"qReturn": {"qType": "GenericObject", "qHandle": 2}}, "change": [1]}
package protocol
