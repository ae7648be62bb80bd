// Package event provides the multi-listener emitter shared by sessions and
// object APIs.
//
// Emitter is embedded by value and is ready to use at its zero value.
// Listeners run synchronously on the emitting goroutine, in registration
// order. Listeners may register or remove listeners while being called.
package event
