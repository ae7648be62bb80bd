package event

import "sync"

// Listener receives the arguments passed to Emit.
type Listener func(args ...any)

type entry struct {
	id   uint64
	fn   Listener
	once bool
}

// Emitter dispatches named events to registered listeners.
type Emitter struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[string][]*entry
}

// On registers fn for event and returns a function that removes it.
func (e *Emitter) On(event string, fn Listener) func() {
	return e.add(event, fn, false)
}

// Once registers fn for the next emission of event only.
func (e *Emitter) Once(event string, fn Listener) func() {
	return e.add(event, fn, true)
}

func (e *Emitter) add(event string, fn Listener, once bool) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.listeners == nil {
		e.listeners = make(map[string][]*entry, 8)
	}

	e.nextID++
	id := e.nextID
	e.listeners[event] = append(e.listeners[event], &entry{id: id, fn: fn, once: once})

	return func() { e.remove(event, id) }
}

func (e *Emitter) remove(event string, id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries := e.listeners[event]
	for i, ent := range entries {
		if ent.id == id {
			e.listeners[event] = append(entries[:i:i], entries[i+1:]...)

			break
		}
	}

	if len(e.listeners[event]) == 0 {
		delete(e.listeners, event)
	}
}

// Emit calls every listener registered for event with args.
// It reports whether any listener was called.
func (e *Emitter) Emit(event string, args ...any) bool {
	e.mu.Lock()

	entries := e.listeners[event]
	if len(entries) == 0 {
		e.mu.Unlock()

		return false
	}

	snapshot := make([]*entry, len(entries))
	copy(snapshot, entries)

	kept := entries[:0:0]
	for _, ent := range entries {
		if !ent.once {
			kept = append(kept, ent)
		}
	}

	if len(kept) == 0 {
		delete(e.listeners, event)
	} else {
		e.listeners[event] = kept
	}

	e.mu.Unlock()

	for _, ent := range snapshot {
		ent.fn(args...)
	}

	return true
}

// RemoveAllListeners removes the listeners of the named events, or of every
// event when called without arguments.
func (e *Emitter) RemoveAllListeners(events ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(events) == 0 {
		e.listeners = nil

		return
	}

	for _, event := range events {
		delete(e.listeners, event)
	}
}

// ListenerCount returns the number of listeners registered for event.
func (e *Emitter) ListenerCount(event string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.listeners[event])
}
