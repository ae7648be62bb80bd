package pending

import (
	"context"
	"fmt"
	"sync"
)

// Pending is a request result that settles exactly once.
type Pending struct {
	id   int
	done chan struct{}
	once sync.Once

	value any
	err   error
}

// New creates an unsettled Pending for the given request ID.
func New(id int) *Pending {
	return &Pending{
		id:   id,
		done: make(chan struct{}),
	}
}

// Resolved creates a Pending already settled with v.
func Resolved(id int, v any) *Pending {
	p := New(id)
	p.Resolve(v)

	return p
}

// Rejected creates a Pending already settled with err.
func Rejected(id int, err error) *Pending {
	p := New(id)
	p.Reject(err)

	return p
}

// ID returns the request ID this result belongs to.
func (p *Pending) ID() int {
	return p.id
}

// Resolve settles the Pending with a value.
// It reports false if the Pending was already settled.
func (p *Pending) Resolve(v any) bool {
	return p.settle(v, nil)
}

// Reject settles the Pending with an error.
// It reports false if the Pending was already settled.
func (p *Pending) Reject(err error) bool {
	return p.settle(nil, err)
}

func (p *Pending) settle(v any, err error) bool {
	settled := false

	p.once.Do(func() {
		p.value = v
		p.err = err
		settled = true

		close(p.done)
	})

	return settled
}

// Done returns a channel that is closed once the Pending settles.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Settled reports whether the Pending has settled.
func (p *Pending) Settled() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the Pending settles or ctx is cancelled.
// Cancelling ctx does not cancel the request itself.
func (p *Pending) Wait(ctx context.Context) (any, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Transform derives a Pending settled with fn applied to this one's outcome.
func (p *Pending) Transform(fn func(v any, err error) (any, error)) *Pending {
	next := New(p.id)

	go func() {
		<-p.done
		next.settle(fn(p.value, p.err))
	}()

	return next
}

// Then derives a Pending that applies fn to a successful value.
// Errors pass through unchanged.
func (p *Pending) Then(fn func(v any) (any, error)) *Pending {
	return p.Transform(func(v any, err error) (any, error) {
		if err != nil {
			return nil, err
		}

		return fn(v)
	})
}

// Catch derives a Pending that applies fn to an error.
// Values pass through unchanged.
func (p *Pending) Catch(fn func(err error) (any, error)) *Pending {
	return p.Transform(func(v any, err error) (any, error) {
		if err == nil {
			return v, nil
		}

		return fn(err)
	})
}

// Chain derives a Pending that follows the Pending returned by fn.
// The derived Pending keeps this Pending's ID even when fn returns a
// Pending created for another request. A nil return passes the outcome
// through unchanged.
func (p *Pending) Chain(fn func(v any, err error) *Pending) *Pending {
	next := New(p.id)

	go func() {
		<-p.done

		q := fn(p.value, p.err)
		if q == nil {
			next.settle(p.value, p.err)

			return
		}

		<-q.done
		next.settle(q.value, q.err)
	}()

	return next
}

// Await waits for p and asserts the value to T.
func Await[T any](ctx context.Context, p *Pending) (T, error) {
	var zero T

	v, err := p.Wait(ctx)
	if err != nil {
		return zero, err
	}

	if v == nil {
		return zero, nil
	}

	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("request %d: unexpected result type %T", p.id, v)
	}

	return t, nil
}
