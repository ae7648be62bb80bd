package intercept

import (
	"context"
	"log/slog"

	"github.com/wagiedev/enigma-go/internal/pending"
	"github.com/wagiedev/enigma-go/internal/protocol"
)

// Session is the view of the session that interceptors receive.
type Session interface {
	// ID returns the session identifier.
	ID() string
}

// Interceptor inspects or transforms a call result.
// A nil hook passes the outcome through unchanged.
type Interceptor struct {
	// Name identifies the interceptor in logs.
	Name string

	// OnFulfilled is called with a successful result.
	OnFulfilled func(ctx context.Context, s Session, req *protocol.Request, result any) (any, error)

	// OnRejected is called with a failed result.
	OnRejected func(ctx context.Context, s Session, req *protocol.Request, err error) (any, error)
}

// final wraps a result the remaining interceptors must not touch.
type final struct {
	value any
}

// Final marks v as a finished result. Interceptors after the one that
// returned it are skipped, and the pipeline yields v unchanged.
func Final(v any) any {
	return final{value: v}
}

// Pipeline runs interceptors in order over each call result.
type Pipeline struct {
	log          *slog.Logger
	interceptors []Interceptor
}

// New creates a pipeline from the given interceptors.
func New(log *slog.Logger, interceptors ...Interceptor) *Pipeline {
	return &Pipeline{
		log:          log.With("component", "intercept"),
		interceptors: interceptors,
	}
}

// Len returns the number of interceptors in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.interceptors)
}

// Execute threads res through every interceptor and returns the final
// result. The returned Pending keeps res's request ID.
func (p *Pipeline) Execute(
	ctx context.Context,
	s Session,
	res *pending.Pending,
	req *protocol.Request,
) *pending.Pending {
	out := res

	for _, ic := range p.interceptors {
		out = out.Transform(func(v any, err error) (any, error) {
			if err != nil {
				if ic.OnRejected == nil {
					return nil, err
				}

				p.log.Debug("Intercepting rejected result",
					"interceptor", ic.Name,
					"request_id", req.ID,
					"error", err,
				)

				return ic.OnRejected(ctx, s, req, err)
			}

			if _, done := v.(final); done || ic.OnFulfilled == nil {
				return v, nil
			}

			return ic.OnFulfilled(ctx, s, req, v)
		})
	}

	return out.Then(func(v any) (any, error) {
		if f, ok := v.(final); ok {
			return f.value, nil
		}

		return v, nil
	})
}
