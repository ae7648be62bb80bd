package enigma

import (
	"context"

	"github.com/wagiedev/enigma-go/internal/pending"
	"github.com/wagiedev/enigma-go/internal/schema"
	"github.com/wagiedev/enigma-go/internal/session"
)

// sessionWrapper wraps the internal session to adapt it to the public interface.
type sessionWrapper struct {
	*session.Session
}

// Compile-time check that *sessionWrapper implements the Session interface.
var _ Session = (*sessionWrapper)(nil)

// newSessionImpl creates the internal session implementation.
func newSessionImpl(options *Options) (Session, error) {
	impl, err := session.New(options)
	if err != nil {
		return nil, err
	}

	return &sessionWrapper{Session: impl}, nil
}

// Open opens the connection and returns the Global object API.
func (s *sessionWrapper) Open(ctx context.Context) (*ObjectAPI, error) {
	return pending.Await[*schema.ObjectAPI](ctx, s.Session.Open(ctx))
}
