package suspend

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/wagiedev/enigma-go/internal/config"
	"github.com/wagiedev/enigma-go/internal/errors"
	"github.com/wagiedev/enigma-go/internal/protocol"
)

// Conn is the part of the transport the coordinator drives.
type Conn interface {
	Open(ctx context.Context) error
	Close(ctx context.Context, code int, reason string) (protocol.CloseEvent, error)
}

// RestoreFunc is called after a resume that created a new engine session.
type RestoreFunc func(ctx context.Context) error

// Coordinator tracks whether a session is suspended.
type Coordinator struct {
	log     *slog.Logger
	conn    Conn
	restore RestoreFunc

	// opMu serialises Suspend and Resume.
	opMu sync.Mutex

	mu        sync.RWMutex
	suspended bool
}

// New creates a coordinator for conn. restore may be nil.
func New(log *slog.Logger, conn Conn, restore RestoreFunc) *Coordinator {
	return &Coordinator{
		log:     log.With("component", "suspend"),
		conn:    conn,
		restore: restore,
	}
}

// IsSuspended reports whether the session is suspended.
func (c *Coordinator) IsSuspended() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.suspended
}

func (c *Coordinator) setSuspended(v bool) {
	c.mu.Lock()
	c.suspended = v
	c.mu.Unlock()
}

// Suspend enters the suspended state and closes the connection with code
// and reason. The state stays suspended even if the close fails.
func (c *Coordinator) Suspend(ctx context.Context, code int, reason string) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.log.Debug("Suspending", "code", code, "reason", reason)

	c.setSuspended(true)

	if _, err := c.conn.Close(ctx, code, reason); err != nil {
		return fmt.Errorf("close connection: %w", err)
	}

	c.log.Info("Suspended", "code", code)

	return nil
}

// Resume re-opens the connection and leaves the suspended state.
//
// If the transport reports that a new engine session was created and
// onlyIfAttached is set, the new connection is closed again, the state stays
// suspended, and ErrNotAttached is returned. Otherwise the restore hook runs
// before the state becomes active.
func (c *Coordinator) Resume(ctx context.Context, onlyIfAttached bool) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.log.Debug("Resuming", "only_if_attached", onlyIfAttached)

	if err := c.conn.Open(ctx); err != nil {
		return fmt.Errorf("reopen connection: %w", err)
	}

	state := ""
	if stater, ok := c.conn.(config.SessionStater); ok {
		state = stater.SessionState()
	}

	if state == protocol.SessionCreated {
		if onlyIfAttached {
			c.log.Warn("Engine created a new session, staying suspended")

			if _, err := c.conn.Close(ctx, protocol.CloseManualSuspend, "not attached"); err != nil {
				c.log.Debug("Failed to close unattached connection", "error", err)
			}

			return errors.ErrNotAttached
		}

		if c.restore != nil {
			if err := c.restore(ctx); err != nil {
				return fmt.Errorf("restore session: %w", err)
			}
		}
	}

	c.setSuspended(false)
	c.log.Info("Resumed", "session_state", state)

	return nil
}
