package suspend

import (
	"context"
	stderrors "errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/enigma-go/internal/errors"
	"github.com/wagiedev/enigma-go/internal/protocol"
)

// mockConn records opens and closes and reports a configurable session state.
type mockConn struct {
	opens    int
	closes   []protocol.CloseEvent
	openErr  error
	closeErr error
	state    string
}

func (m *mockConn) Open(context.Context) error {
	m.opens++

	return m.openErr
}

func (m *mockConn) Close(_ context.Context, code int, reason string) (protocol.CloseEvent, error) {
	evt := protocol.CloseEvent{Code: code, Reason: reason}
	m.closes = append(m.closes, evt)

	return evt, m.closeErr
}

func (m *mockConn) SessionState() string { return m.state }

func TestCoordinator_Suspend(t *testing.T) {
	conn := &mockConn{}
	c := New(slog.Default(), conn, nil)

	require.False(t, c.IsSuspended())
	require.NoError(t, c.Suspend(context.Background(), protocol.CloseManualSuspend, ""))
	require.True(t, c.IsSuspended())
	require.Equal(t, []protocol.CloseEvent{{Code: protocol.CloseManualSuspend}}, conn.closes)
}

func TestCoordinator_SuspendCloseErrorStillSuspends(t *testing.T) {
	conn := &mockConn{closeErr: stderrors.New("already closed")}
	c := New(slog.Default(), conn, nil)

	err := c.Suspend(context.Background(), protocol.CloseManualSuspend, "")
	require.ErrorContains(t, err, "already closed")
	require.True(t, c.IsSuspended())
}

func TestCoordinator_Resume(t *testing.T) {
	ctx := context.Background()

	t.Run("attached", func(t *testing.T) {
		conn := &mockConn{state: protocol.SessionAttached}
		restored := false
		c := New(slog.Default(), conn, func(context.Context) error {
			restored = true

			return nil
		})

		require.NoError(t, c.Suspend(ctx, protocol.CloseManualSuspend, ""))
		require.NoError(t, c.Resume(ctx, true))
		require.False(t, c.IsSuspended())
		require.False(t, restored)
		require.Equal(t, 1, conn.opens)
	})

	t.Run("created with onlyIfAttached", func(t *testing.T) {
		conn := &mockConn{state: protocol.SessionCreated}
		c := New(slog.Default(), conn, nil)

		require.NoError(t, c.Suspend(ctx, protocol.CloseManualSuspend, ""))

		err := c.Resume(ctx, true)
		require.ErrorIs(t, err, errors.ErrNotAttached)
		require.True(t, c.IsSuspended())
		require.Len(t, conn.closes, 2, "the unattached connection is closed again")
		require.Equal(t, protocol.CloseManualSuspend, conn.closes[1].Code)
	})

	t.Run("created restores", func(t *testing.T) {
		conn := &mockConn{state: protocol.SessionCreated}
		restored := false
		c := New(slog.Default(), conn, func(context.Context) error {
			restored = true

			return nil
		})

		require.NoError(t, c.Suspend(ctx, protocol.CloseManualSuspend, ""))
		require.NoError(t, c.Resume(ctx, false))
		require.True(t, restored)
		require.False(t, c.IsSuspended())
	})

	t.Run("restore failure stays suspended", func(t *testing.T) {
		conn := &mockConn{state: protocol.SessionCreated}
		c := New(slog.Default(), conn, func(context.Context) error {
			return stderrors.New("restore failed")
		})

		require.NoError(t, c.Suspend(ctx, protocol.CloseManualSuspend, ""))
		require.ErrorContains(t, c.Resume(ctx, false), "restore failed")
		require.True(t, c.IsSuspended())
	})

	t.Run("open failure", func(t *testing.T) {
		conn := &mockConn{openErr: stderrors.New("connection refused")}
		c := New(slog.Default(), conn, nil)

		require.NoError(t, c.Suspend(ctx, protocol.CloseManualSuspend, ""))
		require.ErrorContains(t, c.Resume(ctx, false), "connection refused")
		require.True(t, c.IsSuspended())
	})

	t.Run("unknown state counts as attached", func(t *testing.T) {
		conn := &mockConn{}
		c := New(slog.Default(), conn, nil)

		require.NoError(t, c.Suspend(ctx, protocol.CloseManualSuspend, ""))
		require.NoError(t, c.Resume(ctx, true))
		require.False(t, c.IsSuspended())
	})
}
