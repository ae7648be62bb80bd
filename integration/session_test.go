//go:build integration

package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	enigma "github.com/wagiedev/enigma-go"
)

// TestSession_EngineVersion tests a plain Global call.
func TestSession_EngineVersion(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, global := openSession(t)

	version, err := enigma.Await[map[string]any](ctx, global.Call(ctx, "EngineVersion"))
	require.NoError(t, err)
	require.NotEmpty(t, version["qComponentVersion"])
}

// TestSession_ObjectIdentity tests that a handle resolves to one object API.
func TestSession_ObjectIdentity(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, global := openSession(t)
	doc := createSessionApp(ctx, t, s, global)

	require.Equal(t, "Doc", doc.Type)
	require.Same(t, doc, s.GetObjectAPI(enigma.ObjectRef{Handle: doc.Handle, Type: "Doc"}))
}

// TestSession_ChangedOnSetProperties tests change notifications on a session object.
func TestSession_ChangedOnSetProperties(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, global := openSession(t)
	doc := createSessionApp(ctx, t, s, global)

	props := map[string]any{"qInfo": map[string]any{"qType": "test-object"}, "title": "before"}

	obj, err := enigma.Await[*enigma.ObjectAPI](ctx, doc.Call(ctx, "CreateSessionObject", props))
	require.NoError(t, err)

	changed := make(chan struct{}, 1)
	obj.On(enigma.EventChanged, func(...any) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	_, err = enigma.Await[map[string]any](ctx, obj.Call(ctx, "GetLayout"))
	require.NoError(t, err)

	props["title"] = "after"
	_, err = obj.Call(ctx, "SetProperties", props).Wait(ctx)
	require.NoError(t, err)

	select {
	case <-changed:
	case <-ctx.Done():
		t.Fatal("no changed event after SetProperties")
	}
}

// TestSession_SuspendResume tests resuming into the same engine session.
func TestSession_SuspendResume(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, global := openSession(t)

	require.NoError(t, s.Suspend(ctx))

	_, err := global.Call(ctx, "EngineVersion").Wait(ctx)
	require.ErrorIs(t, err, enigma.ErrSessionSuspended)

	err = s.Resume(ctx, true)
	if errors.Is(err, enigma.ErrNotAttached) {
		t.Skip("engine does not keep sessions alive across reconnects")
	}

	require.NoError(t, err)

	_, err = global.Call(ctx, "EngineVersion").Wait(ctx)
	require.NoError(t, err)
}

// TestSession_MissingObject tests the object-not-found quirk on GetObject.
func TestSession_MissingObject(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, global := openSession(t)
	doc := createSessionApp(ctx, t, s, global)

	_, err := doc.Call(ctx, "GetObject", "does-not-exist").Wait(ctx)
	require.Error(t, err)
}
