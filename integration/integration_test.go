//go:build integration

package integration

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	enigma "github.com/wagiedev/enigma-go"
)

// engineAddress returns the engine under test, from QIX_ADDRESS.
func engineAddress() string {
	if addr := os.Getenv("QIX_ADDRESS"); addr != "" {
		return addr
	}

	return "localhost:9076"
}

// skipIfEngineUnreachable skips the test if the error indicates no engine is listening.
func skipIfEngineUnreachable(t *testing.T, err error) {
	t.Helper()

	if _, ok := errors.AsType[*enigma.ConnectionError](err); ok {
		t.Skipf("QIX engine not reachable at %s", engineAddress())
	}
}

// openSession opens a session against the engine under test.
func openSession(t *testing.T, opts ...enigma.Option) (enigma.Session, *enigma.ObjectAPI) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := enigma.New(append([]enigma.Option{enigma.WithAddress(engineAddress())}, opts...)...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	global, err := s.Open(ctx)
	if err != nil {
		skipIfEngineUnreachable(t, err)
		t.Fatalf("Open failed: %v", err)
	}

	t.Cleanup(func() { _ = s.Close(context.Background()) })

	return s, global
}

// createSessionApp creates an in-memory app and returns its Doc API.
func createSessionApp(ctx context.Context, t *testing.T, s enigma.Session, global *enigma.ObjectAPI) *enigma.ObjectAPI {
	t.Helper()

	created, err := enigma.Await[map[string]any](ctx, global.Call(ctx, "CreateSessionApp"))
	if err != nil {
		t.Fatalf("CreateSessionApp failed: %v", err)
	}

	doc, err := enigma.Await[*enigma.ObjectAPI](ctx, s.ObjectAPIFromResponse(created["qReturn"]))
	if err != nil {
		t.Fatalf("resolve session app: %v", err)
	}

	return doc
}
