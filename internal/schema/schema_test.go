package schema

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/enigma-go/internal/errors"
	"github.com/wagiedev/enigma-go/internal/pending"
	"github.com/wagiedev/enigma-go/internal/protocol"
)

const testDefinition = `{
  "version": "test",
  "structs": {
    "Doc": {
      "GetObject": {
        "In": [{"Name": "qId", "Type": "string"}],
        "Out": [{"Name": "qReturn", "Type": "object"}]
      },
      "DoReload": {
        "In": [
          {"Name": "qMode", "Type": "integer", "Optional": true},
          {"Name": "qPartial", "Type": "boolean", "Optional": true}
        ],
        "Out": [{"Name": "qReturn", "Type": "boolean"}]
      },
      "CreateSessionApp": {
        "Out": [{"Name": "qReturn"}, {"Name": "qSessionAppId"}]
      },
      "AbortModal": null
    }
  }
}`

// recordingSender captures requests instead of sending them.
type recordingSender struct {
	requests []*protocol.Request
}

func (r *recordingSender) Send(_ context.Context, req *protocol.Request) *pending.Pending {
	r.requests = append(r.requests, req)

	return pending.Resolved(len(r.requests), nil)
}

func parseTest(t *testing.T) *Definition {
	t.Helper()

	def, err := Parse(slog.Default(), []byte(testDefinition))
	require.NoError(t, err)

	return def
}

func TestParse(t *testing.T) {
	def := parseTest(t)

	require.Equal(t, "test", def.Version)
	require.Equal(t, []string{"Doc"}, def.Types())

	m, ok := def.Method("Doc", "GetObject")
	require.True(t, ok)
	require.Equal(t, "GetObject", m.Name)
	require.Equal(t, "qReturn", m.OutKey())

	multi, _ := def.Method("Doc", "CreateSessionApp")
	require.Empty(t, multi.OutKey())

	empty, ok := def.Method("Doc", "AbortModal")
	require.True(t, ok, "null method bodies are kept")
	require.Empty(t, empty.OutKey())
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse(slog.Default(), []byte(`{"structs": [`))
	require.ErrorContains(t, err, "decode definition")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qix.json")
	require.NoError(t, os.WriteFile(path, []byte(testDefinition), 0o600))

	def, err := Load(slog.Default(), path)
	require.NoError(t, err)
	require.Equal(t, "test", def.Version)

	_, err = Load(slog.Default(), filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorContains(t, err, "read definition")
}

func TestDefault(t *testing.T) {
	def, err := Default(slog.Default())
	require.NoError(t, err)

	for _, typ := range []string{"Global", "Doc", "GenericObject", "Field", "GenericVariable"} {
		require.Contains(t, def.Types(), typ)
	}

	m, ok := def.Method("Global", "GetActiveDoc")
	require.True(t, ok)
	require.Equal(t, "qReturn", m.OutKey())
}

func TestGenerate(t *testing.T) {
	def := parseTest(t)
	sender := &recordingSender{}

	api := def.Generate("Doc")(sender, 1, "sales.qvf", true, "")

	require.Equal(t, 1, api.Handle)
	require.Equal(t, "sales.qvf", api.ID)
	require.Equal(t, "Doc", api.Type)
	require.True(t, api.Delta)
	require.True(t, api.Typed())
	require.Same(t, sender, api.Session())
	require.Equal(t, []string{"AbortModal", "CreateSessionApp", "DoReload", "GetObject"}, api.Methods())
}

func TestObjectAPI_Call(t *testing.T) {
	ctx := context.Background()
	def := parseTest(t)

	t.Run("builds request", func(t *testing.T) {
		sender := &recordingSender{}
		api := def.Generate("Doc")(sender, 1, "sales.qvf", false, "")

		_, err := api.Call(ctx, "GetObject", "fvZbPr").Wait(ctx)
		require.NoError(t, err)
		require.Len(t, sender.requests, 1)

		req := sender.requests[0]
		require.Equal(t, "GetObject", req.Method)
		require.Equal(t, 1, req.Handle)
		require.Equal(t, []any{"fvZbPr"}, req.Params)
		require.Equal(t, "qReturn", req.OutKey)
		require.NotNil(t, req.Delta)
		require.False(t, *req.Delta)
	})

	t.Run("optional parameters may be omitted", func(t *testing.T) {
		sender := &recordingSender{}
		api := def.Generate("Doc")(sender, 1, "sales.qvf", false, "")

		_, err := api.Call(ctx, "DoReload").Wait(ctx)
		require.NoError(t, err)
		require.Equal(t, []any{}, sender.requests[0].Params)
	})

	t.Run("missing required parameter", func(t *testing.T) {
		sender := &recordingSender{}
		api := def.Generate("Doc")(sender, 1, "sales.qvf", false, "")

		_, err := api.Call(ctx, "GetObject").Wait(ctx)

		var paramErr *errors.ParameterError

		require.ErrorAs(t, err, &paramErr)
		require.Equal(t, "GetObject", paramErr.Method)
		require.Empty(t, sender.requests, "invalid calls are not sent")
	})

	t.Run("wrong parameter type", func(t *testing.T) {
		sender := &recordingSender{}
		api := def.Generate("Doc")(sender, 1, "sales.qvf", false, "")

		_, err := api.Call(ctx, "DoReload", "full").Wait(ctx)
		require.ErrorAs(t, err, new(*errors.ParameterError))
		require.Empty(t, sender.requests)
	})

	t.Run("too many arguments", func(t *testing.T) {
		sender := &recordingSender{}
		api := def.Generate("Doc")(sender, 1, "sales.qvf", false, "")

		_, err := api.Call(ctx, "GetObject", "a", "b").Wait(ctx)
		require.ErrorContains(t, err, "want at most 1")
	})

	t.Run("unknown method", func(t *testing.T) {
		sender := &recordingSender{}
		api := def.Generate("Doc")(sender, 1, "sales.qvf", false, "")

		_, err := api.Call(ctx, "Explode").Wait(ctx)
		require.ErrorIs(t, err, errors.ErrUnknownMethod)
		require.ErrorContains(t, err, "Doc.Explode")
	})
}

func TestObjectAPI_CallNamed(t *testing.T) {
	ctx := context.Background()
	def := parseTest(t)
	sender := &recordingSender{}
	api := def.Generate("Doc")(sender, 1, "sales.qvf", false, "")

	_, err := api.CallNamed(ctx, "GetObject", map[string]any{"qId": "fvZbPr"}).Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"qId": "fvZbPr"}, sender.requests[0].Params)

	_, err = api.CallNamed(ctx, "GetObject", nil).Wait(ctx)
	require.ErrorAs(t, err, new(*errors.ParameterError))
}

func TestObjectAPI_Untyped(t *testing.T) {
	ctx := context.Background()
	def := parseTest(t)
	sender := &recordingSender{}

	api := def.Generate("Bookmark")(sender, 7, "bm01", false, "bookmark")
	require.False(t, api.Typed())
	require.Empty(t, api.Methods())
	require.Equal(t, "bookmark", api.GenericType)

	_, err := api.Call(ctx, "GetLayout", 1, 2).Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, "GetLayout", sender.requests[0].Method)
	require.Equal(t, []any{1, 2}, sender.requests[0].Params)
	require.Empty(t, sender.requests[0].OutKey)
}

func TestObjectAPI_Events(t *testing.T) {
	def := parseTest(t)
	api := def.Generate("Doc")(&recordingSender{}, 1, "sales.qvf", false, "")

	changed := 0
	api.On("changed", func(...any) { changed++ })
	api.Emit("changed")

	require.Equal(t, 1, changed)
}
