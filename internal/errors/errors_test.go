package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEngineError(t *testing.T) {
	t.Run("with parameter", func(t *testing.T) {
		err := &EngineError{Code: 1002, Parameter: "qDocName", Message: "App already open"}

		require.Equal(t, "engine error 1002: App already open (qDocName)", err.Error())
		require.True(t, err.IsEnigmaError())
		require.NotErrorIs(t, err, ErrRequestAborted)
	})

	t.Run("aborted", func(t *testing.T) {
		err := &EngineError{Code: CodeAborted, Message: "Request aborted"}

		require.Equal(t, "engine error -128: Request aborted", err.Error())
		require.ErrorIs(t, err, ErrRequestAborted)
	})
}

func TestConnectionError(t *testing.T) {
	root := errors.New("dial failed")
	err := &ConnectionError{Err: root}

	require.Equal(t, "failed to connect to engine: dial failed", err.Error())
	require.ErrorIs(t, err, root)
	require.True(t, err.IsEnigmaError())
}

func TestMessageParseError(t *testing.T) {
	root := errors.New("unexpected token")
	err := &MessageParseError{
		Data: `{"jsonrpc":"2.0",`,
		Err:  root,
	}

	require.Equal(t, "failed to parse message: unexpected token", err.Error())
	require.ErrorIs(t, err, root)
	require.True(t, err.IsEnigmaError())
}

func TestParameterError(t *testing.T) {
	root := errors.New("missing properties: qId")
	err := &ParameterError{Method: "GetObject", Err: root}

	require.Equal(t, "invalid parameters for GetObject: missing properties: qId", err.Error())
	require.ErrorIs(t, err, root)

	var target EnigmaError

	require.ErrorAs(t, err, &target)
}

func TestObjectNotFoundMessage(t *testing.T) {
	require.EqualError(t, ErrObjectNotFound, "object not found")
}
