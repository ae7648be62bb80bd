package enigma

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestApplyOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	log := NopLogger()

	opts := applyOptions([]Option{
		WithLogger(log),
		WithAddress("localhost:9076"),
		WithCommand("qix-engine", "--stdio", "--accept-eula"),
		WithConnectedTimeout(3 * time.Second),
		WithDelta(true),
		WithSuspendOnClose(true),
		WithMaxRetries(1),
		WithMetricsRegisterer(reg),
	})

	require.Same(t, log, opts.Logger)
	require.Equal(t, "localhost:9076", opts.Address)
	require.Equal(t, []string{"qix-engine", "--stdio", "--accept-eula"}, opts.Command)
	require.Equal(t, 3*time.Second, opts.ConnectedTimeout)
	require.True(t, opts.Protocol.Delta)
	require.True(t, opts.SuspendOnClose)
	require.Equal(t, 1, opts.Retries())
	require.Same(t, reg, opts.MetricsRegisterer)
}

func TestApplyOptions_Defaults(t *testing.T) {
	opts := applyOptions(nil)

	require.Nil(t, opts.Logger)
	require.Nil(t, opts.Transport)
	require.Nil(t, opts.Interceptors)
	require.False(t, opts.Protocol.Delta)
	require.Equal(t, 3, opts.Retries())
}

func TestWithInterceptors_ReplacesDefaults(t *testing.T) {
	custom := Interceptor{Name: "custom"}
	opts := applyOptions([]Option{
		WithInterceptors(append(DefaultInterceptors(nil, 2), custom)...),
	})

	require.Len(t, opts.Interceptors, 4)
	require.Equal(t, "custom", opts.Interceptors[3].Name)
}

func TestWithSchema(t *testing.T) {
	def, err := DefaultSchema(nil)
	require.NoError(t, err)

	opts := applyOptions([]Option{WithSchema(def)})
	require.Same(t, def, opts.Definition)
	require.Contains(t, def.Types(), "Doc")
}
