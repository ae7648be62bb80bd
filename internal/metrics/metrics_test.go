package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollector_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.RecordTraffic("sent")
	c.RecordTraffic("sent")
	c.RecordTraffic("received")
	c.RecordRequest(nil)
	c.RecordRequest(errors.New("engine error"))
	c.RecordRejected()
	c.RecordSuspension("network")
	c.SetObjectAPIs(3)

	require.InDelta(t, 2, testutil.ToFloat64(c.traffic.WithLabelValues("sent")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(c.traffic.WithLabelValues("received")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(c.requests.WithLabelValues("success")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(c.requests.WithLabelValues("error")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(c.requests.WithLabelValues("rejected")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(c.suspensions.WithLabelValues("network")), 0)
	require.InDelta(t, 3, testutil.ToFloat64(c.objectAPIs), 0)

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	require.Positive(t, count)
}

func TestCollector_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := New(reg)
	second := New(reg)

	first.RecordTraffic("sent")
	second.RecordTraffic("sent")

	require.InDelta(t, 2, testutil.ToFloat64(second.traffic.WithLabelValues("sent")), 0)
}

func TestCollector_Unregistered(t *testing.T) {
	c := New(nil)

	c.RecordTraffic("received")
	require.InDelta(t, 1, testutil.ToFloat64(c.traffic.WithLabelValues("received")), 0)
}
