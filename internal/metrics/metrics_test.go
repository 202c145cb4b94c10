package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserve_CountsByMethodAndStatus(t *testing.T) {
	t.Parallel()

	m := New(prometheus.NewRegistry())

	m.Observe("GET", 200, time.Millisecond)
	m.Observe("GET", 200, time.Millisecond)
	m.Observe("POST", 403, time.Millisecond)
	m.Observe("PUT", 0, time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "200")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("POST", "403")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("PUT", "error")))
	require.Equal(t, 3, testutil.CollectAndCount(m.duration))
}

func TestObserve_UnknownMethodsShareOneLabel(t *testing.T) {
	t.Parallel()

	m := New(prometheus.NewRegistry())

	for _, method := range []string{"PATCH", "X0", "X1", "get", ""} {
		m.Observe(method, 405, time.Millisecond)
	}

	require.Equal(t, 5.0, testutil.ToFloat64(m.requests.WithLabelValues(MethodOther, "405")))
	require.Equal(t, 1, testutil.CollectAndCount(m.requests))
	require.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestObserve_NilIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics
	require.NotPanics(t, func() { m.Observe("GET", 200, time.Second) })
}

func TestNew_DoubleRegisterPanics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	New(reg)
	require.Panics(t, func() { New(reg) })
}
