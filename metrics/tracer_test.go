package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/steadycc/steadycc"
)

func TestTracerRecordsRTT(t *testing.T) {
	registry := prometheus.NewRegistry()
	tr := NewTracerWithRegisterer(registry).(*tracer)

	tr.UpdatedRTT(50*time.Millisecond, 30*time.Millisecond)
	require.Equal(t, 0.05, testutil.ToFloat64(tr.lastRTT))
	require.Equal(t, 0.03, testutil.ToFloat64(tr.minRTT))
}

func TestTracerCountsWindowWrites(t *testing.T) {
	registry := prometheus.NewRegistry()
	tr := NewTracerWithRegisterer(registry).(*tracer)

	tr.ForcedWindow(steadycc.DefaultWindowSize)
	tr.ForcedWindow(steadycc.DefaultWindowSize)
	require.Equal(t, 2.0, testutil.ToFloat64(tr.forcedWindows))
}

func TestTracerCountsEventsByType(t *testing.T) {
	registry := prometheus.NewRegistry()
	tr := NewTracerWithRegisterer(registry).(*tracer)

	tr.CwndEvent(steadycc.EventLoss)
	tr.CwndEvent(steadycc.EventLoss)
	tr.CwndEvent(steadycc.EventECNCE)
	tr.CwndEvent(steadycc.Event(0xff)) // unknown events are dropped

	require.Equal(t, 2.0, testutil.ToFloat64(tr.cwndEvents[steadycc.EventLoss]))
	require.Equal(t, 1.0, testutil.ToFloat64(tr.cwndEvents[steadycc.EventECNCE]))
	require.Equal(t, 0.0, testutil.ToFloat64(tr.cwndEvents[steadycc.EventTxStart]))
}

func TestTracerCountsStateTransitions(t *testing.T) {
	registry := prometheus.NewRegistry()
	tr := NewTracerWithRegisterer(registry).(*tracer)

	tr.StateTransition(steadycc.StateRecovery)
	tr.StateTransition(steadycc.StateOpen)
	tr.StateTransition(steadycc.StateOpen)

	require.Equal(t, 1.0, testutil.ToFloat64(tr.stateTransitions[steadycc.StateRecovery]))
	require.Equal(t, 2.0, testutil.ToFloat64(tr.stateTransitions[steadycc.StateOpen]))
}

func TestTracerReusesCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := NewTracerWithRegisterer(registry).(*tracer)
	second := NewTracerWithRegisterer(registry).(*tracer)

	first.ForcedWindow(steadycc.DefaultWindowSize)
	second.ForcedWindow(steadycc.DefaultWindowSize)
	require.Equal(t, 2.0, testutil.ToFloat64(first.forcedWindows))
}

func TestTracerDrivenBySteady(t *testing.T) {
	registry := prometheus.NewRegistry()
	tr := NewTracerWithRegisterer(registry).(*tracer)

	strategy := steadycc.NewSteady(nil, nil, tr)
	c := &hostConn{}
	strategy.Init(c)
	strategy.PacketsAcked(c, 1, 40*time.Millisecond)
	strategy.CwndEvent(c, steadycc.EventLoss)
	strategy.SetState(c, steadycc.StateOpen)

	require.Equal(t, 0.04, testutil.ToFloat64(tr.lastRTT))
	require.Equal(t, 0.04, testutil.ToFloat64(tr.minRTT))
	require.Equal(t, 2.0, testutil.ToFloat64(tr.forcedWindows))
	require.Equal(t, 1.0, testutil.ToFloat64(tr.cwndEvents[steadycc.EventLoss]))
	require.Equal(t, 1.0, testutil.ToFloat64(tr.stateTransitions[steadycc.StateOpen]))
}

type hostConn struct {
	window uint32
}

func (c *hostConn) CongestionWindow() uint32 {
	return c.window
}

func (c *hostConn) SetCongestionWindow(window uint32) {
	c.window = window
}
