// Package metrics exposes congestion-control observations as Prometheus
// metrics. Tracers pre-resolve every label set at construction time so the
// per-hook work is a plain gauge or counter update.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/steadycc/steadycc"
)

const metricNamespace = "steadycc"

var events = []steadycc.Event{
	steadycc.EventTxStart,
	steadycc.EventCwndRestart,
	steadycc.EventCompleteCWR,
	steadycc.EventLoss,
	steadycc.EventECNNoCE,
	steadycc.EventECNCE,
}

var states = []steadycc.State{
	steadycc.StateOpen,
	steadycc.StateDisorder,
	steadycc.StateCWR,
	steadycc.StateRecovery,
	steadycc.StateLoss,
}

type tracer struct {
	lastRTT          prometheus.Gauge
	minRTT           prometheus.Gauge
	forcedWindows    prometheus.Counter
	cwndEvents       map[steadycc.Event]prometheus.Counter
	stateTransitions map[steadycc.State]prometheus.Counter
}

var _ steadycc.Tracer = &tracer{}

// NewTracer returns a tracer registered on the default Prometheus
// registerer. It should be shared by every connection using the strategy.
func NewTracer() steadycc.Tracer {
	return NewTracerWithRegisterer(prometheus.DefaultRegisterer)
}

// NewTracerWithRegisterer returns a tracer registered on the given
// Prometheus registerer.
func NewTracerWithRegisterer(registerer prometheus.Registerer) steadycc.Tracer {
	lastRTT := register(registerer, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricNamespace,
		Name:      "last_rtt_seconds",
		Help:      "Most recent RTT sample",
	})).(prometheus.Gauge)
	minRTT := register(registerer, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricNamespace,
		Name:      "min_rtt_seconds",
		Help:      "Minimum observed RTT",
	})).(prometheus.Gauge)
	forcedWindows := register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricNamespace,
		Name:      "window_writes_total",
		Help:      "Forced congestion window writes",
	})).(prometheus.Counter)
	cwndEvents := register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricNamespace,
		Name:      "cwnd_events_total",
		Help:      "Congestion-avoidance events by type",
	}, []string{"event"})).(*prometheus.CounterVec)
	stateTransitions := register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricNamespace,
		Name:      "state_transitions_total",
		Help:      "Connection state transitions by state",
	}, []string{"state"})).(*prometheus.CounterVec)

	t := &tracer{
		lastRTT:          lastRTT,
		minRTT:           minRTT,
		forcedWindows:    forcedWindows,
		cwndEvents:       make(map[steadycc.Event]prometheus.Counter, len(events)),
		stateTransitions: make(map[steadycc.State]prometheus.Counter, len(states)),
	}
	for _, event := range events {
		t.cwndEvents[event] = cwndEvents.WithLabelValues(event.String())
	}
	for _, state := range states {
		t.stateTransitions[state] = stateTransitions.WithLabelValues(state.String())
	}
	return t
}

func (t *tracer) UpdatedRTT(latest, min time.Duration) {
	t.lastRTT.Set(latest.Seconds())
	t.minRTT.Set(min.Seconds())
}

func (t *tracer) ForcedWindow(window uint32) {
	t.forcedWindows.Inc()
}

func (t *tracer) CwndEvent(event steadycc.Event) {
	if counter, ok := t.cwndEvents[event]; ok {
		counter.Inc()
	}
}

func (t *tracer) StateTransition(state steadycc.State) {
	if counter, ok := t.stateTransitions[state]; ok {
		counter.Inc()
	}
}

func register(registerer prometheus.Registerer, collector prometheus.Collector) prometheus.Collector {
	if err := registerer.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return already.ExistingCollector
		}
		panic(err)
	}
	return collector
}
