package steadycc

import (
	"time"
	"unsafe"

	"github.com/steadycc/steadycc/internal/log"
	"github.com/steadycc/steadycc/internal/protocol"
)

// Steady pins the congestion window to a fixed size. It is meant for links
// where loss is routine and unrelated to congestion, such as lossy wireless
// hops, so the usual loss-driven window reductions only cost throughput.
// RTT is tracked for diagnostics and never fed back into the window.
type Steady struct {
	state    steadyState
	fallback Fallback
	logger   log.Logger
	tracer   Tracer
}

type steadyState struct {
	// enabled selects the static-window policy; while false, congestion
	// avoidance delegates to the fallback strategy. Nothing in the current
	// hook set clears it, the disabled branch is an extension point.
	enabled bool
	// congested is a reserved detected-congestion indicator; no hook reads
	// or sets it yet.
	congested bool
	minRTT    time.Duration
	lastRTT   time.Duration
}

// The host keeps strategy state in a fixed-size per-connection slot;
// growing steadyState past it must not compile.
const _ = protocol.StateSlotSize - unsafe.Sizeof(steadyState{})

// NewSteady returns a per-connection strategy instance. fallback handles
// congestion avoidance while the static-window policy is disabled; logger
// and tracer may be nil.
func NewSteady(logger log.Logger, fallback Fallback, tracer Tracer) *Steady {
	if logger == nil {
		logger = log.NopLogger{}
	}
	return &Steady{fallback: fallback, logger: logger, tracer: tracer}
}

// SteadyDescriptor returns the descriptor under which the strategy is
// selectable. Every connection adopting the strategy gets its own instance
// sharing the given collaborators.
func SteadyDescriptor(logger log.Logger, fallback Fallback, tracer Tracer) Descriptor {
	return Descriptor{
		Name:      StrategyName,
		StateSize: unsafe.Sizeof(steadyState{}),
		New:       func() Strategy { return NewSteady(logger, fallback, tracer) },
	}
}

func (s *Steady) Init(conn Conn) {
	s.state.enabled = true
	s.state.congested = false
	s.state.minRTT = protocol.DefaultInitialRTT
	s.state.lastRTT = protocol.DefaultInitialRTT
	s.logger.Log("congestion_init", "strategy", StrategyName)
}

// PacketsAcked records the RTT sample and re-pins the window. A non-positive
// sample means no measurement was possible this round; the window write
// still happens. packets is unused for now but part of the host contract.
func (s *Steady) PacketsAcked(conn Conn, packets uint32, rtt time.Duration) {
	if rtt > 0 {
		s.state.lastRTT = rtt
	}

	if s.state.lastRTT < s.state.minRTT {
		s.state.minRTT = s.state.lastRTT
		s.logger.Log("congestion_min_rtt", "min_rtt", s.state.minRTT)
	}

	conn.SetCongestionWindow(protocol.DefaultWindowSize)
	if s.tracer != nil {
		s.tracer.UpdatedRTT(s.state.lastRTT, s.state.minRTT)
		s.tracer.ForcedWindow(protocol.DefaultWindowSize)
	}
}

// CongestionAvoid pins the window instead of growing it. No growth curve
// applies while the policy is enabled; the static window supersedes it.
func (s *Steady) CongestionAvoid(conn Conn, ack uint32, acked uint32) {
	if !s.state.enabled {
		s.logger.Log("congestion_delegate", "ack", ack, "acked", acked)
		s.fallback.CongestionAvoid(conn, ack, acked)
		return
	}

	conn.SetCongestionWindow(protocol.DefaultWindowSize)
	if s.tracer != nil {
		s.tracer.ForcedWindow(protocol.DefaultWindowSize)
	}
}

func (s *Steady) SlowStartThreshold(conn Conn) uint32 {
	return protocol.DefaultWindowSize
}

func (s *Steady) UndoCwnd(conn Conn) uint32 {
	return protocol.DefaultWindowSize
}

// CwndEvent resets the window no matter which event fired. The switch is
// exhaustive so a differentiated response stays a local change.
func (s *Steady) CwndEvent(conn Conn, event Event) {
	switch event {
	case EventTxStart, EventCwndRestart, EventCompleteCWR, EventLoss, EventECNNoCE, EventECNCE:
		conn.SetCongestionWindow(protocol.DefaultWindowSize)
	default:
		conn.SetCongestionWindow(protocol.DefaultWindowSize)
	}

	if s.tracer != nil {
		s.tracer.CwndEvent(event)
		s.tracer.ForcedWindow(protocol.DefaultWindowSize)
	}
}

// SetState re-enables the static-window policy on every transition.
func (s *Steady) SetState(conn Conn, state State) {
	s.state.enabled = true
	s.logger.Log("congestion_state", "state", state)
	if s.tracer != nil {
		s.tracer.StateTransition(state)
	}
}

// MinRTT returns the smallest RTT observed since Init.
func (s *Steady) MinRTT() time.Duration {
	return s.state.minRTT
}

// LastRTT returns the most recent valid RTT sample.
func (s *Steady) LastRTT() time.Duration {
	return s.state.lastRTT
}
