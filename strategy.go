package steadycc

import (
	"time"

	"github.com/steadycc/steadycc/internal/protocol"
)

// StrategyName is the name the static-window strategy registers under.
const StrategyName = "steady"

// DefaultInitialRTT is the RTT both trackers start from on a fresh connection.
const DefaultInitialRTT = protocol.DefaultInitialRTT

// DefaultWindowSize is the congestion window the strategy pins connections to.
const DefaultWindowSize = protocol.DefaultWindowSize

// Conn is the host's view of a single connection. The host passes it on
// every hook call and strategies must not retain it between calls.
type Conn interface {
	CongestionWindow() uint32
	SetCongestionWindow(window uint32)
}

// Strategy is the hook set a congestion-control strategy exposes to the host
// transport. Hooks run synchronously on the host's packet-processing path:
// they must stay short, never block, and never lock. The host serializes
// calls per connection; hooks for different connections may run concurrently.
type Strategy interface {
	Init(conn Conn)
	SlowStartThreshold(conn Conn) uint32
	CongestionAvoid(conn Conn, ack uint32, acked uint32)
	CwndEvent(conn Conn, event Event)
	PacketsAcked(conn Conn, packets uint32, rtt time.Duration)
	SetState(conn Conn, state State)
	UndoCwnd(conn Conn) uint32
}

// Fallback is the congestion-avoidance contract of the strategy a Steady
// instance delegates to while its own window policy is disabled.
type Fallback interface {
	CongestionAvoid(conn Conn, ack uint32, acked uint32)
}

// Tracer receives congestion-control observations. Implementations must be
// cheap: every method is called from the host's packet-processing path.
type Tracer interface {
	UpdatedRTT(latest, min time.Duration)
	ForcedWindow(window uint32)
	CwndEvent(event Event)
	StateTransition(state State)
}

// Event identifies a congestion-avoidance event signaled by the host.
type Event byte

const (
	EventTxStart Event = iota
	EventCwndRestart
	EventCompleteCWR
	EventLoss
	EventECNNoCE
	EventECNCE
)

func (e Event) String() string {
	switch e {
	case EventTxStart:
		return "tx_start"
	case EventCwndRestart:
		return "cwnd_restart"
	case EventCompleteCWR:
		return "complete_cwr"
	case EventLoss:
		return "loss"
	case EventECNNoCE:
		return "ecn_no_ce"
	case EventECNCE:
		return "ecn_ce"
	default:
		return "invalid"
	}
}

// State identifies a state of the host's generic connection state machine.
type State byte

const (
	StateOpen State = iota
	StateDisorder
	StateCWR
	StateRecovery
	StateLoss
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateDisorder:
		return "disorder"
	case StateCWR:
		return "cwr"
	case StateRecovery:
		return "recovery"
	case StateLoss:
		return "loss"
	default:
		return "invalid"
	}
}
