package main

import (
	"log"
	"math/rand/v2"
	"time"

	"github.com/steadycc/steadycc"
	"github.com/steadycc/steadycc/metrics"
)

type conn struct {
	window uint32
}

func (c *conn) CongestionWindow() uint32 {
	return c.window
}

func (c *conn) SetCongestionWindow(window uint32) {
	c.window = window
}

func main() {
	registry := steadycc.NewRegistry()
	if err := registry.Register(steadycc.SteadyDescriptor(nil, nil, metrics.NewTracer())); err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := registry.Unregister(steadycc.StrategyName); err != nil {
			log.Fatal(err)
		}
	}()

	desc, ok := registry.Lookup(steadycc.StrategyName)
	if !ok {
		log.Fatalf("strategy %q not registered", steadycc.StrategyName)
	}

	strategy := desc.New().(*steadycc.Steady)
	c := &conn{window: 10}
	strategy.Init(c)

	// Drive the connection over a simulated lossy link: noisy RTT samples,
	// occasionally no sample at all, and a loss-recovery round trip that a
	// loss-based strategy would punish with a window collapse.
	var ack uint32
	for i := 0; i < 20; i++ {
		rtt := time.Duration(20+rand.IntN(60)) * time.Millisecond
		if rand.IntN(10) == 0 {
			rtt = -1
		}

		acked := uint32(1 + rand.IntN(8))
		ack += acked
		strategy.PacketsAcked(c, acked, rtt)
		strategy.CongestionAvoid(c, ack, acked)

		if rand.IntN(5) == 0 {
			strategy.CwndEvent(c, steadycc.EventLoss)
			strategy.SetState(c, steadycc.StateRecovery)
			strategy.SetState(c, steadycc.StateOpen)
		}

		log.Printf("ack=%d window=%d last_rtt=%s min_rtt=%s", ack, c.CongestionWindow(), strategy.LastRTT(), strategy.MinRTT())
	}

	log.Printf("ssthresh=%d undo=%d", strategy.SlowStartThreshold(c), strategy.UndoCwnd(c))
}
