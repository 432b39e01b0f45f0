package protocol

import "time"

// DefaultInitialRTT seeds both the latest and the minimum RTT of a fresh
// connection. It is a deliberately conservative upper bound so early window
// decisions are not driven by an artificially low minimum.
const DefaultInitialRTT = time.Second

// DefaultWindowSize is the congestion window the static-window policy pins
// every connection to.
const DefaultWindowSize uint32 = 65000

// StateSlotSize is the host's fixed-size per-connection private storage for
// strategy state, in bytes. Strategies whose state does not fit must be
// rejected at registration time.
const StateSlotSize uintptr = 64
