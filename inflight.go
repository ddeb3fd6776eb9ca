package photomap

import "sync/atomic"

type inflightState int32

const (
	idle inflightState = iota
	inFlight
)

// inflight admits at most one outstanding fetch of a resource. It is taken
// with a non-blocking compare-and-swap; a caller that loses is dropped, not
// queued.
type inflight struct {
	state atomic.Int32
}

func (g *inflight) tryAcquire() bool {
	return g.state.CompareAndSwap(int32(idle), int32(inFlight))
}

func (g *inflight) release() {
	g.state.Store(int32(idle))
}

func (g *inflight) busy() bool {
	return inflightState(g.state.Load()) == inFlight
}
