package keygen

import (
	"go.uber.org/atomic"
	"golang.org/x/exp/rand"
)

// Two hotspot generators over the same range. The first @phase1ops calls are
// served by @phase1, every later call by @phase2.
type hotspotShifting struct {
	phase1    *hotspot
	phase2    *hotspot
	phase1ops uint64
	ncalls    *atomic.Uint64
}

func newHotspotShifting(lo, hi uint64, conf1, conf2 HotspotConfig, phase1ops uint64) (*hotspotShifting, error) {
	phase1, err := newHotspot(lo, hi, conf1)
	if err != nil {
		return nil, err
	}
	phase2, err := newHotspot(lo, hi, conf2)
	if err != nil {
		return nil, err
	}
	h := &hotspotShifting{
		phase1:    phase1,
		phase2:    phase2,
		phase1ops: phase1ops,
		ncalls:    atomic.NewUint64(0),
	}
	return h, nil
}

// inPhase1 claims the next call index and reports whether it belongs to
// phase 1. Claiming and comparing use the same value, so each index is
// routed exactly once.
func (h *hotspotShifting) inPhase1() bool {
	return h.ncalls.Inc() <= h.phase1ops
}

func (h *hotspotShifting) next(r *rand.Rand) uint64 {
	if h.inPhase1() {
		return h.phase1.next(r)
	}
	return h.phase2.next(r)
}
