package keygen

import (
	"math"

	"github.com/pingcap/errors"
	"golang.org/x/exp/rand"
)

type HotspotConfig struct {
	// Shift applied to every drawn ordinal, wrapping around the range.
	Offset      uint64
	// Fraction of the range that is hot.
	SetFraction float64
	// Fraction of draws that go to the hot set.
	OpnFraction float64
}

// The hot set is the first ⌊SetFraction·(hi-lo)⌋ ordinals of the range before
// the offset is applied; the rest is cold.
type hotspot struct {
	lo          uint64
	size        uint64
	nhot        uint64
	offset      uint64
	opnFraction float64
}

func newHotspot(lo, hi uint64, conf HotspotConfig) (*hotspot, error) {
	if err := checkRange(lo, hi); err != nil {
		return nil, err
	}
	if !(conf.SetFraction >= 0 && conf.SetFraction <= 1) {
		return nil, errors.Errorf("hotspot set fraction %v outside [0, 1]", conf.SetFraction)
	}
	if !(conf.OpnFraction >= 0 && conf.OpnFraction <= 1) {
		return nil, errors.Errorf("hotspot operation fraction %v outside [0, 1]", conf.OpnFraction)
	}

	size := hi - lo
	nhot := uint64(math.Floor(float64(size) * conf.SetFraction))
	if nhot > size {
		nhot = size
	}
	h := &hotspot{
		lo:          lo,
		size:        size,
		nhot:        nhot,
		offset:      conf.Offset % size,
		opnFraction: conf.OpnFraction,
	}
	return h, nil
}

func (h *hotspot) next(r *rand.Rand) uint64 {
	var v uint64
	hot := r.Float64() < h.opnFraction
	if h.nhot == 0 {
		hot = false
	} else if h.nhot == h.size {
		hot = true
	}

	if hot {
		v = r.Uint64n(h.nhot)
	} else {
		v = h.nhot + r.Uint64n(h.size-h.nhot)
	}

	// Wrap around the range. @v < @offset catches uint64 overflow.
	v += h.offset
	if v >= h.size || v < h.offset {
		v -= h.size
	}
	return h.lo + v
}
