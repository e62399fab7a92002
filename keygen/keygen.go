// Package keygen maps random draws to key ordinals. Each strategy returns an
// ordinal in a half-open range [lo, hi).
package keygen

import (
	"math"

	"github.com/pingcap/errors"
	"go.uber.org/atomic"
	"golang.org/x/exp/rand"

	"github.com/mit-pdos/ycsbgen/options"
)

type Kind int

const (
	KIND_SCRAMBLED_ZIPFIAN Kind = iota
	KIND_UNIFORM
	KIND_HOTSPOT
	KIND_HOTSPOT_SHIFTING
	KIND_LATEST
)

func (k Kind) String() string {
	switch k {
	case KIND_SCRAMBLED_ZIPFIAN:
		return options.DIST_ZIPFIAN
	case KIND_UNIFORM:
		return options.DIST_UNIFORM
	case KIND_HOTSPOT:
		return options.DIST_HOTSPOT
	case KIND_HOTSPOT_SHIFTING:
		return options.DIST_HOTSPOT_SHIFTING
	case KIND_LATEST:
		return options.DIST_LATEST
	}
	return "unknown"
}

// KeyGen is one of the five strategies, selected at construction. @next is
// bound to the selected strategy's draw, so calls need no further dispatch.
type KeyGen struct {
	kind Kind
	next func(r *rand.Rand) uint64
}

func (g *KeyGen) Kind() Kind {
	return g.kind
}

// Next returns the next key ordinal.
func (g *KeyGen) Next(r *rand.Rand) uint64 {
	return g.next(r)
}

func NewScrambledZipfian(lo, hi uint64, theta float64) (*KeyGen, error) {
	s, err := newScrambledZipfian(lo, hi, theta)
	if err != nil {
		return nil, err
	}
	return &KeyGen{kind: KIND_SCRAMBLED_ZIPFIAN, next: s.next}, nil
}

func NewUniform(lo, hi uint64) (*KeyGen, error) {
	u, err := newUniform(lo, hi)
	if err != nil {
		return nil, err
	}
	return &KeyGen{kind: KIND_UNIFORM, next: u.next}, nil
}

func NewHotspot(lo, hi uint64, conf HotspotConfig) (*KeyGen, error) {
	h, err := newHotspot(lo, hi, conf)
	if err != nil {
		return nil, err
	}
	return &KeyGen{kind: KIND_HOTSPOT, next: h.next}, nil
}

func NewHotspotShifting(lo, hi uint64, phase1, phase2 HotspotConfig, phase1ops uint64) (*KeyGen, error) {
	h, err := newHotspotShifting(lo, hi, phase1, phase2, phase1ops)
	if err != nil {
		return nil, err
	}
	return &KeyGen{kind: KIND_HOTSPOT_SHIFTING, next: h.next}, nil
}

// NewLatest favors the most recently inserted keys; @nkeys is the shared
// counter of inserted keys.
func NewLatest(nkeys *atomic.Uint64, theta float64) (*KeyGen, error) {
	l, err := newLatest(nkeys, theta)
	if err != nil {
		return nil, err
	}
	return &KeyGen{kind: KIND_LATEST, next: l.next}, nil
}

// FromOptions builds the key generator named by @opts.RequestDistribution.
// @estimate is the expected final size of the key space.
func FromOptions(opts *options.Options, nkeys *atomic.Uint64, estimate uint64) (*KeyGen, error) {
	switch opts.RequestDistribution {
	case options.DIST_ZIPFIAN:
		return NewScrambledZipfian(0, estimate, opts.ZipfianConstant)
	case options.DIST_UNIFORM:
		return NewUniform(0, estimate)
	case options.DIST_HOTSPOT:
		// Hot keys are taken from the loaded records only.
		conf := HotspotConfig{
			SetFraction: opts.HotspotSetFraction,
			OpnFraction: opts.HotspotOpnFraction,
		}
		return NewHotspot(0, opts.RecordCount, conf)
	case options.DIST_LATEST:
		return NewLatest(nkeys, opts.ZipfianConstant)
	case options.DIST_HOTSPOT_SHIFTING:
		phase1 := HotspotConfig{
			Offset:      0,
			SetFraction: opts.HotspotSetFraction,
			OpnFraction: opts.HotspotOpnFraction,
		}
		// Phase 2 moves the hot region just past the phase-1 one.
		phase2 := phase1
		phase2.Offset = uint64(math.Floor(float64(estimate)*opts.HotspotSetFraction)) + 1
		return NewHotspotShifting(0, estimate, phase1, phase2, opts.Phase1OperationCount)
	}
	return nil, errors.Errorf("unknown request distribution %q", opts.RequestDistribution)
}

func checkRange(lo, hi uint64) error {
	if hi <= lo {
		return errors.Errorf("empty key range [%d, %d)", lo, hi)
	}
	return nil
}
