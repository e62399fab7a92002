package workload

import (
	"time"

	"github.com/goose-lang/primitive"
	"github.com/pingcap/errors"
	"go.uber.org/atomic"
	"golang.org/x/exp/rand"

	"github.com/mit-pdos/ycsbgen/options"
)

// LoadGenerator issues the inserts that populate the key space: ordinals 0
// to RecordCount - 1, in order.
type LoadGenerator struct {
	// Private copy of the options.
	opts  options.Options
	// Number of inserted keys. Handed over to the run phase.
	nkeys *atomic.Uint64
}

func NewLoadGenerator(opts *options.Options) (*LoadGenerator, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	g := &LoadGenerator{
		opts:  *opts,
		nkeys: atomic.NewUint64(0),
	}
	return g, nil
}

func (g *LoadGenerator) IsEOF() bool {
	return g.nkeys.Load() >= g.opts.RecordCount
}

// TryNext returns the next insert, or false once all records are claimed.
// The load phase draws no randomness; @r is accepted for symmetry with the
// run phase.
func (g *LoadGenerator) TryNext(r *rand.Rand) (Operation, bool) {
	for {
		n := g.nkeys.Load()
		if n >= g.opts.RecordCount {
			return Operation{}, false
		}
		if g.nkeys.CAS(n, n+1) {
			return mkOp(OP_INSERT, n, g.opts.ValueLen), true
		}
	}
}

// Next is @TryNext for callers that checked @IsEOF; calling it past the end
// of the load phase panics.
func (g *LoadGenerator) Next(r *rand.Rand) Operation {
	op, ok := g.TryNext(r)
	if !ok {
		panic("workload: Next called after the load phase ended")
	}
	return op
}

// IntoRunGenerator waits for the configured load sleep and starts the run
// phase over the keys inserted so far.
func (g *LoadGenerator) IntoRunGenerator() (*RunGenerator, error) {
	if !g.IsEOF() {
		return nil, errors.Errorf("load phase still running (%d of %d records)",
			g.nkeys.Load(), g.opts.RecordCount)
	}
	sleep(g.opts.LoadSleep)
	return newRunGenerator(&g.opts, g.nkeys)
}

func sleep(d time.Duration) {
	if d > 0 {
		primitive.Sleep(uint64(d.Nanoseconds()))
	}
}
