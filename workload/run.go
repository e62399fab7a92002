package workload

import (
	"github.com/pingcap/errors"
	"go.uber.org/atomic"
	"golang.org/x/exp/rand"

	"github.com/mit-pdos/ycsbgen/keygen"
	"github.com/mit-pdos/ycsbgen/options"
)

// RunGenerator issues the mixed operations of the run phase.
type RunGenerator struct {
	// Private copy of the options.
	opts     options.Options
	// Number of inserted keys; only keys below it may be read or updated.
	nkeys    *atomic.Uint64
	// Number of operations issued so far.
	nops     *atomic.Uint64
	// Number of operations in the run phase.
	nrun     uint64
	// Estimated final size of the key space.
	estimate uint64
	mix      mixer
	keygen   *keygen.KeyGen
}

// NewRunGenerator starts a run phase directly, assuming @nkeys keys have
// already been loaded.
func NewRunGenerator(opts *options.Options, nkeys uint64) (*RunGenerator, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if nkeys == 0 && opts.InsertProportion < 1 {
		return nil, errors.New("run phase over an empty key space needs insertproportion = 1")
	}
	return newRunGenerator(opts, atomic.NewUint64(nkeys))
}

func newRunGenerator(opts *options.Options, nkeys *atomic.Uint64) (*RunGenerator, error) {
	nrun, err := opts.RunOperations()
	if err != nil {
		return nil, err
	}
	estimate, err := opts.EstimatedKeys()
	if err != nil {
		return nil, err
	}
	kg, err := keygen.FromOptions(opts, nkeys, estimate)
	if err != nil {
		return nil, errors.Annotate(err, "key generator")
	}

	g := &RunGenerator{
		opts:     *opts,
		nkeys:    nkeys,
		nops:     atomic.NewUint64(0),
		nrun:     nrun,
		estimate: estimate,
		mix:      newMixer(opts),
		keygen:   kg,
	}
	return g, nil
}

func (g *RunGenerator) IsEOF() bool {
	return g.nops.Load() >= g.nrun
}

func (g *RunGenerator) InsertedKeys() uint64 {
	return g.nkeys.Load()
}

func (g *RunGenerator) IssuedOps() uint64 {
	return g.nops.Load()
}

func (g *RunGenerator) EstimatedKeys() uint64 {
	return g.estimate
}

func (g *RunGenerator) KeyGen() *keygen.KeyGen {
	return g.keygen
}

// claim reserves one operation slot without overshooting @nrun.
func (g *RunGenerator) claim() bool {
	for {
		n := g.nops.Load()
		if n >= g.nrun {
			return false
		}
		if g.nops.CAS(n, n+1) {
			return true
		}
	}
}

// TryNext returns the next operation, or false once the run phase is over.
func (g *RunGenerator) TryNext(r *rand.Rand) (Operation, bool) {
	if !g.claim() {
		return Operation{}, false
	}

	kind := g.mix.pick(r.Float64())
	if kind == OP_INSERT {
		ordinal := g.nkeys.Inc() - 1
		return mkOp(OP_INSERT, ordinal, g.opts.ValueLen), true
	}
	return mkOp(kind, g.chooseKey(r), g.opts.ValueLen), true
}

// Next is @TryNext for callers that checked @IsEOF; calling it past the end
// of the run phase panics.
func (g *RunGenerator) Next(r *rand.Rand) Operation {
	op, ok := g.TryNext(r)
	if !ok {
		panic("workload: Next called after the run phase ended")
	}
	return op
}

// chooseKey draws until the ordinal names an inserted key. The key generator
// ranges over the estimated final key space, which may exceed the inserted
// keys; under the uniform distribution the expected number of draws is
// @estimate / @nkeys.
func (g *RunGenerator) chooseKey(r *rand.Rand) uint64 {
	for {
		k := g.keygen.Next(r)
		if k < g.nkeys.Load() {
			return k
		}
	}
}
