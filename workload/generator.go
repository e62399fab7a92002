package workload

import (
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"github.com/mit-pdos/ycsbgen/options"
)

type Phase int

const (
	PHASE_LOAD Phase = iota
	PHASE_RUN
	PHASE_DONE
)

func (p Phase) String() string {
	switch p {
	case PHASE_LOAD:
		return "load"
	case PHASE_RUN:
		return "run"
	case PHASE_DONE:
		return "done"
	}
	return "unknown"
}

// Generator runs the load phase and then the run phase over one key space.
// It is safe for concurrent use as long as each caller brings its own random
// source.
type Generator struct {
	load  *LoadGenerator
	run   *RunGenerator
	// Guards the one-time pause between the phases. Callers crossing the
	// boundary block until it is over.
	pause *sync.Once
}

func New(opts *options.Options) (*Generator, error) {
	load, err := NewLoadGenerator(opts)
	if err != nil {
		return nil, err
	}
	run, err := newRunGenerator(&load.opts, load.nkeys)
	if err != nil {
		return nil, err
	}
	g := &Generator{
		load:  load,
		run:   run,
		pause: new(sync.Once),
	}
	return g, nil
}

func (g *Generator) Phase() Phase {
	if !g.load.IsEOF() {
		return PHASE_LOAD
	}
	if !g.run.IsEOF() {
		return PHASE_RUN
	}
	return PHASE_DONE
}

func (g *Generator) IsEOF() bool {
	return g.load.IsEOF() && g.run.IsEOF()
}

func (g *Generator) InsertedKeys() uint64 {
	return g.run.InsertedKeys()
}

// IssuedOps counts run-phase operations only.
func (g *Generator) IssuedOps() uint64 {
	return g.run.IssuedOps()
}

func (g *Generator) EstimatedKeys() uint64 {
	return g.run.EstimatedKeys()
}

// TryNext returns the next operation of the stream, or false at its end.
func (g *Generator) TryNext(r *rand.Rand) (Operation, bool) {
	if op, ok := g.load.TryNext(r); ok {
		return op, true
	}
	g.pause.Do(g.transition)
	return g.run.TryNext(r)
}

// Next is @TryNext for callers that checked @IsEOF; calling it past the end
// of the stream panics.
func (g *Generator) Next(r *rand.Rand) Operation {
	op, ok := g.TryNext(r)
	if !ok {
		panic("workload: Next called after the end of the stream")
	}
	return op
}

func (g *Generator) transition() {
	log.Info().
		Uint64("records", g.load.nkeys.Load()).
		Uint64("estimated_keys", g.run.estimate).
		Dur("sleep", g.load.opts.LoadSleep).
		Msg("load phase complete")
	sleep(g.load.opts.LoadSleep)
}
