package keygen

import (
	"sync"

	"go.uber.org/atomic"
	"golang.org/x/exp/rand"

	"github.com/mit-pdos/ycsbgen/params"
	"github.com/mit-pdos/ycsbgen/zipf"
)

// Zipfian skewed toward the newest key: rank 0 maps to ordinal @nkeys - 1.
type latest struct {
	// Shared counter of inserted keys; not owned.
	nkeys *atomic.Uint64
	// Mutex protecting @zipf, which is resized as @nkeys grows.
	mu    *sync.Mutex
	zipf  *zipf.Zipf
}

func newLatest(nkeys *atomic.Uint64, theta float64) (*latest, error) {
	z, err := zipf.New(params.LATEST_INITIAL_ITEMS, theta)
	if err != nil {
		return nil, err
	}
	l := &latest{
		nkeys: nkeys,
		mu:    new(sync.Mutex),
		zipf:  z,
	}
	return l, nil
}

func (l *latest) next(r *rand.Rand) uint64 {
	l.mu.Lock()

	n := l.nkeys.Load()
	if n != 0 && n != l.zipf.N() {
		l.zipf.Resize(n)
	}
	n = l.zipf.N()
	rank := l.zipf.Draw(r)

	l.mu.Unlock()
	return n - 1 - rank
}
