package workload

import (
	"golang.org/x/exp/rand"
)

// NewRand returns the random source of worker @worker. Streams are
// reproducible per (seed, worker) pair and independent across workers.
func NewRand(seed uint64, worker int) *rand.Rand {
	return rand.New(rand.NewSource(seed + uint64(worker)))
}
