package keygen

import (
	"golang.org/x/exp/rand"

	"github.com/mit-pdos/ycsbgen/hasher"
	"github.com/mit-pdos/ycsbgen/zipf"
)

// Zipfian over [lo, hi) with ranks hashed, so that popular keys are spread
// over the range instead of clustering at @lo.
type scrambledZipfian struct {
	lo   uint64
	size uint64
	zipf *zipf.Zipf
}

func newScrambledZipfian(lo, hi uint64, theta float64) (*scrambledZipfian, error) {
	if err := checkRange(lo, hi); err != nil {
		return nil, err
	}
	z, err := zipf.New(hi-lo, theta)
	if err != nil {
		return nil, err
	}
	return &scrambledZipfian{lo: lo, size: hi - lo, zipf: z}, nil
}

func (s *scrambledZipfian) next(r *rand.Rand) uint64 {
	rank := s.zipf.Draw(r)
	return s.lo + hasher.Hash(rank)%s.size
}
