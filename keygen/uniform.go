package keygen

import "golang.org/x/exp/rand"

type uniform struct {
	lo   uint64
	size uint64
}

func newUniform(lo, hi uint64) (*uniform, error) {
	if err := checkRange(lo, hi); err != nil {
		return nil, err
	}
	return &uniform{lo: lo, size: hi - lo}, nil
}

func (u *uniform) next(r *rand.Rand) uint64 {
	return u.lo + r.Uint64n(u.size)
}
