package hasher

import (
	"strconv"

	"github.com/mit-pdos/ycsbgen/params"
)

// Hash mixes a 64-bit ordinal into a scrambled 64-bit value. It is the
// splitmix64 finalizer and is a bijection on uint64.
func Hash(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// KeyName returns the externally visible name of key @ordinal.
func KeyName(ordinal uint64) string {
	buf := make([]byte, 0, len(params.KEY_PREFIX)+20)
	buf = append(buf, params.KEY_PREFIX...)
	buf = strconv.AppendUint(buf, Hash(ordinal), 10)
	return string(buf)
}
